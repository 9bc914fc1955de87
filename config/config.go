package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tkanos/gonfig"
)

type Configuration struct {
	DEBUG_LOGGING    bool
	LOG_FILE         string
	MAX_LOGFILE_SIZE int64
	WORKERS          int
	OUTPUT_FOLDER    string
	SHOW_PROGRESS    bool
	IP_UNITS         bool
}

// GetConfig reads ./<env>_result_config.json. A missing file is not an error, the
// defaults (and any environment variable overrides) are used instead.
func GetConfig(params ...string) Configuration {
	configuration := Configuration{}
	env := ""
	if len(params) > 0 {
		env = params[0]
	}
	fileName := GetConfigFileName(env)

	if _, err := os.Stat(fileName); err == nil {
		if err := gonfig.GetConf(fileName, &configuration); err != nil {
			log.Warn("Could not read config file ", fileName, ": ", err)
		}
	} else {
		log.Debug("No config file found at ", fileName, ", using defaults")
	}
	configuration.applyDefaults()

	log.Info("Using configurations in config file with prefix: ", env)

	return configuration
}

func (c *Configuration) applyDefaults() {
	if c.LOG_FILE == "" {
		c.LOG_FILE = GetLogFileName()
	}
	if c.MAX_LOGFILE_SIZE <= 0 {
		c.MAX_LOGFILE_SIZE = GetDefaultMaxLogfileSize()
	}
	if c.WORKERS <= 0 {
		c.WORKERS = 1
	}
}

//GetConfigFileName returns the name of the config file for the given environment
func GetConfigFileName(env string) string {
	return fmt.Sprintf("./%s_result_config.json", env)
}

//GetResultFileExtensions returns the extensions accepted for result databases
func GetResultFileExtensions() []string {
	return []string{".sql", ".db", ".sqlite"}
}

//GetSQLiteHeader returns the magic string every SQLite file starts with
func GetSQLiteHeader() string {
	return "SQLite format 3\x00"
}

//GetDriverName returns the database/sql driver used for result files
func GetDriverName() string {
	return "sqlite"
}

//GetJoulesPerKWh returns the divisor used to convert J to kWh
func GetJoulesPerKWh() float64 {
	return 3600000.0
}

//GetIntervalCodes returns the EnergyPlus interval type names indexed by code
func GetIntervalCodes() []string {
	return []string{"Timestep", "Hourly", "Daily", "Monthly", "Annual"}
}

//GetLocationTableName returns the tabular report table holding the site location
func GetLocationTableName() string {
	return "General"
}

//GetSimulationControlTableName returns the tabular report table holding the simulation control flags
func GetSimulationControlTableName() string {
	return "Simulation Control"
}

//GetDefaultYear returns the year used when a time record has no year
func GetDefaultYear() int {
	return 2017
}

//GetLeapYear returns the year used for date math in leap-year run periods
func GetLeapYear() int {
	return 2016
}

//GetCSVDelimiter returns the delimiter used in exported CSV files
func GetCSVDelimiter() rune {
	return ','
}

//GetRoomCSVName returns the base name of the queryable room CSV
func GetRoomCSVName() string {
	return "eplusout_room"
}

//GetFaceCSVName returns the base name of the queryable face CSV
func GetFaceCSVName() string {
	return "eplusout_face"
}

//GetLogFileName return the name of the log file
func GetLogFileName() string {
	return "./out/eplus-sqlresult.log"
}

//GetLogFileNameWithoutExtension is used when archiving log files
func GetLogFileNameWithoutExtension(fileName string) string {
	ext := GetLogFileExtension()
	if len(fileName) > len(ext)+1 && fileName[len(fileName)-len(ext)-1:] == "."+ext {
		return fileName[:len(fileName)-len(ext)-1]
	}
	return fileName
}

//GetLogFileExtension returns the extension of the log file
func GetLogFileExtension() string {
	return "log"
}

//GetFileDateLayout returns the date layout used in archived file names
func GetFileDateLayout() string {
	return "20060102150405"
}

//GetDefaultMaxLogfileSize returns the log file size in MB that triggers archiving
func GetDefaultMaxLogfileSize() int64 {
	return 10
}

//GetDefaultEnvironment returns the default environment prefix of the config file
func GetDefaultEnvironment() string {
	return "PROD"
}

//GetIdealAirSuffix returns the suffix appended to a zone name for its ideal loads air system
func GetIdealAirSuffix() string {
	return " IDEAL LOADS AIR SYSTEM"
}

//GetCoolingLoadType returns the ZoneSizes load type of cooling design loads
func GetCoolingLoadType() string {
	return "Cooling"
}

//GetHeatingLoadType returns the ZoneSizes load type of heating design loads
func GetHeatingLoadType() string {
	return "Heating"
}

//GetTmpExtension returns the extension of export files that are being written
func GetTmpExtension() string {
	return ".tmp"
}

//GetCSVExtension returns the extension of the CSV exports
func GetCSVExtension() string {
	return ".csv"
}

//GetXLSXSheetName returns the name of the sheet holding the series in the XLSX export
func GetXLSXSheetName() string {
	return "Results"
}

//GetSquareFeetPerSquareMeter returns the factor converting model areas to IP units
func GetSquareFeetPerSquareMeter() float64 {
	return 10.763910417
}
