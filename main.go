package main

import (
	"fmt"
	"os"
	"time"

	"eplus-sqlresult/config"
	"eplus-sqlresult/logger"
	"eplus-sqlresult/processor"
	"eplus-sqlresult/utils"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
	version   string // custom version number of the program

	flgVersion  bool
	environment string
)

func main() {

	parseCmdLineFlags()

	//Store the current time before running the program in order to track execution time
	timer := time.Now()

	//Get the configurations for the given environment
	configurations := config.GetConfig(environment)

	// Create the log file if it doesn't exist. Append to it if it already exists.
	logFileLogger, err := logger.NewLogger(configurations.LOG_FILE, configurations.MAX_LOGFILE_SIZE)
	if err != nil {
		log.Warn("Logging to stderr only: ", err)
	}
	defer logFileLogger.Close()

	if configurations.DEBUG_LOGGING {
		log.SetLevel(log.DebugLevel)
	}

	logFileLogger.Debug("Using configurations from config files with prefix: " + environment)
	logFileLogger.Debug("version = " + version)
	logFileLogger.Debug("buildTime = " + buildTime)
	logFileLogger.Debug("sha1Version = " + sha1ver)

	args := pflag.Args()
	if len(args) == 0 {
		processor.Usage(os.Stderr)
		logFileLogger.Close()
		os.Exit(2)
	}

	err = processor.RunCommand(configurations, args[0], args[1:], os.Stdout)
	if err != nil {
		logFileLogger.Error(err)
		logFileLogger.Close()
		os.Exit(1)
	}

	utils.PrintMemUsage()
	//Print the time it took to run the program
	logFileLogger.Debug("Execution time: " + time.Since(timer).String())
}

// parseCmdLineFlags reads the global flags. Parsing stops at the command name
// so that the flags after it belong to the command.
func parseCmdLineFlags() {
	pflag.BoolVar(&flgVersion, "version", false, "if true, print version and exit")
	pflag.StringVar(&environment, "env", config.GetDefaultEnvironment(), "prefix of the configuration file")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Global flags:\n")
		pflag.PrintDefaults()
		processor.Usage(os.Stderr)
	}
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()
	if flgVersion {
		fmt.Printf("Version %s - build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}
}
