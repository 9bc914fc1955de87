// Package fixtures writes small EnergyPlus result databases for tests.
package fixtures

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// The subset of the EnergyPlus SQLite output schema read by this module.
const schema = `
CREATE TABLE EnvironmentPeriods (
	EnvironmentPeriodIndex INTEGER PRIMARY KEY,
	SimulationIndex INTEGER,
	EnvironmentName TEXT,
	EnvironmentType INTEGER);
CREATE TABLE Time (
	TimeIndex INTEGER PRIMARY KEY,
	Year INTEGER, Month INTEGER, Day INTEGER, Hour INTEGER, Minute INTEGER,
	Dst INTEGER, Interval INTEGER, IntervalType INTEGER, SimulationDays INTEGER,
	DayType TEXT, EnvironmentPeriodIndex INTEGER, WarmupFlag INTEGER);
CREATE TABLE ReportDataDictionary (
	ReportDataDictionaryIndex INTEGER PRIMARY KEY,
	IsMeter INTEGER, Type TEXT, IndexGroup TEXT, TimestepType TEXT,
	KeyValue TEXT, Name TEXT, ReportingFrequency TEXT, ScheduleName TEXT, Units TEXT);
CREATE TABLE ReportData (
	ReportDataIndex INTEGER PRIMARY KEY,
	TimeIndex INTEGER, ReportDataDictionaryIndex INTEGER, Value REAL);
CREATE TABLE TabularDataWithStrings (
	TabularDataIndex INTEGER PRIMARY KEY,
	Value TEXT, ReportName TEXT, ReportForString TEXT, TableName TEXT,
	RowName TEXT, ColumnName TEXT, Units TEXT);
CREATE TABLE ZoneSizes (
	ZoneSizesIndex INTEGER PRIMARY KEY,
	ZoneName TEXT, LoadType TEXT, CalcDesLoad REAL, UserDesLoad REAL,
	CalcDesFlow REAL, UserDesFlow REAL, DesDayName TEXT, PeakHrMin TEXT,
	PeakTemp REAL, PeakHumRat REAL, CalcOutsideAirFlow REAL);
CREATE TABLE ComponentSizes (
	ComponentSizesIndex INTEGER PRIMARY KEY,
	CompType TEXT, CompName TEXT, Description TEXT, Value REAL, Units TEXT);
`

// Builder fills a result database row by row.
type Builder struct {
	t    testing.TB
	db   *sql.DB
	Path string
}

// NewResultFile creates eplusout.sql in a temporary directory.
func NewResultFile(t testing.TB) *Builder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eplusout.sql")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("create fixture schema: %v", err)
		}
	}
	return &Builder{t: t, db: db, Path: path}
}

func (b *Builder) exec(query string, args ...interface{}) *Builder {
	b.t.Helper()
	if _, err := b.db.Exec(query, args...); err != nil {
		b.t.Fatalf("fixture insert: %v", err)
	}
	return b
}

// nullable stores 0 as NULL.
func nullable(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func (b *Builder) AddEnvironment(index int, name string, envType int) *Builder {
	return b.exec(`INSERT INTO EnvironmentPeriods VALUES (?, 1, ?, ?)`, index, name, envType)
}

// AddTime inserts a Time row. A zero year, month or day is stored as NULL.
func (b *Builder) AddTime(index, year, month, day, hour, minute, interval, intervalType, envIndex int) *Builder {
	return b.exec(`INSERT INTO Time (TimeIndex, Year, Month, Day, Hour, Minute, Dst, Interval,
		IntervalType, SimulationDays, DayType, EnvironmentPeriodIndex, WarmupFlag)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, 1, 'Monday', ?, 0)`,
		index, nullable(year), nullable(month), nullable(day), hour, minute, interval, intervalType, envIndex)
}

func (b *Builder) AddChannel(index int, indexGroup, keyValue, name, units, frequency string) *Builder {
	return b.exec(`INSERT INTO ReportDataDictionary VALUES (?, 0, 'Sum', ?, 'Zone', ?, ?, ?, '', ?)`,
		index, indexGroup, keyValue, name, frequency, units)
}

func (b *Builder) AddValue(dictIndex, timeIndex int, value float64) *Builder {
	return b.exec(`INSERT INTO ReportData (TimeIndex, ReportDataDictionaryIndex, Value) VALUES (?, ?, ?)`,
		timeIndex, dictIndex, value)
}

func (b *Builder) AddTabular(table, row, column, units, value string) *Builder {
	return b.exec(`INSERT INTO TabularDataWithStrings (Value, ReportName, ReportForString, TableName,
		RowName, ColumnName, Units) VALUES (?, 'AnnualBuildingUtilityPerformanceSummary', 'Entire Facility', ?, ?, ?, ?)`,
		value, table, row, column, units)
}

func (b *Builder) AddZoneSize(zone, loadType string, calcLoad, userLoad, calcFlow, userFlow float64, desDay, peak string) *Builder {
	return b.exec(`INSERT INTO ZoneSizes (ZoneName, LoadType, CalcDesLoad, UserDesLoad, CalcDesFlow,
		UserDesFlow, DesDayName, PeakHrMin, PeakTemp, PeakHumRat, CalcOutsideAirFlow)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 24.5, 0.008, 0.05)`,
		zone, loadType, calcLoad, userLoad, calcFlow, userFlow, desDay, peak)
}

func (b *Builder) AddComponentSize(compType, name, description string, value float64, units string) *Builder {
	return b.exec(`INSERT INTO ComponentSizes (CompType, CompName, Description, Value, Units) VALUES (?, ?, ?, ?, ?)`,
		compType, name, description, value, units)
}

// Build closes the writer and returns the database path.
func (b *Builder) Build() string {
	b.t.Helper()
	if err := b.db.Close(); err != nil {
		b.t.Fatalf("close fixture: %v", err)
	}
	return b.Path
}

// DailyJanuary writes the scenario of one daily channel over January 2017:
// 31 values 1..31 reported for ROOM_1.
func DailyJanuary(t testing.TB) string {
	b := NewResultFile(t).
		AddEnvironment(1, "RUN PERIOD 1", 3).
		AddChannel(7, "Zone", "ROOM_1", "Zone Lights Total Heating Energy", "J", "Daily")
	for day := 1; day <= 31; day++ {
		b.AddTime(day, 2017, 1, day, 24, 0, 1440, 2, 1)
		b.AddValue(7, day, float64(day)*3600000)
	}
	return b.Build()
}

// HourlyDay writes channels (dictionary index, key value) of one output over
// 1 January of year, hourly, with value = 100*channel position + hour.
func HourlyDay(t testing.TB, year int, name, units, indexGroup string, keys ...string) string {
	b := NewResultFile(t).AddEnvironment(1, "RUN PERIOD 1", 3)
	for i, k := range keys {
		b.AddChannel(i+1, indexGroup, k, name, units, "Hourly")
	}
	for hour := 1; hour <= 24; hour++ {
		b.AddTime(hour, year, 1, 1, hour, 0, 60, 1, 1)
		for i := range keys {
			b.AddValue(i+1, hour, float64(100*(i+1)+hour))
		}
	}
	return b.Build()
}

// MixedFrequencyDay writes the hourly temperature of ROOM_1 over 1 January 2017
// next to a run period row carrying the annual lights energy. The run period
// row has no month or day and follows the hourly rows.
func MixedFrequencyDay(t testing.TB) string {
	b := NewResultFile(t).
		AddEnvironment(1, "RUN PERIOD 1", 3).
		AddChannel(1, "Zone", "ROOM_1", "Zone Mean Air Temperature", "C", "Hourly").
		AddChannel(2, "Zone", "ROOM_1", "Zone Lights Total Heating Energy", "J", "Run Period")
	for hour := 1; hour <= 24; hour++ {
		b.AddTime(hour, 2017, 1, 1, hour, 0, 60, 1, 1)
		b.AddValue(1, hour, float64(100+hour))
	}
	b.AddTime(25, 2017, 0, 0, 24, 0, 525600, 4, 1)
	b.AddValue(2, 25, 3600000)
	return b.Build()
}
