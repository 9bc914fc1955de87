package models

import (
	"encoding/json"
	"strconv"

	"eplus-sqlresult/config"
)

//OutputChannel is one row of the ReportDataDictionary table
type OutputChannel struct {
	Index              int    `json:"index"`
	ObjectType         string `json:"object_type"`
	ObjectName         string `json:"object_name"`
	OutputName         string `json:"output_name"`
	Units              string `json:"units"`
	ReportingFrequency string `json:"reporting_frequency,omitempty"`
}

//ValueRow is one row of the ReportData table
type ValueRow struct {
	Value     float64
	TimeIndex int
}

//TimeRecord is one row of the Time table. Zero values stand for NULL columns.
type TimeRecord struct {
	Index                  int
	Year                   int
	Month                  int
	Day                    int
	Hour                   int
	Minute                 int
	Interval               int
	IntervalType           int
	EnvironmentPeriodIndex int
}

//EnvironmentPeriod is one row of the EnvironmentPeriods table
type EnvironmentPeriod struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  int    `json:"type"`
}

//TabularCell is one row of the TabularDataWithStrings view
type TabularCell struct {
	RowName    string
	ColumnName string
	Units      string
	Value      string
}

//OutputInfo describes an output available in a result file
type OutputInfo struct {
	OutputName string   `json:"output_name"`
	ObjectType string   `json:"object_type"`
	Units      string   `json:"units"`
	DataType   DataType `json:"-"`
}

// FrequencyKind is the reporting interval of a series.
type FrequencyKind int

const (
	FrequencyTimestep FrequencyKind = iota
	FrequencyHourly
	FrequencyDaily
	FrequencyMonthly
	FrequencyAnnual
)

func (k FrequencyKind) String() string {
	codes := config.GetIntervalCodes()
	if int(k) < 0 || int(k) >= len(codes) {
		return "Unknown"
	}
	return codes[k]
}

// ReportingFrequency carries the steps per hour for sub-hourly data.
type ReportingFrequency struct {
	Kind         FrequencyKind
	StepsPerHour int
}

// FrequencyFromSteps returns Hourly for one step per hour and Timestep otherwise.
func FrequencyFromSteps(steps int) ReportingFrequency {
	if steps == 1 {
		return ReportingFrequency{Kind: FrequencyHourly, StepsPerHour: 1}
	}
	return ReportingFrequency{Kind: FrequencyTimestep, StepsPerHour: steps}
}

// IsContinuous reports whether the series is stored per hour or per timestep.
func (f ReportingFrequency) IsContinuous() bool {
	return f.Kind == FrequencyTimestep || f.Kind == FrequencyHourly
}

func (f ReportingFrequency) String() string {
	if f.Kind == FrequencyTimestep {
		return strconv.Itoa(f.StepsPerHour)
	}
	return f.Kind.String()
}

// MarshalJSON writes sub-hourly frequencies as the number of steps per hour
// and the others by name.
func (f ReportingFrequency) MarshalJSON() ([]byte, error) {
	if f.Kind == FrequencyTimestep {
		return json.Marshal(f.StepsPerHour)
	}
	return json.Marshal(f.Kind.String())
}

// AssociationKind names the kind of object a series was reported for.
type AssociationKind int

const (
	AssociationZone AssociationKind = iota
	AssociationSurface
	AssociationSystem
)

func (k AssociationKind) String() string {
	switch k {
	case AssociationZone:
		return "Zone"
	case AssociationSurface:
		return "Surface"
	default:
		return "System"
	}
}

// ParseAssociationKind is the inverse of String.
func ParseAssociationKind(s string) (AssociationKind, bool) {
	switch s {
	case "Zone":
		return AssociationZone, true
	case "Surface":
		return AssociationSurface, true
	case "System":
		return AssociationSystem, true
	}
	return AssociationSystem, false
}

// Association ties a series to the object that produced it.
type Association struct {
	Kind       AssociationKind
	Identifier string
}

//Location is the site parsed from the General summary table
type Location struct {
	City      string  `json:"city"`
	Source    string  `json:"source"`
	StationID string  `json:"station_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeZone  float64 `json:"time_zone"`
	Elevation float64 `json:"elevation"`
}

func (l Location) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type":       "Location",
		"city":       l.City,
		"source":     l.Source,
		"station_id": l.StationID,
		"latitude":   l.Latitude,
		"longitude":  l.Longitude,
		"time_zone":  l.TimeZone,
		"elevation":  l.Elevation,
	}
}

func LocationFromMap(m map[string]interface{}) (Location, error) {
	var l Location
	var err error
	if l.City, err = stringField(m, "city"); err != nil {
		return l, err
	}
	l.Source, _ = stringField(m, "source")
	l.StationID, _ = stringField(m, "station_id")
	if l.Latitude, err = floatField(m, "latitude"); err != nil {
		return l, err
	}
	if l.Longitude, err = floatField(m, "longitude"); err != nil {
		return l, err
	}
	if l.TimeZone, err = floatField(m, "time_zone"); err != nil {
		return l, err
	}
	if l.Elevation, err = floatField(m, "elevation"); err != nil {
		return l, err
	}
	return l, nil
}

//ZoneSize is one row of the ZoneSizes table
type ZoneSize struct {
	ZoneName           string  `json:"zone_name"`
	LoadType           string  `json:"load_type"`
	CalcDesLoad        float64 `json:"calculated_design_load"`
	UserDesLoad        float64 `json:"final_design_load"`
	CalcDesFlow        float64 `json:"calculated_design_flow"`
	UserDesFlow        float64 `json:"final_design_flow"`
	DesignDay          string  `json:"design_day"`
	PeakDateTime       string  `json:"peak_date_time"`
	PeakTemperature    float64 `json:"peak_temperature"`
	PeakHumidityRatio  float64 `json:"peak_humidity_ratio"`
	CalcOutsideAirFlow float64 `json:"calculated_outdoor_air_flow"`
}

//ComponentProperty is one sized property of an HVAC component
type ComponentProperty struct {
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Units       string  `json:"units"`
}

//ComponentSize groups the ComponentSizes rows of one HVAC component
type ComponentSize struct {
	ComponentType string              `json:"component_type"`
	ComponentName string              `json:"component_name"`
	Properties    []ComponentProperty `json:"properties"`
}

//TabularTable is a summary report table keyed by row name
type TabularTable struct {
	Name        string
	RowNames    []string
	ColumnNames []string
	Rows        map[string][]string
}

// Values returns the rows in report order.
func (t TabularTable) Values() [][]string {
	out := make([][]string, 0, len(t.RowNames))
	for _, name := range t.RowNames {
		out = append(out, t.Rows[name])
	}
	return out
}
