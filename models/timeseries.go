package models

import (
	"time"
)

//Header is the metadata shared by every value of a series
type Header struct {
	DataType    DataType
	Units       string
	RunPeriod   RunPeriod
	OutputName  string
	Association Association
}

// Metadata renders the header in the record form used by exports: the
// output name under "type" and the object under Zone, Surface or System.
func (h Header) Metadata() map[string]string {
	return map[string]string{
		"type":                     h.OutputName,
		h.Association.Kind.String(): h.Association.Identifier,
	}
}

func (h Header) ToMap() map[string]interface{} {
	meta := make(map[string]interface{})
	for k, v := range h.Metadata() {
		meta[k] = v
	}
	return map[string]interface{}{
		"type":            "Header",
		"data_type":       h.DataType.ToMap(),
		"unit":            h.Units,
		"analysis_period": h.RunPeriod.ToMap(),
		"metadata":        meta,
	}
}

func HeaderFromMap(m map[string]interface{}) (Header, error) {
	var h Header
	dt, err := mapField(m, "data_type")
	if err != nil {
		return h, err
	}
	name, err := stringField(dt, "name")
	if err != nil {
		return h, err
	}
	if h.DataType, err = DataTypeByName(name); err != nil {
		return h, err
	}
	if h.Units, err = stringField(m, "unit"); err != nil {
		return h, err
	}
	if h.DataType.Name == "GenericType" {
		h.DataType.Units = []string{h.Units}
	}
	ap, err := mapField(m, "analysis_period")
	if err != nil {
		return h, err
	}
	if h.RunPeriod, err = RunPeriodFromMap(ap); err != nil {
		return h, err
	}
	meta, err := mapField(m, "metadata")
	if err != nil {
		return h, err
	}
	if h.OutputName, err = stringField(meta, "type"); err != nil {
		return h, err
	}
	found := false
	for key, v := range meta {
		kind, ok := ParseAssociationKind(key)
		if !ok {
			continue
		}
		id, isString := v.(string)
		if !isString {
			return h, missingField(key)
		}
		h.Association = Association{Kind: kind, Identifier: id}
		found = true
		break
	}
	if !found {
		return h, FormatError("record", "header metadata has no Zone, Surface or System key")
	}
	return h, nil
}

//TimeSeries is a reconstructed output channel
type TimeSeries struct {
	Header    Header
	Frequency ReportingFrequency
	Values    []float64
	// Index holds day-of-year numbers for daily series and month numbers for
	// monthly series. It is empty for continuous series.
	Index []int
}

// NewTimeSeries builds the container matching the frequency and checks the
// number of values against the run period.
func NewTimeSeries(header Header, freq ReportingFrequency, values []float64) (*TimeSeries, error) {
	if freq.Kind == FrequencyAnnual {
		return nil, ReconstructionError("time series", "annual values have no calendar container")
	}
	expected := header.RunPeriod.StepCount(freq)
	if len(values) != expected {
		return nil, ReconstructionError("time series",
			"%s series %q has %d values but its run period holds %d",
			freq, header.Association.Identifier, len(values), expected)
	}
	ts := &TimeSeries{Header: header, Frequency: freq, Values: append([]float64(nil), values...)}
	switch freq.Kind {
	case FrequencyDaily:
		ts.Index = header.RunPeriod.DaysOfYear()
	case FrequencyMonthly:
		ts.Index = header.RunPeriod.Months()
	}
	return ts, nil
}

// Container names the collection type in the record form.
func (ts *TimeSeries) Container() string {
	switch ts.Frequency.Kind {
	case FrequencyDaily:
		return "Daily"
	case FrequencyMonthly:
		return "Monthly"
	default:
		return "HourlyContinuous"
	}
}

func (ts *TimeSeries) Len() int {
	return len(ts.Values)
}

// Datetimes returns the opening time of every value.
func (ts *TimeSeries) Datetimes() []time.Time {
	rp := ts.Header.RunPeriod
	switch ts.Frequency.Kind {
	case FrequencyDaily:
		return rp.Dates()
	case FrequencyMonthly:
		start := rp.StartTime()
		out := make([]time.Time, len(ts.Index))
		year := start.Year()
		for i, m := range ts.Index {
			if i > 0 && m < ts.Index[i-1] {
				year++
			}
			out[i] = time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		}
		return out
	default:
		return rp.Datetimes()
	}
}

// WithValues returns a copy of the series holding values.
func (ts *TimeSeries) WithValues(values []float64) *TimeSeries {
	out := *ts
	out.Values = append([]float64(nil), values...)
	out.Index = append([]int(nil), ts.Index...)
	return &out
}

// WithUnits returns a copy of the series with new values, units and data type.
func (ts *TimeSeries) WithUnits(values []float64, units string, dataType DataType) *TimeSeries {
	out := ts.WithValues(values)
	out.Header.Units = units
	out.Header.DataType = dataType
	return out
}

// ConvertToIP returns a copy of the series in IP units.
func (ts *TimeSeries) ConvertToIP() *TimeSeries {
	values, unit := ConvertToIP(ts.Values, ts.Header.Units)
	return ts.WithUnits(values, unit, ts.Header.DataType)
}

// Total sums the values.
func (ts *TimeSeries) Total() float64 {
	var sum float64
	for _, v := range ts.Values {
		sum += v
	}
	return sum
}

// Aggregate reduces the series to one value: the total of a cumulative data
// type such as energy, the mean of the values otherwise.
func (ts *TimeSeries) Aggregate() float64 {
	if ts.Header.DataType.Cumulative || len(ts.Values) == 0 {
		return ts.Total()
	}
	return ts.Total() / float64(len(ts.Values))
}

// Aligned reports whether both series share run period and frequency.
func (ts *TimeSeries) Aligned(other *TimeSeries) bool {
	return ts.Header.RunPeriod == other.Header.RunPeriod && ts.Frequency == other.Frequency
}

func (ts *TimeSeries) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"type":   ts.Container(),
		"header": ts.Header.ToMap(),
		"values": append([]float64(nil), ts.Values...),
	}
	if len(ts.Index) > 0 {
		m["datetimes"] = append([]int(nil), ts.Index...)
	}
	return m
}

func TimeSeriesFromMap(m map[string]interface{}) (*TimeSeries, error) {
	container, err := stringField(m, "type")
	if err != nil {
		return nil, err
	}
	hm, err := mapField(m, "header")
	if err != nil {
		return nil, err
	}
	header, err := HeaderFromMap(hm)
	if err != nil {
		return nil, err
	}
	values, err := floatSlice(m["values"])
	if err != nil {
		return nil, FormatError("record", "values: %v", err)
	}
	var freq ReportingFrequency
	switch container {
	case "HourlyContinuous":
		freq = FrequencyFromSteps(header.RunPeriod.TimestepPerHour)
	case "Daily":
		freq = ReportingFrequency{Kind: FrequencyDaily, StepsPerHour: 1}
	case "Monthly":
		freq = ReportingFrequency{Kind: FrequencyMonthly, StepsPerHour: 1}
	default:
		return nil, FormatError("record", "unknown collection type %q", container)
	}
	ts, err := NewTimeSeries(header, freq, values)
	if err != nil {
		return nil, err
	}
	if raw, ok := m["datetimes"]; ok {
		index, err := intSlice(raw)
		if err != nil {
			return nil, FormatError("record", "datetimes: %v", err)
		}
		if len(index) != len(ts.Index) {
			return nil, FormatError("record", "datetimes do not match the analysis period")
		}
		ts.Index = index
	}
	return ts, nil
}
