package processor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eplus-sqlresult/fixtures"
	"eplus-sqlresult/models"
)

const lightsOutput = "Zone Lights Total Heating Energy"

func openResult(t *testing.T, path string, opts ...Option) *Result {
	t.Helper()
	r, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}

// twoPeriods writes a design day in July and a run period in January, both
// hourly, for one channel.
func twoPeriods(t *testing.T) string {
	b := fixtures.NewResultFile(t).
		AddEnvironment(1, "SUMMER DESIGN DAY", 1).
		AddEnvironment(2, "RUN PERIOD 1", 3).
		AddChannel(1, "Zone", "ROOM_1", "Zone Mean Air Temperature", "C", "Hourly")
	for hour := 1; hour <= 24; hour++ {
		b.AddTime(hour, 2017, 7, 21, hour, 0, 60, 1, 1)
		b.AddValue(1, hour, 30)
	}
	for hour := 1; hour <= 24; hour++ {
		b.AddTime(24+hour, 2017, 1, 1, hour, 0, 60, 1, 2)
		b.AddValue(1, 24+hour, 20)
	}
	return b.Build()
}

func TestOpenInvalidFiles(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.sql"))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected a not found error, got %v", err)
	}

	text := filepath.Join(t.TempDir(), "eplusout.sql")
	if err := os.WriteFile(text, []byte("not a database"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = Open(text)
	if models.GetKind(err) != models.KindFormat {
		t.Fatalf("expected a format error, got %v", err)
	}
}

func TestDataByOutputNameDaily(t *testing.T) {
	r := openResult(t, fixtures.DailyJanuary(t))

	c, err := r.DataByOutputName(lightsOutput)
	if err != nil {
		t.Fatalf("DataByOutputName: %v", err)
	}
	if len(c.Series) != 1 || c.Frequency.Kind != models.FrequencyDaily {
		t.Fatalf("expected one daily series, got %+v", c)
	}
	ts := c.Series[0]
	if ts.Header.Units != "kWh" || ts.Header.DataType.Name != "Energy" {
		t.Fatalf("expected the values in kWh, got %s (%s)", ts.Header.Units, ts.Header.DataType.Name)
	}
	if ts.Len() != 31 || ts.Values[0] != 1 || ts.Values[30] != 31 {
		t.Fatalf("unexpected values %v", ts.Values)
	}
	if len(ts.Index) != 31 || ts.Index[0] != 1 || ts.Index[30] != 31 {
		t.Fatalf("expected days of year 1..31, got %v", ts.Index)
	}
	if ts.Header.Association.Kind != models.AssociationZone || ts.Header.Association.Identifier != "ROOM_1" {
		t.Fatalf("unexpected association %+v", ts.Header.Association)
	}
}

func TestDataByOutputNameUnknownIsEmpty(t *testing.T) {
	r := openResult(t, fixtures.DailyJanuary(t))
	c, err := r.DataByOutputName("Not An Output")
	if err != nil {
		t.Fatalf("DataByOutputName: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected an empty collection, got %d channels", c.Len())
	}
}

func TestDataByOutputNameSeveralPeriods(t *testing.T) {
	r := openResult(t, twoPeriods(t))

	c, err := r.DataByOutputName("Zone Mean Air Temperature")
	if err != nil {
		t.Fatalf("DataByOutputName: %v", err)
	}
	if len(c.Series) != 2 {
		t.Fatalf("expected one series per run period, got %d", len(c.Series))
	}
	if c.Series[0].Header.RunPeriod.StartMonth != 7 || c.Series[0].Values[0] != 30 {
		t.Fatalf("unexpected design day series %+v", c.Series[0].Header.RunPeriod)
	}
	if c.Series[1].Header.RunPeriod.StartMonth != 1 || c.Series[1].Values[23] != 20 {
		t.Fatalf("unexpected run period series %+v", c.Series[1].Header.RunPeriod)
	}

	index, err := r.RunPeriodIndex("run period 1")
	if err != nil || index != 2 {
		t.Fatalf("expected run period index 2, got %d (%v)", index, err)
	}
	c, err = r.DataByOutputNameRunPeriod(index, "Zone Mean Air Temperature")
	if err != nil || len(c.Series) != 1 || c.Series[0].Len() != 24 {
		t.Fatalf("expected one 24 hour series, got %+v (%v)", c, err)
	}
}

func TestRunPeriodInfo(t *testing.T) {
	b := fixtures.NewResultFile(t).
		AddEnvironment(1, "RUN PERIOD 1", 3).
		AddEnvironment(2, "NO RECORDS", 3).
		AddChannel(1, "Zone", "ROOM_1", "Zone Mean Air Temperature", "C", "Hourly")
	for hour := 1; hour <= 24; hour++ {
		b.AddTime(hour, 2016, 2, 29, hour, 0, 60, 1, 1)
		b.AddValue(1, hour, 20)
	}
	r := openResult(t, b.Build())

	info, err := r.RunPeriodInfo()
	if err != nil {
		t.Fatalf("RunPeriodInfo: %v", err)
	}
	if len(info) != 1 || info[0].Name != "RUN PERIOD 1" || info[0].Index != 1 {
		t.Fatalf("expected only the period with records, got %+v", info)
	}
	if !info[0].RunPeriod.IsLeapYear || info[0].RunPeriod.StartDay != 29 {
		t.Fatalf("unexpected run period %+v", info[0].RunPeriod)
	}

	freq, err := r.ReportingFrequency()
	if err != nil || freq.Kind != models.FrequencyHourly {
		t.Fatalf("expected Hourly, got %v (%v)", freq, err)
	}
	names, err := r.RunPeriodNames()
	if err != nil || len(names) != 1 {
		t.Fatalf("unexpected names %v (%v)", names, err)
	}
	if _, err := r.RunPeriodIndex("WINTER"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected a not found error, got %v", err)
	}
}

func TestRunPeriodInfoMixedFrequencies(t *testing.T) {
	r := openResult(t, fixtures.MixedFrequencyDay(t))

	info, err := r.RunPeriodInfo()
	if err != nil {
		t.Fatalf("RunPeriodInfo: %v", err)
	}
	if len(info) != 1 {
		t.Fatalf("expected one run period, got %+v", info)
	}
	rp := info[0].RunPeriod
	if rp.StartMonth != 1 || rp.StartDay != 1 || rp.EndMonth != 1 || rp.EndDay != 1 {
		t.Fatalf("expected 1 January only, got %+v", rp)
	}
	if info[0].Frequency.Kind != models.FrequencyHourly {
		t.Fatalf("expected Hourly, got %v", info[0].Frequency)
	}
}

func TestAnnualValuesAveragesNonCumulativeOutputs(t *testing.T) {
	r := openResult(t, fixtures.MixedFrequencyDay(t))

	values, err := r.AnnualValuesByOutputName("Zone Mean Air Temperature")
	if err != nil {
		t.Fatalf("AnnualValuesByOutputName: %v", err)
	}
	if len(values) != 1 || len(values[0]) != 1 || values[0][0] != 112.5 {
		t.Fatalf("expected the mean temperature 112.5, got %v", values)
	}
}

func TestDataByOutputNames(t *testing.T) {
	b := fixtures.NewResultFile(t).
		AddEnvironment(1, "RUN PERIOD 1", 3).
		AddChannel(1, "Zone", "ROOM_1", "Zone Mean Air Temperature", "C", "Hourly").
		AddChannel(2, "Zone", "ROOM_1", lightsOutput, "J", "Hourly").
		AddChannel(3, "Zone", "ROOM_1", "Zone People Total Heating Energy", "J", "Hourly")
	for hour := 1; hour <= 24; hour++ {
		b.AddTime(hour, 2017, 1, 1, hour, 0, 60, 1, 1)
		b.AddValue(1, hour, 21)
		b.AddValue(2, hour, 3600000)
		b.AddValue(3, hour, 7200000)
	}
	r := openResult(t, b.Build(), WithWorkers(2))

	groups := ParseOutputNames([]string{"Zone Mean Air Temperature", "[" + lightsOutput + ", Zone People Total Heating Energy]", "Missing"})
	collections, err := r.DataByOutputNames(groups)
	if err != nil {
		t.Fatalf("DataByOutputNames: %v", err)
	}
	if len(collections) != 3 {
		t.Fatalf("expected one collection per group, got %d", len(collections))
	}
	if len(collections[0].Series) != 1 || collections[0].Series[0].Values[0] != 21 {
		t.Fatalf("unexpected first collection %+v", collections[0])
	}
	if len(collections[1].Series) != 2 || collections[1].Series[1].Values[5] != 2 {
		t.Fatalf("unexpected grouped collection %+v", collections[1])
	}
	if collections[2].Len() != 0 {
		t.Fatalf("expected an empty collection for a missing output")
	}

	totals, err := r.AnnualValuesByOutputName(lightsOutput)
	if err != nil || len(totals) != 1 || totals[0][0] != 24 {
		t.Fatalf("expected a total of 24 kWh, got %v (%v)", totals, err)
	}
}

func TestParseOutputNames(t *testing.T) {
	groups := ParseOutputNames([]string{"A B", `["C", "D"]`, "[E]"})
	if len(groups) != 3 || groups[0][0] != "A B" || len(groups[1]) != 2 || groups[1][1] != "D" || groups[2][0] != "E" {
		t.Fatalf("unexpected groups %q", groups)
	}
}

func TestTabularData(t *testing.T) {
	path := fixtures.NewResultFile(t).
		AddTabular("Site and Source Energy", "Total Site Energy", "Total Energy", "GJ", "12.5").
		AddTabular("Site and Source Energy", "Total Site Energy", "Energy Per Total Building Area", "MJ/m2", "120.0").
		AddTabular("Site and Source Energy", "Net Site Energy", "Total Energy", "GJ", "12.5").
		AddTabular("Site and Source Energy", "Net Site Energy", "Energy Per Total Building Area", "MJ/m2", "120.0").
		Build()
	r := openResult(t, path)

	table, err := r.TabularDataByName("Site and Source Energy")
	if err != nil {
		t.Fatalf("TabularDataByName: %v", err)
	}
	if len(table.RowNames) != 2 || table.RowNames[1] != "Net Site Energy" {
		t.Fatalf("unexpected rows %v", table.RowNames)
	}
	if len(table.Rows["Total Site Energy"]) != 2 || table.Rows["Total Site Energy"][1] != "120.0" {
		t.Fatalf("unexpected row values %v", table.Rows)
	}
	columns, err := r.TabularColumnNames("Site and Source Energy")
	if err != nil || len(columns) != 2 || columns[0] != "Total Energy" {
		t.Fatalf("unexpected columns %v (%v)", columns, err)
	}

	empty, err := r.TabularDataByName("Unknown Table")
	if err != nil || len(empty.RowNames) != 0 || len(empty.Values()) != 0 {
		t.Fatalf("expected an empty table, got %+v (%v)", empty, err)
	}
}

func TestLocationAndSizingPeriods(t *testing.T) {
	rows := []struct{ row, value string }{
		{"Program Version and Build", "EnergyPlus, Version 9.5"},
		{"RunPeriod", "RUN PERIOD 1"},
		{"Weather File", "Denver Intl AP CO USA TMY3 WMO#=725650"},
		{"Latitude [deg]", "39.83"},
		{"Longitude [deg]", "-104.65"},
		{"Elevation [m]", "1650.00"},
		{"Time Zone", "-7.00"},
	}
	b := fixtures.NewResultFile(t)
	for _, row := range rows {
		b.AddTabular("General", row.row, "Value", "", row.value)
	}
	b.AddTabular("Simulation Control", "Run Simulation for Sizing Periods", "Value", "", "Yes")
	r := openResult(t, b.Build())

	loc := r.Location()
	if loc == nil {
		t.Fatalf("expected a location")
	}
	if loc.City != "Denver Intl AP CO USA" || loc.Elevation != 1650 || loc.TimeZone != -7 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if r.Location() != loc {
		t.Fatalf("expected the location to be parsed once")
	}

	simulated, err := r.SizingPeriodsSimulated()
	if err != nil || !simulated {
		t.Fatalf("expected sizing periods to be simulated, got %v (%v)", simulated, err)
	}

	bare := openResult(t, fixtures.DailyJanuary(t))
	if bare.Location() != nil {
		t.Fatalf("expected no location without the General table")
	}
	if simulated, _ := bare.SizingPeriodsSimulated(); simulated {
		t.Fatalf("expected no sizing periods without the Simulation Control table")
	}
}

func TestSizes(t *testing.T) {
	path := fixtures.NewResultFile(t).
		AddZoneSize("ROOM_1", "Cooling", 1500, 1650, 0.12, 0.13, "SUMMER DESIGN DAY", "7/21 15:00:00").
		AddZoneSize("ROOM_1", "Heating", 900, 990, 0.05, 0.06, "WINTER DESIGN DAY", "1/21 06:00:00").
		AddComponentSize("ZoneHVAC:IdealLoadsAirSystem", "ROOM_1 IDEAL LOADS AIR SYSTEM", "Maximum Cooling Air Flow Rate [m3/s]", 0.13, "m3/s").
		AddComponentSize("ZoneHVAC:IdealLoadsAirSystem", "ROOM_1 IDEAL LOADS AIR SYSTEM", "Maximum Total Cooling Capacity [W]", 1650, "W").
		AddComponentSize("Fan:ConstantVolume", "FAN 1", "Design Size Maximum Flow Rate [m3/s]", 0.5, "m3/s").
		Build()
	r := openResult(t, path)

	cooling, err := r.ZoneCoolingSizes()
	if err != nil || len(cooling) != 1 || cooling[0].UserDesLoad != 1650 {
		t.Fatalf("unexpected cooling sizes %+v (%v)", cooling, err)
	}
	heating, err := r.ZoneHeatingSizes()
	if err != nil || len(heating) != 1 || heating[0].DesignDay != "WINTER DESIGN DAY" {
		t.Fatalf("unexpected heating sizes %+v (%v)", heating, err)
	}

	all, err := r.ComponentSizes()
	if err != nil || len(all) != 2 || len(all[0].Properties) != 2 {
		t.Fatalf("unexpected component sizes %+v (%v)", all, err)
	}
	fans, err := r.ComponentSizesByType("fan:constantvolume")
	if err != nil || len(fans) != 1 || fans[0].ComponentName != "FAN 1" {
		t.Fatalf("unexpected fan sizes %+v (%v)", fans, err)
	}
}
