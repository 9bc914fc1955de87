package repository

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"eplus-sqlresult/database"
	"eplus-sqlresult/fixtures"
	"eplus-sqlresult/models"
	"eplus-sqlresult/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestQueryChannelsSingleAndMany(t *testing.T) {
	path := fixtures.HourlyDay(t, 2017, "Zone Mean Air Temperature", "C", "Zone", "ROOM_1", "ROOM_2")
	repo := NewRepository(path, nil)

	channels, err := repo.QueryChannels("Zone Mean Air Temperature")
	if err != nil {
		t.Fatalf("QueryChannels: %v", err)
	}
	if len(channels) != 2 || channels[0].ObjectName != "ROOM_1" || channels[1].Index != 2 {
		t.Fatalf("unexpected channels %+v", channels)
	}
	if channels[0].ObjectType != "Zone" || channels[0].Units != "C" {
		t.Fatalf("unexpected channel columns %+v", channels[0])
	}

	channels, err = repo.QueryChannels("Zone Mean Air Temperature", "Zone Air Relative Humidity")
	if err != nil || len(channels) != 2 {
		t.Fatalf("expected 2 channels for a name set, got %d (%v)", len(channels), err)
	}
}

func TestQueryChannelsNoMatchIsEmpty(t *testing.T) {
	path := fixtures.HourlyDay(t, 2017, "Zone Mean Air Temperature", "C", "Zone", "ROOM_1")
	channels, err := NewRepository(path, nil).QueryChannels("Not An Output")
	if err != nil {
		t.Fatalf("QueryChannels: %v", err)
	}
	if len(channels) != 0 {
		t.Fatalf("expected no channels, got %d", len(channels))
	}
}

func TestQueryValuesInterleavedOrder(t *testing.T) {
	path := fixtures.HourlyDay(t, 2017, "Zone Mean Air Temperature", "C", "Zone", "ROOM_1", "ROOM_2")
	repo := NewRepository(path, nil)

	values, err := repo.QueryValues([]int{1, 2})
	if err != nil {
		t.Fatalf("QueryValues: %v", err)
	}
	if len(values) != 48 {
		t.Fatalf("expected 48 rows, got %d", len(values))
	}
	if values[0].Value != 101 || values[1].Value != 201 || values[2].Value != 102 {
		t.Fatalf("rows are not interleaved per timestep: %+v", values[:3])
	}
	if values[0].TimeIndex != 1 || values[47].TimeIndex != 24 {
		t.Fatalf("unexpected time indices %d..%d", values[0].TimeIndex, values[47].TimeIndex)
	}

	empty, err := repo.QueryValues(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for no ids, got %v %v", empty, err)
	}
}

func TestQueryTimeRecordMissing(t *testing.T) {
	path := fixtures.DailyJanuary(t)
	repo := NewRepository(path, nil)

	rec, err := repo.QueryTimeRecord(31)
	if err != nil {
		t.Fatalf("QueryTimeRecord: %v", err)
	}
	if rec.Year != 2017 || rec.Month != 1 || rec.Day != 31 || rec.IntervalType != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}

	_, err = repo.QueryTimeRecord(999)
	if !errors.Is(err, models.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestQueryPeriodBoundsMixedFrequencies(t *testing.T) {
	repo := NewRepository(fixtures.MixedFrequencyDay(t), nil)

	first, last, err := repo.QueryPeriodBounds(1)
	if err != nil {
		t.Fatalf("QueryPeriodBounds: %v", err)
	}
	if first != 1 || last != 24 {
		t.Fatalf("expected the hourly rows 1..24, got %d..%d", first, last)
	}

	_, _, err = repo.QueryPeriodBounds(2)
	if !errors.Is(err, models.ErrDecode) {
		t.Fatalf("expected decode error for a period without records, got %v", err)
	}
}

func TestQueryTabularUnknownTableIsEmpty(t *testing.T) {
	path := fixtures.NewResultFile(t).
		AddTabular("General", "Weather File", "Value", "", "CHICAGO IL USA TMY3 WMO#=725300").
		Build()
	repo := NewRepository(path, nil)

	cells, err := repo.QueryTabular("Nope")
	if err != nil {
		t.Fatalf("QueryTabular: %v", err)
	}
	if len(cells) != 0 {
		t.Fatalf("expected no rows, got %d", len(cells))
	}
	cells, err = repo.QueryTabular("General")
	if err != nil || len(cells) != 1 || cells[0].RowName != "Weather File" {
		t.Fatalf("unexpected General rows %+v %v", cells, err)
	}
}

func TestQueryComponentSizesGroupsProperties(t *testing.T) {
	path := fixtures.NewResultFile(t).
		AddComponentSize("ZoneHVAC:IdealLoadsAirSystem", "ROOM_1 IDEAL LOADS AIR", "Design Size Maximum Heating Air Flow Rate", 0.12, "m3/s").
		AddComponentSize("ZoneHVAC:IdealLoadsAirSystem", "ROOM_1 IDEAL LOADS AIR", "Design Size Maximum Total Cooling Capacity", 3400, "W").
		AddComponentSize("Coil:Heating:Electric", "COIL 1", "Design Size Nominal Capacity", 5000, "W").
		Build()
	repo := NewRepository(path, nil)

	all, err := repo.QueryComponentSizes("")
	if err != nil {
		t.Fatalf("QueryComponentSizes: %v", err)
	}
	if len(all) != 2 || len(all[0].Properties) != 2 {
		t.Fatalf("unexpected grouping %+v", all)
	}
	coils, err := repo.QueryComponentSizes("coil:heating:electric")
	if err != nil || len(coils) != 1 || coils[0].ComponentName != "COIL 1" {
		t.Fatalf("unexpected filtered sizes %+v %v", coils, err)
	}
}

func TestQueryZoneSizesAndPeriods(t *testing.T) {
	path := fixtures.NewResultFile(t).
		AddEnvironment(1, "BOSTON ANN CLG .4% CONDNS DB=>MWB", 1).
		AddEnvironment(2, "RUN PERIOD 1", 3).
		AddZoneSize("ROOM_1", "Cooling", 1200, 1400, 0.1, 0.12, "BOSTON ANN CLG", "7/21 15:00:00").
		AddZoneSize("ROOM_1", "Heating", 900, 1000, 0.08, 0.09, "BOSTON ANN HTG", "1/21 06:00:00").
		Build()
	repo := NewRepository(path, nil)

	cooling, err := repo.QueryZoneSizes("Cooling")
	if err != nil || len(cooling) != 1 || cooling[0].UserDesLoad != 1400 {
		t.Fatalf("unexpected cooling sizes %+v %v", cooling, err)
	}
	periods, err := repo.QueryEnvironmentPeriods()
	if err != nil || len(periods) != 2 || periods[1].Name != "RUN PERIOD 1" {
		t.Fatalf("unexpected periods %+v %v", periods, err)
	}
}

func TestQueryRecordsMetricsAndErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := utils.NewMetrics(reg)

	path := fixtures.HourlyDay(t, 2017, "Zone Mean Air Temperature", "C", "Zone", "ROOM_1")
	repo := NewRepository(path, metrics)
	if _, err := repo.QueryChannels("Zone Mean Air Temperature"); err != nil {
		t.Fatalf("QueryChannels: %v", err)
	}
	if got := testutil.ToFloat64(metrics.RowsRead.WithLabelValues("channels")); got != 1 {
		t.Fatalf("expected one channel row, got %v", got)
	}

	// a SQLite file without the result tables
	empty := filepath.Join(t.TempDir(), "empty.sql")
	err := database.WithDB(empty, func(db *sql.DB) error {
		_, err := db.Exec("CREATE TABLE Other (a INTEGER)")
		return err
	})
	if err != nil {
		t.Fatalf("create empty database: %v", err)
	}
	_, err = NewRepository(empty, metrics).QueryValues([]int{1})
	if !errors.Is(err, models.ErrDatabase) {
		t.Fatalf("expected database error, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.QueryErrors.WithLabelValues("values")); got != 1 {
		t.Fatalf("expected one failed values query, got %v", got)
	}
}
