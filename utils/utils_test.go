package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eplus-sqlresult/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReadModelFileYAMLDefaultsMultiplier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	body := `identifier: Office_Building
rooms:
  - identifier: Room_1
    floor_area: 100
    faces:
      - identifier: Room_1..Face0
        face_type: Wall
        area: 30
        apertures:
          - identifier: Room_1..Face0_Glz0
            area: 10
  - identifier: Room_2
    floor_area: 50
    multiplier: 4
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	m, err := ReadModelFile(path)
	if err != nil {
		t.Fatalf("ReadModelFile: %v", err)
	}
	if len(m.Rooms) != 2 || m.Rooms[0].Multiplier != 1 || m.Rooms[1].Multiplier != 4 {
		t.Fatalf("unexpected rooms %+v", m.Rooms)
	}
	if m.Rooms[0].Faces[0].PunchedArea() != 20 {
		t.Fatalf("unexpected punched area %v", m.Rooms[0].Faces[0].PunchedArea())
	}
}

func TestReadModelFileJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	in := models.Model{Identifier: "m", Rooms: []models.Room{{Identifier: "A", FloorArea: 12, Multiplier: 2}}}
	if err := WriteModelFile(path, in); err != nil {
		t.Fatalf("WriteModelFile: %v", err)
	}
	out, err := ReadModelFile(path)
	if err != nil {
		t.Fatalf("ReadModelFile: %v", err)
	}
	if out.Rooms[0].Identifier != "A" || out.Rooms[0].FloorArea != 12 || out.Rooms[0].Multiplier != 2 {
		t.Fatalf("unexpected model %+v", out)
	}
}

func TestReadModelFileMissing(t *testing.T) {
	_, err := ReadModelFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Observe("values", time.Now(), 12, nil)
	m.Observe("values", time.Now(), 0, errors.New("boom"))

	if got := testutil.ToFloat64(m.Queries.WithLabelValues("values")); got != 2 {
		t.Fatalf("expected 2 queries, got %v", got)
	}
	if got := testutil.ToFloat64(m.QueryErrors.WithLabelValues("values")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.ToFloat64(m.RowsRead.WithLabelValues("values")); got != 12 {
		t.Fatalf("expected 12 rows, got %v", got)
	}

	var nilMetrics *Metrics
	nilMetrics.Observe("values", time.Now(), 1, nil)
}

func TestDateColumns(t *testing.T) {
	cols := DateColumns(2017, time.Date(2017, 3, 4, 5, 15, 0, 0, time.UTC))
	want := []string{"2017", "3", "4", "5", "15"}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("got %v, want %v", cols, want)
		}
	}
}
