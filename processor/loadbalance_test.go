package processor

import (
	"math"
	"testing"

	"eplus-sqlresult/models"
)

func termByName(terms []*models.TimeSeries, name string) *models.TimeSeries {
	for _, t := range terms {
		if t.Header.OutputName == name {
			return t
		}
	}
	return nil
}

func TestBalanceOutputsAreUnique(t *testing.T) {
	outputs := BalanceOutputs()
	seen := map[string]bool{}
	for _, o := range outputs {
		if seen[o] {
			t.Fatalf("%s is listed twice", o)
		}
		seen[o] = true
	}
	if !seen[OutputOpaqueConduction] || !seen[OutputMechVentLoss] {
		t.Fatalf("missing balance outputs in %v", outputs)
	}
}

func TestLoadBalanceTerms(t *testing.T) {
	data := map[string][]*models.TimeSeries{
		OutputHeating:          {hourlySeries(t, OutputHeating, "kWh", models.AssociationSystem, "ROOM_1 IDEAL LOADS AIR SYSTEM", 5)},
		OutputCooling:          {hourlySeries(t, OutputCooling, "kWh", models.AssociationSystem, "ROOM_2 IDEAL LOADS AIR SYSTEM", 2)},
		OutputInfiltrationGain: {hourlySeries(t, OutputInfiltrationGain, "kWh", models.AssociationZone, "ROOM_1", 1)},
		OutputInfiltrationLoss: {hourlySeries(t, OutputInfiltrationLoss, "kWh", models.AssociationZone, "ROOM_1", 4)},
		OutputOpaqueConduction: {
			hourlySeries(t, OutputOpaqueConduction, "kWh", models.AssociationSurface, "ROOM_1_WALL", -1),
			hourlySeries(t, OutputOpaqueConduction, "kWh", models.AssociationSurface, "ROOM_1_ROOF", -0.5),
		},
	}
	lb := NewLoadBalance(testModel(), data)

	terms, err := lb.Terms(false, true)
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	expected := map[string]float64{
		TermHeating:        5,
		TermCooling:        -2,
		TermInfiltration:   -3,
		TermWallConduction: -2,
		TermRoofConduction: -1,
		TermStorage:        3,
	}
	if len(terms) != len(expected) {
		t.Fatalf("expected %d terms, got %d", len(expected), len(terms))
	}
	for name, want := range expected {
		term := termByName(terms, name)
		if term == nil {
			t.Fatalf("missing term %s", name)
		}
		if got := term.Values[0]; math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
		if term.Header.Association.Identifier != "Office" {
			t.Fatalf("%s: expected the model identifier, got %+v", name, term.Header.Association)
		}
	}
	if terms[len(terms)-1].Header.OutputName != TermStorage {
		t.Fatalf("expected storage to be the last term")
	}

	normalized, err := lb.Terms(true, false)
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	if termByName(normalized, TermStorage) != nil {
		t.Fatalf("storage must be left out when not asked for")
	}
	heating := termByName(normalized, TermHeating)
	if v := heating.Values[0]; math.Abs(v-5.0/40) > 1e-9 || heating.Header.Units != "kWh/m2" {
		t.Fatalf("expected 5 kWh over 40 m2, got %v %s", v, heating.Header.Units)
	}
}

func TestLoadBalanceNoMatch(t *testing.T) {
	data := map[string][]*models.TimeSeries{
		OutputHeating: {hourlySeries(t, OutputHeating, "kWh", models.AssociationSystem, "OTHER IDEAL LOADS AIR SYSTEM", 5)},
	}
	_, err := NewLoadBalance(testModel(), data).Terms(true, true)
	if models.GetKind(err) != models.KindNoMatch {
		t.Fatalf("expected a no match error, got %v", err)
	}
}

func TestLoadBalanceInconsistentPeriods(t *testing.T) {
	daily := hourlySeries(t, OutputCooling, "kWh", models.AssociationSystem, "ROOM_1 IDEAL LOADS AIR SYSTEM", 1)
	daily.Frequency = models.ReportingFrequency{Kind: models.FrequencyDaily, StepsPerHour: 1}
	data := map[string][]*models.TimeSeries{
		OutputHeating: {hourlySeries(t, OutputHeating, "kWh", models.AssociationSystem, "ROOM_1 IDEAL LOADS AIR SYSTEM", 5)},
		OutputCooling: {daily},
	}
	_, err := NewLoadBalance(testModel(), data).Terms(false, true)
	if models.GetKind(err) != models.KindConsistency {
		t.Fatalf("expected a consistency error, got %v", err)
	}
}
