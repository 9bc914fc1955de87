package processor

import (
	"eplus-sqlresult/models"

	log "github.com/sirupsen/logrus"
)

// Outputs read for the load balance.
const (
	OutputHeating              = "Zone Ideal Loads Supply Air Total Heating Energy"
	OutputCooling              = "Zone Ideal Loads Supply Air Total Cooling Energy"
	OutputLighting             = "Zone Lights Total Heating Energy"
	OutputElectricEquipment    = "Zone Electric Equipment Total Heating Energy"
	OutputGasEquipment         = "Zone Gas Equipment Total Heating Energy"
	OutputPeople               = "Zone People Total Heating Energy"
	OutputSolar                = "Zone Windows Total Transmitted Solar Radiation Energy"
	OutputInfiltrationGain     = "Zone Infiltration Total Heat Gain Energy"
	OutputInfiltrationLoss     = "Zone Infiltration Total Heat Loss Energy"
	OutputMechVentGain         = "Zone Ideal Loads Outdoor Air Total Cooling Energy"
	OutputMechVentLoss         = "Zone Ideal Loads Outdoor Air Total Heating Energy"
	OutputNaturalVentGain      = "Zone Ventilation Total Heat Gain Energy"
	OutputNaturalVentLoss      = "Zone Ventilation Total Heat Loss Energy"
	OutputOpaqueConduction     = "Surface Inside Face Conduction Heat Transfer Energy"
	OutputWindowConductionGain = "Surface Window Heat Gain Energy"
	OutputWindowConductionLoss = "Surface Window Heat Loss Energy"
)

// Term names in the order of the balance.
const (
	TermHeating               = "Heating"
	TermCooling               = "Cooling"
	TermLighting              = "Lighting"
	TermElectricEquipment     = "Electric Equipment"
	TermGasEquipment          = "Gas Equipment"
	TermPeople                = "People"
	TermSolar                 = "Solar"
	TermInfiltration          = "Infiltration"
	TermMechanicalVentilation = "Mechanical Ventilation"
	TermNaturalVentilation    = "Natural Ventilation"
	TermWallConduction        = "Opaque Wall Conduction"
	TermRoofConduction        = "Opaque Roof Conduction"
	TermFloorConduction       = "Opaque Floor Conduction"
	TermWindowConduction      = "Window Conduction"
	TermStorage               = "Storage"
)

type termSource struct {
	output string
	sign   float64
}

// balanceTerm sums its sources over the rooms, or over the surfaces
// accepted by filter when filter is set.
type balanceTerm struct {
	name    string
	sources []termSource
	filter  func(models.Surface) bool
}

func faceOfType(t models.FaceType) func(models.Surface) bool {
	return func(s models.Surface) bool { return s.Type == t }
}

func isAperture(s models.Surface) bool {
	return s.IsAperture()
}

var balanceTerms = []balanceTerm{
	{name: TermHeating, sources: []termSource{{OutputHeating, 1}}},
	{name: TermCooling, sources: []termSource{{OutputCooling, -1}}},
	{name: TermLighting, sources: []termSource{{OutputLighting, 1}}},
	{name: TermElectricEquipment, sources: []termSource{{OutputElectricEquipment, 1}}},
	{name: TermGasEquipment, sources: []termSource{{OutputGasEquipment, 1}}},
	{name: TermPeople, sources: []termSource{{OutputPeople, 1}}},
	{name: TermSolar, sources: []termSource{{OutputSolar, 1}}},
	{name: TermInfiltration, sources: []termSource{{OutputInfiltrationGain, 1}, {OutputInfiltrationLoss, -1}}},
	{name: TermMechanicalVentilation, sources: []termSource{{OutputMechVentGain, 1}, {OutputMechVentLoss, -1}}},
	{name: TermNaturalVentilation, sources: []termSource{{OutputNaturalVentGain, 1}, {OutputNaturalVentLoss, -1}}},
	{name: TermWallConduction, sources: []termSource{{OutputOpaqueConduction, 1}}, filter: faceOfType(models.FaceWall)},
	{name: TermRoofConduction, sources: []termSource{{OutputOpaqueConduction, 1}}, filter: faceOfType(models.FaceRoofCeiling)},
	{name: TermFloorConduction, sources: []termSource{{OutputOpaqueConduction, 1}}, filter: faceOfType(models.FaceFloor)},
	{name: TermWindowConduction, sources: []termSource{{OutputWindowConductionGain, 1}, {OutputWindowConductionLoss, -1}}, filter: isAperture},
}

// BalanceOutputs lists every output the load balance reads.
func BalanceOutputs() []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range balanceTerms {
		for _, s := range t.sources {
			if !seen[s.output] {
				seen[s.output] = true
				names = append(names, s.output)
			}
		}
	}
	return names
}

// LoadBalance composes the energy flows of a model from the series of the
// balance outputs, keyed by output name.
type LoadBalance struct {
	Model models.Model
	Data  map[string][]*models.TimeSeries
}

func NewLoadBalance(model models.Model, data map[string][]*models.TimeSeries) *LoadBalance {
	return &LoadBalance{Model: model, Data: data}
}

// LoadBalanceFromResult reads the balance outputs from a result file.
func LoadBalanceFromResult(model models.Model, result *Result) (*LoadBalance, error) {
	outputs := BalanceOutputs()
	groups := make([][]string, len(outputs))
	for i, name := range outputs {
		groups[i] = []string{name}
	}
	collections, err := result.DataByOutputNames(groups)
	if err != nil {
		return nil, err
	}
	data := make(map[string][]*models.TimeSeries, len(outputs))
	for i, name := range outputs {
		data[name] = collections[i].Series
	}
	return NewLoadBalance(model, data), nil
}

// Terms sums every term of the balance over the building. Room outputs are
// summed as reported and surface outputs are scaled by the room multiplier.
// Terms without any matched series are left out. The storage term closes the
// balance. All terms must share one run period and frequency.
func (lb *LoadBalance) Terms(normalize, storage bool) ([]*models.TimeSeries, error) {
	surfaces := lb.Model.Surfaces()
	var reference *models.TimeSeries
	var terms []*models.TimeSeries
	anyMatch := false

	for _, term := range balanceTerms {
		var sum []float64
		for _, source := range term.sources {
			var matched []models.MatchedSeries
			if term.filter == nil {
				matched = MatchRoomsToData(lb.Data[source.output], lb.Model.Rooms)
			} else {
				var accepted []models.Surface
				for _, s := range surfaces {
					if term.filter(s) {
						accepted = append(accepted, s)
					}
				}
				matched = MatchFacesToData(lb.Data[source.output], accepted)
			}

			for _, m := range matched {
				anyMatch = true
				if reference == nil {
					reference = m.Series
				} else if !reference.Aligned(m.Series) {
					e := models.ConsistencyError("load balance",
						"%s of %s does not share the run period and frequency of %s",
						m.Series.Header.OutputName, m.Entity.EntityID(), reference.Header.OutputName)
					log.Error(e)
					return nil, e
				}
				if sum == nil {
					sum = make([]float64, m.Series.Len())
				}
				scale := source.sign
				if term.filter != nil {
					scale *= float64(m.Multiplier)
				}
				for i, v := range m.Series.Values {
					sum[i] += v * scale
				}
			}
		}
		if sum != nil {
			terms = append(terms, lb.termSeries(reference, term.name, sum))
		}
	}

	if !anyMatch {
		return nil, requireMatch("load balance")
	}

	if storage {
		residual := make([]float64, reference.Len())
		for _, t := range terms {
			for i, v := range t.Values {
				residual[i] -= v
			}
		}
		terms = append(terms, lb.termSeries(reference, TermStorage, residual))
	}

	if normalize {
		area := lb.Model.TotalFloorArea()
		for i, t := range terms {
			terms[i] = divide(t, area, true)
		}
	}
	return terms, nil
}

func (lb *LoadBalance) termSeries(reference *models.TimeSeries, name string, values []float64) *models.TimeSeries {
	ts := reference.WithValues(values)
	ts.Header.OutputName = name
	ts.Header.Association = models.Association{Kind: models.AssociationSystem, Identifier: lb.Model.Identifier}
	return ts
}
