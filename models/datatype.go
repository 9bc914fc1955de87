package models

// DataType describes the physical quantity of a series.
type DataType struct {
	Name              string   `json:"name"`
	Units             []string `json:"-"`
	IPUnits           []string `json:"-"`
	Cumulative        bool     `json:"cumulative"`
	NormalizedUnits   string   `json:"-"`
	NormalizedIPUnits string   `json:"-"`
}

// Normalizable reports whether the quantity can be divided by an area.
func (d DataType) Normalizable() bool {
	return d.NormalizedUnits != ""
}

// IPUnit returns the first IP unit, or the SI unit for unitless types.
func (d DataType) IPUnit() string {
	if len(d.IPUnits) > 0 {
		return d.IPUnits[0]
	}
	if len(d.Units) > 0 {
		return d.Units[0]
	}
	return ""
}

func (d DataType) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "DataType", "name": d.Name}
}

// Ordered: the first type listing a unit wins the lookup.
var dataTypes = []DataType{
	{Name: "Energy", Units: []string{"kWh", "Wh", "J", "kJ", "MJ", "GJ", "MWh"}, IPUnits: []string{"kBtu", "Btu", "MMBtu"},
		Cumulative: true, NormalizedUnits: "kWh/m2", NormalizedIPUnits: "kBtu/ft2"},
	{Name: "EnergyIntensity", Units: []string{"kWh/m2", "Wh/m2", "J/m2"}, IPUnits: []string{"kBtu/ft2"}, Cumulative: true},
	{Name: "Power", Units: []string{"W", "kW", "MW"}, IPUnits: []string{"Btu/h", "kBtu/h"},
		NormalizedUnits: "W/m2", NormalizedIPUnits: "Btu/h-ft2"},
	{Name: "Irradiance", Units: []string{"W/m2"}, IPUnits: []string{"Btu/h-ft2"}},
	{Name: "Temperature", Units: []string{"C", "K"}, IPUnits: []string{"F"}},
	{Name: "TemperatureDelta", Units: []string{"deltaC"}, IPUnits: []string{"deltaF"}},
	{Name: "RelativeHumidity", Units: []string{"%"}},
	{Name: "HumidityRatio", Units: []string{"kgWater/kgDryAir", "fraction"}},
	{Name: "VolumeFlowRate", Units: []string{"m3/s"}, IPUnits: []string{"ft3/min"},
		NormalizedUnits: "m3/s-m2", NormalizedIPUnits: "ft3/min-ft2"},
	{Name: "MassFlowRate", Units: []string{"kg/s"}, IPUnits: []string{"lb/s"}},
	{Name: "Speed", Units: []string{"m/s"}, IPUnits: []string{"mph"}},
	{Name: "Illuminance", Units: []string{"lux"}, IPUnits: []string{"fc"}},
	{Name: "Area", Units: []string{"m2"}, IPUnits: []string{"ft2"}},
	{Name: "Distance", Units: []string{"m"}, IPUnits: []string{"ft"}},
}

// DataTypeFromUnit returns the registered type carrying unit, or a generic,
// non-normalizable type when the unit is unknown.
func DataTypeFromUnit(unit string) DataType {
	for _, d := range dataTypes {
		for _, u := range d.Units {
			if u == unit {
				return d
			}
		}
	}
	return DataType{Name: "GenericType", Units: []string{unit}}
}

// DataTypeByName looks a registered type up by name.
func DataTypeByName(name string) (DataType, error) {
	for _, d := range dataTypes {
		if d.Name == name {
			return d, nil
		}
	}
	if name == "GenericType" {
		return DataType{Name: name}, nil
	}
	return DataType{}, NotFoundError("data type", "no data type named %q", name)
}

type unitConversion struct {
	to      string
	convert func(float64) float64
}

func scale(f float64) func(float64) float64 {
	return func(v float64) float64 { return v * f }
}

var ipConversions = map[string]unitConversion{
	"kWh":    {"kBtu", scale(3.41214)},
	"Wh":     {"Btu", scale(3.41214)},
	"W":      {"Btu/h", scale(3.41214)},
	"kW":     {"kBtu/h", scale(3.41214)},
	"kWh/m2": {"kBtu/ft2", scale(0.316998)},
	"W/m2":   {"Btu/h-ft2", scale(0.316998)},
	"C":      {"F", func(v float64) float64 { return v*9/5 + 32 }},
	"K":      {"F", func(v float64) float64 { return (v-273.15)*9/5 + 32 }},
	"deltaC": {"deltaF", scale(9.0 / 5.0)},
	"m3/s":   {"ft3/min", scale(2118.88)},
	"kg/s":   {"lb/s", scale(2.20462)},
	"m/s":    {"mph", scale(2.23694)},
	"lux":    {"fc", scale(0.092903)},
	"m2":     {"ft2", scale(10.7639)},
	"m":      {"ft", scale(3.28084)},
}

// ConvertToIP converts values in unit to their IP counterpart. Units without
// an IP counterpart are returned unchanged.
func ConvertToIP(values []float64, unit string) ([]float64, string) {
	conv, ok := ipConversions[unit]
	out := make([]float64, len(values))
	if !ok {
		copy(out, values)
		return out, unit
	}
	for i, v := range values {
		out[i] = conv.convert(v)
	}
	return out, conv.to
}
