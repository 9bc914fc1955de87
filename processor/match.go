package processor

import (
	"strings"

	"eplus-sqlresult/config"
	"eplus-sqlresult/models"
)

// roomIdentifier strips the suffix the engine appends to the ideal air
// system of a zone, so that system outputs can be matched to the room.
func roomIdentifier(a models.Association) string {
	id := a.Identifier
	if a.Kind == models.AssociationSystem {
		suffix := config.GetIdealAirSuffix()
		if len(id) > len(suffix) && strings.EqualFold(id[len(id)-len(suffix):], suffix) {
			id = id[:len(id)-len(suffix)]
		}
	}
	return id
}

// MatchRoomsToData joins Zone and System series to the rooms by identifier,
// ignoring case. The result follows the order of rooms. Series that match no
// room are dropped.
func MatchRoomsToData(series []*models.TimeSeries, rooms []models.Room) []models.MatchedSeries {
	matched := []models.MatchedSeries{}
	for _, room := range rooms {
		for _, ts := range series {
			if ts.Header.Association.Kind == models.AssociationSurface {
				continue
			}
			if strings.EqualFold(roomIdentifier(ts.Header.Association), room.Identifier) {
				matched = append(matched, models.MatchedSeries{
					Entity: room, Series: ts, Multiplier: room.EffectiveMultiplier(),
				})
			}
		}
	}
	return matched
}

// MatchFacesToData joins Surface series to faces and apertures by
// identifier, ignoring case. Each match carries the multiplier of the room
// that hosts the surface.
func MatchFacesToData(series []*models.TimeSeries, surfaces []models.Surface) []models.MatchedSeries {
	matched := []models.MatchedSeries{}
	for _, s := range surfaces {
		for _, ts := range series {
			if ts.Header.Association.Kind != models.AssociationSurface {
				continue
			}
			if strings.EqualFold(ts.Header.Association.Identifier, s.Identifier) {
				matched = append(matched, models.MatchedSeries{Entity: s, Series: ts, Multiplier: s.Multiplier})
			}
		}
	}
	return matched
}

// Normalize returns copies of the matched series divided by area. Faces are
// divided by their punched area and rooms by floor area times multiplier,
// when normalize is set and the data type is normalizable. Room series are
// always divided by their multiplier. An area of zero gives zeros.
func Normalize(matched []models.MatchedSeries, normalize bool) []models.MatchedSeries {
	out := make([]models.MatchedSeries, len(matched))
	for i, m := range matched {
		out[i] = m
		ts := m.Series
		byArea := normalize && ts.Header.DataType.Normalizable()
		multiplier := float64(m.Multiplier)
		if multiplier < 1 {
			multiplier = 1
		}

		switch m.Entity.(type) {
		case models.Room:
			if byArea {
				out[i].Series = divide(ts, m.Entity.NormalizationArea()*multiplier, true)
			} else {
				out[i].Series = divide(ts, multiplier, false)
			}
		default:
			if byArea {
				out[i].Series = divide(ts, m.Entity.NormalizationArea(), true)
			}
		}
	}
	return out
}

func divide(ts *models.TimeSeries, divisor float64, perArea bool) *models.TimeSeries {
	values := make([]float64, len(ts.Values))
	if divisor != 0 {
		for i, v := range ts.Values {
			values[i] = v / divisor
		}
	}
	if !perArea {
		return ts.WithValues(values)
	}
	units := normalizedUnits(ts.Header.Units, ts.Header.DataType)
	return ts.WithUnits(values, units, models.DataTypeFromUnit(units))
}

// normalizedUnits is the per area unit, "kWh" -> "kWh/m2". Series already
// converted to IP units are divided by square feet.
func normalizedUnits(units string, dataType models.DataType) string {
	area := "m2"
	for _, u := range dataType.IPUnits {
		if u == units {
			area = "ft2"
		}
	}
	if strings.Contains(units, "/") {
		return units + "-" + area
	}
	return units + "/" + area
}
