package processor

import (
	"strings"

	"eplus-sqlresult/config"
	"eplus-sqlresult/models"

	log "github.com/sirupsen/logrus"
)

// Collection holds the series reconstructed for one request. Annual values
// have no calendar container and are kept as raw lists, one per channel.
type Collection struct {
	Frequency models.ReportingFrequency
	Series    []*models.TimeSeries
	Annual    [][]float64
}

// Len is the number of channels in the collection.
func (c Collection) Len() int {
	return len(c.Series) + len(c.Annual)
}

func (c *Collection) append(other Collection) {
	if c.Len() == 0 {
		c.Frequency = other.Frequency
	}
	c.Series = append(c.Series, other.Series...)
	c.Annual = append(c.Annual, other.Annual...)
}

// TransposeValues splits rows interleaved per timestep (c1t1, c2t1, c1t2, ...)
// into one value sequence per channel, keeping the channel order.
func TransposeValues(rows []models.ValueRow, channelCount int) ([][]float64, error) {
	if channelCount <= 0 {
		e := models.ReconstructionError("transpose", "no channels to split %d rows into", len(rows))
		log.Error(e)
		return nil, e
	}
	if len(rows)%channelCount != 0 {
		e := models.ReconstructionError("transpose", "%d rows cannot be split into %d channels", len(rows), channelCount)
		log.Error(e)
		return nil, e
	}

	steps := len(rows) / channelCount
	values := make([][]float64, channelCount)
	for i := range values {
		values[i] = make([]float64, steps)
	}
	for n, row := range rows {
		values[n%channelCount][n/channelCount] = row.Value
	}
	return values, nil
}

// ConvertEnergy turns Joule values into kWh. Other units are returned as is.
func ConvertEnergy(values []float64, units string) ([]float64, string) {
	if units != "J" {
		return values, units
	}
	converted := make([]float64, len(values))
	for i, v := range values {
		converted[i] = v / config.GetJoulesPerKWh()
	}
	return converted, "kWh"
}

// AssociationFor tags a channel with the kind of object that reported it.
// Surface outputs are grouped under Zone by the engine, so the output name
// decides first.
func AssociationFor(ch models.OutputChannel) models.Association {
	switch {
	case strings.Contains(ch.OutputName, "Surface"):
		return models.Association{Kind: models.AssociationSurface, Identifier: ch.ObjectName}
	case ch.ObjectType == "Zone":
		return models.Association{Kind: models.AssociationZone, Identifier: ch.ObjectName}
	default:
		return models.Association{Kind: models.AssociationSystem, Identifier: ch.ObjectName}
	}
}

// Reconstruct turns the raw rows of the channels into one series per
// channel, in channel order.
func Reconstruct(channels []models.OutputChannel, rows []models.ValueRow, runPeriod models.RunPeriod, freq models.ReportingFrequency) (Collection, error) {
	collection := Collection{Frequency: freq}
	values, err := TransposeValues(rows, len(channels))
	if err != nil {
		return collection, err
	}

	for i, ch := range channels {
		converted, units := ConvertEnergy(values[i], ch.Units)

		switch freq.Kind {
		case models.FrequencyAnnual:
			collection.Annual = append(collection.Annual, converted)
		case models.FrequencyTimestep, models.FrequencyHourly, models.FrequencyDaily, models.FrequencyMonthly:
			header := models.Header{
				DataType:    models.DataTypeFromUnit(units),
				Units:       units,
				RunPeriod:   runPeriod,
				OutputName:  ch.OutputName,
				Association: AssociationFor(ch),
			}
			ts, err := models.NewTimeSeries(header, freq, converted)
			if err != nil {
				log.WithFields(log.Fields{"output": ch.OutputName, "object": ch.ObjectName}).Error(err)
				return collection, err
			}
			collection.Series = append(collection.Series, ts)
		default:
			e := models.ReconstructionError("reconstruct", "unsupported reporting frequency %s", freq)
			log.Error(e)
			return collection, e
		}
	}
	return collection, nil
}
