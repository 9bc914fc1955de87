package processor

import (
	"strconv"
	"strings"

	"eplus-sqlresult/models"

	log "github.com/sirupsen/logrus"
)

// Row positions in the General summary table.
const (
	rowWeatherFile = 2
	rowLatitude    = 3
	rowLongitude   = 4
	rowElevation   = 5
	rowTimeZone    = 6
)

// ExtractLocation parses the site from the cells of the General summary
// table. It returns nil when the table is missing or a row cannot be read.
func ExtractLocation(cells []models.TabularCell) *models.Location {
	if len(cells) <= rowTimeZone {
		log.Debug("no location in result file, the General table has ", len(cells), " rows")
		return nil
	}

	// "<city> <source> <key>=<station id>"
	tokens := strings.Fields(cells[rowWeatherFile].Value)
	if len(tokens) < 2 {
		log.Debug("cannot parse weather file row: ", cells[rowWeatherFile].Value)
		return nil
	}
	last := tokens[len(tokens)-1]
	location := &models.Location{
		City:      strings.Join(tokens[:len(tokens)-2], " "),
		Source:    tokens[len(tokens)-2],
		StationID: last[strings.LastIndex(last, "=")+1:],
	}

	fields := []struct {
		row    int
		target *float64
	}{
		{rowLatitude, &location.Latitude},
		{rowLongitude, &location.Longitude},
		{rowElevation, &location.Elevation},
		{rowTimeZone, &location.TimeZone},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(cells[f.row].Value), 64)
		if err != nil {
			log.WithField("row", cells[f.row].RowName).Debug("cannot parse location value: ", err)
			return nil
		}
		*f.target = v
	}
	return location
}
