package processor

import (
	"time"

	"eplus-sqlresult/config"
	"eplus-sqlresult/models"
	"eplus-sqlresult/repository"

	log "github.com/sirupsen/logrus"
)

//ExtractRunPeriod decodes the run period and reporting frequency of the values stored between two time indices
func ExtractRunPeriod(repo repository.Repository, startIndex, endIndex int) (models.RunPeriod, models.ReportingFrequency, error) {
	start, err := repo.QueryTimeRecord(startIndex)
	if err != nil {
		return models.RunPeriod{}, models.ReportingFrequency{}, err
	}
	end, err := repo.QueryTimeRecord(endIndex)
	if err != nil {
		return models.RunPeriod{}, models.ReportingFrequency{}, err
	}
	return DecodeRunPeriod(start, end)
}

// DecodeRunPeriod builds the run period spanned by two boundary time records.
// The frequency comes from the interval type of the start record. The end of
// the period is moved to the opening of its last step.
func DecodeRunPeriod(start, end models.TimeRecord) (models.RunPeriod, models.ReportingFrequency, error) {
	freq, minutesPerStep, err := DecodeFrequency(start)
	if err != nil {
		return models.RunPeriod{}, freq, err
	}

	leapYear := IsLeapYear(start.Year)
	year := config.GetDefaultYear()
	if leapYear {
		year = config.GetLeapYear()
	}

	stMonth := orDefault(start.Month, 1)
	stDay := orDefault(start.Day, 1)
	if freq.Kind == models.FrequencyMonthly {
		stDay = 1
	}
	endMonth := orDefault(end.Month, 12)
	endDay := end.Day
	if endDay == 0 {
		endDay = time.Date(year, time.Month(endMonth)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}

	endTime := time.Date(year, time.Month(endMonth), endDay, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(1440-minutesPerStep) * time.Minute)

	timestep := 1
	if freq.IsContinuous() {
		timestep = freq.StepsPerHour
	}
	runPeriod, err := models.NewRunPeriod(stMonth, stDay, 0,
		int(endTime.Month()), endTime.Day(), endTime.Hour(), timestep, leapYear)
	if err != nil {
		log.WithFields(log.Fields{"start": start.Index, "end": end.Index}).Error(err)
		return models.RunPeriod{}, freq, err
	}
	return runPeriod, freq, nil
}

// DecodeFrequency maps the interval type of a time record to a reporting
// frequency and the number of minutes in one step. Codes up to 1 are
// sub-hourly or hourly and use the interval of the record.
func DecodeFrequency(rec models.TimeRecord) (models.ReportingFrequency, int, error) {
	if rec.IntervalType <= 1 {
		if rec.Interval <= 0 || 60%rec.Interval != 0 {
			e := models.DecodeError("decode frequency", "time record %d has an invalid interval of %d minutes", rec.Index, rec.Interval)
			log.Error(e)
			return models.ReportingFrequency{}, 0, e
		}
		return models.FrequencyFromSteps(60 / rec.Interval), rec.Interval, nil
	}

	if rec.IntervalType >= len(config.GetIntervalCodes()) {
		e := models.DecodeError("decode frequency", "time record %d has an unknown interval type %d", rec.Index, rec.IntervalType)
		log.Error(e)
		return models.ReportingFrequency{}, 0, e
	}
	return models.ReportingFrequency{Kind: models.FrequencyKind(rec.IntervalType), StepsPerHour: 1}, 60, nil
}

// IsLeapYear uses the year%4 rule of the simulation engine. Century years are
// not special cased. A missing year (0) is not a leap year.
func IsLeapYear(year int) bool {
	return year != 0 && year%4 == 0
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
