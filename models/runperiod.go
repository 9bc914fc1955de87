package models

import (
	"time"

	"eplus-sqlresult/config"
)

//RunPeriod is the calendar span and timestep of a set of reported values
type RunPeriod struct {
	StartMonth      int
	StartDay        int
	StartHour       int
	EndMonth        int
	EndDay          int
	EndHour         int
	TimestepPerHour int
	IsLeapYear      bool
}

// NewRunPeriod validates the calendar fields against the (leap) year.
func NewRunPeriod(stMonth, stDay, stHour, endMonth, endDay, endHour, timestep int, leapYear bool) (RunPeriod, error) {
	r := RunPeriod{
		StartMonth: stMonth, StartDay: stDay, StartHour: stHour,
		EndMonth: endMonth, EndDay: endDay, EndHour: endHour,
		TimestepPerHour: timestep, IsLeapYear: leapYear,
	}
	if err := r.validate(); err != nil {
		return RunPeriod{}, err
	}
	return r, nil
}

func (r RunPeriod) validate() error {
	year := r.year()
	if !validDate(year, r.StartMonth, r.StartDay) {
		return DecodeError("run period", "invalid start date %d/%d", r.StartMonth, r.StartDay)
	}
	if !validDate(year, r.EndMonth, r.EndDay) {
		return DecodeError("run period", "invalid end date %d/%d", r.EndMonth, r.EndDay)
	}
	if r.StartHour < 0 || r.StartHour > 23 || r.EndHour < 0 || r.EndHour > 23 {
		return DecodeError("run period", "hours must be between 0 and 23")
	}
	if r.TimestepPerHour < 1 || 60%r.TimestepPerHour != 0 {
		return DecodeError("run period", "invalid timestep %d", r.TimestepPerHour)
	}
	return nil
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysInMonth(year, month)
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (r RunPeriod) year() int {
	if r.IsLeapYear {
		return config.GetLeapYear()
	}
	return config.GetDefaultYear()
}

// IsReversed reports a period wrapping over the end of the year.
func (r RunPeriod) IsReversed() bool {
	if r.StartMonth != r.EndMonth {
		return r.StartMonth > r.EndMonth
	}
	if r.StartDay != r.EndDay {
		return r.StartDay > r.EndDay
	}
	return r.StartHour > r.EndHour
}

func (r RunPeriod) StartTime() time.Time {
	return time.Date(r.year(), time.Month(r.StartMonth), r.StartDay, r.StartHour, 0, 0, 0, time.UTC)
}

// EndTime is the opening of the last hour of the period.
func (r RunPeriod) EndTime() time.Time {
	year := r.year()
	if r.IsReversed() {
		year++
	}
	return time.Date(year, time.Month(r.EndMonth), r.EndDay, r.EndHour, 0, 0, 0, time.UTC)
}

// Dates returns one midnight per day of the period.
func (r RunPeriod) Dates() []time.Time {
	start := r.StartTime()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := r.EndTime()
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for !day.After(last) {
		dates = append(dates, day)
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// DaysOfYear returns the day-of-year index of each date of the period.
func (r RunPeriod) DaysOfYear() []int {
	dates := r.Dates()
	doys := make([]int, len(dates))
	for i, d := range dates {
		doys[i] = d.YearDay()
	}
	return doys
}

// Months returns the month numbers covered by the period.
func (r RunPeriod) Months() []int {
	var months []int
	m := r.StartMonth
	for {
		months = append(months, m)
		if m == r.EndMonth && (!r.IsReversed() || len(months) > 1) {
			break
		}
		m = m%12 + 1
	}
	return months
}

// Datetimes returns the opening time of every step of the period.
func (r RunPeriod) Datetimes() []time.Time {
	start := r.StartTime()
	hours := int(r.EndTime().Sub(start)/time.Hour) + 1
	step := time.Duration(60/r.TimestepPerHour) * time.Minute
	n := hours * r.TimestepPerHour
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

// StepCount is the number of values a series of the given frequency holds.
func (r RunPeriod) StepCount(f ReportingFrequency) int {
	switch f.Kind {
	case FrequencyTimestep, FrequencyHourly:
		hours := int(r.EndTime().Sub(r.StartTime())/time.Hour) + 1
		return hours * r.TimestepPerHour
	case FrequencyDaily:
		return len(r.Dates())
	case FrequencyMonthly:
		return len(r.Months())
	default:
		return 1
	}
}

func (r RunPeriod) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type":         "AnalysisPeriod",
		"st_month":     r.StartMonth,
		"st_day":       r.StartDay,
		"st_hour":      r.StartHour,
		"end_month":    r.EndMonth,
		"end_day":      r.EndDay,
		"end_hour":     r.EndHour,
		"timestep":     r.TimestepPerHour,
		"is_leap_year": r.IsLeapYear,
	}
}

func RunPeriodFromMap(m map[string]interface{}) (RunPeriod, error) {
	keys := []string{"st_month", "st_day", "st_hour", "end_month", "end_day", "end_hour", "timestep"}
	vals := make([]int, len(keys))
	for i, k := range keys {
		v, err := intField(m, k)
		if err != nil {
			return RunPeriod{}, err
		}
		vals[i] = v
	}
	leap, err := boolField(m, "is_leap_year")
	if err != nil {
		return RunPeriod{}, err
	}
	return NewRunPeriod(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], leap)
}
