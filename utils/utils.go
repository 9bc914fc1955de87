package utils

import (
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// DateColumns splits a timestamp into the year, month, day, hour and minute
// columns of the queryable CSV.
func DateColumns(year int, t time.Time) []string {
	return []string{
		strconv.Itoa(year),
		strconv.Itoa(int(t.Month())),
		strconv.Itoa(t.Day()),
		strconv.Itoa(t.Hour()),
		strconv.Itoa(t.Minute()),
	}
}

//FormatDatetime returns the timestamp layout used in the first CSV column
func FormatDatetime(t time.Time) string {
	return t.Format("01/02 15:04")
}

//FormatFloat prints a value without trailing zeros
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func jsonMarshal(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// PrintMemUsage logs the current heap usage at debug level.
func PrintMemUsage() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.WithFields(log.Fields{
		"alloc_mib":       m.Alloc / 1024 / 1024,
		"total_alloc_mib": m.TotalAlloc / 1024 / 1024,
		"sys_mib":         m.Sys / 1024 / 1024,
		"num_gc":          m.NumGC,
	}).Debug("memory usage")
}
