package processor

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"eplus-sqlresult/config"
	"eplus-sqlresult/models"
	"eplus-sqlresult/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gopkg.in/cheggaaa/pb.v1"
)

// QueryableExport lists the files written by WriteQueryableCSV and their columns.
type QueryableExport struct {
	ExportID string              `json:"export_id"`
	Folder   string              `json:"folder"`
	Columns  map[string][]string `json:"columns"`
}

// headerRows returns the output name, units and object rows of a side by
// side export, each led by one cell for the timestamp column.
func headerRows(series []*models.TimeSeries) [][]string {
	types := []string{"DateTime"}
	units := []string{""}
	objects := []string{""}
	for _, ts := range series {
		types = append(types, ts.Header.OutputName)
		units = append(units, ts.Header.Units)
		objects = append(objects, ts.Header.Association.Identifier)
	}
	return [][]string{types, units, objects}
}

// stepCount is the number of rows shared by every series.
func stepCount(series []*models.TimeSeries) int {
	if len(series) == 0 {
		return 0
	}
	n := series[0].Len()
	for _, ts := range series[1:] {
		if ts.Len() < n {
			n = ts.Len()
		}
	}
	return n
}

// WriteCSV writes the series side by side: three header rows, then one row
// per step led by the timestamp of the first series.
func WriteCSV(w io.Writer, series []*models.TimeSeries) error {
	writer := csv.NewWriter(w)
	writer.Comma = config.GetCSVDelimiter()

	for _, row := range headerRows(series) {
		if err := writer.Write(row); err != nil {
			log.Error(err)
			return err
		}
	}
	if n := stepCount(series); n > 0 {
		datetimes := series[0].Datetimes()
		for i := 0; i < n; i++ {
			row := make([]string, 0, len(series)+1)
			row = append(row, utils.FormatDatetime(datetimes[i]))
			for _, ts := range series {
				row = append(row, utils.FormatFloat(ts.Values[i]))
			}
			if err := writer.Write(row); err != nil {
				log.Error(err)
				return err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Error(err)
		return err
	}
	return nil
}

// WriteXLSX writes the same layout as WriteCSV into a workbook, with the
// values as numbers.
func WriteXLSX(w io.Writer, series []*models.TimeSeries) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := config.GetXLSXSheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		log.Error(err)
		return err
	}

	rowNumber := 1
	setRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNumber)
		if err != nil {
			return err
		}
		rowNumber++
		return f.SetSheetRow(sheet, cell, &values)
	}

	for _, header := range headerRows(series) {
		values := make([]interface{}, len(header))
		for i, v := range header {
			values[i] = v
		}
		if err := setRow(values); err != nil {
			log.Error(err)
			return err
		}
	}
	if n := stepCount(series); n > 0 {
		datetimes := series[0].Datetimes()
		for i := 0; i < n; i++ {
			values := make([]interface{}, 0, len(series)+1)
			values = append(values, utils.FormatDatetime(datetimes[i]))
			for _, ts := range series {
				values = append(values, ts.Values[i])
			}
			if err := setRow(values); err != nil {
				log.Error(err)
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		log.Error(err)
		return err
	}
	return nil
}

// MatchForExport reads each output group within one run period, converts it
// to IP units when asked, matches it to the model and normalizes it. Groups
// are split into room data and face data; a group that matches nothing is
// dropped. NoMatchError is returned when no group matched.
func MatchForExport(result *Result, model models.Model, environmentPeriodIndex int, groups [][]string, ip, normalize bool) ([][]models.MatchedSeries, [][]models.MatchedSeries, error) {
	if ip {
		model = model.ScaleAreas(config.GetSquareFeetPerSquareMeter())
	}
	surfaces := model.Surfaces()

	var rooms, faces [][]models.MatchedSeries
	for _, names := range groups {
		c, err := result.DataByOutputNameRunPeriod(environmentPeriodIndex, names...)
		if err != nil {
			return nil, nil, err
		}
		if len(c.Series) == 0 {
			log.WithField("outputs", strings.Join(names, ", ")).Debug("no data in run period")
			continue
		}
		series := c.Series
		if ip {
			converted := make([]*models.TimeSeries, len(series))
			for i, ts := range series {
				converted[i] = ts.ConvertToIP()
			}
			series = converted
		}

		if series[0].Header.Association.Kind == models.AssociationSurface {
			if matched := MatchFacesToData(series, surfaces); len(matched) > 0 {
				faces = append(faces, Normalize(matched, normalize))
			}
		} else if matched := MatchRoomsToData(series, model.Rooms); len(matched) > 0 {
			rooms = append(rooms, Normalize(matched, normalize))
		}
	}

	var flat [][]models.MatchedSeries
	flat = append(flat, rooms...)
	flat = append(flat, faces...)
	if err := requireMatch("match for export", flat...); err != nil {
		return nil, nil, err
	}
	return rooms, faces, nil
}

// columnName turns an output name into a CSV column, "Zone Air Temperature"
// -> "zone_air_temperature".
func columnName(outputName string) string {
	return strings.ToLower(strings.ReplaceAll(outputName, " ", "_"))
}

// WriteQueryableCSV writes one row per step and entity, led by the date
// columns and the entity identifier, with one column per output group. Room
// data and face data go to separate files in folder. Files are written with
// a temporary extension and renamed once all of them are complete.
func WriteQueryableCSV(folder string, rooms, faces [][]models.MatchedSeries, showProgress bool) (QueryableExport, error) {
	export := QueryableExport{ExportID: uuid.New().String(), Folder: folder, Columns: map[string][]string{}}
	if err := os.MkdirAll(folder, 0755); err != nil {
		log.Error(err)
		return export, err
	}
	if err := RemoveFiles(folder, config.GetTmpExtension()); err != nil {
		return export, err
	}

	entities := 0
	for _, data := range [][][]models.MatchedSeries{rooms, faces} {
		if len(data) > 0 {
			entities += len(data[0])
		}
	}
	bar := pb.New(entities)
	bar.Output = os.Stderr
	bar.NotPrint = !showProgress
	bar.Start()
	defer bar.Finish()

	files := []struct {
		name string
		data [][]models.MatchedSeries
	}{
		{config.GetRoomCSVName(), rooms},
		{config.GetFaceCSVName(), faces},
	}
	for _, file := range files {
		if len(file.data) == 0 {
			continue
		}
		columns := []string{"year", "month", "day", "hour", "minute", "identifier"}
		for _, group := range file.data {
			columns = append(columns, columnName(group[0].Series.Header.OutputName))
		}
		export.Columns[file.name] = columns

		path := filepath.Join(folder, file.name+config.GetTmpExtension())
		if err := writeQueryableFile(path, columns, file.data, bar); err != nil {
			return export, err
		}
	}

	if _, err := renameFiles(folder, config.GetTmpExtension(), config.GetCSVExtension()); err != nil {
		return export, err
	}
	log.WithFields(log.Fields{"export_id": export.ExportID, "folder": folder}).Info("queryable CSV written")
	return export, nil
}

func writeQueryableFile(path string, columns []string, data [][]models.MatchedSeries, bar *pb.ProgressBar) error {
	f, err := os.Create(path)
	if err != nil {
		log.Error(err)
		return err
	}
	defer f.Close()

	base := data[0][0].Series
	year := config.GetDefaultYear()
	if base.Header.RunPeriod.IsLeapYear {
		year = config.GetLeapYear()
	}
	dates := make([][]string, 0, base.Len())
	for _, t := range base.Datetimes() {
		dates = append(dates, utils.DateColumns(year, t))
	}

	writer := csv.NewWriter(f)
	writer.Comma = config.GetCSVDelimiter()
	if err := writer.Write(columns); err != nil {
		log.Error(err)
		return err
	}

	// entity j of every group, zipped up to the shortest group
	entities := len(data[0])
	for _, group := range data[1:] {
		if len(group) < entities {
			entities = len(group)
		}
	}
	for j := 0; j < entities; j++ {
		identifier := data[0][j].Entity.EntityID()
		for i, date := range dates {
			row := append(append([]string{}, date...), identifier)
			for _, group := range data {
				values := group[j].Series.Values
				if i < len(values) {
					row = append(row, utils.FormatFloat(values[i]))
				} else {
					row = append(row, "")
				}
			}
			if err := writer.Write(row); err != nil {
				log.Error(err)
				return err
			}
		}
		bar.Increment()
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Error(err)
		return err
	}
	return nil
}
