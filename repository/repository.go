package repository

import (
	"database/sql"
	"errors"
	"time"

	"eplus-sqlresult/database"
	"eplus-sqlresult/models"
	"eplus-sqlresult/sqls"
	"eplus-sqlresult/utils"

	log "github.com/sirupsen/logrus"
)

// Repository runs the raw queries against one result database. Every call
// opens its own connection and closes it before returning.
type Repository interface {
	QueryChannels(outputNames ...string) ([]models.OutputChannel, error)
	QueryValues(channelIds []int) ([]models.ValueRow, error)
	QueryValuesForPeriod(channelIds []int, environmentPeriodIndex int) ([]models.ValueRow, error)
	QueryTimeRecord(timeIndex int) (models.TimeRecord, error)
	QueryPeriodBounds(environmentPeriodIndex int) (int, int, error)
	QueryTabular(tableName string) ([]models.TabularCell, error)
	QueryAvailableOutputs() ([]models.OutputInfo, error)
	QueryEnvironmentPeriods() ([]models.EnvironmentPeriod, error)
	QueryZoneSizes(loadType string) ([]models.ZoneSize, error)
	QueryComponentSizes(componentType string) ([]models.ComponentSize, error)
	Path() string
}

var NewRepository = func(path string, metrics *utils.Metrics) Repository {
	return &Impl{
		FilePath: path,
		Metrics:  metrics,
	}
}

type Impl struct {
	FilePath string
	Metrics  *utils.Metrics
}

func (i *Impl) Path() string {
	return i.FilePath
}

// query runs one statement inside a scoped connection and hands every row to scan.
func (i *Impl) query(name, statement string, args []interface{}, scan func(rows *sql.Rows) error) error {
	started := time.Now()
	count := 0
	err := database.WithDB(i.FilePath, func(db *sql.DB) error {
		rows, err := db.Query(statement, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
			count++
		}
		return rows.Err()
	})
	i.Metrics.Observe(name, started, count, err)
	if err != nil {
		var modelErr *models.Error
		if !errors.As(err, &modelErr) {
			err = models.DatabaseError(name, err)
		}
		log.WithFields(log.Fields{"file": i.FilePath, "query": name}).Error(err)
		return err
	}
	return nil
}

func (i *Impl) QueryChannels(outputNames ...string) ([]models.OutputChannel, error) {
	channels := []models.OutputChannel{}
	if len(outputNames) == 0 {
		return channels, nil
	}
	args := make([]interface{}, len(outputNames))
	for n, name := range outputNames {
		args[n] = name
	}

	err := i.query("channels", sqls.GetSQLSelectChannels(len(outputNames)), args, func(rows *sql.Rows) error {
		var c models.OutputChannel
		if err := rows.Scan(&c.Index, &c.ObjectType, &c.ObjectName, &c.OutputName, &c.Units, &c.ReportingFrequency); err != nil {
			return err
		}
		channels = append(channels, c)
		return nil
	})
	return channels, err
}

func channelArgs(channelIds []int) []interface{} {
	args := make([]interface{}, len(channelIds))
	for n, id := range channelIds {
		args[n] = id
	}
	return args
}

func scanValue(values *[]models.ValueRow) func(rows *sql.Rows) error {
	return func(rows *sql.Rows) error {
		var v models.ValueRow
		var value sql.NullFloat64
		if err := rows.Scan(&value, &v.TimeIndex); err != nil {
			return err
		}
		v.Value = value.Float64
		*values = append(*values, v)
		return nil
	}
}

func (i *Impl) QueryValues(channelIds []int) ([]models.ValueRow, error) {
	values := []models.ValueRow{}
	if len(channelIds) == 0 {
		return values, nil
	}
	err := i.query("values", sqls.GetSQLSelectValues(len(channelIds)), channelArgs(channelIds), scanValue(&values))
	return values, err
}

func (i *Impl) QueryValuesForPeriod(channelIds []int, environmentPeriodIndex int) ([]models.ValueRow, error) {
	values := []models.ValueRow{}
	if len(channelIds) == 0 {
		return values, nil
	}
	args := append(channelArgs(channelIds), environmentPeriodIndex)
	err := i.query("values_for_period", sqls.GetSQLSelectValuesForPeriod(len(channelIds)), args, scanValue(&values))
	return values, err
}

func (i *Impl) QueryTimeRecord(timeIndex int) (models.TimeRecord, error) {
	var record models.TimeRecord
	found := false
	err := i.query("time", sqls.GetSQLSelectTime(), []interface{}{timeIndex}, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&record.Index, &record.Year, &record.Month, &record.Day, &record.Hour,
			&record.Minute, &record.Interval, &record.IntervalType, &record.EnvironmentPeriodIndex)
	})
	if err != nil {
		return record, err
	}
	if !found {
		e := models.DecodeError("time", "no time record found for index %d", timeIndex)
		log.Error(e)
		return record, e
	}
	return record, nil
}

func (i *Impl) QueryPeriodBounds(environmentPeriodIndex int) (int, int, error) {
	var first, last sql.NullInt64
	err := i.query("period_bounds", sqls.GetSQLSelectPeriodBounds(), []interface{}{environmentPeriodIndex, environmentPeriodIndex}, func(rows *sql.Rows) error {
		return rows.Scan(&first, &last)
	})
	if err != nil {
		return 0, 0, err
	}
	if !first.Valid || !last.Valid {
		e := models.DecodeError("period bounds", "no time records for environment period %d", environmentPeriodIndex)
		log.Error(e)
		return 0, 0, e
	}
	return int(first.Int64), int(last.Int64), nil
}

func (i *Impl) QueryTabular(tableName string) ([]models.TabularCell, error) {
	cells := []models.TabularCell{}
	err := i.query("tabular", sqls.GetSQLSelectTabular(), []interface{}{tableName}, func(rows *sql.Rows) error {
		var c models.TabularCell
		if err := rows.Scan(&c.RowName, &c.ColumnName, &c.Units, &c.Value); err != nil {
			return err
		}
		cells = append(cells, c)
		return nil
	})
	return cells, err
}

func (i *Impl) QueryAvailableOutputs() ([]models.OutputInfo, error) {
	outputs := []models.OutputInfo{}
	err := i.query("available_outputs", sqls.GetSQLSelectAvailableOutputs(), nil, func(rows *sql.Rows) error {
		var o models.OutputInfo
		if err := rows.Scan(&o.OutputName, &o.ObjectType, &o.Units); err != nil {
			return err
		}
		o.DataType = models.DataTypeFromUnit(o.Units)
		outputs = append(outputs, o)
		return nil
	})
	return outputs, err
}

func (i *Impl) QueryEnvironmentPeriods() ([]models.EnvironmentPeriod, error) {
	periods := []models.EnvironmentPeriod{}
	err := i.query("environment_periods", sqls.GetSQLSelectEnvironmentPeriods(), nil, func(rows *sql.Rows) error {
		var p models.EnvironmentPeriod
		if err := rows.Scan(&p.Index, &p.Name, &p.Type); err != nil {
			return err
		}
		periods = append(periods, p)
		return nil
	})
	return periods, err
}

func (i *Impl) QueryZoneSizes(loadType string) ([]models.ZoneSize, error) {
	sizes := []models.ZoneSize{}
	err := i.query("zone_sizes", sqls.GetSQLSelectZoneSizes(), []interface{}{loadType}, func(rows *sql.Rows) error {
		var z models.ZoneSize
		if err := rows.Scan(&z.ZoneName, &z.LoadType, &z.CalcDesLoad, &z.UserDesLoad, &z.CalcDesFlow,
			&z.UserDesFlow, &z.DesignDay, &z.PeakDateTime, &z.PeakTemperature, &z.PeakHumidityRatio,
			&z.CalcOutsideAirFlow); err != nil {
			return err
		}
		sizes = append(sizes, z)
		return nil
	})
	return sizes, err
}

// QueryComponentSizes groups the rows by component, in first-seen order. An
// empty componentType returns every component.
func (i *Impl) QueryComponentSizes(componentType string) ([]models.ComponentSize, error) {
	sizes := []models.ComponentSize{}
	position := map[string]int{}
	args := []interface{}{componentType, componentType}
	err := i.query("component_sizes", sqls.GetSQLSelectComponentSizes(), args, func(rows *sql.Rows) error {
		var compType, compName string
		var p models.ComponentProperty
		if err := rows.Scan(&compType, &compName, &p.Description, &p.Value, &p.Units); err != nil {
			return err
		}
		key := compType + "\x00" + compName
		pos, ok := position[key]
		if !ok {
			pos = len(sizes)
			position[key] = pos
			sizes = append(sizes, models.ComponentSize{ComponentType: compType, ComponentName: compName})
		}
		sizes[pos].Properties = append(sizes[pos].Properties, p)
		return nil
	})
	return sizes, err
}
