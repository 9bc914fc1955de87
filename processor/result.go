package processor

import (
	"strings"
	"sync"

	"eplus-sqlresult/config"
	"eplus-sqlresult/database"
	"eplus-sqlresult/models"
	"eplus-sqlresult/repository"
	"eplus-sqlresult/utils"

	log "github.com/sirupsen/logrus"
)

// Result reads one EnergyPlus result database. Every call opens and closes
// its own connection; only the parsed location is kept between calls.
type Result struct {
	path    string
	repo    repository.Repository
	metrics *utils.Metrics
	workers int

	locationOnce sync.Once
	location     *models.Location
}

// Option configures a Result.
type Option func(*Result)

// WithMetrics records every query of the result in m.
func WithMetrics(m *utils.Metrics) Option {
	return func(r *Result) {
		r.metrics = m
	}
}

// WithWorkers bounds the number of outputs fetched at the same time.
func WithWorkers(n int) Option {
	return func(r *Result) {
		if n > 0 {
			r.workers = n
		}
	}
}

// RunPeriodInfo describes one environment period that holds time records.
type RunPeriodInfo struct {
	Index     int                       `json:"index"`
	Name      string                    `json:"name"`
	RunPeriod models.RunPeriod          `json:"-"`
	Frequency models.ReportingFrequency `json:"time_interval"`
}

// Open checks that path is a result database and returns a reader for it.
func Open(path string, opts ...Option) (*Result, error) {
	if err := database.ValidateResultFile(path); err != nil {
		return nil, err
	}
	r := &Result{path: path, workers: 1}
	for _, opt := range opts {
		opt(r)
	}
	r.repo = repository.NewRepository(path, r.metrics)
	log.WithField("file", path).Debug("result file opened")
	return r, nil
}

func (r *Result) Path() string {
	return r.path
}

// Location is parsed from the General summary table on first use. It is nil
// when the simulation did not request the summary reports.
func (r *Result) Location() *models.Location {
	r.locationOnce.Do(func() {
		cells, err := r.repo.QueryTabular(config.GetLocationTableName())
		if err != nil {
			log.WithField("file", r.path).Warn("location unavailable: ", err)
			return
		}
		r.location = ExtractLocation(cells)
	})
	return r.location
}

// DataByOutputName reconstructs every channel of the given outputs. Outputs
// that are not in the file give an empty collection. When the values span
// several environment periods, each period is reconstructed on its own.
func (r *Result) DataByOutputName(outputNames ...string) (Collection, error) {
	channels, err := r.repo.QueryChannels(outputNames...)
	if err != nil || len(channels) == 0 {
		return Collection{}, err
	}
	ids := channelIds(channels)

	rows, err := r.repo.QueryValues(ids)
	if err != nil || len(rows) == 0 {
		return Collection{}, err
	}

	start, err := r.repo.QueryTimeRecord(rows[0].TimeIndex)
	if err != nil {
		return Collection{}, err
	}
	end, err := r.repo.QueryTimeRecord(rows[len(rows)-1].TimeIndex)
	if err != nil {
		return Collection{}, err
	}
	if start.EnvironmentPeriodIndex == end.EnvironmentPeriodIndex {
		runPeriod, freq, err := DecodeRunPeriod(start, end)
		if err != nil {
			return Collection{}, err
		}
		return Reconstruct(channels, rows, runPeriod, freq)
	}

	log.WithFields(log.Fields{
		"outputs": strings.Join(outputNames, ", "),
		"from":    start.EnvironmentPeriodIndex,
		"to":      end.EnvironmentPeriodIndex,
	}).Debug("values span several run periods")
	periods, err := r.repo.QueryEnvironmentPeriods()
	if err != nil {
		return Collection{}, err
	}
	var all Collection
	for _, p := range periods {
		c, err := r.reconstructPeriod(channels, p.Index)
		if err != nil {
			return Collection{}, err
		}
		all.append(c)
	}
	return all, nil
}

// DataByOutputNameRunPeriod reconstructs the outputs within one environment period.
func (r *Result) DataByOutputNameRunPeriod(environmentPeriodIndex int, outputNames ...string) (Collection, error) {
	channels, err := r.repo.QueryChannels(outputNames...)
	if err != nil || len(channels) == 0 {
		return Collection{}, err
	}
	return r.reconstructPeriod(channels, environmentPeriodIndex)
}

func (r *Result) reconstructPeriod(channels []models.OutputChannel, environmentPeriodIndex int) (Collection, error) {
	rows, err := r.repo.QueryValuesForPeriod(channelIds(channels), environmentPeriodIndex)
	if err != nil || len(rows) == 0 {
		return Collection{}, err
	}
	runPeriod, freq, err := ExtractRunPeriod(r.repo, rows[0].TimeIndex, rows[len(rows)-1].TimeIndex)
	if err != nil {
		return Collection{}, err
	}
	return Reconstruct(channels, rows, runPeriod, freq)
}

// AnnualValuesByOutputName returns one list per channel: the raw values for
// outputs reported annually, otherwise the total of a cumulative series and
// the mean of any other.
func (r *Result) AnnualValuesByOutputName(outputNames ...string) ([][]float64, error) {
	c, err := r.DataByOutputName(outputNames...)
	if err != nil {
		return nil, err
	}
	values := append([][]float64{}, c.Annual...)
	for _, ts := range c.Series {
		values = append(values, []float64{ts.Aggregate()})
	}
	return values, nil
}

// TabularDataByName groups the cells of a summary table by row, in report
// order. An unknown table gives an empty table.
func (r *Result) TabularDataByName(tableName string) (models.TabularTable, error) {
	table := models.TabularTable{Name: tableName, Rows: map[string][]string{}}
	cells, err := r.repo.QueryTabular(tableName)
	if err != nil {
		return table, err
	}
	seenColumns := map[string]bool{}
	for _, c := range cells {
		if _, ok := table.Rows[c.RowName]; !ok {
			table.RowNames = append(table.RowNames, c.RowName)
		}
		table.Rows[c.RowName] = append(table.Rows[c.RowName], c.Value)
		if !seenColumns[c.ColumnName] {
			seenColumns[c.ColumnName] = true
			table.ColumnNames = append(table.ColumnNames, c.ColumnName)
		}
	}
	return table, nil
}

// TabularColumnNames lists the columns of a summary table.
func (r *Result) TabularColumnNames(tableName string) ([]string, error) {
	table, err := r.TabularDataByName(tableName)
	if err != nil {
		return nil, err
	}
	return table.ColumnNames, nil
}

// SizingPeriodsSimulated reads the Simulation Control table. A file without
// the table reports false.
func (r *Result) SizingPeriodsSimulated() (bool, error) {
	table, err := r.TabularDataByName(config.GetSimulationControlTableName())
	if err != nil {
		return false, err
	}
	for _, name := range table.RowNames {
		if strings.EqualFold(name, "Run Simulation for Sizing Periods") {
			values := table.Rows[name]
			return len(values) > 0 && strings.EqualFold(strings.TrimSpace(values[0]), "Yes"), nil
		}
	}
	return false, nil
}

// AvailableOutputs lists the names of every time series output in the file.
func (r *Result) AvailableOutputs() ([]string, error) {
	info, err := r.repo.QueryAvailableOutputs()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(info))
	for i, o := range info {
		names[i] = o.OutputName
	}
	return names, nil
}

// AvailableOutputsInfo lists every output with its object type, units and data type.
func (r *Result) AvailableOutputsInfo() ([]models.OutputInfo, error) {
	return r.repo.QueryAvailableOutputs()
}

// RunPeriodInfo decodes the run period of every environment period that has
// time records.
func (r *Result) RunPeriodInfo() ([]RunPeriodInfo, error) {
	periods, err := r.repo.QueryEnvironmentPeriods()
	if err != nil {
		return nil, err
	}
	info := []RunPeriodInfo{}
	for _, p := range periods {
		first, last, err := r.repo.QueryPeriodBounds(p.Index)
		if models.GetKind(err) == models.KindDecode {
			log.WithField("period", p.Name).Debug("no time records for run period")
			continue
		}
		if err != nil {
			return nil, err
		}
		runPeriod, freq, err := ExtractRunPeriod(r.repo, first, last)
		if err != nil {
			return nil, err
		}
		info = append(info, RunPeriodInfo{Index: p.Index, Name: p.Name, RunPeriod: runPeriod, Frequency: freq})
	}
	return info, nil
}

func (r *Result) RunPeriodNames() ([]string, error) {
	info, err := r.RunPeriodInfo()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(info))
	for i, p := range info {
		out[i] = p.Name
	}
	return out, nil
}

// RunPeriodIndex looks an environment period up by name, ignoring case.
func (r *Result) RunPeriodIndex(name string) (int, error) {
	info, err := r.RunPeriodInfo()
	if err != nil {
		return 0, err
	}
	for _, p := range info {
		if strings.EqualFold(p.Name, name) {
			return p.Index, nil
		}
	}
	e := models.NotFoundError("run period", "no run period named %q in %s", name, r.path)
	log.Error(e)
	return 0, e
}

// ReportingFrequency is the frequency of the first run period of the file.
func (r *Result) ReportingFrequency() (models.ReportingFrequency, error) {
	info, err := r.RunPeriodInfo()
	if err != nil {
		return models.ReportingFrequency{}, err
	}
	if len(info) == 0 {
		e := models.DecodeError("reporting frequency", "%s has no time records", r.path)
		log.Error(e)
		return models.ReportingFrequency{}, e
	}
	return info[0].Frequency, nil
}

func (r *Result) ZoneCoolingSizes() ([]models.ZoneSize, error) {
	return r.repo.QueryZoneSizes(config.GetCoolingLoadType())
}

func (r *Result) ZoneHeatingSizes() ([]models.ZoneSize, error) {
	return r.repo.QueryZoneSizes(config.GetHeatingLoadType())
}

func (r *Result) ComponentSizes() ([]models.ComponentSize, error) {
	return r.repo.QueryComponentSizes("")
}

// ComponentSizesByType filters the component sizes on a type such as
// "ZoneHVAC:IdealLoadsAirSystem", ignoring case.
func (r *Result) ComponentSizesByType(componentType string) ([]models.ComponentSize, error) {
	return r.repo.QueryComponentSizes(componentType)
}

func channelIds(channels []models.OutputChannel) []int {
	ids := make([]int, len(channels))
	for i, c := range channels {
		ids[i] = c.Index
	}
	return ids
}
