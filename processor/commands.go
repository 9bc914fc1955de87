package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"eplus-sqlresult/config"
	"eplus-sqlresult/models"
	"eplus-sqlresult/utils"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// invocation is one parsed run of a command.
type invocation struct {
	conf    config.Configuration
	flags   *pflag.FlagSet
	args    []string
	out     io.Writer
	metrics *utils.Metrics
}

func (inv *invocation) open(path string) (*Result, error) {
	return Open(path, WithWorkers(inv.conf.WORKERS), WithMetrics(inv.metrics))
}

func (inv *invocation) writeJSON(v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error(err)
		return err
	}
	_, err = inv.out.Write(append(body, '\n'))
	return err
}

// Command is a subcommand of the command line.
type Command struct {
	Name    string
	Args    string
	Summary string
	minArgs int
	define  func(fs *pflag.FlagSet, conf config.Configuration)
	run     func(inv *invocation) error
}

var commands = []Command{
	{Name: "available-results", Args: "<result-sql>", Summary: "List the time series outputs in a result file",
		minArgs: 1, run: runAvailableResults},
	{Name: "available-results-info", Args: "<result-sql>", Summary: "List the outputs with their units and data type",
		minArgs: 1, run: runAvailableResultsInfo},
	{Name: "available-run-period-info", Args: "<result-sql>", Summary: "List the run periods of a result file",
		minArgs: 1, run: runAvailableRunPeriodInfo},
	{Name: "all-available-info", Args: "<result-sql>", Summary: "List the outputs and the run periods",
		minArgs: 1, run: runAllAvailableInfo},
	{Name: "tabular-data", Args: "<result-sql> <table-name>", Summary: "Get the rows of a summary report table",
		minArgs: 2, run: runTabularData},
	{Name: "tabular-metadata", Args: "<result-sql> <table-name>", Summary: "Get the row and column names of a summary report table",
		minArgs: 2, run: runTabularMetadata},
	{Name: "data-by-output", Args: "<result-sql> <output-name>", Summary: "Get the series of one output, or of a [a, b] list of outputs",
		minArgs: 2, run: runDataByOutput},
	{Name: "data-by-outputs", Args: "<result-sql> <output-name>...", Summary: "Get the series of several outputs, one list per output",
		minArgs: 2, run: runDataByOutputs},
	{Name: "output-csv", Args: "<result-sql> <output-name>...", Summary: "Write the series of outputs as CSV",
		minArgs: 2, define: defineUnits, run: runOutputCSV},
	{Name: "output-csv-queryable", Args: "<result-sql> <model-file> <run-period-name> <output-name>...",
		Summary: "Write room and face CSV files matched to a model", minArgs: 4, define: defineQueryable, run: runOutputCSVQueryable},
	{Name: "output-xlsx", Args: "<result-sql> <output-name>...", Summary: "Write the series of outputs as an XLSX workbook",
		minArgs: 2, define: defineUnits, run: runOutputXLSX},
	{Name: "zone-sizes", Args: "<result-sql>", Summary: "Get the cooling and heating zone sizes",
		minArgs: 1, run: runZoneSizes},
	{Name: "component-sizes", Args: "<result-sql>", Summary: "Get the HVAC component sizes",
		minArgs: 1, define: defineComponentType, run: runComponentSizes},
	{Name: "load-balance", Args: "<model-file> <result-sql>", Summary: "Get the load balance terms of a model",
		minArgs: 2, define: defineLoadBalance, run: runLoadBalance},
	{Name: "location", Args: "<result-sql>", Summary: "Get the site location of a result file",
		minArgs: 1, run: runLocation},
}

// Commands lists the subcommands sorted by name.
func Commands() []Command {
	out := append([]Command{}, commands...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Usage writes the list of subcommands.
func Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: eplus-sqlresult [--env ENV] <command> [flags] <args>\n\nCommands:\n")
	for _, c := range Commands() {
		fmt.Fprintf(w, "  %-26s %s\n      %s\n", c.Name, c.Args, c.Summary)
	}
}

// RunCommand parses args for the named command and runs it. Output goes to
// stdout unless --output-file is given.
func RunCommand(conf config.Configuration, name string, args []string, stdout io.Writer) error {
	var cmd *Command
	for i := range commands {
		if commands[i].Name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		e := models.NotFoundError("command", "unknown command %q", name)
		log.Error(e)
		return e
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	outputFile := fs.StringP("output-file", "f", "", "file to write the output to, stdout by default")
	if cmd.define != nil {
		cmd.define(fs, conf)
	}
	if err := fs.Parse(args); err != nil {
		e := models.FormatError(name, "%v", err)
		log.Error(e)
		return e
	}
	if fs.NArg() < cmd.minArgs {
		e := models.FormatError(name, "usage: %s [flags] %s", name, cmd.Args)
		log.Error(e)
		return e
	}

	out := stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Error(err)
			return err
		}
		defer f.Close()
		out = f
	}

	reg := prometheus.NewRegistry()
	inv := &invocation{conf: conf, flags: fs, args: fs.Args(), out: out, metrics: utils.NewMetrics(reg)}
	err := cmd.run(inv)
	utils.LogSummary(reg)
	return err
}

func defineUnits(fs *pflag.FlagSet, conf config.Configuration) {
	fs.Bool("ip", conf.IP_UNITS, "convert the values to IP units")
}

func defineQueryable(fs *pflag.FlagSet, conf config.Configuration) {
	defineUnits(fs, conf)
	fs.Bool("normalize", true, "divide the values by floor or surface area when the data type allows it")
	fs.StringP("folder", "d", conf.OUTPUT_FOLDER, "folder for the CSV files, the folder of the result file by default")
}

func defineComponentType(fs *pflag.FlagSet, conf config.Configuration) {
	fs.StringP("component-type", "t", "", "only output components of this type")
}

func defineLoadBalance(fs *pflag.FlagSet, conf config.Configuration) {
	fs.Bool("normalize", true, "divide the terms by the floor area of the model")
	fs.Bool("storage", true, "add the storage term closing the balance")
}

func runAvailableResults(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	outputs, err := r.AvailableOutputs()
	if err != nil {
		return err
	}
	return inv.writeJSON(outputs)
}

func outputInfoRecords(info []models.OutputInfo) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(info))
	for _, o := range info {
		rec := map[string]interface{}{
			"output_name":         o.OutputName,
			"object_type":         o.ObjectType,
			"units":               o.Units,
			"units_ip":            o.DataType.IPUnit(),
			"cumulative":          o.DataType.Cumulative,
			"normalized_units":    nil,
			"normalized_units_ip": nil,
		}
		if o.DataType.Normalizable() {
			rec["normalized_units"] = o.DataType.NormalizedUnits
			rec["normalized_units_ip"] = o.DataType.NormalizedIPUnits
		}
		records = append(records, rec)
	}
	return records
}

func runPeriodRecords(info []RunPeriodInfo) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(info))
	for _, p := range info {
		records = append(records, map[string]interface{}{
			"name":          p.Name,
			"time_interval": p.Frequency,
			"start_date":    []int{p.RunPeriod.StartMonth, p.RunPeriod.StartDay},
			"end_date":      []int{p.RunPeriod.EndMonth, p.RunPeriod.EndDay},
		})
	}
	return records
}

func runAvailableResultsInfo(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	info, err := r.AvailableOutputsInfo()
	if err != nil {
		return err
	}
	return inv.writeJSON(outputInfoRecords(info))
}

func runAvailableRunPeriodInfo(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	info, err := r.RunPeriodInfo()
	if err != nil {
		return err
	}
	return inv.writeJSON(runPeriodRecords(info))
}

func runAllAvailableInfo(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	outputs, err := r.AvailableOutputsInfo()
	if err != nil {
		return err
	}
	periods, err := r.RunPeriodInfo()
	if err != nil {
		return err
	}
	return inv.writeJSON(map[string]interface{}{
		"outputs":     outputInfoRecords(outputs),
		"run_periods": runPeriodRecords(periods),
	})
}

func runTabularData(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	table, err := r.TabularDataByName(inv.args[1])
	if err != nil {
		return err
	}
	return inv.writeJSON(table.Values())
}

func runTabularMetadata(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	table, err := r.TabularDataByName(inv.args[1])
	if err != nil {
		return err
	}
	rows, columns := table.RowNames, table.ColumnNames
	if rows == nil {
		rows = []string{}
	}
	if columns == nil {
		columns = []string{}
	}
	return inv.writeJSON(map[string]interface{}{"row_names": rows, "column_names": columns})
}

// collectionRecord is the record form of a collection: one map per series,
// followed by the raw value list of every annual channel.
func collectionRecord(c Collection) []interface{} {
	records := make([]interface{}, 0, c.Len())
	for _, ts := range c.Series {
		records = append(records, ts.ToMap())
	}
	for _, values := range c.Annual {
		records = append(records, values)
	}
	return records
}

func runDataByOutput(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	groups := ParseOutputNames(inv.args[1:2])
	c, err := r.DataByOutputName(groups[0]...)
	if err != nil {
		return err
	}
	return inv.writeJSON(collectionRecord(c))
}

func runDataByOutputs(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	collections, err := r.DataByOutputNames(ParseOutputNames(inv.args[1:]))
	if err != nil {
		return err
	}
	records := make([]interface{}, len(collections))
	for i, c := range collections {
		records[i] = collectionRecord(c)
	}
	return inv.writeJSON(records)
}

// seriesForExport flattens the series of every output argument, in IP units
// when --ip is set.
func seriesForExport(inv *invocation) ([]*models.TimeSeries, error) {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return nil, err
	}
	collections, err := r.DataByOutputNames(ParseOutputNames(inv.args[1:]))
	if err != nil {
		return nil, err
	}
	ip, _ := inv.flags.GetBool("ip")
	var series []*models.TimeSeries
	for _, c := range collections {
		for _, ts := range c.Series {
			if ip {
				ts = ts.ConvertToIP()
			}
			series = append(series, ts)
		}
	}
	return series, nil
}

func runOutputCSV(inv *invocation) error {
	series, err := seriesForExport(inv)
	if err != nil {
		return err
	}
	return WriteCSV(inv.out, series)
}

func runOutputXLSX(inv *invocation) error {
	series, err := seriesForExport(inv)
	if err != nil {
		return err
	}
	return WriteXLSX(inv.out, series)
}

func runOutputCSVQueryable(inv *invocation) error {
	resultPath := inv.args[0]
	r, err := inv.open(resultPath)
	if err != nil {
		return err
	}
	model, err := utils.ReadModelFile(inv.args[1])
	if err != nil {
		return err
	}
	periodIndex, err := r.RunPeriodIndex(inv.args[2])
	if err != nil {
		return err
	}

	ip, _ := inv.flags.GetBool("ip")
	normalize, _ := inv.flags.GetBool("normalize")
	folder, _ := inv.flags.GetString("folder")
	if folder == "" {
		folder = filepath.Dir(resultPath)
	}

	rooms, faces, err := MatchForExport(r, model, periodIndex, ParseOutputNames(inv.args[3:]), ip, normalize)
	if err != nil {
		return err
	}
	export, err := WriteQueryableCSV(folder, rooms, faces, inv.conf.SHOW_PROGRESS)
	if err != nil {
		return err
	}
	return inv.writeJSON(export)
}

func runZoneSizes(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	cooling, err := r.ZoneCoolingSizes()
	if err != nil {
		return err
	}
	heating, err := r.ZoneHeatingSizes()
	if err != nil {
		return err
	}
	return inv.writeJSON(map[string][]models.ZoneSize{"cooling": cooling, "heating": heating})
}

func runComponentSizes(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	componentType, _ := inv.flags.GetString("component-type")
	sizes, err := r.ComponentSizesByType(componentType)
	if err != nil {
		return err
	}
	return inv.writeJSON(sizes)
}

func runLoadBalance(inv *invocation) error {
	model, err := utils.ReadModelFile(inv.args[0])
	if err != nil {
		return err
	}
	r, err := inv.open(inv.args[1])
	if err != nil {
		return err
	}
	balance, err := LoadBalanceFromResult(model, r)
	if err != nil {
		return err
	}
	normalize, _ := inv.flags.GetBool("normalize")
	storage, _ := inv.flags.GetBool("storage")
	terms, err := balance.Terms(normalize, storage)
	if err != nil {
		return err
	}
	records := make([]map[string]interface{}, len(terms))
	for i, t := range terms {
		records[i] = t.ToMap()
	}
	return inv.writeJSON(records)
}

func runLocation(inv *invocation) error {
	r, err := inv.open(inv.args[0])
	if err != nil {
		return err
	}
	if loc := r.Location(); loc != nil {
		return inv.writeJSON(loc.ToMap())
	}
	return inv.writeJSON(nil)
}
