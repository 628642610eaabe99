package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// the root command's run: parse the log, decode the records, write the result

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"hpmparse/internal/app"
	"hpmparse/internal/hpm"
	"hpmparse/internal/promfile"
	"hpmparse/internal/report"
	"hpmparse/internal/table"
	"hpmparse/internal/util"

	"github.com/spf13/cobra"
)

// output formats written in addition to the json result
const (
	formatJson = "json"
	formatTxt  = report.FormatTxt
	formatXlsx = report.FormatXlsx
	formatProm = "prom"
	formatAll  = "all"
)

var formatOptions = []string{formatAll, formatJson, formatTxt, formatXlsx, formatProm}

var (
	flagLogFile string
	flagFormat  []string
	flagMetrics string
)

const (
	flagLogFileName = "logfile"
	flagFormatName  = "format"
	flagMetricsName = "metrics"
)

// errNoRecords is returned after reporting that the log has no HPM records
var errNoRecords = errors.New("no HPM records found")

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLogFile, flagLogFileName, "", "")
	cmd.Flags().StringSliceVar(&flagFormat, flagFormatName, []string{formatJson}, "")
	cmd.Flags().StringVar(&flagMetrics, flagMetricsName, "", "")
	_ = cmd.MarkFlagRequired(flagLogFileName)
}

func getFlagGroups() []app.FlagGroup {
	var groups []app.FlagGroup
	flags := []app.Flag{
		{
			Name: flagLogFileName,
			Help: "log file of the HPM run (required)",
		},
		{
			Name: flagFormatName,
			Help: fmt.Sprintf("choose additional output format(s) from: %s, the json result is always written", strings.Join(formatOptions, ", ")),
		},
		{
			Name: flagMetricsName,
			Help: "YAML file with derived metric definitions to use instead of the built-in definitions",
		},
	}
	groups = append(groups, app.FlagGroup{
		GroupName: "Options",
		Flags:     flags,
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		if !slices.Contains(formatOptions, format) {
			return fmt.Errorf("format options are: %s", strings.Join(formatOptions, ", "))
		}
	}
	if flagMetrics != "" {
		flagMetrics = util.ExpandUser(flagMetrics)
		exists, err := util.FileExists(flagMetrics)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("metrics file %s does not exist", flagMetrics)
		}
	}
	return nil
}

// formalizeOutputFormat expands "all" and removes duplicates and the json
// format, which is always written.
func formalizeOutputFormat(outputFormat []string) []string {
	result := []string{}
	for _, format := range outputFormat {
		switch format {
		case formatAll:
			return []string{formatTxt, formatXlsx, formatProm}
		case formatJson:
			continue
		default:
			result = util.UniqueAppend(result, format)
		}
	}
	return result
}

func runCmd(cmd *cobra.Command, args []string) error {
	// flags are valid, don't print usage for errors from here on
	cmd.SilenceUsage = true
	appContext := app.FromCommand(cmd)
	// metric definitions are checked before anything is written
	definitions, err := loadMetricDefinitions()
	if err != nil {
		return err
	}
	records, err := hpm.ParseFile(flagLogFile)
	if err != nil {
		return err
	}
	if records.Len() == 0 {
		fmt.Printf("None records found in %s!\n", flagLogFile)
		return errNoRecords
	}
	parsed, eventsTable, err := hpm.Aggregate(records, appContext.Catalog)
	if err != nil {
		return err
	}
	fmt.Print(report.RenderMarkdown(eventsTable))
	resultPath := hpm.ResultPath(flagLogFile)
	if err = hpm.WriteResult(resultPath, records, parsed); err != nil {
		return err
	}
	formats := formalizeOutputFormat(flagFormat)
	if len(formats) > 0 {
		var outputPaths []string
		if outputPaths, err = writeReports(appContext, flagLogFile, parsed, eventsTable, definitions, formats); err != nil {
			return err
		}
		for _, path := range outputPaths {
			slog.Info("wrote report", slog.String("path", path))
		}
	}
	fmt.Printf("\nParsed HPM event saved into %s\n", resultPath)
	return nil
}

// loadMetricDefinitions returns the compiled derived metric definitions, the
// built-in ones unless a metrics file was given.
func loadMetricDefinitions() ([]hpm.MetricDefinition, error) {
	definitions := hpm.DefaultMetricDefinitions
	if flagMetrics != "" {
		var err error
		if definitions, err = hpm.LoadMetricDefinitions(flagMetrics); err != nil {
			return nil, err
		}
	}
	return hpm.CompileMetrics(definitions)
}

// writeReports writes the requested report formats next to the log file and
// returns their paths.
func writeReports(appContext app.Context, logFilePath string, parsed *hpm.Parsed, eventsTable table.TableValues, definitions []hpm.MetricDefinition, formats []string) ([]string, error) {
	var err error
	metrics := hpm.EvaluateMetrics(parsed, definitions)
	allTableValues := []table.TableValues{
		eventsTable,
		hpm.Summarize(parsed),
		hpm.MetricsTable(metrics),
		versionTable(appContext, logFilePath),
	}
	var paths []string
	for _, format := range formats {
		path := logFilePath + "." + format
		if format == formatProm {
			if err = promfile.Write(path, parsed, metrics); err != nil {
				return nil, err
			}
			paths = append(paths, path)
			continue
		}
		var reportBytes []byte
		if reportBytes, err = report.Create(format, allTableValues); err != nil {
			return nil, fmt.Errorf("failed to create report: %w", err)
		}
		if err = os.WriteFile(path, reportBytes, 0644); err != nil { // #nosec G306
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func versionTable(appContext app.Context, logFilePath string) table.TableValues {
	tv := table.NewTableValues(table.TableDefinition{Name: LongAppName}, "Version", "Args", "Log File", "Timestamp")
	tv.AddRow(appContext.Version, strings.Join(os.Args, " "), logFilePath, appContext.Timestamp)
	return tv
}
