package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// derived metrics, computed per process from the decoded event counts

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/casbin/govaluate"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"hpmparse/internal/table"
)

// MetricDefinition is a named expression over event names. Event names are
// referenced in square brackets, e.g., "[Retired instruction count] / [Cycle count]".
type MetricDefinition struct {
	Name       string                         `yaml:"name"`
	Expression string                         `yaml:"expression"`
	Evaluable  *govaluate.EvaluableExpression `yaml:"-"` // parse expression once, store here for use in metric evaluation
}

// Metric is the value of a derived metric for one process.
type Metric struct {
	Process string
	Name    string
	Value   float64
}

// DefaultMetricDefinitions are used when no metric file is given.
var DefaultMetricDefinitions = []MetricDefinition{
	{Name: "IPC", Expression: "[Retired instruction count] / [Cycle count]"},
	{Name: "branch mispredict ratio", Expression: "[Conditional branch prediction fail] / [Conditional branch]"},
	{Name: "icache MPKI", Expression: "1000 * [Icache miss] / [Retired instruction count]"},
	{Name: "dcache MPKI", Expression: "1000 * [Dcache miss] / [Retired instruction count]"},
}

type metricsFile struct {
	Metrics []MetricDefinition `yaml:"metrics"`
}

// LoadMetricDefinitions reads metric definitions from a YAML file of the form
//
//	metrics:
//	  - name: IPC
//	    expression: "[Retired instruction count] / [Cycle count]"
func LoadMetricDefinitions(path string) ([]MetricDefinition, error) {
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read metric definitions")
	}
	var file metricsFile
	if err = yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse metric definitions %s", path)
	}
	slog.Debug("loaded metric definitions", slog.String("file", path), slog.Int("metrics", len(file.Metrics)))
	return file.Metrics, nil
}

// CompileMetrics parses the expression of each definition.
func CompileMetrics(definitions []MetricDefinition) ([]MetricDefinition, error) {
	compiled := make([]MetricDefinition, 0, len(definitions))
	for _, def := range definitions {
		if def.Name == "" {
			return nil, errors.Errorf("metric with expression %q has no name", def.Expression)
		}
		evaluable, err := govaluate.NewEvaluableExpression(def.Expression)
		if err != nil {
			return nil, errors.Wrapf(err, "metric %s: invalid expression %q", def.Name, def.Expression)
		}
		def.Evaluable = evaluable
		compiled = append(compiled, def)
	}
	return compiled, nil
}

// EvaluateMetrics evaluates the compiled definitions for every process. The
// variables of an expression are the per-process event totals. A metric is
// skipped for a process that lacks one of its events or when the result is
// not a finite number.
func EvaluateMetrics(parsed *Parsed, definitions []MetricDefinition) []Metric {
	var metrics []Metric
	for _, proc := range parsed.Processes() {
		totals := EventTotals(parsed, proc)
		available := mapset.NewSetFromMapKeys(totals)
		variables := make(map[string]any, len(totals))
		for event, count := range totals {
			variables[event] = float64(count)
		}
		for _, def := range definitions {
			if def.Evaluable == nil {
				continue
			}
			required := mapset.NewSet(def.Evaluable.Vars()...)
			if !required.IsSubset(available) {
				slog.Debug("metric events not present", slog.String("process", proc), slog.String("metric", def.Name), slog.String("missing", required.Difference(available).String()))
				continue
			}
			value, err := evaluateExpression(def, variables)
			if err != nil {
				slog.Debug("failed to evaluate metric", slog.String("process", proc), slog.String("error", err.Error()))
				continue
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			metrics = append(metrics, Metric{Process: proc, Name: def.Name, Value: value})
		}
	}
	return metrics
}

func evaluateExpression(def MetricDefinition, variables map[string]any) (value float64, err error) {
	defer func() {
		if errx := recover(); errx != nil {
			err = fmt.Errorf("%v : %s : %s", errx, def.Name, def.Expression)
		}
	}()
	result, err := def.Evaluable.Evaluate(variables)
	if err != nil {
		err = fmt.Errorf("%v : %s : %s", err, def.Name, def.Expression)
		return
	}
	value, ok := result.(float64)
	if !ok {
		err = fmt.Errorf("expected a number, got %v : %s : %s", result, def.Name, def.Expression)
	}
	return
}

// metrics table column names
const (
	MetricsTableName  = "Derived Metrics"
	MetricField       = "Metric"
	ValueField        = "Value"
	noMetricFoundText = "No derived metrics could be computed."
)

// MetricsTable returns the metrics as a table with one row per process and metric.
func MetricsTable(metrics []Metric) table.TableValues {
	tv := table.NewTableValues(table.TableDefinition{
		Name:        MetricsTableName,
		HasRows:     true,
		NoDataFound: noMetricFoundText,
	}, ProcessField, MetricField, ValueField)
	for _, m := range metrics {
		tv.AddRow(m.Process, m.Name, strconv.FormatFloat(m.Value, 'f', 4, 64))
	}
	return tv
}
