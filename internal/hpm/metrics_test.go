package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metricsLog = `HPM3:0x10000000, P1, 1000
HPM4:0x10000010, P1, 500
HPM5:0x10000001, P1, 10
HPM6:0x10000011, P1, 25
HPM3:0x10000000, P2, 0
HPM4:0x10000010, P2, 0
`

func TestEvaluateDefaultMetrics(t *testing.T) {
	parsed, _ := aggregateLog(t, metricsLog)
	definitions, err := CompileMetrics(DefaultMetricDefinitions)
	require.NoError(t, err)
	metrics := EvaluateMetrics(parsed, definitions)
	// P1 has no branch events, P2 has zero counts for every metric
	assert.Equal(t, []Metric{
		{Process: "P1", Name: "IPC", Value: 0.5},
		{Process: "P1", Name: "icache MPKI", Value: 20},
		{Process: "P1", Name: "dcache MPKI", Value: 50},
	}, metrics)
	assert.Nil(t, DefaultMetricDefinitions[0].Evaluable)
}

func TestEvaluateMetricsSkipsNonFinite(t *testing.T) {
	parsed, _ := aggregateLog(t, "HPM3:0x10000000, P1, 0\nHPM4:0x10000001, P1, 7\n")
	definitions, err := CompileMetrics([]MetricDefinition{
		{Name: "ratio", Expression: "[Icache miss] / [Cycle count]"},
		{Name: "nan", Expression: "[Cycle count] / [Cycle count]"},
		{Name: "sum", Expression: "[Icache miss] + [Cycle count]"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Metric{{Process: "P1", Name: "sum", Value: 7}}, EvaluateMetrics(parsed, definitions))
}

func TestCompileMetricsErrors(t *testing.T) {
	_, err := CompileMetrics([]MetricDefinition{{Name: "broken", Expression: "[Cycle count] +"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	_, err = CompileMetrics([]MetricDefinition{{Expression: "[Cycle count]"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")
}

func TestLoadMetricDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	content := `metrics:
  - name: cycles per instruction
    expression: "[Cycle count] / [Retired instruction count]"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	definitions, err := LoadMetricDefinitions(path)
	require.NoError(t, err)
	require.Len(t, definitions, 1)
	assert.Equal(t, "cycles per instruction", definitions[0].Name)

	definitions, err = CompileMetrics(definitions)
	require.NoError(t, err)
	parsed, _ := aggregateLog(t, metricsLog)
	metrics := EvaluateMetrics(parsed, definitions)
	require.Len(t, metrics, 1)
	assert.Equal(t, 2.0, metrics[0].Value)

	_, err = LoadMetricDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("metrics: [unclosed\n"), 0644))
	_, err = LoadMetricDefinitions(path)
	assert.Error(t, err)
}

func TestMetricsTable(t *testing.T) {
	tv := MetricsTable([]Metric{{Process: "P1", Name: "IPC", Value: 0.5}})
	assert.Equal(t, MetricsTableName, tv.Name)
	assert.Equal(t, []string{"P1", "IPC", "0.5000"}, tv.Row(0))
	assert.Equal(t, 0, MetricsTable(nil).NumRows())
}
