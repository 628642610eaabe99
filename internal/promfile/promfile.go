// Package promfile writes decoded HPM counts and derived metrics in the
// Prometheus text exposition format, e.g., for the node exporter's textfile
// collector.
package promfile

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"hpmparse/internal/hpm"
)

// FileExtension is appended to the log file path to name the exposition file.
const FileExtension = ".prom"

const promMetricPrefix = "hpm_"

// Write registers one gauge per decoded entry and per derived metric in a
// private registry and writes the registry to path. Entries that share all
// label values are summed.
func Write(path string, parsed *hpm.Parsed, metrics []hpm.Metric) error {
	registry := prometheus.NewRegistry()
	eventCounts := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "event_count",
			Help: "HPM event count per process, counter, privilege mode and event",
		},
		[]string{"process", "counter", "mode", "event"},
	)
	derivedMetrics := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "derived_metric",
			Help: "Metrics derived from HPM event counts per process",
		},
		[]string{"process", "metric"},
	)
	for _, collector := range []prometheus.Collector{eventCounts, derivedMetrics} {
		if err := registry.Register(collector); err != nil {
			return errors.Wrap(err, "failed to register HPM gauges")
		}
	}
	numSeries := 0
	for _, proc := range parsed.Processes() {
		for _, label := range parsed.Labels(proc) {
			for _, entry := range parsed.Entries(proc, label) {
				eventCounts.WithLabelValues(proc, label, entry.Mode, entry.Event).Add(float64(entry.Count))
				numSeries++
			}
		}
	}
	for _, m := range metrics {
		derivedMetrics.WithLabelValues(m.Process, m.Name).Set(m.Value)
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return errors.Wrap(err, "failed to write prometheus textfile")
	}
	slog.Info("wrote prometheus textfile", slog.String("path", path), slog.Int("entries", numSeries), slog.Int("metrics", len(metrics)))
	return nil
}
