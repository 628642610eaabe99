package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"hpmparse/internal/table"
)

// summary table column names
const (
	SummaryTableName   = "Process Summary"
	CountersField      = "Counters"
	EventsField        = "Events"
	ModesField         = "Modes"
	InvalidField       = "Invalid"
	TotalCountsField   = "Total Counts"
	noProcessFoundText = "No processes found."
)

// Summarize returns one row per process with the number of counters, the
// number of distinct events, the modes counted, the number of entries that
// did not resolve to a catalog event, and the sum of all counts.
func Summarize(parsed *Parsed) table.TableValues {
	tv := table.NewTableValues(table.TableDefinition{
		Name:        SummaryTableName,
		HasRows:     true,
		NoDataFound: noProcessFoundText,
	}, ProcessField, CountersField, EventsField, ModesField, InvalidField, TotalCountsField)
	for _, proc := range parsed.Processes() {
		labels := parsed.Labels(proc)
		events := mapset.NewSet[string]()
		modes := mapset.NewSet[string]()
		invalid := 0
		var total int64
		for _, label := range labels {
			for _, entry := range parsed.Entries(proc, label) {
				if entry.Event == InvalidEvent {
					invalid++
				} else {
					events.Add(entry.Event)
				}
				if entry.Mode != "" {
					modes.Add(entry.Mode)
				}
				total += entry.Count
			}
		}
		modeList := modes.ToSlice()
		slices.Sort(modeList)
		tv.AddRow(
			proc,
			strconv.Itoa(len(labels)),
			strconv.Itoa(events.Cardinality()),
			strings.Join(modeList, ","),
			strconv.Itoa(invalid),
			strconv.FormatInt(total, 10),
		)
	}
	return tv
}

// EventTotals sums the counts of each event for a process across all of its
// counters and modes. Entries that did not resolve to a catalog event are
// skipped.
func EventTotals(parsed *Parsed, proc string) map[string]int64 {
	totals := make(map[string]int64)
	for _, label := range parsed.Labels(proc) {
		for _, entry := range parsed.Entries(proc, label) {
			if entry.Event == InvalidEvent {
				continue
			}
			totals[entry.Event] += entry.Count
		}
	}
	return totals
}
