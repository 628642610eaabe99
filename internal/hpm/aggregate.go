package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"hpmparse/internal/table"
)

// event table column names
const (
	EventsTableName   = "HPM Events"
	ProcessField      = "Process"
	CounterField      = "HPM"
	ModeField         = "Mode"
	EventField        = "Event"
	CountsField       = "Counts"
	noEventsFoundText = "No HPM records found."
)

var (
	// ErrMalformedKey is returned when a counter key is not of the form "<label>:<selector>".
	ErrMalformedKey = errors.New("malformed HPM counter key")
	// ErrMalformedCount is returned when a counter value is not a decimal integer.
	ErrMalformedCount = errors.New("malformed HPM counter value")
)

// Aggregate decodes every record and groups the results by process and
// counter label. It also returns the decoded records as a table with one row
// per record, in record order. A nil catalog selects the default catalog.
func Aggregate(records *Records, catalog *Catalog) (*Parsed, table.TableValues, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	parsed := NewParsed()
	tv := table.NewTableValues(table.TableDefinition{
		Name:        EventsTableName,
		HasRows:     true,
		NoDataFound: noEventsFoundText,
	}, ProcessField, CounterField, ModeField, EventField, CountsField)
	for _, proc := range records.Processes() {
		for _, key := range records.Keys(proc) {
			value, _ := records.Value(proc, key)
			label, entry, err := decodeRecord(key, value, catalog)
			if err != nil {
				return nil, table.TableValues{}, errors.Wrapf(err, "process %s", proc)
			}
			if entry.Event == InvalidEvent {
				slog.Debug("selector does not map to a catalog event", slog.String("process", proc), slog.String("key", key))
			}
			parsed.Add(proc, label, entry)
			tv.AddRow(proc, label, entry.Mode, entry.Event, strconv.FormatInt(entry.Count, 10))
		}
	}
	return parsed, tv, nil
}

// decodeRecord splits the counter key into its label and selector and decodes
// the selector and count.
func decodeRecord(key, value string, catalog *Catalog) (label string, entry Entry, err error) {
	parts := strings.Split(key, ":")
	if len(parts) != 2 {
		err = errors.Wrapf(ErrMalformedKey, "%q", key)
		return
	}
	label = parts[0]
	selector, err := ParseSelector(parts[1])
	if err != nil {
		err = errors.Wrapf(err, "key %q", key)
		return
	}
	digits, ok := stripDigitSeparators(strings.TrimSpace(value))
	if !ok {
		err = errors.Wrapf(ErrMalformedCount, "key %q: %q", key, value)
		return
	}
	count, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		err = errors.Wrapf(ErrMalformedCount, "key %q: %q", key, value)
		return
	}
	entry = Entry{
		Mode:  selector.Mode(),
		Event: selector.Event(catalog),
		Count: count,
	}
	return
}
