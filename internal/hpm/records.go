package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	json "github.com/goccy/go-json"
)

// Records holds the raw counter values read from a log, keyed by process and
// then by counter key ("<label>:<selector>"). Processes and keys are kept in
// the order they were first seen.
type Records struct {
	procs    []string
	counters map[string]*counterValues
}

type counterValues struct {
	keys   []string
	values map[string]string
}

// NewRecords returns an empty Records.
func NewRecords() *Records {
	return &Records{counters: make(map[string]*counterValues)}
}

// Set stores the value for the process and key. A later value for the same
// process and key replaces the earlier one but keeps its position.
func (r *Records) Set(proc, key, value string) {
	cv, ok := r.counters[proc]
	if !ok {
		cv = &counterValues{values: make(map[string]string)}
		r.counters[proc] = cv
		r.procs = append(r.procs, proc)
	}
	if _, ok := cv.values[key]; !ok {
		cv.keys = append(cv.keys, key)
	}
	cv.values[key] = value
}

// Len returns the number of processes with at least one record.
func (r *Records) Len() int {
	return len(r.procs)
}

// Processes returns the process identifiers in first-seen order.
func (r *Records) Processes() []string {
	return append([]string(nil), r.procs...)
}

// Keys returns the counter keys of a process in first-seen order.
func (r *Records) Keys(proc string) []string {
	cv, ok := r.counters[proc]
	if !ok {
		return nil
	}
	return append([]string(nil), cv.keys...)
}

// Value returns the counter value stored for the process and key.
func (r *Records) Value(proc, key string) (string, bool) {
	cv, ok := r.counters[proc]
	if !ok {
		return "", false
	}
	val, ok := cv.values[key]
	return val, ok
}

// Map returns the records as nested maps.
func (r *Records) Map() map[string]map[string]string {
	m := make(map[string]map[string]string, len(r.procs))
	for _, proc := range r.procs {
		cv := r.counters[proc]
		values := make(map[string]string, len(cv.values))
		for k, v := range cv.values {
			values[k] = v
		}
		m[proc] = values
	}
	return m
}

// MarshalJSON encodes the records as {"proc": {"key": "value"}}.
func (r *Records) MarshalJSON() ([]byte, error) {
	return json.MarshalWithOption(r.Map(), json.DisableHTMLEscape())
}

// Entry is a decoded counter reading.
type Entry struct {
	Mode  string
	Event string
	Count int64
}

// MarshalJSON encodes the entry as a [mode, event, count] triple.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.MarshalWithOption([]any{e.Mode, e.Event, e.Count}, json.DisableHTMLEscape())
}

// Parsed holds decoded entries keyed by process and then by counter label.
// Processes, labels and entries keep log order.
type Parsed struct {
	procs  []string
	labels map[string]*labelEntries
}

type labelEntries struct {
	labels  []string
	entries map[string][]Entry
}

// NewParsed returns an empty Parsed.
func NewParsed() *Parsed {
	return &Parsed{labels: make(map[string]*labelEntries)}
}

// Add appends an entry to the process's counter label.
func (p *Parsed) Add(proc, label string, entry Entry) {
	le, ok := p.labels[proc]
	if !ok {
		le = &labelEntries{entries: make(map[string][]Entry)}
		p.labels[proc] = le
		p.procs = append(p.procs, proc)
	}
	if _, ok := le.entries[label]; !ok {
		le.labels = append(le.labels, label)
	}
	le.entries[label] = append(le.entries[label], entry)
}

// Processes returns the process identifiers in log order.
func (p *Parsed) Processes() []string {
	return append([]string(nil), p.procs...)
}

// Labels returns the counter labels of a process in log order.
func (p *Parsed) Labels(proc string) []string {
	le, ok := p.labels[proc]
	if !ok {
		return nil
	}
	return append([]string(nil), le.labels...)
}

// Entries returns the entries recorded for the process and counter label.
func (p *Parsed) Entries(proc, label string) []Entry {
	le, ok := p.labels[proc]
	if !ok {
		return nil
	}
	return append([]Entry(nil), le.entries[label]...)
}

// Map returns the decoded entries as nested maps.
func (p *Parsed) Map() map[string]map[string][]Entry {
	m := make(map[string]map[string][]Entry, len(p.procs))
	for _, proc := range p.procs {
		le := p.labels[proc]
		entries := make(map[string][]Entry, len(le.entries))
		for label, e := range le.entries {
			entries[label] = append([]Entry(nil), e...)
		}
		m[proc] = entries
	}
	return m
}

// MarshalJSON encodes the entries as {"proc": {"label": [[mode, event, count], ...]}}.
func (p *Parsed) MarshalJSON() ([]byte, error) {
	return json.MarshalWithOption(p.Map(), json.DisableHTMLEscape())
}
