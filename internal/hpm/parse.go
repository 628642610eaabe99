package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"hpmparse/internal/util"
)

// RecordPrefix marks the log lines that carry HPM counter records.
const RecordPrefix = "HPM"

// ErrMalformedLine is returned when a record line does not have exactly three
// comma separated fields.
var ErrMalformedLine = errors.New("malformed HPM record line")

// ParseFile reads the HPM records from the log file at path. A path that does
// not exist, or is not a regular file, yields empty records and no error.
func ParseFile(path string) (*Records, error) {
	exists, err := util.FileExists(path)
	if err != nil {
		slog.Warn("log file is not a regular file", slog.String("path", path), slog.String("error", err.Error()))
		return NewRecords(), nil
	}
	if !exists {
		slog.Warn("log file does not exist", slog.String("path", path))
		return NewRecords(), nil
	}
	file, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}
	defer file.Close()
	records, err := Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	slog.Info("parsed log file", slog.String("path", path), slog.Int("processes", records.Len()))
	return records, nil
}

// Parse reads the HPM records from r. Each record line has the form
//
//	HPM<label>:<selector>, <process>, <count>
//
// and all other lines are ignored, whatever their length.
func Parse(r io.Reader) (*Records, error) {
	records := NewRecords()
	reader := bufio.NewReader(r)
	lineNum := 0
	numRecords := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "failed to read line %d", lineNum+1)
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNum++
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, RecordPrefix) {
			fields := strings.Split(line, ",")
			if len(fields) != 3 {
				return nil, errors.Wrapf(ErrMalformedLine, "line %d: expected 3 fields, found %d", lineNum, len(fields))
			}
			key := strings.TrimSpace(fields[0])
			proc := strings.TrimSpace(fields[1])
			count := strings.TrimSpace(fields[2])
			records.Set(proc, key, count)
			numRecords++
		}
		if err == io.EOF {
			break
		}
	}
	slog.Debug("read HPM records", slog.Int("lines", lineNum), slog.Int("records", numRecords))
	return records, nil
}
