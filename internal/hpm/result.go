package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ResultFileExtension is appended to the log file path to name the result file.
const ResultFileExtension = ".json"

// Result is the document written to the result file.
type Result struct {
	Records *Records `json:"records"`
	Parsed  *Parsed  `json:"parsed"`
}

// ResultPath returns the path of the result file for a log file.
func ResultPath(logFilePath string) string {
	return logFilePath + ResultFileExtension
}

// Marshal encodes the result as JSON indented by four spaces. Characters
// such as '<' and '&' are written as is.
func (r Result) Marshal() ([]byte, error) {
	return json.MarshalIndentWithOption(r, "", "    ", json.DisableHTMLEscape())
}

// WriteResult writes the records and their decoded form to path.
func WriteResult(path string, records *Records, parsed *Parsed) error {
	out, err := Result{Records: records, Parsed: parsed}.Marshal()
	if err != nil {
		return errors.Wrap(err, "failed to encode HPM result")
	}
	if err = os.WriteFile(path, out, 0644); err != nil { // #nosec G306
		return errors.Wrap(err, "failed to write HPM result")
	}
	slog.Info("wrote HPM result", slog.String("path", path), slog.Int("bytes", len(out)))
	return nil
}
