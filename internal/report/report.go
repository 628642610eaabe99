// Package report provides functions to render tables in various formats such as txt, markdown and xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"hpmparse/internal/table"
)

const (
	FormatTxt  = "txt"
	FormatXlsx = "xlsx"
	FormatMd   = "md"
)

const NoDataFound = "No data found."

var FormatOptions = []string{FormatTxt, FormatXlsx, FormatMd}

// Create generates a report in the specified format from the provided tables.
// The function ensures that all fields of a table have the same number of
// values before generating the report.
//
// Parameters:
// - format: The desired format of the report (txt, xlsx, md).
// - allTableValues: The values for each field in each table.
//
// Returns:
// - out: The generated report as a byte slice.
// - err: An error, if any occurred during report generation.
func Create(format string, allTableValues []table.TableValues) (out []byte, err error) {
	for _, tableValues := range allTableValues {
		if err = table.Validate(tableValues); err != nil {
			return
		}
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatXlsx:
		return createXlsxReport(allTableValues)
	case FormatMd:
		return createMarkdownReport(allTableValues)
	}
	err = fmt.Errorf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format)
	return
}

func noDataMessage(tableValues table.TableValues) string {
	if tableValues.NoDataFound != "" {
		return tableValues.NoDataFound
	}
	return NoDataFound
}
