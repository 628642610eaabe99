package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"hpmparse/internal/table"
)

func createTextReport(allTableValues []table.TableValues) (out []byte, err error) {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("%s\n", tableValues.Name))
		sb.WriteString(strings.Repeat("=", len(tableValues.Name)))
		sb.WriteString("\n")
		if tableValues.NumRows() == 0 {
			sb.WriteString(noDataMessage(tableValues) + "\n\n")
			continue
		}
		sb.WriteString(RenderText(tableValues))
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

// RenderText renders a single table as aligned plain text. Tables with rows
// print the field names as column headings, other tables print one
// "name: value" line per field.
func RenderText(tableValues table.TableValues) string {
	var sb strings.Builder
	if tableValues.HasRows {
		// find the longest item per column -- can be the field name (column header) or a value
		widths := make([]int, len(tableValues.Fields))
		for i, field := range tableValues.Fields {
			// the last column shouldn't occupy more space than the value
			if i == len(tableValues.Fields)-1 {
				continue
			}
			widths[i] = len(field.Name)
			for _, val := range field.Values {
				widths[i] = max(widths[i], len(val))
			}
		}
		columnSpacing := 3
		line := func(values []string) {
			var row strings.Builder
			for i, val := range values {
				row.WriteString(fmt.Sprintf("%-*s", widths[i]+columnSpacing, val))
			}
			sb.WriteString(strings.TrimRight(row.String(), " "))
			sb.WriteString("\n")
		}
		names := make([]string, len(tableValues.Fields))
		underlines := make([]string, len(tableValues.Fields))
		for i, field := range tableValues.Fields {
			names[i] = field.Name
			underlines[i] = strings.Repeat("-", len(field.Name))
		}
		line(names)
		line(underlines)
		for row := range tableValues.NumRows() {
			line(tableValues.Row(row))
		}
	} else {
		// get the longest field name to format the table nicely
		maxFieldNameLen := 0
		for _, field := range tableValues.Fields {
			maxFieldNameLen = max(maxFieldNameLen, len(field.Name))
		}
		// print the field names followed by their value
		for _, field := range tableValues.Fields {
			var value string
			if len(field.Values) > 0 {
				value = field.Values[0]
			}
			sb.WriteString(fmt.Sprintf("%s%-*s %s\n", field.Name, maxFieldNameLen-len(field.Name)+1, ":", value))
		}
	}
	return sb.String()
}
