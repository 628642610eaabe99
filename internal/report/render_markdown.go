package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"hpmparse/internal/table"
)

func createMarkdownReport(allTableValues []table.TableValues) (out []byte, err error) {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("## %s\n\n", tableValues.Name))
		if tableValues.NumRows() == 0 {
			sb.WriteString(noDataMessage(tableValues) + "\n\n")
			continue
		}
		sb.WriteString(RenderMarkdown(tableValues))
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

// RenderMarkdown renders the table as a markdown table with the field names
// as column headings and one line per row. Pipe characters in values are
// escaped.
func RenderMarkdown(tableValues table.TableValues) string {
	numRows := tableValues.NumRows()
	cells := make([][]string, numRows)
	for row := range numRows {
		cells[row] = tableValues.Row(row)
		for i, val := range cells[row] {
			cells[row][i] = strings.ReplaceAll(val, "|", `\|`)
		}
	}
	widths := make([]int, len(tableValues.Fields))
	for i, field := range tableValues.Fields {
		widths[i] = len(field.Name)
		for row := range numRows {
			widths[i] = max(widths[i], len(cells[row][i]))
		}
	}
	var sb strings.Builder
	writeRow := func(values []string) {
		sb.WriteString("|")
		for i, val := range values {
			sb.WriteString(fmt.Sprintf(" %-*s |", widths[i], val))
		}
		sb.WriteString("\n")
	}
	names := make([]string, len(tableValues.Fields))
	for i, field := range tableValues.Fields {
		names[i] = field.Name
	}
	writeRow(names)
	sb.WriteString("|")
	for _, width := range widths {
		sb.WriteString(":" + strings.Repeat("-", width+1) + "|")
	}
	sb.WriteString("\n")
	for _, row := range cells {
		writeRow(row)
	}
	return sb.String()
}
