package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hpmparse/internal/table"
)

func eventsTable() table.TableValues {
	tv := table.NewTableValues(table.TableDefinition{Name: "HPM Events", HasRows: true}, "Process", "HPM", "Mode", "Event", "Counts")
	tv.AddRow("P1", "HPM3", "U", "Icache miss", "42")
	tv.AddRow("P1", "HPM4", "MSU", "Cycle count", "1000")
	return tv
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(eventsTable())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Process | HPM  | Mode | Event       | Counts |", lines[0])
	assert.Equal(t, "|:--------|:-----|:-----|:------------|:-------|", lines[1])
	assert.Equal(t, "| P1      | HPM3 | U    | Icache miss | 42     |", lines[2])
	assert.Equal(t, "| P1      | HPM4 | MSU  | Cycle count | 1000   |", lines[3])
}

func TestRenderMarkdownEscapesPipes(t *testing.T) {
	tv := table.NewTableValues(table.TableDefinition{Name: "t", HasRows: true}, "A")
	tv.AddRow("a|b")
	assert.Contains(t, RenderMarkdown(tv), `| a\|b |`)
}

func TestRenderText(t *testing.T) {
	out := RenderText(eventsTable())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Process   HPM    Mode   Event         Counts", lines[0])
	assert.Equal(t, "-------   ---    ----   -----         ------", lines[1])
	assert.Equal(t, "P1        HPM3   U      Icache miss   42", lines[2])
}

func TestRenderTextFields(t *testing.T) {
	tv := table.NewTableValues(table.TableDefinition{Name: "t"}, "Name", "Longer Name")
	tv.AddRow("x", "y")
	assert.Equal(t, "Name:        x\nLonger Name: y\n", RenderText(tv))
}

func TestCreateTextReportNoData(t *testing.T) {
	empty := table.NewTableValues(table.TableDefinition{Name: "Empty", HasRows: true, NoDataFound: "nothing here"}, "A")
	out, err := Create(FormatTxt, []table.TableValues{empty, eventsTable()})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Empty\n=====\nnothing here\n\nHPM Events\n==========\n"))
}

func TestCreateXlsxReport(t *testing.T) {
	out, err := Create(FormatXlsx, []table.TableValues{eventsTable()})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue(XlsxPrimarySheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "HPM Events", name)
	header, err := f.GetCellValue(XlsxPrimarySheetName, "F2")
	require.NoError(t, err)
	assert.Equal(t, "Counts", header)
	count, err := f.GetCellValue(XlsxPrimarySheetName, "F3")
	require.NoError(t, err)
	assert.Equal(t, "42", count)
}

func TestCreateInvalid(t *testing.T) {
	_, err := Create("html", []table.TableValues{eventsTable()})
	assert.Error(t, err)

	uneven := eventsTable()
	uneven.Fields[0].Values = uneven.Fields[0].Values[:1]
	_, err = Create(FormatTxt, []table.TableValues{uneven})
	assert.Error(t, err)
}

func TestGetValueForCell(t *testing.T) {
	assert.Equal(t, int64(42), getValueForCell("42"))
	assert.Equal(t, 0.5, getValueForCell("0.5"))
	assert.Equal(t, "Icache miss", getValueForCell("Icache miss"))
}
