package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"hpmparse/internal/table"
)

const XlsxPrimarySheetName = "HPM"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

func renderXlsxTable(tableValues table.TableValues, f *excelize.File, sheetName string, row *int) {
	col := 1
	// print the table name
	tableNameStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	_ = f.SetCellValue(sheetName, cellName(col, *row), tableValues.Name)
	_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), tableNameStyle)
	*row++
	if tableValues.NumRows() == 0 {
		_ = f.SetCellValue(sheetName, cellName(col, *row), noDataMessage(tableValues))
		*row += 2
		return
	}
	renderXlsxTableValues(tableValues, f, sheetName, row)
	*row++
}

func renderXlsxTableValues(tableValues table.TableValues, f *excelize.File, sheetName string, row *int) {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	alignLeft, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
	})
	if tableValues.HasRows {
		// print the field names as column headings across the top of the table
		col := 2
		for _, field := range tableValues.Fields {
			_ = f.SetCellValue(sheetName, cellName(col, *row), field.Name)
			_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), headerStyle)
			col++
		}
		*row++
		// print the rows
		for tableRow := range tableValues.NumRows() {
			col = 2
			for _, field := range tableValues.Fields {
				_ = f.SetCellValue(sheetName, cellName(col, *row), getValueForCell(field.Values[tableRow]))
				_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), alignLeft)
				col++
			}
			*row++
		}
		return
	}
	// print the field name followed by its value
	for _, field := range tableValues.Fields {
		var fieldValue string
		if len(field.Values) > 0 {
			fieldValue = field.Values[0]
		}
		_ = f.SetCellValue(sheetName, cellName(1, *row), field.Name)
		_ = f.SetCellValue(sheetName, cellName(2, *row), getValueForCell(fieldValue))
		_ = f.SetCellStyle(sheetName, cellName(2, *row), cellName(2, *row), alignLeft)
		*row++
	}
}

func createXlsxReport(allTableValues []table.TableValues) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := XlsxPrimarySheetName
	_ = f.SetSheetName("Sheet1", sheetName)
	_ = f.SetColWidth(sheetName, "A", "A", 15)
	_ = f.SetColWidth(sheetName, "B", "L", 25)
	row := 1
	for _, tableValues := range allTableValues {
		renderXlsxTable(tableValues, f, sheetName, &row)
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if _, err = f.WriteTo(w); err != nil {
		err = fmt.Errorf("failed to write xlsx report to buffer: %v", err)
		return
	}
	if err = w.Flush(); err != nil {
		err = fmt.Errorf("failed to flush xlsx report buffer: %v", err)
		return
	}
	out = buf.Bytes()
	return
}

// getValueForCell stores integers and floats as numbers so spreadsheet
// formulas can operate on the counts.
func getValueForCell(value string) (val any) {
	if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
		val = intValue
		return
	}
	if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
		val = floatValue
		return
	}
	val = value
	return
}
