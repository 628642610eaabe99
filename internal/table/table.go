// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package table provides the column oriented table model shared by the
// decoders and the report renderers.
package table

import (
	"fmt"
)

// Field represents the values for a field (column) in a table
type Field struct {
	Name        string
	Description string // optional description of the field
	Values      []string
}

// TableDefinition defines the structure of a table in the report
type TableDefinition struct {
	Name        string
	HasRows     bool   // table is meant to be displayed in row form, i.e., a field may have multiple values
	NoDataFound string // message to display when no data is found
}

// TableValues combines the table definition with the resulting fields and their values
type TableValues struct {
	TableDefinition
	Fields []Field
}

// NewTableValues returns a table with the given field names and no values.
func NewTableValues(definition TableDefinition, fieldNames ...string) TableValues {
	tv := TableValues{
		TableDefinition: definition,
		Fields:          make([]Field, len(fieldNames)),
	}
	for i, name := range fieldNames {
		tv.Fields[i] = Field{Name: name, Values: []string{}}
	}
	return tv
}

// AddRow appends one value to each field. The number of values must match the
// number of fields.
func (tv *TableValues) AddRow(values ...string) {
	if len(values) != len(tv.Fields) {
		panic(fmt.Sprintf("table %s, expected %d values, got %d", tv.Name, len(tv.Fields), len(values)))
	}
	for i, val := range values {
		tv.Fields[i].Values = append(tv.Fields[i].Values, val)
	}
}

// NumRows returns the number of values in the first field.
func (tv TableValues) NumRows() int {
	if len(tv.Fields) == 0 {
		return 0
	}
	return len(tv.Fields[0].Values)
}

// Row returns the values of every field at the given row index.
func (tv TableValues) Row(row int) []string {
	values := make([]string, len(tv.Fields))
	for i, field := range tv.Fields {
		values[i] = field.Values[row]
	}
	return values
}

// GetFieldIndex returns the index of a field with the given name in the TableValues structure.
// Returns:
//   - int: The index of the field if found and valid, -1 otherwise
//   - error: nil if successful, an error describing the issue otherwise
func GetFieldIndex(fieldName string, tableValues TableValues) (int, error) {
	for i, field := range tableValues.Fields {
		if field.Name == fieldName {
			if len(field.Values) == 0 {
				return -1, fmt.Errorf("field [%s] does not have associated value(s)", field.Name)
			}
			return i, nil
		}
	}
	return -1, fmt.Errorf("field [%s] not found in table [%s]", fieldName, tableValues.Name)
}

// Validate checks that the table has a name, that every field has a name, and
// that all fields hold the same number of values.
func Validate(tableValues TableValues) error {
	if tableValues.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	// no field values is a valid state
	if len(tableValues.Fields) == 0 {
		return nil
	}
	for i, field := range tableValues.Fields {
		if field.Name == "" {
			return fmt.Errorf("table %s, field %d, name cannot be empty", tableValues.Name, i)
		}
	}
	numEntries := len(tableValues.Fields[0].Values)
	for i, field := range tableValues.Fields {
		if len(field.Values) != numEntries {
			return fmt.Errorf("table %s, field %d, %s, number of entries must be the same for all fields, expected %d, got %d", tableValues.Name, i, field.Name, numEntries, len(field.Values))
		}
	}
	return nil
}
