package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `Nuclei SDK Build Time: Oct 19 2026, 10:00:00
CPU Frequency 16000000 Hz
HPM3:0x10000001, P1, 42
HPM4:0xf0000000 , P1 , 1000
  HPM5:0x10000001, P1, 7
HPM3:0x10000011,P2,	9
hpm6:0x10000001, P1, 5
HPM4:0xf0000000, P1, 1200
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)
	assert.Equal(t, 2, records.Len())
	assert.Equal(t, []string{"P1", "P2"}, records.Processes())
	// indented and lower case lines are not records, the later HPM4 value wins
	assert.Equal(t, []string{"HPM3:0x10000001", "HPM4:0xf0000000"}, records.Keys("P1"))
	val, ok := records.Value("P1", "HPM4:0xf0000000")
	require.True(t, ok)
	assert.Equal(t, "1200", val)
	val, ok = records.Value("P2", "HPM3:0x10000011")
	require.True(t, ok)
	assert.Equal(t, "9", val)
	_, ok = records.Value("P3", "HPM3:0x10000011")
	assert.False(t, ok)
	assert.Nil(t, records.Keys("P3"))
}

func TestParseCRLF(t *testing.T) {
	records, err := Parse(strings.NewReader("HPM3:0x10000001, P1, 42\r\nHPM4:0x80000000, P1, 5\r\n"))
	require.NoError(t, err)
	val, _ := records.Value("P1", "HPM3:0x10000001")
	assert.Equal(t, "42", val)
	assert.Equal(t, []string{"HPM3:0x10000001", "HPM4:0x80000000"}, records.Keys("P1"))
}

func TestParseLongLines(t *testing.T) {
	content := "boot " + strings.Repeat("x", 2<<20) + "\nHPM3:0x10000001, P1, 42\n" + strings.Repeat("y", 3<<20)
	records, err := Parse(strings.NewReader(content))
	require.NoError(t, err)
	val, ok := records.Value("P1", "HPM3:0x10000001")
	require.True(t, ok)
	assert.Equal(t, "42", val)

	// a long record line is read whole
	proc := "P" + strings.Repeat("1", 2<<20)
	records, err = Parse(strings.NewReader("HPM3:0x10000001, " + proc + ", 7"))
	require.NoError(t, err)
	val, ok = records.Value(proc, "HPM3:0x10000001")
	require.True(t, ok)
	assert.Equal(t, "7", val)
}

func TestParseLastLineWithoutNewline(t *testing.T) {
	records, err := Parse(strings.NewReader("boot\nHPM3:0x10000001, P1, 42"))
	require.NoError(t, err)
	val, _ := records.Value("P1", "HPM3:0x10000001")
	assert.Equal(t, "42", val)

	records, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, records.Len())
}

func TestParseNoRecords(t *testing.T) {
	records, err := Parse(strings.NewReader("boot\nhello world\n hpm is not here\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, records.Len())
	assert.Empty(t, records.Processes())
}

func TestParseMalformedLine(t *testing.T) {
	tests := []string{
		"HPM3:0x10000001, P1\n",
		"boot\nHPM3:0x10000001, P1, 42, extra\n",
		"HPM\n",
	}
	for _, content := range tests {
		_, err := Parse(strings.NewReader(content))
		assert.True(t, errors.Is(err, ErrMalformedLine), "expected ErrMalformedLine for %q, got %v", content, err)
	}
	_, err := Parse(strings.NewReader("boot\nHPM3:0x10000001, P1, 42, extra\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseFile(t *testing.T) {
	path := writeLog(t, sampleLog)
	records, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, records.Len())
}

func TestParseFileMissing(t *testing.T) {
	records, err := ParseFile(filepath.Join(t.TempDir(), "missing.log"))
	require.NoError(t, err)
	assert.Equal(t, 0, records.Len())

	// a directory is not a log file either
	records, err = ParseFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, records.Len())
}

func TestParseFileIsIdempotent(t *testing.T) {
	path := writeLog(t, sampleLog)
	first, err := ParseFile(path)
	require.NoError(t, err)
	second, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstParsed, firstTable, err := Aggregate(first, nil)
	require.NoError(t, err)
	secondParsed, secondTable, err := Aggregate(second, nil)
	require.NoError(t, err)
	assert.Equal(t, firstParsed, secondParsed)
	assert.Equal(t, firstTable, secondTable)
}
