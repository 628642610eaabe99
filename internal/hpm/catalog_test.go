package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	catalog := DefaultCatalog()
	tests := []struct {
		name     string
		group    int
		index    int
		expected string
	}{
		{"first general event", 0, 0, "Cycle count"},
		{"retired instructions", 0, 1, "Retired instruction count"},
		{"reserved slot", 0, 13, "-"},
		{"last general event", 0, 25, "JALR prediction fail"},
		{"general index out of range", 0, 26, InvalidEvent},
		{"first cache event", 1, 0, "Icache miss"},
		{"last cache event", 1, 4, "Main TLB miss"},
		{"cache index out of range", 1, 5, InvalidEvent},
		{"cache index past 4 bits", 1, 15, InvalidEvent},
		{"undefined group", 2, 0, InvalidEvent},
		{"largest group", 15, 15, InvalidEvent},
		{"negative group", -1, 0, InvalidEvent},
		{"negative index", 0, -1, InvalidEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, catalog.Lookup(tt.group, tt.index))
		})
	}
}

func TestLookupInvalidForEveryUndefinedGroup(t *testing.T) {
	catalog := DefaultCatalog()
	for group := 2; group <= 0xF; group++ {
		for index := 0; index <= 0xF; index++ {
			assert.Equal(t, InvalidEvent, catalog.Lookup(group, index), "group %d index %d", group, index)
		}
	}
	assert.Equal(t, "INVAILD", InvalidEvent)
}

func TestNewCatalogCopiesGroups(t *testing.T) {
	events := []string{"a", "b"}
	catalog := NewCatalog(CatalogGroup{Name: "g", Events: events})
	events[0] = "changed"
	assert.Equal(t, "a", catalog.Lookup(0, 0))

	groups := catalog.Groups()
	groups[0].Events[1] = "changed"
	assert.Equal(t, "b", catalog.Lookup(0, 1))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `groups:
  - name: general
    events: ["Cycle count", "Retired instruction count"]
  - name: cache
    events: ["Icache miss"]
  - name: vendor
    events: ["Vector instruction"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Retired instruction count", catalog.Lookup(0, 1))
	assert.Equal(t, "Vector instruction", catalog.Lookup(2, 0))
	assert.Equal(t, InvalidEvent, catalog.Lookup(1, 1))
	assert.Len(t, catalog.Groups(), 3)
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCatalog(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("groups: []\n"), 0644))
	_, err = LoadCatalog(empty)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("groups: [\n"), 0644))
	_, err = LoadCatalog(invalid)
	assert.Error(t, err)
}

func TestCatalogTable(t *testing.T) {
	tv := DefaultCatalog().Table()
	assert.Equal(t, 31, tv.NumRows())
	assert.Equal(t, []string{"0 (general)", "0", "0x00", "Cycle count"}, tv.Row(0))
	// group 1, index 0
	assert.Equal(t, []string{"1 (cache)", "0", "0x01", "Icache miss"}, tv.Row(26))
	// index 16 does not fit in the selector's index field
	assert.Equal(t, []string{"0 (general)", "16", "-", "Floating-point load instruction"}, tv.Row(16))
}
