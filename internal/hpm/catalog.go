// Package hpm decodes hardware performance monitor (HPM) counter records
// found in simulator and board run logs.
package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"hpmparse/internal/table"
)

// InvalidEvent is returned by Lookup when the selector group or event index
// is not defined in the catalog. The spelling is kept for compatibility with
// existing result files.
const InvalidEvent = "INVAILD"

// CatalogGroup is one selector group of the event catalog.
type CatalogGroup struct {
	Name   string   `yaml:"name"`
	Events []string `yaml:"events"`
}

// Catalog maps a (selector group, event index) pair to an event name.
// A Catalog is never modified after construction.
type Catalog struct {
	groups []CatalogGroup
}

var defaultCatalog = NewCatalog(
	CatalogGroup{
		Name: "general",
		Events: []string{
			"Cycle count",
			"Retired instruction count",
			"Integer load instruction (includes LR)",
			"Integer store instruction (includes SC)",
			"Atomic memory operation (do not include LR and SC)",
			"System instruction",
			"Integer computational instruction(excluding multiplication/division/remainder)",
			"Conditional branch",
			"Taken conditional branch",
			"JAL instruction",
			"JALR instruction",
			"Return instruction",
			"Control transfer instruction (CBR+JAL+JALR)",
			"-", // reserved
			"Integer multiplication instruction",
			"Integer division/remainder instruction",
			"Floating-point load instruction",
			"Floating-point store instruction",
			"Floating-point addition/subtraction",
			"Floating-point multiplication",
			"Floating-point fused multiply-add (FMADD, FMSUB, FNMSUB, FNMADD)",
			"Floating-point division or square-root",
			"Other floating-point instruction",
			"Conditional branch prediction fail",
			"JAL prediction fail",
			"JALR prediction fail",
		},
	},
	CatalogGroup{
		Name: "cache",
		Events: []string{
			"Icache miss",
			"Dcache miss",
			"ITLB miss",
			"DTLB miss",
			"Main TLB miss",
		},
	},
)

// DefaultCatalog returns the built-in event catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NewCatalog creates a catalog from the given groups. The group slices are
// copied so later changes by the caller do not leak into the catalog.
func NewCatalog(groups ...CatalogGroup) *Catalog {
	c := &Catalog{groups: make([]CatalogGroup, len(groups))}
	for i, g := range groups {
		c.groups[i] = CatalogGroup{
			Name:   g.Name,
			Events: append([]string(nil), g.Events...),
		}
	}
	return c
}

// Lookup returns the event name for the given selector group and index, or
// InvalidEvent when either is out of range.
func (c *Catalog) Lookup(group, index int) string {
	if group < 0 || group >= len(c.groups) {
		return InvalidEvent
	}
	events := c.groups[group].Events
	if index < 0 || index >= len(events) {
		return InvalidEvent
	}
	return events[index]
}

// Groups returns a copy of the catalog's groups.
func (c *Catalog) Groups() []CatalogGroup {
	return NewCatalog(c.groups...).groups
}

type catalogFile struct {
	Groups []CatalogGroup `yaml:"groups"`
}

// LoadCatalog reads an event catalog from a YAML file of the form
//
//	groups:
//	  - name: general
//	    events: ["Cycle count", ...]
//	  - name: cache
//	    events: ["Icache miss", ...]
//
// Group order defines the selector group number.
func LoadCatalog(path string) (*Catalog, error) {
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read event catalog")
	}
	var file catalogFile
	if err = yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse event catalog %s", path)
	}
	if len(file.Groups) == 0 {
		return nil, errors.Errorf("event catalog %s defines no groups", path)
	}
	for i, g := range file.Groups {
		if len(g.Events) == 0 {
			slog.Warn("event catalog group has no events", slog.String("file", path), slog.Int("group", i), slog.String("name", g.Name))
		}
	}
	slog.Debug("loaded event catalog", slog.String("file", path), slog.Int("groups", len(file.Groups)))
	return NewCatalog(file.Groups...), nil
}

// Catalog table column names
const (
	CatalogTableName      = "HPM Event Catalog"
	CatalogGroupField     = "Group"
	CatalogIndexField     = "Index"
	CatalogSelectorField  = "Selector"
	CatalogEventNameField = "Event"
)

// Table lists every catalog entry with the selector bits (group and index)
// that select it.
func (c *Catalog) Table() table.TableValues {
	tv := table.NewTableValues(table.TableDefinition{
		Name:        CatalogTableName,
		HasRows:     true,
		NoDataFound: "The event catalog is empty.",
	}, CatalogGroupField, CatalogIndexField, CatalogSelectorField, CatalogEventNameField)
	for group, g := range c.groups {
		for index, event := range g.Events {
			groupLabel := strconv.Itoa(group)
			if g.Name != "" {
				groupLabel = fmt.Sprintf("%d (%s)", group, g.Name)
			}
			// entries past the 4-bit index field cannot be selected
			selector := "-"
			if group <= 0xF && index <= 0xF {
				selector = fmt.Sprintf("0x%02x", index<<4|group)
			}
			tv.AddRow(groupLabel, strconv.Itoa(index), selector, event)
		}
	}
	return tv
}
