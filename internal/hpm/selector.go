package hpm

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// privilege mode enable bits, held in bits 28-31 of the selector
const (
	MachineModeEnable    = 0x8
	SupervisorModeEnable = 0x4
	UserModeEnable       = 0x1
)

// modeFlags is evaluated in order, each set bit appends its letter to the mode string
var modeFlags = []struct {
	bit    uint32
	letter string
}{
	{MachineModeEnable, "M"},
	{SupervisorModeEnable, "S"},
	{UserModeEnable, "U"},
}

// Selector is the encoded event selector written to an HPM event register.
type Selector uint32

// ErrMalformedSelector is returned when a selector is not a hexadecimal number.
var ErrMalformedSelector = errors.New("malformed event selector")

// ParseSelector parses a hexadecimal selector, with or without a 0x prefix.
// Single underscores between digits are accepted as separators, and one may
// follow the prefix, e.g., "0x_1000_0001". Values wider than 32 bits are
// truncated to their low 32 bits.
func ParseSelector(s string) (Selector, error) {
	hex := strings.TrimSpace(s)
	if strings.HasPrefix(hex, "0x") || strings.HasPrefix(hex, "0X") {
		hex = strings.TrimPrefix(hex[2:], "_")
	}
	digits, ok := stripDigitSeparators(hex)
	if !ok {
		return 0, errors.Wrapf(ErrMalformedSelector, "%q", s)
	}
	val, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedSelector, "%q", s)
	}
	return Selector(uint32(val)), nil // #nosec G115
}

// Group returns the event selector group, bits 0-3.
func (s Selector) Group() uint32 {
	return uint32(s) & 0xF
}

// Index returns the event index within the group, bits 4-7.
func (s Selector) Index() uint32 {
	return (uint32(s) >> 4) & 0xF
}

// ModeBits returns the privilege mode enable bits, bits 28-31.
func (s Selector) ModeBits() uint32 {
	return (uint32(s) >> 28) & 0xF
}

// Mode returns the privilege modes counted by the selector, e.g., "MSU",
// "U", or "" when no mode is enabled.
func (s Selector) Mode() string {
	bits := s.ModeBits()
	var mode string
	for _, flag := range modeFlags {
		if bits&flag.bit != 0 {
			mode += flag.letter
		}
	}
	return mode
}

// Event resolves the selector's event name in the catalog.
func (s Selector) Event(catalog *Catalog) string {
	return catalog.Lookup(int(s.Group()), int(s.Index()))
}

// stripDigitSeparators removes the underscores of a digit string. Underscores
// must sit between two digits, a leading sign aside.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	unsigned := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(unsigned, "_") || strings.HasSuffix(unsigned, "_") || strings.Contains(unsigned, "__") {
		return "", false
	}
	return strings.ReplaceAll(s, "_", ""), true
}
