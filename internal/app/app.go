// Package app defines application-wide types, constants, and context
// that are shared across multiple commands.
package app

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hpmparse/internal/hpm"
)

// Name is the name of the application executable.
var Name = filepath.Base(os.Args[0])

// Context represents the application context that can be accessed from all commands.
type Context struct {
	Timestamp   string       // Timestamp is the timestamp when the application was started.
	LogFilePath string       // LogFilePath is the path to the application's own log file, if any.
	Version     string       // Version is the version of the application.
	Debug       bool         // Debug is true if the application is running in debug mode.
	Catalog     *hpm.Catalog // Catalog is the event catalog selected for this run.
}

// Flag names for flags defined in the root command, but sometimes used in other commands.
const (
	FlagDebugName     = "debug"
	FlagSyslogName    = "syslog"
	FlagLogStdOutName = "log-stdout"
	FlagEventsName    = "events"
)

// Flag represents a command-line flag with its name and help text.
type Flag struct {
	Name string
	Help string
}

// FlagGroup represents a group of related flags with a group name.
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// FromCommand returns the application context stored in the root command's
// context. The zero Context, with the default catalog, is returned when none
// was stored.
func FromCommand(cmd *cobra.Command) Context {
	if ctx := cmd.Root().Context(); ctx != nil {
		if appContext, ok := ctx.Value(Context{}).(Context); ok {
			return appContext
		}
	}
	return Context{Catalog: hpm.DefaultCatalog()}
}
