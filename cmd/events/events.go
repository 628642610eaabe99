// Package events is a subcommand of the root command. It lists the HPM event catalog.
package events

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"slices"
	"strings"

	"hpmparse/internal/app"
	"hpmparse/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const cmdName = "events"

var examples = []string{
	fmt.Sprintf("  List the built-in event catalog:          $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  List a custom event catalog as markdown:  $ %s %s --events catalog.yaml --format md", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:     cmdName,
	Short:   "List the HPM events that can be selected",
	Example: strings.Join(examples, "\n"),
	RunE:    runCmd,
	PreRunE: validateFlags,
	GroupID: "primary",
	Args:    cobra.NoArgs,
}

var flagFormat string

const flagFormatName = "format"

var formatOptions = []string{report.FormatTxt, report.FormatMd}

func init() {
	Cmd.Flags().StringVar(&flagFormat, flagFormatName, report.FormatTxt, fmt.Sprintf("choose output format from: %s", strings.Join(formatOptions, ", ")))
	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s\n\n", cmd.UseLine())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	if cmd.HasAvailableLocalFlags() {
		cmd.Printf("Flags:\n%s\n", cmd.LocalFlags().FlagUsages())
	}
	cmd.Println("Global Flags:")
	cmd.InheritedFlags().VisitAll(func(pf *pflag.Flag) {
		flagDefault := ""
		if pf.DefValue != "" && pf.DefValue != "false" {
			flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
		}
		cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
	})
	return nil
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if !slices.Contains(formatOptions, flagFormat) {
		return fmt.Errorf("format options are: %s", strings.Join(formatOptions, ", "))
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	catalog := app.FromCommand(cmd).Catalog
	tv := catalog.Table()
	if flagFormat == report.FormatMd {
		cmd.Print(report.RenderMarkdown(tv))
		return nil
	}
	cmd.Print(report.RenderText(tv))
	return nil
}
