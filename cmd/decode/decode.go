// Package decode is a subcommand of the root command. It decodes HPM event
// selector values given on the command line.
package decode

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"hpmparse/internal/app"
	"hpmparse/internal/hpm"
	"hpmparse/internal/report"
	"hpmparse/internal/table"
	"hpmparse/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const cmdName = "decode"

var examples = []string{
	fmt.Sprintf("  Decode a selector:          $ %s %s 0x10000001", app.Name, cmdName),
	fmt.Sprintf("  Decode multiple selectors:  $ %s %s 0xd0000000 0x10000011 f0000013", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:     cmdName + " <selector>...",
	Short:   "Decode HPM event selector values",
	Example: strings.Join(examples, "\n"),
	RunE:    runCmd,
	GroupID: "primary",
	Args:    validateArgs,
}

// decode table column names
const (
	tableName     = "HPM Selectors"
	selectorField = "Selector"
	groupField    = "Group"
	indexField    = "Index"
)

func init() {
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

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one selector is required")
	}
	for _, arg := range args {
		if !util.IsValidHex(arg) {
			return fmt.Errorf("selector %s is not a hexadecimal number", arg)
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	tv, err := decodeSelectors(args, app.FromCommand(cmd).Catalog)
	if err != nil {
		return err
	}
	cmd.Print(report.RenderText(tv))
	return nil
}

func decodeSelectors(selectors []string, catalog *hpm.Catalog) (table.TableValues, error) {
	tv := table.NewTableValues(table.TableDefinition{
		Name:    tableName,
		HasRows: true,
	}, selectorField, groupField, indexField, hpm.ModeField, hpm.EventField)
	for _, arg := range selectors {
		selector, err := hpm.ParseSelector(arg)
		if err != nil {
			return table.TableValues{}, err
		}
		slog.Debug("decoded selector", slog.String("selector", arg), slog.Int("group", int(selector.Group())), slog.Int("index", int(selector.Index())), slog.Int("modeBits", int(selector.ModeBits())))
		tv.AddRow(
			fmt.Sprintf("0x%08x", uint32(selector)),
			strconv.Itoa(int(selector.Group())),
			strconv.Itoa(int(selector.Index())),
			selector.Mode(),
			selector.Event(catalog),
		)
	}
	return tv, nil
}
