package commands

import (
	"github.com/spf13/cobra"
)

func NewStatsCmd(open Opener, table TableReporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse stored stats records",
	}

	cmd.AddCommand(newListCmd(open, table))
	cmd.AddCommand(newSearchCmd(open, table))
	cmd.AddCommand(newCodesCmd(open, table))
	cmd.AddCommand(newTotalsCmd(open, table))

	return cmd
}

func newListCmd(open Opener, table TableReporter) *cobra.Command {
	var filters *filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered by text and value ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := services.Stats.List(cmd.Context(), filters.resolve(cmd))
			if err != nil {
				return err
			}
			return table.Handle(rows)
		},
	}

	filters = bindFilterFlags(cmd)

	return cmd
}

func newSearchCmd(open Opener, table TableReporter) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find records whose code or label contains text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := services.Stats.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return table.Handle(rows)
		},
	}
}

func newCodesCmd(open Opener, table TableReporter) *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List the distinct activity codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}
			codes, err := services.Stats.Codes(cmd.Context())
			if err != nil {
				return err
			}
			return table.Codes(codes)
		},
	}
}

func newTotalsCmd(open Opener, table TableReporter) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show totals over every stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}
			totals, err := services.Stats.Totals(cmd.Context())
			if err != nil {
				return err
			}
			return table.Totals(totals)
		},
	}
}
