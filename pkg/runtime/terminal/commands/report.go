package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/statreport/pkg/models/domain"
)

func NewReportCmd(open Opener, reporter ResultReporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render PDF reports",
	}

	cmd.AddCommand(newSummaryCmd(open, reporter))
	cmd.AddCommand(newCodeReportCmd(open, reporter))
	cmd.AddCommand(newDetailCmd(open, reporter))

	return cmd
}

func newSummaryCmd(open Opener, reporter ResultReporter) *cobra.Command {
	var (
		out     string
		filters *filterFlags
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Render the summary report with charts, table and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := services.Documents.Summary(cmd.Context(), filters.resolve(cmd))
			if err != nil {
				return err
			}
			return writeDocument(doc, out, reporter)
		},
	}

	filters = bindFilterFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the generated document name)")

	return cmd
}

func newCodeReportCmd(open Opener, reporter ResultReporter) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "code <code>",
		Short: "Render the summary report for one activity code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := services.Documents.ByCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDocument(doc, out, reporter)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the generated document name)")

	return cmd
}

func newDetailCmd(open Opener, reporter ResultReporter) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "detail <id> [id...]",
		Short: "Render one detail page per record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := open(cmd.Context())
			if err != nil {
				return err
			}

			var doc *domain.Document
			if len(args) == 1 {
				doc, err = services.Documents.Detail(cmd.Context(), args[0])
			} else {
				doc, err = services.Documents.Details(cmd.Context(), args)
			}
			if err != nil {
				return err
			}
			return writeDocument(doc, out, reporter)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the generated document name)")

	return cmd
}

func writeDocument(doc *domain.Document, path string, reporter ResultReporter) error {
	if path == "" {
		path = doc.Name
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return reporter.DocumentWritten(doc, path)
}
