package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewImportCmd(open Opener, reporter ResultReporter) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> [file...]",
		Short: "Import stats rows from .xls or .xlsx spreadsheets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := open(ctx)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range args {
				result, err := services.Importer.ImportFile(ctx, path)
				if err != nil {
					zerolog.Ctx(ctx).Error().Err(err).Str("file", path).Msg("import failed")
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				if err := reporter.ImportResult(result); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		},
	}
}
