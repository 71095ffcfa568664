package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/infra/leadcsv"
	"github.com/xavierca1/hecms/internal/usecase"
)

func NewExportCommand(opts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every lead as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				if outPath == "" {
					return e.ExportCSV(cmd.OutOrStdout())
				}

				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				if err := e.ExportCSV(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d leads to %s\n", okMark, len(e.ListLeads()), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, e.g. "+leadcsv.Filename+" (default stdout)")
	return cmd
}

func NewImportCommand(opts *RootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge leads from a CSV file",
		Long:  "Merge leads from a CSV file. Rows match existing leads by id, then by email.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				result, err := e.ImportCSV(cmd.Context(), f, entity.MergeMode(mode))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.Format == "json" {
					return writeJSON(out, result)
				}
				fmt.Fprintf(out, "%s Imported %d leads (%d created, %d updated)\n",
					okMark, result.Merged(), result.Created, result.Updated)
				for _, s := range result.Skipped {
					fmt.Fprintf(out, "  %s line %d skipped: %s\n", warnMark, s.Line, s.Reason)
				}
				if len(result.UnknownColumns) > 0 {
					fmt.Fprintf(out, "  %s ignored columns: %v\n", warnMark, result.UnknownColumns)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(entity.MergeOverwrite), "merge mode (overwrite|non-empty)")
	return cmd
}

func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo leads into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				n, err := e.Seed(cmd.Context())
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s Store already has leads, nothing seeded\n", warnMark)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Seeded %d demo leads\n", okMark, n)
				return nil
			})
		},
	}
}
