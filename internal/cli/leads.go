package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/usecase"
)

func NewLeadsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Inspect leads",
	}
	cmd.AddCommand(newLeadsListCommand(opts))
	return cmd
}

func newLeadsListCommand(opts *RootOptions) *cobra.Command {
	var criteria usecase.Criteria
	var sortKey, sortDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first unless --sort is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := entity.SortSpec{Key: sortKey, Dir: entity.SortDir(sortDir)}
			if errs := usecase.ValidateSortSpec(spec); len(errs) > 0 {
				return usecase.NewValidationError(errs...)
			}

			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				leads := e.QueryLeads(criteria, spec)
				out := cmd.OutOrStdout()
				if opts.Format == "json" {
					return writeJSON(out, leads)
				}

				if len(leads) == 0 {
					fmt.Fprintln(out, "No leads found.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPROGRAM\tSTAGE\tTEMP\tCREATED")
				for _, l := range leads {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						l.ID, l.FullName(), l.Email, l.Program,
						stageColor(l.Stage), temperatureColor(l.Temperature), l.CreatedAt)
				}
				tw.Flush()
				fmt.Fprintf(out, "\n%d lead(s)\n", len(leads))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&criteria.Search, "query", "q", "", "case-insensitive search over contact fields")
	cmd.Flags().StringVar(&criteria.Stage, "stage", "", "only leads in this stage")
	cmd.Flags().StringVar(&criteria.Temperature, "temperature", "", "only leads at this temperature")
	cmd.Flags().StringVar(&criteria.Program, "program", "", "only leads for this program")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort field (default createdAt)")
	cmd.Flags().StringVar(&sortDir, "dir", "", "sort direction (asc|desc)")
	return cmd
}
