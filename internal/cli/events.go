package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/usecase"
)

func NewEventsCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the event log, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				events := e.Events()
				if limit > 0 && len(events) > limit {
					events = events[len(events)-limit:]
				}

				out := cmd.OutOrStdout()
				if opts.Format == "json" {
					return writeJSON(out, events)
				}
				if len(events) == 0 {
					fmt.Fprintln(out, "No events.")
					return nil
				}
				dim := color.New(color.Faint)
				for _, ev := range events {
					fmt.Fprintf(out, "%s  %s\n", dim.Sprint(ev.At.Format("2006-01-02 15:04:05")), ev.Line)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n events")
	return cmd
}

func NewAutomationCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automation",
		Short: "Manage automation rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <type> <template>",
		Short: "Set the template sent when a trigger fires",
		Long:  "Set the template sent when a trigger fires. The only trigger is " + entity.TriggerStageChange + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				rule, err := e.UpsertAutomationRule(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %q\n", okMark, rule.Type, rule.Template)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List automation rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(e *usecase.Engine) error {
				rules := e.AutomationRules()
				out := cmd.OutOrStdout()
				if opts.Format == "json" {
					return writeJSON(out, rules)
				}
				if len(rules) == 0 {
					fmt.Fprintln(out, "No automations configured.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "TRIGGER\tTEMPLATE")
				for _, r := range rules {
					fmt.Fprintf(tw, "%s\t%s\n", r.Type, r.Template)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}
