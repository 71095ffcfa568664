// Package cli is the hecmsctl command tree: operator access to the lead
// engine using the same store configuration as the server.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xavierca1/hecms/internal/config"
	"github.com/xavierca1/hecms/internal/infra/database"
	"github.com/xavierca1/hecms/internal/usecase"
)

// OpenFunc opens the engine a command works on. The closer releases the
// underlying store.
type OpenFunc func(ctx context.Context) (*usecase.Engine, io.Closer, error)

// RootOptions holds global flags and the engine factory for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	Open   OpenFunc
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(OpenFromEnv)
}

// NewRootCommandWith builds the command tree over a custom engine factory.
func NewRootCommandWith(open OpenFunc) *cobra.Command {
	opts := &RootOptions{Open: open}

	cmd := &cobra.Command{
		Use:           "hecmsctl",
		Short:         "hecmsctl - admissions lead engine admin",
		Long:          "Inspect, import, export and seed the admissions lead store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLeadsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewAutomationCommand(opts))

	return cmd
}

// OpenFromEnv opens the engine over the store selected by the environment.
func OpenFromEnv(ctx context.Context) (*usecase.Engine, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	blobs, closer, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	engine, err := usecase.Open(ctx, blobs, usecase.Options{Strict: cfg.StrictEnums})
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return engine, closer, nil
}

// withEngine opens the engine, runs fn and releases the store.
func withEngine(cmd *cobra.Command, opts *RootOptions, fn func(e *usecase.Engine) error) error {
	engine, closer, err := opts.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(engine)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
