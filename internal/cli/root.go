// Package cli implements slotctl, the command-line front end to the lane
// inventory. Commands work directly against the configured storage backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xelth-com/eckslots/internal/buildinfo"
	"github.com/xelth-com/eckslots/internal/config"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/services/printer"
	"github.com/xelth-com/eckslots/internal/storage"
)

// Session is an open inventory plus the settings commands need around it.
type Session struct {
	Service *inventory.Service
	Labels  printer.LabelConfig
	close   func() error
}

// Close releases the storage backend.
func (s *Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Opener creates a Session for one command invocation.
type Opener func(ctx context.Context) (*Session, error)

// OpenConfigured loads configuration from the environment and opens its backend.
func OpenConfigured(ctx context.Context) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	svc, backend, err := storage.OpenService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	labels := printer.DefaultLabelConfig()
	labels.InstanceSuffix = cfg.Labels.InstanceSuffix
	return &Session{Service: svc, Labels: labels, close: backend.Close}, nil
}

type app struct {
	open       Opener
	jsonOutput bool
}

// NewRootCommand builds the slotctl command tree around open.
func NewRootCommand(open Opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:     "slotctl",
		Version: buildinfo.Get().String(),
		Short:   "Warehouse lane slot management",
		Long: `slotctl manages pallet slots in the 52 drive-in lanes of the warehouse.

It builds lane layouts, places incoming lots, reserves pallets for clients,
dispatches them and prints FEFO reports and slot labels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddGroup(
		&cobra.Group{ID: "lanes", Title: "Lanes:"},
		&cobra.Group{ID: "stock", Title: "Stock Operations:"},
		&cobra.Group{ID: "reports", Title: "Reports:"},
	)

	root.AddCommand(
		a.lanesCmd(),
		a.showCmd(),
		a.rebuildCmd(),
		a.intakeCmd(),
		a.reserveCmd(),
		a.dispatchCmd(),
		a.reportCmd(),
		a.dashboardCmd(),
		a.labelsCmd(),
		a.settingsCmd(),
	)
	return root
}

// Execute runs slotctl against the configured backend.
func Execute() error {
	return NewRootCommand(OpenConfigured).Execute()
}

// withSession opens a session for the duration of fn.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON under --json, otherwise runs text.
func (a *app) emit(cmd *cobra.Command, v interface{}, text func(w io.Writer)) error {
	if a.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), v)
	}
	text(cmd.OutOrStdout())
	return nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
