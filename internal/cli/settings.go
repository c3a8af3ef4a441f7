package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

func (a *app) settingsCmd() *cobra.Command {
	var (
		warehouseCapacity int
		defaultCapacity   int
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change warehouse settings",
		Long: `Without flags, print the warehouse settings. --warehouse-capacity sets the
building total used for occupancy; --default-capacity sets the capacity of
lanes opened for the first time.`,
		Example: `  slotctl settings
  slotctl settings --warehouse-capacity 2200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				changed := cmd.Flags().Changed("warehouse-capacity") || cmd.Flags().Changed("default-capacity")
				if changed {
					if err := s.Service.UpdateSettings(ctx, warehouseCapacity, defaultCapacity); err != nil {
						return err
					}
				}
				settings := s.Service.Settings()
				return a.emit(cmd, settings, func(w io.Writer) {
					if changed {
						printSuccess(w, "settings saved")
					}
					printf(w, "%s %d\n", headerStyle.Render("Warehouse capacity:"), settings.WarehouseCapacity)
					printf(w, "%s %d\n", headerStyle.Render("Default lane capacity:"), settings.DefaultCapacity)
					printf(w, "%s %d days\n", headerStyle.Render("Expiry alert window:"), s.Service.AlertDays())
				})
			})
		},
	}
	cmd.Flags().IntVar(&warehouseCapacity, "warehouse-capacity", 0, "Total pallet capacity of the building")
	cmd.Flags().IntVar(&defaultCapacity, "default-capacity", 0, "Capacity of newly opened lanes")
	return cmd
}
