package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xelth-com/eckslots/internal/inventory"
)

func (a *app) lanesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lanes",
		Short:   "List all streets",
		Long:    `List the 52 streets with their geometry and pallet counts. Streets never opened show dashes.`,
		GroupID: "lanes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				lanes := s.Service.Lanes()
				dash := s.Service.Dashboard()
				return a.emit(cmd, lanes, func(w io.Writer) {
					fmt.Fprintln(w, renderLaneTable(lanes, dash))
				})
			})
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <lane>",
		Short: "Draw the slot map of a lane",
		Long: `Draw a lane as seen from the aisle. The exit row is on the right and the top
level on top. Lot changes are highlighted and pallets inside the FEFO alert
window are marked with "!".`,
		Example: `  slotctl show A1
  slotctl show "Street B2" --json`,
		GroupID: "lanes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				m, err := s.Service.LaneMap(ctx, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, m, func(w io.Writer) {
					fmt.Fprint(w, renderLaneMap(m))
				})
			})
		},
	}
}

func (a *app) rebuildCmd() *cobra.Command {
	var (
		capacity  int
		maxHeight int
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "rebuild <lane>",
		Short: "Regenerate a lane with new geometry",
		Long: `Regenerate every cell of a lane for a new capacity and stacking height.
A lane that still holds pallets is refused unless --force is given, which
discards its contents.`,
		Example: `  slotctl rebuild A1 --capacity 30 --height 2`,
		GroupID: "lanes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				if err := s.Service.RebuildLane(ctx, args[0], capacity, maxHeight, force); err != nil {
					return err
				}
				m, err := s.Service.LaneMap(ctx, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, m.Config, func(w io.Writer) {
					printSuccess(w, fmt.Sprintf("%s rebuilt: capacity %d, height %d", m.Lane, m.Config.Capacity, m.Config.MaxHeight))
				})
			})
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 41, "Number of pallet positions")
	cmd.Flags().IntVar(&maxHeight, "height", 3, "Maximum stacking height (1-3)")
	cmd.Flags().BoolVar(&force, "force", false, "Discard pallets still stored in the lane")
	return cmd
}

// laneArg resolves a lane argument for messages before the service is opened.
func laneArg(arg string) string {
	if name, err := inventory.ResolveLane(arg); err == nil {
		return name
	}
	return arg
}
