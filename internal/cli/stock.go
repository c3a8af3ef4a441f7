package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xelth-com/eckslots/internal/inventory"
)

// StockResult is the --json output of the stock commands.
type StockResult struct {
	Lane      string `json:"lane"`
	Operation string `json:"operation"`
	Requested int    `json:"requested"`
	Done      int    `json:"done"`
}

func (a *app) intakeCmd() *cobra.Command {
	var (
		lot      string
		expiry   string
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "intake <lane>",
		Short: "Store pallets of a lot in a lane",
		Long: `Place pallets into the empty slots of a lane, deepest row first and bottom
level first. When the lane fills up the remaining pallets are not placed and
a warning says how many fit.`,
		Example: `  slotctl intake A1 --lot L2026-114 --expiry 2027-03-31 --qty 12`,
		GroupID: "stock",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := inventory.ParseExpiry(expiry)
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				placed, err := s.Service.Intake(ctx, args[0], lot, exp, quantity)
				if err != nil {
					return err
				}
				res := StockResult{Lane: laneArg(args[0]), Operation: "intake", Requested: quantity, Done: placed}
				return a.emit(cmd, res, func(w io.Writer) {
					switch {
					case placed == quantity:
						printSuccess(w, fmt.Sprintf("%d pallets of %s stored in %s", placed, lot, res.Lane))
					case placed == 0:
						printWarning(w, fmt.Sprintf("%s is full, nothing stored", res.Lane))
					default:
						printWarning(w, fmt.Sprintf("only %d of %d pallets of %s fit in %s", placed, quantity, lot, res.Lane))
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&lot, "lot", "", "Lot number")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Expiry date (2006-01-02 or 02/01/2006)")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "Number of pallets")
	return cmd
}

func (a *app) reserveCmd() *cobra.Command {
	var (
		client   string
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "reserve <lane>",
		Short: "Reserve available pallets for a client",
		Long: `Reserve available pallets for a client, nearest the exit first. Reserves as
many as are available up to the requested quantity.`,
		Example: `  slotctl reserve A1 --client "Acme Foods" --qty 4`,
		GroupID: "stock",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				n, err := s.Service.Reserve(ctx, args[0], client, quantity)
				if err != nil {
					return err
				}
				res := StockResult{Lane: laneArg(args[0]), Operation: "reserve", Requested: quantity, Done: n}
				return a.emit(cmd, res, func(w io.Writer) {
					if n < quantity {
						printWarning(w, fmt.Sprintf("reserved %d of %d pallets in %s for %s", n, quantity, res.Lane, client))
						return
					}
					printSuccess(w, fmt.Sprintf("reserved %d pallets in %s for %s", n, res.Lane, client))
				})
			})
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "Number of pallets")
	return cmd
}

func (a *app) dispatchCmd() *cobra.Command {
	var (
		quantity int
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "dispatch <lane>",
		Short: "Ship pallets out of a lane",
		Long: `Remove exactly --qty pallets, nearest the exit first, or nothing at all.
The default mode ships reserved pallets only; --mode direct also ships
available ones.`,
		Example: `  slotctl dispatch A1 --qty 4
  slotctl dispatch A1 --qty 2 --mode direct`,
		GroupID: "stock",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := inventory.ParseDispatchMode(mode)
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				n, err := s.Service.Dispatch(ctx, args[0], quantity, m)
				if err != nil {
					return err
				}
				res := StockResult{Lane: laneArg(args[0]), Operation: "dispatch", Requested: quantity, Done: n}
				return a.emit(cmd, res, func(w io.Writer) {
					printSuccess(w, fmt.Sprintf("dispatched %d pallets from %s", n, res.Lane))
				})
			})
		},
	}
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "Number of pallets")
	cmd.Flags().StringVar(&mode, "mode", string(inventory.DispatchReservedOnly), "RESERVED_ONLY or DIRECT")
	return cmd
}
