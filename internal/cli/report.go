package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/services/printer"
)

func (a *app) reportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report <lane>",
		Short: "FEFO compliance report of a lane",
		Long: `List the pallets of a lane in slot order with their expiry alert. With
--output the report is written as a PDF instead.`,
		Example: `  slotctl report A1
  slotctl report A1 -o fefo_A1.pdf`,
		GroupID: "reports",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				lane, err := inventory.ResolveLane(args[0])
				if err != nil {
					return err
				}
				rows, err := s.Service.Report(ctx, lane)
				if err != nil {
					return err
				}

				if output != "" {
					pdf, err := printer.GenerateReportPDF(lane, s.Service.Now(), s.Service.AlertDays(), rows)
					if err != nil {
						return fmt.Errorf("failed to generate PDF: %w", err)
					}
					return a.writeFile(cmd, output, pdf)
				}

				if rows == nil {
					rows = []inventory.ReportRow{}
				}
				return a.emit(cmd, rows, func(w io.Writer) {
					fmt.Fprint(w, renderReport(lane, s.Service.AlertDays(), rows))
				})
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write a PDF to this path")
	return cmd
}

func (a *app) labelsCmd() *cobra.Command {
	var (
		output string
		cols   int
		rows   int
	)
	cmd := &cobra.Command{
		Use:     "labels <lane>",
		Short:   "Print QR slot labels of a lane as PDF",
		Example: `  slotctl labels A1 -o labels_A1.pdf --cols 3 --rows 7`,
		GroupID: "reports",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				m, err := s.Service.LaneMap(ctx, args[0])
				if err != nil {
					return err
				}
				cfg := s.Labels
				if cols > 0 {
					cfg.Cols = cols
				}
				if rows > 0 {
					cfg.Rows = rows
				}
				pdf, err := printer.GenerateLabelsPDF(cfg, printer.SlotLabels(m.Cells))
				if err != nil {
					return fmt.Errorf("failed to generate PDF: %w", err)
				}
				return a.writeFile(cmd, output, pdf)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF path")
	cmd.Flags().IntVar(&cols, "cols", 0, "Labels per row on the sheet")
	cmd.Flags().IntVar(&rows, "rows", 0, "Label rows per sheet")
	return cmd
}

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Short:   "Building-wide occupancy",
		GroupID: "reports",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *Session) error {
				d := s.Service.Dashboard()
				return a.emit(cmd, d, func(w io.Writer) {
					fmt.Fprint(w, renderDashboard(d))
				})
			})
		},
	}
}

func (a *app) writeFile(cmd *cobra.Command, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	out := map[string]interface{}{"path": path, "bytes": len(data)}
	return a.emit(cmd, out, func(w io.Writer) {
		printSuccess(w, fmt.Sprintf("wrote %s (%d bytes)", path, len(data)))
	})
}
