package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/models"
)

// Catppuccin Mocha
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	cellWidth  = 8
	cellHeight = 3
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOverlay1)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	dimStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)

	cellBase = lipgloss.NewStyle().
			Width(cellWidth).
			Height(cellHeight).
			MarginRight(1).
			Align(lipgloss.Center)

	visualStyles = map[inventory.VisualStatus]lipgloss.Style{
		inventory.VisualEmpty:       cellBase.Foreground(colorOverlay1).Background(colorSurface0),
		inventory.VisualAvailable:   cellBase.Foreground(colorBase).Background(colorGreen),
		inventory.VisualReserved:    cellBase.Foreground(colorBase).Background(colorPeach),
		inventory.VisualBlocked:     cellBase.Foreground(colorSurface1).Background(colorSurface1),
		inventory.VisualLotBoundary: cellBase.Foreground(colorText).Background(colorBlue),
	}
)

// renderLaneMap draws a lane as it is seen from the aisle: top level first,
// back row on the left and the exit row on the right.
func renderLaneMap(m inventory.LaneMap) string {
	var b strings.Builder

	occupied := 0
	for _, v := range m.Cells {
		if v.Occupied() {
			occupied++
		}
	}
	b.WriteString(titleStyle.Render(m.Lane))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  capacity %d  height %d  occupied %d",
		m.Config.Capacity, m.Config.MaxHeight, occupied)))
	b.WriteString("\n\n")

	header := []string{headerStyle.Width(4).Render("")}
	for row := models.LaneRows; row >= 1; row-- {
		header = append(header, headerStyle.Width(cellWidth).MarginRight(1).Align(lipgloss.Center).Render("R"+strconv.Itoa(row)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for i, level := range inventory.Grid(m.Cells) {
		line := []string{headerStyle.Width(4).Height(cellHeight).Render(fmt.Sprintf("N%d", models.LaneMaxLevels-i))}
		for _, v := range level {
			line = append(line, renderCell(v))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(strings.Repeat(" ", 4+(cellWidth+1)*(models.LaneRows-1)) + "EXIT →"))
	b.WriteString("\n")
	return b.String()
}

func renderCell(v inventory.CellView) string {
	if v.Row == 0 {
		return cellBase.Render("")
	}
	style, ok := visualStyles[v.Visual]
	if !ok {
		style = visualStyles[inventory.VisualEmpty]
	}
	lines := strings.Split(v.Label(), "\n")
	if v.Blocked() {
		lines = []string{""}
	}
	if v.ExpiryAlert {
		lines[0] = "!" + lines[0]
		style = style.Foreground(colorRed).Bold(true)
	}
	for i, l := range lines {
		lines[i] = inventory.TruncateRunes(l, cellWidth)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderLaneTable(lanes []inventory.LaneListing, dash inventory.Dashboard) string {
	summaries := make(map[string]inventory.LaneSummary, len(dash.Lanes))
	for _, s := range dash.Lanes {
		summaries[s.Lane] = s
	}

	rows := make([][]string, 0, len(lanes))
	for _, l := range lanes {
		if !l.Built || l.Config == nil {
			rows = append(rows, []string{l.Lane, "-", "-", "-", "-", "-"})
			continue
		}
		s := summaries[l.Lane]
		rows = append(rows, []string{
			l.Lane,
			strconv.Itoa(l.Config.Capacity),
			strconv.Itoa(l.Config.MaxHeight),
			strconv.Itoa(s.Available),
			strconv.Itoa(s.Reserved),
			strconv.Itoa(s.Empty),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("LANE", "CAPACITY", "HEIGHT", "AVAILABLE", "RESERVED", "EMPTY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

func renderReport(lane string, alertDays int, rows []inventory.ReportRow) string {
	if len(rows) == 0 {
		return dimStyle.Render(lane+": no pallets stored") + "\n"
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		expiry := "-"
		if r.Expiry != nil {
			expiry = r.Expiry.Format("2006-01-02")
		}
		flag := ""
		if r.ExpiryAlert {
			flag = "EXPIRING"
		}
		if r.Visual == inventory.VisualLotBoundary {
			flag = strings.TrimSpace(flag + " LOT CHANGE")
		}
		data = append(data, []string{r.SlotID, strconv.Itoa(r.Row), strconv.Itoa(r.Level), r.Lot, expiry, string(r.Status), r.Client, flag})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("SLOT", "ROW", "LEVEL", "LOT", "EXPIRY", "STATUS", "CLIENT", "FEFO").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if rows[row].ExpiryAlert {
				return alertStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	return titleStyle.Render(lane) +
		dimStyle.Render(fmt.Sprintf("  FEFO report, alert window %d days", alertDays)) +
		"\n" + t.String() + "\n"
}

func renderDashboard(d inventory.Dashboard) string {
	pct := fmt.Sprintf("%.1f%%", d.OccupancyPercent)
	style := lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	if d.OccupancyPercent >= 90 {
		style = style.Foreground(colorRed)
	} else if d.OccupancyPercent >= 75 {
		style = style.Foreground(colorYellow)
	}
	return fmt.Sprintf("%s %d / %d pallets (%s)\n%s %d built\n",
		headerStyle.Render("Occupancy:"), d.Occupied, d.WarehouseCapacity, style.Render(pct),
		headerStyle.Render("Lanes:"), len(d.Lanes))
}
