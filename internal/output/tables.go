package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/yourusername/swayfader/internal/config"
	"github.com/yourusername/swayfader/internal/server"
	"github.com/yourusername/swayfader/internal/types"
)

// WindowRow is one window as listed by the CLI
type WindowRow struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AppID     string  `json:"appId"`
	Kind      string  `json:"kind"`
	Focused   bool    `json:"focused"`
	Output    string  `json:"output"`
	Workspace string  `json:"workspace"`
	Opacity   float64 `json:"opacity"` // Resting opacity the fader keeps it at
}

// WindowRows pairs each window with its resting opacity
func WindowRows(windows []server.WindowInfo, o config.Opacity) []WindowRow {
	rows := make([]WindowRow, 0, len(windows))
	for _, w := range windows {
		role := types.RoleInactive
		if w.Focused {
			role = types.RoleActive
		}
		rows = append(rows, WindowRow{
			ID:        w.ID,
			Name:      w.Name,
			AppID:     w.AppID,
			Kind:      w.Kind.String(),
			Focused:   w.Focused,
			Output:    w.Output,
			Workspace: w.Workspace,
			Opacity:   o.Baseline(w.Kind, role),
		})
	}
	return rows
}

// PrintWindowsTable prints windows in a table format
func PrintWindowsTable(w io.Writer, rows []WindowRow) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "App", "Kind", "Workspace", "Focused", "Opacity")

	for _, row := range rows {
		focused := ""
		if row.Focused {
			focused = "*"
		}

		table.Append(
			strconv.FormatInt(row.ID, 10),
			truncate(row.Name, 30),
			truncate(row.AppID, 20),
			row.Kind,
			row.Workspace,
			focused,
			fmt.Sprintf("%.3f", row.Opacity),
		)
	}

	table.Render()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
