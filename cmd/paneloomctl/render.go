package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"paneloom/internal/layout"
)

var (
	monitorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	tileStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderASCII draws a compact floor plan of every monitor's active
// workspace: one box per column, tiles listed top to bottom inside it,
// the active column/tile highlighted.
func RenderASCII(l *layout.Layout) string {
	var b strings.Builder
	for _, m := range l.Outputs() {
		fmt.Fprintln(&b, monitorStyle.Render(fmt.Sprintf("[%s] workspace %d/%d", m.Output.Name(), m.ActiveIdx+1, len(m.Workspaces))))
		ws := m.ActiveWorkspace()
		if len(ws.Columns) == 0 {
			fmt.Fprintln(&b, "  (empty)")
			continue
		}
		var cols []string
		for ci, col := range ws.Columns {
			var lines []string
			for ti, t := range col.Tiles {
				label := fmt.Sprintf("win %d", t.Window.ID())
				if ci == ws.ActiveColIdx && ti == col.ActiveTileIdx {
					label = activeStyle.Render(label)
				}
				lines = append(lines, label)
			}
			cols = append(cols, tileStyle.Render(strings.Join(lines, "\n")))
		}
		fmt.Fprintln(&b, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return b.String()
}
