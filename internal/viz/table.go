package viz

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/webtension/internal/metrics"
)

var sectionHeaders = []string{"Section", "Span", "Length (m)", "Final Tension (N)", "Final Strain (%)"}

// SectionRow formats one report the way the section table shows it.
func SectionRow(r metrics.ZoneReport) []string {
	label := "Section " + strconv.Itoa(r.Section)
	if r.Danger {
		label += " ⚠"
	}
	return []string{
		label,
		r.Span,
		fmt.Sprintf("%.2f", r.LengthM),
		fmt.Sprintf("%.2f", r.FinalTension),
		fmt.Sprintf("%.3f", r.FinalStrain*100),
	}
}

func RunHeader(runID, material string) string {
	return HeaderStyle.Render(fmt.Sprintf("run %s (%s)", runID, material))
}

// RenderSections draws the per-section summary. Dangerous rows are
// rendered in the Danger style.
func RenderSections(reports []metrics.ZoneReport) string {
	if len(reports) == 0 {
		return Subtle.Render("no sections: at least two stations are required")
	}

	rows := make([][]string, len(reports))
	for i, r := range reports {
		cells := SectionRow(r)
		style := Safe
		if r.Danger {
			style = Danger
		}
		for j := range cells {
			cells[j] = style.Render(cells[j])
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))).
		Headers(sectionHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("#00ffff"))
			}
			return s
		})

	return t.Render()
}
