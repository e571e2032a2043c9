package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"evalcmp/internal/analysis"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatCount renders counts, blank until the model is loaded.
func formatCount(row ModelRow, value int) string {
	if row.Stage != analysis.StageClassified {
		return ""
	}
	return fmtInt(value)
}

// formatAccuracy renders the correct share of a loaded model.
func formatAccuracy(row ModelRow) string {
	if row.Stage != analysis.StageClassified || row.Records == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(row.Correct)*100/float64(row.Records), 'f', 1, 64) + "%"
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row ModelRow, now time.Time) string {
	if row.StartedAt.IsZero() {
		return ""
	}
	if !row.FinishedAt.IsZero() {
		return formatDuration(row.FinishedAt.Sub(row.StartedAt))
	}
	return formatDuration(now.Sub(row.StartedAt))
}

// formatStatus renders a status string for a row.
func formatStatus(row ModelRow, noColor bool) string {
	text := string(row.Stage)
	if row.Error != "" && row.Stage == analysis.StageFailed {
		text += ": " + row.Error
	}
	if noColor {
		return text
	}
	return stageStyle(row.Stage).Render(text)
}

// stageStyle selects a style for a given stage.
func stageStyle(stage analysis.Stage) lipgloss.Style {
	color := lipgloss.Color("244")
	switch stage {
	case analysis.StageClassified:
		color = lipgloss.Color("42")
	case analysis.StageLoading:
		color = lipgloss.Color("39")
	case analysis.StageMissing:
		color = lipgloss.Color("220")
	case analysis.StageFailed:
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color)
}
