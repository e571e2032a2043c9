package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the model table layout for an unknown width.
func defaultColumns() []table.Column {
	return columnsForWidth(0)
}

// columnsForWidth sizes the model column to the terminal width.
func columnsForWidth(width int) []table.Column {
	modelWidth := 20
	const fixed = 12 + 8 + 8 + 12 + 10 + 10
	if width > fixed+modelWidth {
		modelWidth = min(width-fixed, 40)
	}
	return []table.Column{
		{Title: "Model", Width: modelWidth},
		{Title: "Status", Width: 12},
		{Title: "Records", Width: 8},
		{Title: "Correct", Width: 8},
		{Title: "Format Fail", Width: 12},
		{Title: "Accuracy", Width: 10},
		{Title: "Time", Width: 10},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.Model,
			formatStatus(row, noColor),
			formatCount(row, row.Records),
			formatCount(row, row.Correct),
			formatCount(row, row.FormatFailures),
			formatAccuracy(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
