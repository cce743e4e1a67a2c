package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular is implemented by results that can render as a table.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

// Theme defines the color scheme for tables.
type Theme struct {
	Primary lipgloss.Color // Header and border accent
	Dim     lipgloss.Color // Empty-state text
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// DefaultStyles is NewStyles(DefaultTheme).
var DefaultStyles = NewStyles(DefaultTheme)

// RenderTable renders t with rounded borders. An empty table renders a
// dimmed "(none)".
func RenderTable(s Styles, t Tabular) string {
	rows := t.TableRows()
	if len(rows) == 0 {
		return s.Help.Render("(none)")
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers(t.TableHeaders()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		}).
		String()
}

// Rows is a ready-made Tabular for ad hoc tables.
type Rows struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Data    [][]string `json:"rows" yaml:"rows"`
}

func (r Rows) TableHeaders() []string { return r.Headers }
func (r Rows) TableRows() [][]string  { return r.Data }
