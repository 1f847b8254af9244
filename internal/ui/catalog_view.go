package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starmap/internal/catalog"
)

// ShowStarMsg asks the root model to fly to a star on the map.
type ShowStarMsg struct {
	Index int
}

// CatalogModel lists every star in distance order.
type CatalogModel struct {
	table  table.Model
	width  int
	height int
}

// NewCatalogModel builds the table for cat.
func NewCatalogModel(cat *catalog.Catalog) CatalogModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 24},
		{Title: "Distance (ly)", Width: 14},
		{Title: "Class", Width: 12},
		{Title: "Radius (R☉)", Width: 12},
		{Title: "Luminosity (L☉)", Width: 16},
	}

	rows := make([]table.Row, 0, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		s := cat.Stars[i]
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			s.Name,
			fmt.Sprintf("%.2f", s.DistanceLY),
			s.SpectralClass,
			fmt.Sprintf("%.3f", s.RadiusSolar),
			fmt.Sprintf("%.4g", s.LuminositySolar),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#7B2CBF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#9D4EDD")).
		Bold(false)
	t.SetStyles(s)

	return CatalogModel{table: t}
}

// SetSize fits the table to the content area.
func (m CatalogModel) SetSize(width, height int) CatalogModel {
	m.width = width
	m.height = height
	// Header row and its border take two lines.
	m.table.SetHeight(max(height-2, 1))
	return m
}

// Cursor returns the highlighted row.
func (m CatalogModel) Cursor() int {
	return m.table.Cursor()
}

// SetCursor highlights row i.
func (m CatalogModel) SetCursor(i int) CatalogModel {
	m.table.SetCursor(i)
	return m
}

// Update moves the table cursor; enter emits ShowStarMsg.
func (m CatalogModel) Update(msg tea.Msg) (CatalogModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Select) {
		idx := m.table.Cursor()
		return m, func() tea.Msg { return ShowStarMsg{Index: idx} }
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m CatalogModel) View() string {
	return m.table.View()
}
