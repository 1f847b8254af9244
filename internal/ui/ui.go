// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starmap/internal/logging"
	"github.com/litescript/ls-starmap/internal/render"
	"github.com/litescript/ls-starmap/internal/starmap"
	"github.com/litescript/ls-starmap/internal/version"
)

// FrameInterval is the update/draw cadence, roughly 30 frames per second.
const FrameInterval = 33 * time.Millisecond

// headerHeight is the number of terminal rows above the content area.
const headerHeight = 2

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewMap ViewMode = iota
	ViewCatalog
)

// FrameMsg advances the star map by one frame.
type FrameMsg time.Time

// Model is the root Bubble Tea model.
type Model struct {
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	log      *logging.Logger

	starMap MapModel
	catalog CatalogModel
	help    help.Model
}

// New creates a new root UI model.
func New(ctrl *starmap.Controller, style render.Style, log *logging.Logger) Model {
	if log == nil {
		log = logging.Discard()
	}
	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(lipgloss.Color("#9D4EDD"))
	h.Styles.FullKey = h.Styles.FullKey.Foreground(lipgloss.Color("#9D4EDD"))

	return Model{
		viewMode: ViewMap,
		log:      log,
		starMap:  NewMapModel(ctrl, style, log),
		catalog:  NewCatalogModel(ctrl.Catalog()),
		help:     h,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m = m.resize()
		case key.Matches(msg, keys.MapView):
			m.viewMode = ViewMap
		case key.Matches(msg, keys.ListView):
			if idx, ok := m.starMap.Controller().Selected(); ok {
				m.catalog = m.catalog.SetCursor(idx)
			}
			m.viewMode = ViewCatalog
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.MouseMsg:
		if m.viewMode == ViewMap {
			m.starMap, _ = m.starMap.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m = m.resize()
		m.log.Debug("window %dx%d", msg.Width, msg.Height)

	case FrameMsg:
		m.starMap.Controller().Tick()
		cmds = append(cmds, frameCmd())

	case ShowStarMsg:
		if m.starMap.Controller().FocusStar(msg.Index) {
			m.log.Debug("showing %s on map", m.starMap.Controller().Catalog().Stars[msg.Index].Name)
		}
		m.viewMode = ViewMap
	}

	return m, tea.Batch(cmds...)
}

// resize splits the terminal between header, content and footer.
func (m Model) resize() Model {
	if !m.ready {
		return m
	}
	footer := lipgloss.Height(m.renderFooter())
	contentHeight := max(m.height-headerHeight-footer, 1)
	m.starMap = m.starMap.SetSize(m.width, contentHeight).SetOffset(headerHeight)
	m.catalog = m.catalog.SetSize(m.width, contentHeight)
	return m
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewMap:
		m.starMap, cmd = m.starMap.Update(msg)
	case ViewCatalog:
		m.catalog, cmd = m.catalog.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewMap:
		content = m.starMap.View()
	case ViewCatalog:
		content = m.catalog.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// Map returns the star map view.
func (m Model) Map() MapModel {
	return m.starMap
}

func (m Model) renderHeader() string {
	return m.renderTitle() + "\n" + m.renderTabs()
}

func (m Model) renderTitle() string {
	title := []rune(fmt.Sprintf("  ✦ LS-STARMAP · nearby stars · v%s", version.Version))

	var b strings.Builder
	for col, r := range title {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(title)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns the blue to purple to pink title gradient at col.
func gradientColor(col, width int) string {
	xRatio := float64(col) / float64(width)

	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 139 + t*(236-139)
		g = 92 + t*(72-92)
		b = 246 + t*(153-246)
	}

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Map", "[2] Catalog"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	return m.starMap.HUD() + "\n" + "  " + m.help.View(keys)
}

func frameCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
