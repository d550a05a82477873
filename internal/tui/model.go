package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcdonaldj/tarcache/internal/adapters/tuisvc"
	"github.com/mcdonaldj/tarcache/internal/config"
	"github.com/mcdonaldj/tarcache/internal/ports"
)

// View represents the current view state
type View int

const (
	ArchivesView View = iota
	EntriesView
)

// entriesMsg carries the result of listing an archive's members.
type entriesMsg struct {
	archive string
	entries []string
	err     error
}

// Model is the main TUI model
type Model struct {
	svc      ports.TUIService
	config   *config.Config
	view     View
	width    int
	height   int
	quitting bool

	// Archives view
	archives      []ports.TUIArchiveInfo
	archiveCursor int

	// Entries view
	selectedArchive string
	entries         []string
	entriesScroll   int

	// Status message
	statusMsg string
	statusErr bool
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates a new TUI model backed by the given service.
func NewModel(svc ports.TUIService) (*Model, error) {
	cfg, err := svc.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	m := &Model{
		svc:    svc,
		config: cfg,
		view:   ArchivesView,
	}

	if err := m.loadArchives(); err != nil {
		// An empty or missing cache directory is not fatal; show an
		// empty list instead.
		m.archives = nil
	}

	return m, nil
}

// loadArchives loads the cached archives for display
func (m *Model) loadArchives() error {
	archives, err := m.svc.ListArchives(m.config)
	if err != nil {
		return err
	}
	m.archives = archives
	if m.archiveCursor >= len(m.archives) {
		m.archiveCursor = 0
	}
	return nil
}

// listEntries returns a command that lists the selected archive's members.
func (m *Model) listEntries(archive string) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.svc.ListEntries(m.config, archive)
		return entriesMsg{archive: archive, entries: entries, err: err}
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case entriesMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("List failed: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.selectedArchive = msg.archive
		m.entries = msg.entries
		m.entriesScroll = 0
		m.view = EntriesView
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		// Clear status on any key
		m.statusMsg = ""
		m.statusErr = false

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)

		case key.Matches(msg, keys.Down):
			m.moveCursor(1)

		case key.Matches(msg, keys.Enter):
			if m.view == ArchivesView && len(m.archives) > 0 {
				return m, m.listEntries(m.archives[m.archiveCursor].Path)
			}

		case key.Matches(msg, keys.Back):
			if m.view == EntriesView {
				m.view = ArchivesView
				m.entries = nil
				m.entriesScroll = 0
			}

		case key.Matches(msg, keys.Refresh):
			if err := m.loadArchives(); err != nil {
				m.statusMsg = fmt.Sprintf("Error: %v", err)
				m.statusErr = true
			} else {
				m.statusMsg = "Refreshed"
			}
		}
	}

	return m, nil
}

// moveCursor moves the cursor or scroll offset in the active view.
func (m *Model) moveCursor(delta int) {
	switch m.view {
	case ArchivesView:
		m.archiveCursor += delta
		if m.archiveCursor < 0 {
			m.archiveCursor = 0
		}
		if m.archiveCursor >= len(m.archives) && len(m.archives) > 0 {
			m.archiveCursor = len(m.archives) - 1
		}
	case EntriesView:
		m.entriesScroll += delta
		if m.entriesScroll < 0 {
			m.entriesScroll = 0
		}
		if m.entriesScroll >= len(m.entries) && len(m.entries) > 0 {
			m.entriesScroll = len(m.entries) - 1
		}
	}
}

// View renders the current view
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case EntriesView:
		return m.renderEntriesView()
	default:
		return m.renderArchivesView()
	}
}

func (m *Model) renderArchivesView() string {
	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render(" 🗜  tarcache "))
	b.WriteString("\n\n")

	if len(m.archives) == 0 {
		b.WriteString(dimStyle.Render("  No cached archives found"))
		b.WriteString("\n")
	} else {
		// Header
		header := fmt.Sprintf("  %-32s %10s %12s %s", "ARCHIVE", "SIZE", "CODEC", "MODIFIED")
		b.WriteString(dimStyle.Render(header))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(strings.Repeat("─", 70)))
		b.WriteString("\n")

		visibleHeight := m.height - 8
		if visibleHeight < 5 {
			visibleHeight = 5
		}

		start := 0
		if m.archiveCursor >= visibleHeight {
			start = m.archiveCursor - visibleHeight + 1
		}

		for i := start; i < len(m.archives) && i < start+visibleHeight; i++ {
			a := m.archives[i]
			cursor := "  "
			style := normalStyle
			if i == m.archiveCursor {
				cursor = "▸ "
				style = selectedStyle
			}

			line := fmt.Sprintf("%s%-32s %10s %12s %s",
				cursor, truncate(a.Name, 32), formatSize(a.Size), a.Compression, relativeTime(a.ModTime))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	// Status
	b.WriteString("\n")
	if m.statusMsg != "" {
		if m.statusErr {
			b.WriteString(errorBadge.Render(m.statusMsg))
		} else {
			b.WriteString(successBadge.Render(m.statusMsg))
		}
	}
	b.WriteString("\n")

	// Help
	help := "[↑/↓] navigate  [enter] contents  [r] refresh  [q] quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) renderEntriesView() string {
	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render(fmt.Sprintf(" 📦 %s ", truncate(m.selectedArchive, 60))))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  Archive is empty"))
		b.WriteString("\n")
	} else {
		visibleHeight := m.height - 8
		if visibleHeight < 5 {
			visibleHeight = 5
		}

		end := m.entriesScroll + visibleHeight
		if end > len(m.entries) {
			end = len(m.entries)
		}

		for _, entry := range m.entries[m.entriesScroll:end] {
			b.WriteString(normalStyle.Render("  " + entry))
			b.WriteString("\n")
		}

		if len(m.entries) > visibleHeight {
			scrollInfo := fmt.Sprintf("  Entries %d-%d of %d", m.entriesScroll+1, end, len(m.entries))
			b.WriteString(dimStyle.Render(scrollInfo))
			b.WriteString("\n")
		}
	}

	// Status
	b.WriteString("\n")
	if m.statusMsg != "" {
		if m.statusErr {
			b.WriteString(errorBadge.Render(m.statusMsg))
		}
	}
	b.WriteString("\n")

	// Help
	help := "[↑/↓] scroll  [esc] back  [q] quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// Run starts the TUI
func Run() error {
	m, err := NewModel(tuisvc.New())
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Helper functions
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
