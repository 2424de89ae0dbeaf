// Package tui renders the work item board.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mywork/internal/service"
)

// — styles ——————————————————————————————————————————————————————————————————

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	storyStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)
)

// — messages ————————————————————————————————————————————————————————————————

// WorkitemsMsg carries a successful fetch into the program.
type WorkitemsMsg struct {
	ResultSet *service.ResultSet
	At        time.Time
}

// FetchErrorMsg carries a failed fetch into the program.
type FetchErrorMsg struct {
	Err error
	At  time.Time
}

type refreshMsg struct{}

// — model ———————————————————————————————————————————————————————————————————

// Fetcher triggers a background refresh. Results arrive later as
// WorkitemsMsg or FetchErrorMsg.
type Fetcher interface {
	RequestFetch()
}

// Model is the bubbletea model for the board.
type Model struct {
	fetcher  Fetcher
	interval time.Duration
	spinner  spinner.Model

	rs       *service.ResultSet
	err      error
	fetching bool
	updated  time.Time
	width    int
}

// New returns a board that refreshes through f every interval.
// A zero interval disables periodic refresh.
func New(f Fetcher, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	return Model{
		fetcher:  f,
		interval: interval,
		spinner:  sp,
	}
}

func refreshCmd() tea.Msg {
	return refreshMsg{}
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// Init starts the spinner and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshCmd)
}

// Update handles keys, fetch results and timers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.fetching = true
			m.fetcher.RequestFetch()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		m.fetching = true
		m.fetcher.RequestFetch()
		return m, m.scheduleRefresh()

	case WorkitemsMsg:
		m.fetching = false
		m.rs = msg.ResultSet
		m.err = nil
		m.updated = msg.At
		return m, nil

	case FetchErrorMsg:
		m.fetching = false
		m.err = msg.Err
		m.updated = msg.At
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the board.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("my work"))
	b.WriteString("\n\n")

	switch {
	case m.fetching:
		b.WriteString("  " + m.spinner.View() + " fetching…\n")
	case !m.updated.IsZero():
		b.WriteString(dimStyle.Render("  updated "+m.updated.Format("15:04:05")) + "\n")
	}

	if m.err != nil {
		b.WriteString("  " + errStyle.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.rs == nil:
		if !m.fetching && m.err == nil {
			b.WriteString(dimStyle.Render("  press r to fetch") + "\n")
		}
	case m.rs.Len() == 0:
		b.WriteString(dimStyle.Render("  no work items found") + "\n")
	default:
		for _, entry := range m.rs.Entries() {
			b.WriteString("  " + storyStyle.Render(displayTitle(entry.Story.Title)) + "\n")
			if len(entry.Tasks) == 0 {
				b.WriteString(dimStyle.Render("      no tasks") + "\n")
			}
			for _, task := range entry.Tasks {
				b.WriteString(fmt.Sprintf("    %s %s\n", taskMarker(task), displayTitle(task.Title)))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func taskMarker(task service.Task) string {
	if task.State == service.StateClosed {
		return okStyle.Render("✓")
	}
	return "•"
}

func displayTitle(title string) string {
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
