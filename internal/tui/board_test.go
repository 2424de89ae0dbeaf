package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mywork/internal/service"
)

type countingFetcher struct {
	calls int
}

func (f *countingFetcher) RequestFetch() { f.calls++ }

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func sample() *service.ResultSet {
	a := service.Story{WorkItem: service.WorkItem{ID: "a", Title: "Ship release"}}
	b := service.Story{WorkItem: service.WorkItem{ID: "b", Title: "Plan trip"}}
	rs := service.NewResultSet()
	rs.Add(a, service.Task{WorkItem: service.WorkItem{ID: "t1", Title: "Tag build"}, Parent: a})
	rs.Add(a, service.Task{WorkItem: service.WorkItem{ID: "t2", Title: "Write notes", State: service.StateClosed}, Parent: a})
	rs.Ensure(b)
	return rs
}

func TestBoard_RefreshRequestsFetchAndReschedules(t *testing.T) {
	f := &countingFetcher{}
	m := New(f, time.Minute)

	m, cmd := update(t, m, refreshMsg{})
	assert.Equal(t, 1, f.calls)
	assert.True(t, m.fetching)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "fetching")
}

func TestBoard_RefreshWithoutInterval(t *testing.T) {
	f := &countingFetcher{}
	m := New(f, 0)

	_, cmd := update(t, m, refreshMsg{})
	assert.Equal(t, 1, f.calls)
	assert.Nil(t, cmd)
}

func TestBoard_KeyRefresh(t *testing.T) {
	f := &countingFetcher{}
	m := New(f, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, 1, f.calls)
	assert.True(t, m.fetching)
}

func TestBoard_QuitKey(t *testing.T) {
	m := New(&countingFetcher{}, 0)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBoard_ShowsWorkitems(t *testing.T) {
	m := New(&countingFetcher{}, 0)
	m, _ = update(t, m, refreshMsg{})

	at := time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC)
	m, _ = update(t, m, WorkitemsMsg{ResultSet: sample(), At: at})

	view := m.View()
	assert.False(t, m.fetching)
	assert.Contains(t, view, "updated 09:05:07")
	assert.Contains(t, view, "Ship release")
	assert.Contains(t, view, "Tag build")
	assert.Contains(t, view, "Write notes")
	assert.Contains(t, view, "Plan trip")
	assert.Contains(t, view, "no tasks")
}

func TestBoard_ErrorKeepsLastResult(t *testing.T) {
	m := New(&countingFetcher{}, 0)
	m, _ = update(t, m, WorkitemsMsg{ResultSet: sample(), At: time.Now()})
	m, _ = update(t, m, FetchErrorMsg{Err: errors.New("token expired"), At: time.Now()})

	view := m.View()
	assert.Contains(t, view, "error: token expired")
	assert.Contains(t, view, "Ship release")

	m, _ = update(t, m, WorkitemsMsg{ResultSet: service.NewResultSet(), At: time.Now()})
	view = m.View()
	assert.NotContains(t, view, "token expired")
	assert.Contains(t, view, "no work items found")
}

func TestBoard_InitialView(t *testing.T) {
	m := New(&countingFetcher{}, 0)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "press r to fetch")
}
