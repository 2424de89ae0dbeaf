package service

// Entry is one story and the tasks recorded under it.
type Entry struct {
	Story Story
	Tasks []Task
}

// ResultSet maps stories to their tasks, in discovery order.
// A story is present even when it has no tasks, and a task ID is
// recorded at most once.
type ResultSet struct {
	entries []Entry
	index   map[string]int  // story ID -> entries position
	seen    map[string]bool // task IDs already recorded
}

// NewResultSet returns an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{
		index: make(map[string]int),
		seen:  make(map[string]bool),
	}
}

// Ensure adds story with an empty task list if it is not present yet.
func (rs *ResultSet) Ensure(story Story) {
	if _, ok := rs.index[story.ID]; ok {
		return
	}
	rs.index[story.ID] = len(rs.entries)
	rs.entries = append(rs.entries, Entry{Story: story, Tasks: []Task{}})
}

// Add appends task under story, creating the story entry if needed.
// Returns false if the task was already recorded.
func (rs *ResultSet) Add(story Story, task Task) bool {
	rs.Ensure(story)
	if rs.seen[task.ID] {
		return false
	}
	rs.seen[task.ID] = true
	i := rs.index[story.ID]
	rs.entries[i].Tasks = append(rs.entries[i].Tasks, task)
	return true
}

// Has reports whether storyID is a key.
func (rs *ResultSet) Has(storyID string) bool {
	_, ok := rs.index[storyID]
	return ok
}

// Tasks returns the tasks recorded under storyID.
func (rs *ResultSet) Tasks(storyID string) []Task {
	i, ok := rs.index[storyID]
	if !ok {
		return nil
	}
	return rs.entries[i].Tasks
}

// Entries returns the entries in discovery order.
func (rs *ResultSet) Entries() []Entry {
	return rs.entries
}

// Len returns the number of stories.
func (rs *ResultSet) Len() int {
	return len(rs.entries)
}

// TaskCount returns the number of tasks across all stories.
func (rs *ResultSet) TaskCount() int {
	return len(rs.seen)
}
