// Package service defines the backend-agnostic work item model and the
// interface the retriever consumes from a remote task service.
package service

// State is the lifecycle state of a work item.
type State int

const (
	// StateActive is an open work item.
	StateActive State = iota

	// StateClosed is a completed work item.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// User identifies the signed-in account.
type User struct {
	ID    string
	Name  string
	Email string
}

// WorkItem holds the fields shared by stories and tasks.
type WorkItem struct {
	ID     string
	Title  string
	State  State
	Owner  string // User.ID of the owner
	ListID string // container the item lives in on the remote side
}

// Story is a top-level work item.
type Story struct {
	WorkItem
}

// Task is a work item with exactly one parent story.
type Task struct {
	WorkItem
	Parent Story
}

// Filter narrows story and task queries.
type Filter struct {
	Owner User
	State State
}

// Matches reports whether item satisfies the filter.
func (f Filter) Matches(item WorkItem) bool {
	return item.Owner == f.Owner.ID && item.State == f.State
}
