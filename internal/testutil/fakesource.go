// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"mywork/internal/service"
)

// Method names accepted by FakeSource.Fail and FakeSource.Calls.
const (
	MethodCurrentUser     = "CurrentUser"
	MethodQueryStories    = "QueryStories"
	MethodQueryChildTasks = "QueryChildTasks"
	MethodQueryTasks      = "QueryTasks"
)

// FakeSource is an in-memory implementation of service.Source for testing.
// Child tasks are derived from the parent links of added tasks, so the
// child query and the owned-task query always agree.
type FakeSource struct {
	mu      sync.Mutex
	user    service.User
	stories []service.Story
	tasks   []service.Task
	errs    map[string]error
	calls   map[string]int

	// Hook, if set, runs at the start of every method, outside the lock.
	// Set it before the source is shared with a retriever.
	Hook func(method string)
}

// NewFakeSource creates a FakeSource signed in as user.
func NewFakeSource(user service.User) *FakeSource {
	return &FakeSource{
		user:  user,
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

// AddStory adds a story owned by owner and returns it.
func (f *FakeSource) AddStory(id, title, owner string, state service.State) service.Story {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := service.Story{WorkItem: service.WorkItem{
		ID:     id,
		Title:  title,
		State:  state,
		Owner:  owner,
		ListID: "list",
	}}
	f.stories = append(f.stories, s)
	return s
}

// AddTask adds a task under parent and returns it.
func (f *FakeSource) AddTask(id, title, owner string, state service.State, parent service.Story) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		WorkItem: service.WorkItem{
			ID:     id,
			Title:  title,
			State:  state,
			Owner:  owner,
			ListID: parent.ListID,
		},
		Parent: parent,
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Fail makes method return err until Fail is called again with nil.
func (f *FakeSource) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// Calls returns how many times method has been called.
func (f *FakeSource) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeSource) enter(method string) error {
	if f.Hook != nil {
		f.Hook(method)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.errs[method]
}

// CurrentUser implements service.Source.
func (f *FakeSource) CurrentUser(ctx context.Context) (service.User, error) {
	if err := f.enter(MethodCurrentUser); err != nil {
		return service.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

// QueryStories implements service.Source.
func (f *FakeSource) QueryStories(ctx context.Context, filter service.Filter) ([]service.Story, error) {
	if err := f.enter(MethodQueryStories); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []service.Story
	for _, s := range f.stories {
		if filter.Matches(s.WorkItem) {
			result = append(result, s)
		}
	}
	return result, nil
}

// QueryChildTasks implements service.Source.
func (f *FakeSource) QueryChildTasks(ctx context.Context, story service.Story) ([]service.Task, error) {
	if err := f.enter(MethodQueryChildTasks); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []service.Task
	for _, t := range f.tasks {
		if t.Parent.ID == story.ID {
			result = append(result, t)
		}
	}
	return result, nil
}

// QueryTasks implements service.Source.
func (f *FakeSource) QueryTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	if err := f.enter(MethodQueryTasks); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []service.Task
	for _, t := range f.tasks {
		if filter.Matches(t.WorkItem) {
			result = append(result, t)
		}
	}
	return result, nil
}
