package retriever

import (
	"context"
	"errors"

	"mywork/internal/service"
)

// fetchAndMerge builds one ResultSet from src.
//
// Owned active stories are recorded with all of their children. Owned active
// tasks whose parent is one of those stories were already picked up by the
// child query and are skipped; the rest are recorded under their parent,
// which becomes a key even though the user does not own it.
func fetchAndMerge(ctx context.Context, src service.Source) (*service.ResultSet, error) {
	user, err := src.CurrentUser(ctx)
	if err != nil {
		return nil, asAuthError(err)
	}

	rs := service.NewResultSet()

	stories, err := src.QueryStories(ctx, service.Filter{Owner: user, State: service.StateActive})
	if err != nil {
		return nil, asQueryError("query stories", err)
	}

	owned := make(map[string]bool, len(stories))
	for _, story := range stories {
		owned[story.ID] = true
		rs.Ensure(story)

		children, err := src.QueryChildTasks(ctx, story)
		if err != nil {
			return nil, asQueryError("query child tasks", err)
		}
		for _, task := range children {
			rs.Add(story, task)
		}
	}

	tasks, err := src.QueryTasks(ctx, service.Filter{Owner: user, State: service.StateActive})
	if err != nil {
		return nil, asQueryError("query tasks", err)
	}
	for _, task := range tasks {
		if owned[task.Parent.ID] {
			continue
		}
		rs.Add(task.Parent, task)
	}

	return rs, nil
}

func asAuthError(err error) error {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return &service.AuthError{Err: err}
}

func asQueryError(op string, err error) error {
	var queryErr *service.RemoteQueryError
	if errors.As(err, &queryErr) {
		return err
	}
	return &service.RemoteQueryError{Op: op, Err: err}
}
