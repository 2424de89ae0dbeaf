package service

import "context"

// Source is the remote task service the retriever reads from.
// Implementations may block on network I/O.
type Source interface {
	// CurrentUser returns the signed-in user.
	// Returns *AuthError if there is no usable session.
	CurrentUser(ctx context.Context) (User, error)

	// QueryStories returns stories matching the filter, in service order.
	QueryStories(ctx context.Context, filter Filter) ([]Story, error)

	// QueryChildTasks returns every task parented to story, regardless of state.
	QueryChildTasks(ctx context.Context, story Story) ([]Task, error)

	// QueryTasks returns tasks matching the filter, in service order.
	// Each returned task carries its parent story.
	QueryTasks(ctx context.Context, filter Filter) ([]Task, error)
}
