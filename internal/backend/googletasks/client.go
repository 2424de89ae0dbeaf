// Package googletasks implements service.Source on top of the Google Tasks API.
//
// Top-level tasks are stories and subtasks are tasks of the story named by
// their parent field. A Google Tasks account has a single owner, so every
// item is owned by the signed-in user.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"mywork/internal/config"
	"mywork/internal/service"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the default timeout for a single query.
	APITimeout = 10 * time.Second

	// Status values used by the Tasks API.
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Scopes are the OAuth scopes the client needs.
var Scopes = []string{
	tasks.TasksReadonlyScope,
	oauth2api.UserinfoEmailScope,
	oauth2api.UserinfoProfileScope,
}

// Client implements service.Source using the Google Tasks API.
type Client struct {
	svc     *tasks.Service
	users   *oauth2api.Service
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, credentials(fmt.Errorf("failed to read oauth_client.json: %w", err))
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scopes...)
	if err != nil {
		return nil, credentials(fmt.Errorf("invalid oauth_client.json: %w", err))
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, credentials(fmt.Errorf("failed to read token.json: %w", err))
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, credentials(fmt.Errorf("invalid token.json: %w", err))
	}

	// The token source outlives ctx: the worker keeps using it after the
	// command that built the client has moved on.
	tokenSource := oauthConfig.TokenSource(context.Background(), &token)
	httpClient := oauth2.NewClient(context.Background(), tokenSource)

	c, err := newClient(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	if cfg.Settings.APITimeout > 0 {
		c.timeout = cfg.Settings.APITimeout
	}
	if cfg.Logger != nil {
		c.logger = cfg.Logger.With("component", "googletasks")
	}
	return c, nil
}

// credentialsError tags errors from reading the stored credentials so the
// dispatcher can tell them from transport failures.
type credentialsError struct {
	err error
}

func credentials(err error) error {
	return &credentialsError{err: err}
}

func (e *credentialsError) Error() string        { return e.err.Error() }
func (e *credentialsError) Unwrap() error        { return e.err }
func (e *credentialsError) Is(target error) bool { return target == config.ErrCredentials }

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing). An empty endpoint keeps the API defaults.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return newClient(ctx, opts...)
}

func newClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	users, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}
	return &Client{
		svc:     svc,
		users:   users,
		timeout: APITimeout,
		logger:  slog.Default().With("component", "googletasks"),
	}, nil
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (service.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.users.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return service.User{}, &service.AuthError{Err: wrapError(err)}
	}
	if info.Id == "" {
		return service.User{}, &service.AuthError{Err: errors.New("token has no user identity (run: mywork login)")}
	}

	return service.User{
		ID:    info.Id,
		Name:  info.Name,
		Email: info.Email,
	}, nil
}

// QueryStories returns top-level tasks matching filter across all lists.
func (c *Client) QueryStories(ctx context.Context, filter service.Filter) ([]service.Story, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lists, err := c.listIDs(ctx)
	if err != nil {
		return nil, queryError("query stories", err)
	}

	var result []service.Story
	for _, listID := range lists {
		items, err := c.listTasks(ctx, listID)
		if err != nil {
			return nil, queryError("query stories", err)
		}
		for _, item := range items {
			if item.Parent != "" {
				continue
			}
			story := toStory(listID, item, filter.Owner.ID)
			if filter.Matches(story.WorkItem) {
				result = append(result, story)
			}
		}
	}

	c.logger.Debug("queried stories", "lists", len(lists), "stories", len(result))
	return result, nil
}

// QueryChildTasks returns every subtask of story, completed ones included.
func (c *Client) QueryChildTasks(ctx context.Context, story service.Story) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	items, err := c.listTasks(ctx, story.ListID)
	if err != nil {
		return nil, queryError("query child tasks", err)
	}

	var result []service.Task
	for _, item := range items {
		if item.Parent == story.ID {
			result = append(result, toTask(story.ListID, item, story, story.Owner))
		}
	}
	return result, nil
}

// QueryTasks returns subtasks matching filter across all lists, each with
// its parent story resolved.
func (c *Client) QueryTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lists, err := c.listIDs(ctx)
	if err != nil {
		return nil, queryError("query tasks", err)
	}

	var result []service.Task
	for _, listID := range lists {
		items, err := c.listTasks(ctx, listID)
		if err != nil {
			return nil, queryError("query tasks", err)
		}

		byID := make(map[string]*tasks.Task, len(items))
		for _, item := range items {
			byID[item.Id] = item
		}

		for _, item := range items {
			if item.Parent == "" {
				continue
			}
			parentItem, ok := byID[item.Parent]
			if !ok {
				// Parent is hidden or deleted; fetch it directly.
				parentItem, err = c.svc.Tasks.Get(listID, item.Parent).Context(ctx).Do()
				if err != nil {
					return nil, queryError("query tasks", err)
				}
			}
			parent := toStory(listID, parentItem, filter.Owner.ID)
			task := toTask(listID, item, parent, filter.Owner.ID)
			if filter.Matches(task.WorkItem) {
				result = append(result, task)
			}
		}
	}

	c.logger.Debug("queried tasks", "lists", len(lists), "tasks", len(result))
	return result, nil
}

// listIDs returns the IDs of all task lists in API order.
func (c *Client) listIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			ids = append(ids, list.Id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// listTasks returns every task in a list, completed and hidden ones included.
func (c *Client) listTasks(ctx context.Context, listID string) ([]*tasks.Task, error) {
	var items []*tasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			items = append(items, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// toState maps a Tasks API status. Unknown values count as active so the
// item still shows up.
func toState(status string) service.State {
	switch status {
	case statusNeedsAction:
		return service.StateActive
	case statusCompleted:
		return service.StateClosed
	default:
		return service.StateActive
	}
}

func toStory(listID string, item *tasks.Task, owner string) service.Story {
	return service.Story{WorkItem: service.WorkItem{
		ID:     item.Id,
		Title:  item.Title,
		State:  toState(item.Status),
		Owner:  owner,
		ListID: listID,
	}}
}

func toTask(listID string, item *tasks.Task, parent service.Story, owner string) service.Task {
	return service.Task{
		WorkItem: service.WorkItem{
			ID:     item.Id,
			Title:  item.Title,
			State:  toState(item.Status),
			Owner:  owner,
			ListID: listID,
		},
		Parent: parent,
	}
}

func queryError(op string, err error) error {
	return &service.RemoteQueryError{Op: op, Err: wrapError(err)}
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out: %w", err)
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: mywork login): %w", err)
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found: %w", err)
	}

	return err
}
