package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mywork/internal/config"
	"mywork/internal/retriever"
	"mywork/internal/service"
)

type fakeTask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Parent string `json:"parent,omitempty"`
}

// fakeAPI serves the subset of the Tasks and userinfo endpoints the client uses.
type fakeAPI struct {
	mu       sync.Mutex
	lists    []string
	tasks    map[string][]fakeTask // listID -> tasks returned by list
	extra    map[string]fakeTask   // tasks only reachable through get
	userCode int
	listCode int
	gets     int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		tasks:    make(map[string][]fakeTask),
		extra:    make(map[string]fakeTask),
		userCode: http.StatusOK,
		listCode: http.StatusOK,
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case path == "/oauth2/v2/userinfo":
		if f.userCode != http.StatusOK {
			writeError(w, f.userCode)
			return
		}
		writeJSON(w, map[string]string{"id": "u1", "name": "Me", "email": "me@example.com"})

	case strings.HasPrefix(path, "/tasks/v1/users/") && strings.HasSuffix(path, "/lists"):
		var items []map[string]string
		for _, id := range f.lists {
			items = append(items, map[string]string{"id": id, "title": id})
		}
		writeJSON(w, map[string]any{"items": items})

	case strings.HasPrefix(path, "/tasks/v1/lists/"):
		parts := strings.Split(strings.TrimPrefix(path, "/tasks/v1/lists/"), "/")
		if f.listCode != http.StatusOK {
			writeError(w, f.listCode)
			return
		}
		switch len(parts) {
		case 2: // lists/{list}/tasks
			writeJSON(w, map[string]any{"items": f.tasks[parts[0]]})
		case 3: // lists/{list}/tasks/{task}
			f.gets++
			item, ok := f.extra[parts[2]]
			if !ok {
				writeError(w, http.StatusNotFound)
				return
			}
			writeJSON(w, item)
		default:
			writeError(w, http.StatusNotFound)
		}

	default:
		writeError(w, http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
	writeJSON(w, map[string]any{
		"error": map[string]any{"code": code, "message": http.StatusText(code)},
	})
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	return c
}

var me = service.User{ID: "u1", Name: "Me", Email: "me@example.com"}

func active() service.Filter {
	return service.Filter{Owner: me, State: service.StateActive}
}

func TestClient_CurrentUser(t *testing.T) {
	c := newTestClient(t, newFakeAPI())

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, me, user)
}

func TestClient_CurrentUserUnauthorized(t *testing.T) {
	api := newFakeAPI()
	api.userCode = http.StatusUnauthorized
	c := newTestClient(t, api)

	_, err := c.CurrentUser(context.Background())

	var authErr *service.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "mywork login")
}

func TestClient_QueryStories(t *testing.T) {
	api := newFakeAPI()
	api.lists = []string{"L1", "L2"}
	api.tasks["L1"] = []fakeTask{
		{ID: "s1", Title: "Ship release", Status: statusNeedsAction},
		{ID: "t1", Title: "Tag build", Status: statusNeedsAction, Parent: "s1"},
		{ID: "s2", Title: "Old story", Status: statusCompleted},
	}
	api.tasks["L2"] = []fakeTask{
		{ID: "s3", Title: "Plan trip", Status: statusNeedsAction},
	}
	c := newTestClient(t, api)

	stories, err := c.QueryStories(context.Background(), active())
	require.NoError(t, err)

	require.Len(t, stories, 2)
	assert.Equal(t, "s1", stories[0].ID)
	assert.Equal(t, "L1", stories[0].ListID)
	assert.Equal(t, me.ID, stories[0].Owner)
	assert.Equal(t, service.StateActive, stories[0].State)
	assert.Equal(t, "s3", stories[1].ID)
	assert.Equal(t, "L2", stories[1].ListID)
}

func TestClient_QueryChildTasks(t *testing.T) {
	api := newFakeAPI()
	api.lists = []string{"L1"}
	api.tasks["L1"] = []fakeTask{
		{ID: "s1", Title: "Ship release", Status: statusNeedsAction},
		{ID: "t1", Title: "Tag build", Status: statusNeedsAction, Parent: "s1"},
		{ID: "t2", Title: "Write notes", Status: statusCompleted, Parent: "s1"},
		{ID: "t3", Title: "Other", Status: statusNeedsAction, Parent: "s9"},
	}
	c := newTestClient(t, api)

	story := service.Story{WorkItem: service.WorkItem{ID: "s1", ListID: "L1", Owner: me.ID}}
	children, err := c.QueryChildTasks(context.Background(), story)
	require.NoError(t, err)

	require.Len(t, children, 2)
	assert.Equal(t, "t1", children[0].ID)
	assert.Equal(t, "t2", children[1].ID)
	assert.Equal(t, service.StateClosed, children[1].State)
	assert.Equal(t, "s1", children[1].Parent.ID)
}

func TestClient_QueryTasksResolvesParents(t *testing.T) {
	api := newFakeAPI()
	api.lists = []string{"L1"}
	api.tasks["L1"] = []fakeTask{
		{ID: "s1", Title: "Ship release", Status: statusCompleted},
		{ID: "t1", Title: "Tag build", Status: statusNeedsAction, Parent: "s1"},
		{ID: "t2", Title: "Done already", Status: statusCompleted, Parent: "s1"},
		{ID: "t3", Title: "Orphan", Status: statusNeedsAction, Parent: "gone"},
	}
	api.extra["gone"] = fakeTask{ID: "gone", Title: "Hidden story", Status: statusNeedsAction}
	c := newTestClient(t, api)

	got, err := c.QueryTasks(context.Background(), active())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "s1", got[0].Parent.ID)
	assert.Equal(t, "Ship release", got[0].Parent.Title)
	assert.Equal(t, service.StateClosed, got[0].Parent.State)
	assert.Equal(t, "t3", got[1].ID)
	assert.Equal(t, "Hidden story", got[1].Parent.Title)
	assert.Equal(t, 1, api.gets)
}

func TestClient_QueryForbidden(t *testing.T) {
	api := newFakeAPI()
	api.lists = []string{"L1"}
	api.listCode = http.StatusForbidden
	c := newTestClient(t, api)

	_, err := c.QueryStories(context.Background(), active())

	var queryErr *service.RemoteQueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "query stories", queryErr.Op)
	assert.Contains(t, err.Error(), "token expired or revoked")
}

func TestClient_WithRetriever(t *testing.T) {
	api := newFakeAPI()
	api.lists = []string{"L1"}
	api.tasks["L1"] = []fakeTask{
		{ID: "s1", Title: "Ship release", Status: statusNeedsAction},
		{ID: "t1", Title: "Tag build", Status: statusNeedsAction, Parent: "s1"},
		{ID: "t2", Title: "Write notes", Status: statusCompleted, Parent: "s1"},
	}
	c := newTestClient(t, api)

	r := retriever.New(c, nil)
	defer r.Shutdown()

	ready := make(chan *service.ResultSet, 1)
	r.OnWorkitemsReady(func(rs *service.ResultSet) { ready <- rs })
	r.OnFetchError(func(err error) { t.Errorf("unexpected fetch error: %v", err) })

	r.RequestFetch()

	select {
	case rs := <-ready:
		require.Equal(t, 1, rs.Len())
		assert.Len(t, rs.Tasks("s1"), 2)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for work items")
	}
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, wrapError(nil))
	assert.Contains(t, wrapError(context.DeadlineExceeded).Error(), "request timed out")
	assert.Contains(t, wrapError(assert.AnError).Error(), assert.AnError.Error())
}

func TestToState(t *testing.T) {
	assert.Equal(t, service.StateActive, toState("needsAction"))
	assert.Equal(t, service.StateClosed, toState("completed"))
	assert.Equal(t, service.StateActive, toState(""))
}

func TestNew_CredentialErrors(t *testing.T) {
	oauthClient := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

	tests := []struct {
		name    string
		files   map[string]string
		wantMsg string
	}{
		{"no client", nil, "failed to read oauth_client.json"},
		{"bad client", map[string]string{"oauth_client.json": "{"}, "invalid oauth_client.json"},
		{"no token", map[string]string{"oauth_client.json": oauthClient}, "failed to read token.json"},
		{"bad token", map[string]string{"oauth_client.json": oauthClient, "token.json": "nope"}, "invalid token.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, data := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0600))
			}

			_, err := New(context.Background(), &config.Config{Dir: dir})
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrCredentials))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
