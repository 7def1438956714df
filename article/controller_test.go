package article_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/articles/article"
	"github.com/kbukum/articles/route"
	"github.com/kbukum/articles/server/middleware"
	"github.com/kbukum/articles/server/testutil"
)

type fakeStore struct {
	mu      sync.Mutex
	items   []article.Article
	lists   int
	creates int
	err     error
}

func (f *fakeStore) List(context.Context) ([]article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeStore) Create(_ context.Context, doc map[string]any) (article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	a := article.Article{article.FieldID: "a1"}
	for k, v := range doc {
		a[k] = v
	}
	f.items = append(f.items, a)
	return a, nil
}

func (f *fakeStore) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.creates
}

func startArticles(t *testing.T, store article.Store) string {
	t.Helper()
	comp := testutil.NewComponent()
	comp.Server().Use(middleware.BodyParser())
	require.NoError(t, route.Config(comp.Server(), article.NewRoutes(article.NewController(store))))
	require.NoError(t, comp.Install(context.Background()))
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })
	return comp.BaseURL()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Total int `json:"total"`
	} `json:"meta"`
	Err json.RawMessage `json:"err"`
}

func do(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

func TestGetArticle(t *testing.T) {
	store := &fakeStore{items: []article.Article{{article.FieldID: "a1", "title": "Hello"}}}
	base := startArticles(t, store)

	status, env := do(t, http.MethodGet, base+"/articles/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)
	assert.JSONEq(t, `[{"id":"a1","title":"Hello"}]`, string(env.Data))

	lists, creates := store.calls()
	assert.Equal(t, 1, lists)
	assert.Equal(t, 0, creates)
}

func TestGetArticle_Empty(t *testing.T) {
	base := startArticles(t, &fakeStore{})

	status, env := do(t, http.MethodGet, base+"/articles/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCreateArticle(t *testing.T) {
	store := &fakeStore{}
	base := startArticles(t, store)

	status, env := do(t, http.MethodPost, base+"/articles/", `{"title":"Hello","tags":["go"]}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"id":"a1","title":"Hello","tags":["go"]}`, string(env.Data))

	lists, creates := store.calls()
	assert.Equal(t, 0, lists)
	assert.Equal(t, 1, creates)
}

func TestCreateArticle_RejectsArray(t *testing.T) {
	store := &fakeStore{}
	base := startArticles(t, store)

	status, env := do(t, http.MethodPost, base+"/articles/", `[{"title":"Hello"}]`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Err), "INVALID_INPUT")

	_, creates := store.calls()
	assert.Equal(t, 0, creates)
}

func TestCreateArticle_MalformedJSON(t *testing.T) {
	store := &fakeStore{}
	base := startArticles(t, store)

	status, env := do(t, http.MethodPost, base+"/articles/", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	_, creates := store.calls()
	assert.Equal(t, 0, creates, "a malformed body must not reach the handler")
}

func TestStoreErrorUsesEnvelope(t *testing.T) {
	base := startArticles(t, &fakeStore{err: stderrors.New("connection reset")})

	status, env := do(t, http.MethodGet, base+"/articles/", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, env.Success)
	assert.Equal(t, `"connection reset"`, string(env.Err))

	// The server keeps serving after a failed request.
	status, _ = do(t, http.MethodPost, base+"/articles/", `{"title":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestOtherMethodsReachNeitherHandler(t *testing.T) {
	store := &fakeStore{}
	base := startArticles(t, store)

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		status, _ := do(t, method, base+"/articles/", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, status, method)
	}

	lists, creates := store.calls()
	assert.Zero(t, lists)
	assert.Zero(t, creates)
}

func TestCreateArticle_TrailingContent(t *testing.T) {
	store := &fakeStore{}
	base := startArticles(t, store)

	for _, body := range []string{`{"title":"a"} trailing`, `{"title":"a"}{"title":"b"}`} {
		status, env := do(t, http.MethodPost, base+"/articles/", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Contains(t, string(env.Err), "INVALID_INPUT", body)
	}

	_, creates := store.calls()
	assert.Zero(t, creates, "nothing is stored from a body with trailing content")
}
