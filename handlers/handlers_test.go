package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FallThunder/hack-at-davidson25/services"
	"github.com/FallThunder/hack-at-davidson25/storage"
	"github.com/FallThunder/hack-at-davidson25/types"
)

type stubFetcher struct {
	mu      sync.Mutex
	result  *types.DirectoryResult
	err     error
	prompts []string
}

func (s *stubFetcher) Fetch(ctx context.Context) (*types.DirectoryResult, error) {
	return s.Search(ctx, "")
}

func (s *stubFetcher) Search(ctx context.Context, prompt string) (*types.DirectoryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.result, s.err
}

func (s *stubFetcher) set(result *types.DirectoryResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result, s.err = result, err
}

type testServer struct {
	handler http.Handler
	fetcher *stubFetcher
	loader  *services.Loader
	history *storage.FetchLogMemoryRepository
}

func newTestServer(t *testing.T, surfaceErrors bool) *testServer {
	t.Helper()

	fetcher := &stubFetcher{result: &types.DirectoryResult{Businesses: []types.Business{
		{Name: "Acme", Address: types.NewAddress("1 Main St"), Phone: "555-0100"},
	}}}
	history := storage.NewFetchLogMemoryRepository(10)
	renderer := services.NewRenderer()
	container := services.NewContainer("business-list")
	loader := services.NewLoader(fetcher, renderer, container, services.LoaderOptions{History: history})

	page, err := NewPage(container)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &testServer{
		handler: NewRouter(page, NewBusinessHandler(loader, renderer, history, 10, surfaceErrors), NewRateLimiter(ctx, 100, 100), "*"),
		fetcher: fetcher,
		loader:  loader,
		history: history,
	}
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestPage_ContainsTriggerAndContainer(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.get("/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="fetch-data"`)
	assert.Contains(t, rec.Body.String(), `id="business-list"`)
}

func TestPage_MissingElementFailsFast(t *testing.T) {
	container := services.NewContainer("business-list")

	_, err := newPage(`<button id="{{.TriggerID}}">go</button>`, container)
	assert.ErrorContains(t, err, "business-list")

	_, err = newPage(`<div id="{{.ContainerID}}"></div>`, container)
	assert.ErrorContains(t, err, "fetch-data")
}

func TestTrigger_RendersFragment(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.get("/api/businesses")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "rendered", rec.Header().Get("X-Fetch-Status"))
	assert.Contains(t, rec.Body.String(), "<h2>Acme</h2>")
	assert.Contains(t, rec.Body.String(), "<p>1 Main St</p>")
	assert.Contains(t, rec.Body.String(), "<p>555-0100</p>")

	page := srv.get("/")
	assert.Contains(t, page.Body.String(), "<h2>Acme</h2>")
}

func TestTrigger_QueryUsesSearch(t *testing.T) {
	srv := newTestServer(t, false)

	srv.get("/api/businesses?q=%20coffee%20")

	assert.Equal(t, []string{"coffee"}, srv.fetcher.prompts)
}

func TestTrigger_SilentFailureKeepsContainer(t *testing.T) {
	srv := newTestServer(t, false)
	srv.get("/api/businesses")

	srv.fetcher.set(nil, errors.New("unreachable"))
	rec := srv.get("/api/businesses")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 1, srv.loader.Container().Len())
}

func TestTrigger_SurfacedFailure(t *testing.T) {
	srv := newTestServer(t, true)
	srv.fetcher.set(nil, errors.New("unreachable"))

	rec := srv.get("/api/businesses")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="business-error"`)
	assert.NotContains(t, rec.Body.String(), "unreachable")
	assert.Equal(t, 0, srv.loader.Container().Len())
}

func TestContainerJSON(t *testing.T) {
	srv := newTestServer(t, false)
	srv.get("/api/businesses")

	rec := srv.get("/api/businesses.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ContainerID string `json:"container_id"`
		Count       int    `json:"count"`
		Blocks      []struct {
			Business types.Business `json:"business"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "business-list", body.ContainerID)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Blocks, 1)
	assert.Equal(t, "Acme", body.Blocks[0].Business.Name)
}

func TestHistory(t *testing.T) {
	srv := newTestServer(t, false)
	srv.get("/api/businesses")
	srv.loader.Wait()
	srv.fetcher.set(nil, errors.New("unreachable"))
	srv.get("/api/businesses")
	srv.loader.Wait()

	rec := srv.get("/api/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []types.FetchLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, types.FetchFailed, entries[0].Status)
	assert.Equal(t, types.FetchRendered, entries[1].Status)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.get("/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","businesses":0}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/businesses", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Prompt")
	assert.Empty(t, srv.fetcher.prompts)
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 1, 1)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/businesses", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("1.2.3.4:1234").Code)

	limited := send("1.2.3.4:4321")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("5.6.7.8:5678").Code)
}
