package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/connections/internal/metrics"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/puzzles"
	"github.com/robalobadob/connections/internal/store"
)

const exampleBody = `{"categories":[` +
	`{"categoryName":"Fruits","wordArray":["Apple","Pear"]},` +
	`{"categoryName":"Colors","wordArray":["Red","Blue"]}],` +
	`"rows":2,"categorySize":2}`

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, string) error   { return errors.New("db down") }
func (brokenStore) Get(context.Context, string) (string, error) { return "", errors.New("db down") }
func (brokenStore) Ping(context.Context) error                  { return errors.New("db down") }
func (brokenStore) Close() error                                { return nil }

func setupTestServer(t *testing.T, st store.Store, opts Options) *Server {
	t.Helper()
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	svc := puzzles.New(st, puzzles.Options{Metrics: opts.Metrics})
	return New(svc, st, opts)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out), w.Body.String())
	return out
}

func TestCreateThenFetch(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})

	w := do(t, s, http.MethodPost, "/api/create", exampleBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	id := decodeBody(t, w)["id"]
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	w = do(t, s, http.MethodGet, "/api/fetch/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody(t, w)["game_encoding"]
	assert.True(t, puzzle.IsTokenAlphabet(token))

	state, err := puzzle.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "Fruits", state.Categories[0].CategoryName)
	assert.Equal(t, []string{"Red", "Blue"}, state.Categories[1].WordArray)

	// Fetching again returns the same bytes.
	w = do(t, s, http.MethodGet, "/api/fetch/"+id, "")
	assert.Equal(t, token, decodeBody(t, w)["game_encoding"])
}

func TestCreate_ValidationMessage(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})

	body := strings.Replace(exampleBody, `"rows":2`, `"rows":3`, 1)
	w := do(t, s, http.MethodPost, "/api/create", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Number of categories `2` does not match number of rows `3`", decodeBody(t, w)["error"])
}

func TestCreate_BadJSON(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})

	for _, body := range []string{`{"rows":`, `{"rows":"two"}`, `[]`} {
		w := do(t, s, http.MethodPost, "/api/create", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "bad_json", decodeBody(t, w)["error"])
	}
}

func TestCreate_TrailingData(t *testing.T) {
	st := store.NewMemoryStore()
	s := setupTestServer(t, st, Options{})

	for _, body := range []string{exampleBody + " trailing-garbage", exampleBody + exampleBody} {
		w := do(t, s, http.MethodPost, "/api/create", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_json", decodeBody(t, w)["error"])
	}

	w := do(t, s, http.MethodPost, "/api/create", exampleBody+"\n")
	assert.Equal(t, http.StatusOK, w.Code, "trailing whitespace is fine")
}

func TestCreate_LogsOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	s := setupTestServer(t, store.NewMemoryStore(), Options{})
	w := do(t, s, http.MethodPost, "/api/create", exampleBody)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, strings.Count(buf.String(), "puzzle created"), buf.String())
}

func TestCreate_BodyTooLarge(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{MaxBodyBytes: 32})

	w := do(t, s, http.MethodPost, "/api/create", exampleBody)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCreate_StoreFailureIsGeneric(t *testing.T) {
	s := setupTestServer(t, brokenStore{}, Options{})

	w := do(t, s, http.MethodPost, "/api/create", exampleBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decodeBody(t, w)["error"]
	assert.Equal(t, "save_failed", msg)
	assert.NotContains(t, msg, "db down")
}

func TestFetch_NotFound(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		w := do(t, s, http.MethodGet, "/api/fetch/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.Equal(t, "not_found", decodeBody(t, w)["error"])
	}
}

func TestFetch_StoreFailure(t *testing.T) {
	s := setupTestServer(t, brokenStore{}, Options{})

	w := do(t, s, http.MethodGet, "/api/fetch/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "fetch_failed", decodeBody(t, w)["error"])
}

func TestHealth(t *testing.T) {
	w := do(t, setupTestServer(t, store.NewMemoryStore(), Options{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = do(t, setupTestServer(t, brokenStore{}, Options{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{ClientOrigins: []string{"http://play.test"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/create", nil)
	req.Header.Set("Origin", "http://play.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "http://play.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})
	do(t, s, http.MethodPost, "/api/create", exampleBody)

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `connections_puzzle_operations_total{operation="create",result="ok"} 1`)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>play</h1>"), 0o644))
	s := setupTestServer(t, store.NewMemoryStore(), Options{StaticDir: dir})

	w := do(t, s, http.MethodGet, "/index/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>play</h1>")

	w = do(t, s, http.MethodGet, "/index", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
}

func TestStaticFiles_MissingDir(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{StaticDir: filepath.Join(t.TempDir(), "dist")})

	w := do(t, s, http.MethodGet, "/index/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShutdownBeforeStart(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})
	require.NoError(t, s.Shutdown(context.Background()))

	err := s.Start("127.0.0.1:0")
	assert.ErrorIs(t, err, http.ErrServerClosed)
}

func TestServeAndShutdown(t *testing.T) {
	s := setupTestServer(t, store.NewMemoryStore(), Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
