package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/internal/metrics"
	"github.com/aretw0/nvimsul/internal/runtime"
	"github.com/aretw0/nvimsul/internal/testutils"
	nvimhttp "github.com/aretw0/nvimsul/pkg/adapters/http"
	"github.com/aretw0/nvimsul/pkg/domain"
)

func newServer(t *testing.T) (http.Handler, *testutils.FakeSpawner) {
	t.Helper()
	spawner := &testutils.FakeSpawner{}
	m := metrics.New()
	a := runtime.NewAdapter(runtime.NewLifecycle(spawner, nil), runtime.WithHooks(m.Hooks()))
	t.Cleanup(func() { _ = a.Close() })
	return nvimhttp.NewHandler(a, domain.DefaultAlphabet(), nvimhttp.WithMetrics(m.Handler())), spawner
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostQuery(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, "POST", "/query", `{"word":[":","<Esc>","v"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var trace domain.Trace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trace))
	assert.Equal(t, []domain.CanonicalState{"Normal", "Command-line editing", "Normal", "Visual"}, trace.Outputs)
}

func TestPostQuery_SingleSymbol(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, "POST", "/query", `{"word":"v"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var trace domain.Trace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trace))
	assert.Equal(t, domain.CanonicalState("Visual"), trace.Final())
}

func TestPostQuery_Rejections(t *testing.T) {
	h, spawner := newServer(t)

	tests := []struct {
		name, body string
		status     int
		kind       string
	}{
		{"Malformed JSON", `{"word":`, http.StatusBadRequest, "bad_request"},
		{"Unknown Field", `{"keys":["v"]}`, http.StatusBadRequest, "bad_request"},
		{"Unknown Symbol", `{"word":["v","i"]}`, http.StatusBadRequest, "unknown_symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/query", tt.body)
			assert.Equal(t, tt.status, w.Code)
			var resp nvimhttp.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
		})
	}
	assert.Equal(t, 0, spawner.Spawned(), "rejected requests never reach the editor")
}

func TestPostQuery_LifecycleFailure(t *testing.T) {
	h, spawner := newServer(t)
	spawner.SpawnErr = errors.New("exec: nvim: not found")

	w := do(t, h, "POST", "/query", `{"word":["v"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPostReset_And_Status(t *testing.T) {
	h, spawner := newServer(t)

	w := do(t, h, "GET", "/status", "")
	assert.Contains(t, w.Body.String(), string(domain.StatusUninitialized))

	w = do(t, h, "POST", "/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(domain.StatusReady))
	assert.Equal(t, 1, spawner.Live())
}

func TestGetAlphabetAndModes(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, "GET", "/alphabet", "")
	require.Equal(t, http.StatusOK, w.Code)
	var symbols []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &symbols))
	assert.Equal(t, domain.DefaultAlphabet().Strings(), symbols)

	w = do(t, h, "GET", "/modes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var modes map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &modes))
	assert.Equal(t, "Normal", modes["n"])
	assert.Len(t, modes, 31)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newServer(t)
	require.Equal(t, http.StatusOK, do(t, h, "POST", "/query", `{"word":["v"]}`).Code)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `nvimsul_steps_total{state="Visual"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newServer(t)
	w := do(t, h, "OPTIONS", "/query", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
