package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"melp-api/internal/auth"
	"melp-api/internal/config"
	"melp-api/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := config.New()
	for _, m := range mutate {
		m(cfg)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(cfg, testutil.NewSQLiteDB(t), nil, log)
}

// do sends a request through the router. A string body is sent verbatim,
// anything else is JSON encoded.
func do(t *testing.T, s *Server, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestDBPing(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, "GET", "/dbping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "db: ok", w.Body.String())

	require.NoError(t, s.DB.Close())
	w = do(t, s, "GET", "/dbping", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsMountedOnlyWhenEnabled(t *testing.T) {
	off := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, off, "GET", "/metrics", nil).Code)

	on := newTestServer(t, func(c *config.Config) { c.EnableMetrics = true })
	do(t, on, "GET", "/restaurants", nil)
	w := do(t, on, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/restaurants`)
}

func TestDocsMountedOnlyWhenEnabled(t *testing.T) {
	off := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, off, "GET", "/openapi.yaml", nil).Code)

	on := newTestServer(t, func(c *config.Config) { c.EnableSwagger = true })
	w := do(t, on, "GET", "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/restaurants/statistics")
	assert.Equal(t, http.StatusOK, do(t, on, "GET", "/docs", nil).Code)
}

func TestImportRouteNeedsPool(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s, "POST", "/imports/excel", nil).Code)
}

func TestWriteRoutesRequireEditorWhenAuthEnabled(t *testing.T) {
	const secret = "integration-secret-that-is-long-enough"
	s := newTestServer(t, func(c *config.Config) {
		c.AuthRequired = true
		c.JWTSecret = secret
	})

	m := auth.NewJWTManager(secret, s.cfg.JWTIssuer, s.cfg.JWTAudience, time.Hour)
	editor, err := m.GenerateToken("ops", []string{auth.RoleEditor})
	require.NoError(t, err)
	viewer, err := m.GenerateToken("guest", []string{"viewer"})
	require.NoError(t, err)

	body := map[string]any{"id": "r1", "rating": 3}

	assert.Equal(t, http.StatusUnauthorized, do(t, s, "POST", "/restaurants", body).Code)
	assert.Equal(t, http.StatusForbidden, do(t, s, "POST", "/restaurants", body, "Authorization", "Bearer "+viewer).Code)
	assert.Equal(t, http.StatusOK, do(t, s, "POST", "/restaurants", body, "Authorization", "Bearer "+editor).Code)

	// reads stay public
	assert.Equal(t, http.StatusOK, do(t, s, "GET", "/restaurants/r1", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, "DELETE", "/restaurants/r1", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, s, "DELETE", "/restaurants/r1", nil, "Authorization", "Bearer "+editor).Code)
}
