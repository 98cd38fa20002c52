package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealqa/dealqa-server/config"
)

func testRouter(t *testing.T) *Router {
	v := viper.New()
	config.SetupViper(v, "")
	cfg, err := config.New(v)
	require.NoError(t, err)

	r, err := New(cfg, "abc123")
	require.NoError(t, err)
	return r
}

func TestStatusEndpoint(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestVersionEndpoint(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"revision": "abc123"}`, recorder.Body.String())
}

func TestValidateRejectsGet(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/validate", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestNoCacheHeaders(t *testing.T) {
	handler := NoCache{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "no-cache, no-store, must-revalidate", recorder.Header().Get("Cache-Control"))
}

func TestSupportCORSPreflight(t *testing.T) {
	r := testRouter(t)
	handler := SupportCORS(r)

	req := httptest.NewRequest(http.MethodOptions, "/validate", nil)
	req.Header.Set("Origin", "https://qa.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "https://qa.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
}
