package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sfrc "SFRC/internal/calc/sfrc"
	config "SFRC/internal/config"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	engine, err := newEngine(cfg)
	require.NoError(t, err)
	r := mux.NewRouter()
	HandleList(r, cfg, engine)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func baseConfig(t *testing.T) config.Config {
	return config.Config{RateLimit: 100, RateBurst: 100, AllowExtrapolation: true, StaticDir: t.TempDir()}
}

func TestRoutes(t *testing.T) {
	srv := testServer(t, baseConfig(t))

	tests := []struct {
		method, path, body string
		want               int
	}{
		{"POST", "/api/tools/sfrc/calc", `{"vf":1,"strength_mpa":40}`, http.StatusOK},
		{"GET", "/api/tools/sfrc/model", "", http.StatusOK},
		{"POST", "/api/tools/premium/batch/sfrc", `{"items":[{"vf":1,"strength_mpa":40}]}`, http.StatusOK},
		{"POST", "/api/tools/premium/recommend/dosage", `{"target_mpa":3,"strength_mpa":40}`, http.StatusOK},
		{"POST", "/api/tools/report/pdf", `{"mix":{"vf":1,"strength_mpa":40}}`, http.StatusOK},
		{"GET", "/api/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRateLimitOnAPI(t *testing.T) {
	cfg := baseConfig(t)
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	srv := testServer(t, cfg)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestParamsFileIsUsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domain:\n  strength_fc_mpa:\n    min: 10\n    max: 120\n"), 0o600))
	cfg := baseConfig(t)
	cfg.ParamsFile = path
	cfg.AllowExtrapolation = false
	srv := testServer(t, cfg)

	resp, err := http.Post(srv.URL+"/api/tools/sfrc/calc", "application/json", strings.NewReader(`{"vf":1,"strength_mpa":100}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res sfrc.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.InDomain)
}

func TestNewEngineBadParamsFile(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ParamsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := newEngine(cfg)
	assert.Error(t, err)
}
