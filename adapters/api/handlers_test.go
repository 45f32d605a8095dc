package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goutlier/app"
	"goutlier/domain/detection"
	"goutlier/internal/config"
)

func newTestApp() *App {
	defaults := config.DetectorConfig{NBins: 5, Alpha: 0.1, Tol: 0.5, Contamination: 0.1}
	service := app.NewDetectionService(defaults, nil, nil)
	return NewApp(service, nil)
}

func postJSON(t *testing.T, a *App, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	a := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleListDetectors(t *testing.T) {
	a := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/detectors", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"hbos", "zscore", "iqr"}, resp["detectors"])
}

func TestHandleScore(t *testing.T) {
	a := newTestApp()

	data := make([][]float64, 0, 20)
	for i := 0; i < 19; i++ {
		data = append(data, []float64{float64(10 + i%5)})
	}
	data = append(data, []float64{500})

	rec := postJSON(t, a, "/api/v1/score", scoreRequest{Data: data})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result detection.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "hbos", result.Detector)
	require.Len(t, result.Labels, 20)
	assert.Equal(t, 1, result.Labels[19], "the far point must be flagged")
}

func TestHandleScore_BadRequests(t *testing.T) {
	a := newTestApp()

	rec := postJSON(t, a, "/api/v1/score", scoreRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Ragged matrix -> validation error -> 400.
	rec = postJSON(t, a, "/api/v1/score", scoreRequest{Data: [][]float64{{1, 2}, {3}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Bad parameter override -> 400.
	rec = postJSON(t, a, "/api/v1/score", scoreRequest{
		Data:  [][]float64{{1}, {2}, {3}},
		Alpha: 2.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSweep(t *testing.T) {
	a := newTestApp()

	data := [][]float64{{1}, {2}, {2}, {3}, {3}, {3}, {4}, {4}, {5}, {100}}
	rec := postJSON(t, a, "/api/v1/sweep", scoreRequest{Data: data})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Results []detection.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 3)
}

func TestHandleGetModel_NoRepository(t *testing.T) {
	a := newTestApp()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/models/some-id", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
