package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"goutlier/adapters/detectors/hbos"
	"goutlier/domain/core"
	"goutlier/domain/dataset"
)

// scoreRequest carries a matrix plus optional HBOS parameter overrides.
// Zero-valued parameters fall back to the service defaults.
type scoreRequest struct {
	Data          [][]float64 `json:"data"`
	NBins         int         `json:"n_bins,omitempty"`
	Alpha         float64     `json:"alpha,omitempty"`
	Tol           float64     `json:"tol,omitempty"`
	Contamination float64     `json:"contamination,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListDetectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"detectors": a.service.Detectors()})
}

// handleScore fits HBOS on the posted matrix and returns scores, labels and
// the derived threshold. When persistence is configured the response carries
// the stored model ID.
func (a *App) handleScore(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeScoreRequest(w, r)
	if !ok {
		return
	}

	cfg := a.hbosConfig(req)
	result, err := a.service.RunHBOS(r.Context(), dataset.NewMatrix(req.Data), cfg)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSweep runs every detector over the posted matrix
func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeScoreRequest(w, r)
	if !ok {
		return
	}

	results, err := a.service.Sweep(r.Context(), dataset.NewMatrix(req.Data))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (a *App) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id := core.ModelID(chi.URLParam(r, "id"))
	model, err := a.service.GetModel(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// handleScoreWithModel scores a query matrix against a persisted model,
// labeling with the threshold stored at fit time.
func (a *App) handleScoreWithModel(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeScoreRequest(w, r)
	if !ok {
		return
	}

	id := core.ModelID(chi.URLParam(r, "id"))
	result, err := a.service.ScoreWithModel(r.Context(), id, dataset.NewMatrix(req.Data))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) decodeScoreRequest(w http.ResponseWriter, r *http.Request) (*scoreRequest, bool) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return nil, false
	}
	if len(req.Data) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "data matrix is required"})
		return nil, false
	}
	return &req, true
}

func (a *App) hbosConfig(req *scoreRequest) hbos.Config {
	cfg := a.service.DefaultHBOSConfig()
	if req.NBins != 0 {
		cfg.NBins = req.NBins
	}
	if req.Alpha != 0 {
		cfg.Alpha = req.Alpha
	}
	if req.Tol != 0 {
		cfg.Tol = req.Tol
	}
	if req.Contamination != 0 {
		cfg.Contamination = req.Contamination
	}
	return cfg
}

// writeError maps domain errors onto HTTP status codes
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidationError(err):
		status = http.StatusBadRequest
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	case core.IsNotFittedError(err):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
