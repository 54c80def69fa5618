package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fwojciec/policylens"
)

// MissingPolicyMessage is returned when a request has no privacy_policy key.
const MissingPolicyMessage = "No privacy policy provided"

// maxRequestSize caps the body of POST /analyze.
const maxRequestSize = 4 << 20

// AnalysisHandler serves the analysis endpoint consumed by AnalysisClient.
type AnalysisHandler struct {
	generator policylens.Generator
	logger    *slog.Logger
}

// NewAnalysisHandler returns a handler completing each posted prompt with g.
func NewAnalysisHandler(g policylens.Generator, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{generator: g, logger: logger}
}

// Register mounts routes on the given mux.
func (h *AnalysisHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /analyze", h.analyze)
}

func (h *AnalysisHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil || req.PrivacyPolicy == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: MissingPolicyMessage})
		return
	}

	analysis, err := h.generator.Generate(r.Context(), *req.PrivacyPolicy)
	if err != nil {
		h.logger.Error("analysis failed", "bytes", len(*req.PrivacyPolicy), "err", err)
		status := http.StatusBadGateway
		if policylens.ErrorCode(err) == policylens.ECANCELED {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Message: policylens.ErrorMessage(err)})
		return
	}

	h.logger.Info("analysis served", "bytes", len(*req.PrivacyPolicy), "analysis_bytes", len(analysis))
	writeJSON(w, http.StatusOK, analysisResponse{Analysis: analysis})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
