package handler

import (
	"net/http"
	"time"

	"github.com/aryan595/Movie-Recommendation-System/internal/recommend"
)

type HealthHandler struct {
	snap *recommend.Snapshot
}

func NewHealthHandler(snap *recommend.Snapshot) *HealthHandler {
	return &HealthHandler{snap: snap}
}

type healthResponse struct {
	Status       string `json:"status"`
	ModelVersion string `json:"modelVersion"`
	Generation   string `json:"generation"`
	LoadedAt     string `json:"loadedAt"`
}

// @Summary Healthcheck
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		ModelVersion: h.snap.ModelVersion(),
		Generation:   h.snap.Generation,
		LoadedAt:     h.snap.LoadedAt.Format(time.RFC3339),
	})
}
