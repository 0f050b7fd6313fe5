package handler

import (
	"net/http"

	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(s *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: s}
}

// @Summary My analytics
// @Description Total ratings, average, favorite genre, genre distribution, rating histogram and history
// @Tags analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserAnalytics
// @Router /me/analytics [get]
func (h *AnalyticsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.ForUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// @Summary Platform stats (admin)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.PlatformStats
// @Router /admin/stats [get]
func (h *AnalyticsHandler) Platform(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Platform(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
