package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

// AdminHandler exposes model maintenance endpoints.
type AdminHandler struct {
	admin *service.AdminService
	recs  *service.RecommendService
}

func NewAdminHandler(admin *service.AdminService, recs *service.RecommendService) *AdminHandler {
	return &AdminHandler{admin: admin, recs: recs}
}

// @Summary Model status
// @Description Compares the loaded model with the catalog and lists rated movies the model has never seen.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param minRatings query int false "only list pending movies with at least this many ratings (default 5)"
// @Param limit query int false "pending list size (default 50)"
// @Success 200 {object} models.ModelStatus
// @Router /admin/model/status [get]
func (h *AdminHandler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	minRatings := 5
	if v := queryInt(r, "minRatings"); v > 0 {
		minRatings = v
	}
	limit := 50
	if v := queryInt(r, "limit"); v > 0 {
		limit = v
	}
	st, err := h.admin.ModelStatus(r.Context(), minRatings, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// @Summary Model evaluation
// @Description RMSE and MAE of the loaded model on the ratings currently stored
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.ModelEvaluation
// @Router /admin/model/evaluation [get]
func (h *AdminHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ev, err := h.recs.Evaluate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// MountAdminRoutes registers the admin API. Callers wrap r with JWTAuth
// and AdminOnly.
func MountAdminRoutes(r chi.Router, admin *AdminHandler, auth *AuthHandler, movies *MovieHandler, stats *AnalyticsHandler) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", stats.Platform)
		r.Get("/users", auth.ListUsers)
		r.Delete("/users/{username}", auth.DeleteUser)
		r.Delete("/movies/{id}", movies.DeleteMovie)
		r.Get("/model/status", admin.ModelStatus)
		r.Get("/model/evaluation", admin.Evaluate)
	})
}
