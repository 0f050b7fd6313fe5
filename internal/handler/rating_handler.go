package handler

import (
	"errors"
	"net/http"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(s *service.RatingService) *RatingHandler { return &RatingHandler{svc: s} }

type ratingRequest struct {
	MovieID int     `json:"movieId" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"required"`
}

// @Summary Rate a movie
// @Description Appends a rating (0.5 to 5.0 in 0.5 steps) for the current user
// @Tags ratings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body ratingRequest true "rating"
// @Success 201 {object} models.RatingDoc
// @Failure 400 {string} string
// @Failure 422 {string} string "movie does not exist"
// @Router /me/ratings [post]
func (h *RatingHandler) PostRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := UserIDFromContext(r.Context())
	rd, err := h.svc.Submit(r.Context(), userID, req.MovieID, req.Rating)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rd)
}

// @Summary My ratings
// @Description Rating history of the current user joined with movie metadata, newest first
// @Tags ratings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.RatedMovie
// @Router /me/ratings [get]
func (h *RatingHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
