package handler

import (
	"net/http"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

type MovieHandler struct {
	svc  *service.MovieService
	recs *service.RecommendService
}

func NewMovieHandler(s *service.MovieService, recs *service.RecommendService) *MovieHandler {
	return &MovieHandler{svc: s, recs: recs}
}

// @Summary Get movie
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} models.MovieDoc
// @Failure 404 {string} string
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMovie(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary Search / browse movies (paged)
// @Tags movies
// @Produce json
// @Param q query string false "title contains"
// @Param genre query []string false "genre, repeat for AND" collectionFormat(multi)
// @Param letter query string false "first letter of the title"
// @Param limit query int false "page size (default 20, max 100)"
// @Param offset query int false "offset"
// @Success 200 {object} models.MoviePage
// @Router /movies/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Search(r.Context(), models.MovieFilter{
		Query:  q.Get("q"),
		Genres: q["genre"],
		Letter: q.Get("letter"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// @Summary Top movies (popularity or rating)
// @Tags movies
// @Produce json
// @Param metric query string false "popular|rating (default: popular)"
// @Param genre query string false "restrict to one genre"
// @Param limit query int false "limit (default: 20)"
// @Success 200 {array} models.MovieDoc
// @Router /movies/top [get]
func (h *MovieHandler) Top(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	movies, err := h.svc.Top(r.Context(), q.Get("metric"), q.Get("genre"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// @Summary List genres
// @Tags movies
// @Produce json
// @Success 200 {array} string
// @Router /movies/genres [get]
func (h *MovieHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.Genres(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

// @Summary Movies with similar genres
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Param k query int false "number of movies (default 10, max 50)"
// @Success 200 {array} models.RecItem
// @Failure 404 {string} string
// @Router /movies/{id}/similar [get]
func (h *MovieHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	items, err := h.recs.Similar(r.Context(), id, queryInt(r, "k"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// @Summary Cold-start seed candidates
// @Description Popular movies a new user picks favorites from
// @Tags movies
// @Produce json
// @Param n query int false "pool size (default 500)"
// @Success 200 {array} models.MovieDoc
// @Router /movies/seeds [get]
func (h *MovieHandler) Seeds(w http.ResponseWriter, r *http.Request) {
	pool, err := h.recs.SeedPool(r.Context(), queryInt(r, "n"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// @Summary Delete movie (admin)
// @Description Deletes the movie and all of its ratings. The loaded model keeps the movie until retrained.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} models.DeleteMovieResult
// @Failure 404 {string} string
// @Router /admin/movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
