package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryan595/Movie-Recommendation-System/internal/logging"
	"github.com/aryan595/Movie-Recommendation-System/internal/models"
	"github.com/aryan595/Movie-Recommendation-System/internal/service"
)

const wsWriteWait = 10 * time.Second

type RecommendHandler struct {
	svc      *service.RecommendService
	upgrader websocket.Upgrader
}

func NewRecommendHandler(s *service.RecommendService, origins []string) *RecommendHandler {
	return &RecommendHandler{
		svc: s,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(origins),
		},
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

func (h *RecommendHandler) serve(w http.ResponseWriter, r *http.Request, userID int) {
	res, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		K:       queryInt(r, "k"),
		Explain: queryBool(r, "explain"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary My recommendations
// @Description Personalized top-K for raters the model knows, popularity otherwise. Rated movies never appear.
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param k query int false "number of recommendations (default 10, max 50)"
// @Param explain query bool false "attach a because-you-liked explanation per item"
// @Success 200 {object} models.RecommendResult
// @Router /me/recommendations [get]
func (h *RecommendHandler) MyRecommendations(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, UserIDFromContext(r.Context()))
}

// @Summary Recommendations for any user (admin)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param k query int false "number of recommendations (default 10, max 50)"
// @Param explain query bool false "attach explanations"
// @Success 200 {object} models.RecommendResult
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	h.serve(w, r, userID)
}

type coldStartRequest struct {
	Seeds []int `json:"seeds" validate:"required,min=1,dive,gt=0"`
	K     int   `json:"k" validate:"gte=0"`
}

// @Summary Cold-start recommendations
// @Description Ranks movies by genre overlap with the seed movies the user picked
// @Tags recommend
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body coldStartRequest true "seed movie ids"
// @Success 200 {object} models.RecommendResult
// @Failure 400 {string} string "not enough seeds"
// @Router /me/cold-start [post]
func (h *RecommendHandler) ColdStart(w http.ResponseWriter, r *http.Request) {
	var req coldStartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ColdStart(r.Context(), UserIDFromContext(r.Context()), req.Seeds, req.K)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Recommendation history
// @Description Lists previously served to the current user, newest first
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "limit (default 20)"
// @Success 200 {array} models.Recommendation
// @Router /me/recommendations/history [get]
func (h *RecommendHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = service.DefaultPageSize
	}
	recs, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type wsMessage struct {
	Type        string                  `json:"type"`
	Msg         string                  `json:"msg,omitempty"`
	Result      *models.RecommendResult `json:"result,omitempty"`
	MovieID     int                     `json:"movieId,omitempty"`
	Explanation *models.Explanation     `json:"explanation,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// @Summary Streamed recommendations (WebSocket)
// @Description Sends "start", then "recommendations" with the ranked list, then one "explanation" per item, then "done".
// @Tags recommend
// @Security BearerAuth
// @Param k query int false "number of recommendations (default 10, max 50)"
// @Param token query string false "JWT, for clients that cannot set headers on the handshake"
// @Success 101
// @Router /me/ws/recommendations [get]
func (h *RecommendHandler) StreamRecommendations(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := logging.Ctx(ctx)
	userID := UserIDFromContext(ctx)

	send := func(m wsMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(m); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
			return false
		}
		return true
	}

	if !send(wsMessage{Type: "start", Msg: "computing recommendations"}) {
		return
	}

	res, err := h.svc.Recommend(ctx, service.RecRequest{UserID: userID, K: queryInt(r, "k")})
	if err != nil {
		send(wsMessage{Type: "error", Error: http.StatusText(statusFor(err))})
		return
	}
	if !send(wsMessage{Type: "recommendations", Result: res}) {
		return
	}

	if err := h.svc.Explain(ctx, userID, res.Items); err != nil {
		log.Warn().Err(err).Msg("explanations unavailable")
	}
	for _, it := range res.Items {
		if !send(wsMessage{Type: "explanation", MovieID: it.MovieID, Explanation: it.Explanation, Reason: it.Reason}) {
			return
		}
	}

	send(wsMessage{Type: "done"})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))
}
