package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/herolabs/hokhub/internal/service"
	"github.com/herolabs/hokhub/internal/store"
)

// CommunityHandler serves the contributor leaderboard and feedback.
type CommunityHandler struct {
	community *service.CommunityService
}

// NewCommunityHandler wires the REST layer to the community service.
func NewCommunityHandler(community *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

// HandleLeaderboard handles GET /api/v1/contributors
func (h *CommunityHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "Invalid limit (1-100)", err)
			return
		}
		limit = parsed
	}

	entries, err := h.community.Leaderboard(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch leaderboard", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(entries),
		"contributors": entries,
	})
}

type apiFeedbackRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// HandleFeedback handles POST /api/v1/feedback
func (h *CommunityHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var req apiFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	feedback, err := h.community.SubmitFeedback(r.Context(), &store.Feedback{
		Name:      req.Name,
		Category:  req.Category,
		Message:   req.Message,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to submit feedback", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"feedback": feedback,
	})
}
