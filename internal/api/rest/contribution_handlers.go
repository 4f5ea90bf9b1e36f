package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/herolabs/hokhub/internal/auth"
	"github.com/herolabs/hokhub/internal/contrib"
)

// ContributionHandler proxies API calls to the moderation pipeline.
type ContributionHandler struct {
	pipeline *contrib.Pipeline
	auth     *auth.Service
}

// NewContributionHandler wires the REST layer to the pipeline. authSvc
// may be nil when the relational store is not configured; submissions
// are then anonymous.
func NewContributionHandler(pipeline *contrib.Pipeline, authSvc *auth.Service) *ContributionHandler {
	return &ContributionHandler{pipeline: pipeline, auth: authSvc}
}

type apiSubmitRequest struct {
	Type contrib.Type    `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleSubmit handles POST /api/v1/contributions
func (h *ContributionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req apiSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	submit := contrib.SubmitRequest{Type: req.Type, Data: req.Data}

	// A valid bearer token attaches the submitter; a missing or bad one
	// just means an anonymous submission.
	if identity := h.bearerIdentity(r); identity != nil {
		submit.SubmitterID = identity.SubjectID
		submit.SubmitterName = identity.DisplayName
	}

	c, err := h.pipeline.Submit(r.Context(), submit)
	if err != nil {
		respondContributionError(w, "Failed to submit contribution", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"contribution": c,
	})
}

// HandlePending handles GET /api/v1/contributions/pending
func (h *ContributionHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.pipeline.ListPending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list pending contributions", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(pending),
		"contributions": pending,
	})
}

// HandleApprove handles POST /api/v1/contributions/{id}/approve
func (h *ContributionHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.pipeline.Approve(r.Context(), id)
	if err != nil {
		respondContributionError(w, "Failed to approve contribution", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"contribution": c,
	})
}

// HandleReject handles POST /api/v1/contributions/{id}/reject
func (h *ContributionHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.pipeline.Reject(r.Context(), id)
	if err != nil {
		respondContributionError(w, "Failed to reject contribution", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"contribution": c,
	})
}

type apiBulkRequest struct {
	IDs []string `json:"ids"`
}

// HandleApproveBulk handles POST /api/v1/contributions/approve-bulk
func (h *ContributionHandler) HandleApproveBulk(w http.ResponseWriter, r *http.Request) {
	var req apiBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids is required", nil)
		return
	}

	results := h.pipeline.ApproveBulk(r.Context(), req.IDs)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// HandleRejectBulk handles POST /api/v1/contributions/reject-bulk
func (h *ContributionHandler) HandleRejectBulk(w http.ResponseWriter, r *http.Request) {
	var req apiBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids is required", nil)
		return
	}

	results := h.pipeline.RejectBulk(r.Context(), req.IDs)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// HandleHistory handles GET /api/v1/contributions/history
func (h *ContributionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.pipeline.History(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"history": entries,
	})
}

func (h *ContributionHandler) bearerIdentity(r *http.Request) *auth.Identity {
	if h.auth == nil {
		return nil
	}
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	identity, err := h.auth.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}
	return identity
}

// respondContributionError maps pipeline error types to HTTP statuses.
func respondContributionError(w http.ResponseWriter, message string, err error) {
	var validation *contrib.ValidationError
	var merge *contrib.MergeError

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, contrib.ErrNotFound):
		respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, contrib.ErrInvalidTransition):
		respondError(w, http.StatusConflict, message, err)
	case errors.As(err, &merge):
		respondError(w, http.StatusUnprocessableEntity, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}
