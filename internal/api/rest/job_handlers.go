package rest

import (
	"encoding/json"
	"net/http"

	"github.com/herolabs/hokhub/internal/jobs"
)

// JobHandler proxies API calls to the reconcile job service.
type JobHandler struct {
	service *jobs.Service
}

// NewJobHandler wires the REST layer to the job service.
func NewJobHandler(service *jobs.Service) *JobHandler {
	return &JobHandler{service: service}
}

type apiReconcileRequest struct {
	JobType jobs.JobType `json:"job_type"`
}

// HandleReconcileRequest handles POST /api/v1/reconcile
func (h *JobHandler) HandleReconcileRequest(w http.ResponseWriter, r *http.Request) {
	var req apiReconcileRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	job, err := h.service.Enqueue(req.JobType)
	if err != nil {
		respondError(w, http.StatusConflict, "Failed to enqueue reconcile job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": job,
	})
}

// HandleReconcileStatus handles GET /api/v1/reconcile/status
func (h *JobHandler) HandleReconcileStatus(w http.ResponseWriter, r *http.Request) {
	summary := h.service.GetStatus()

	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"history": summary.History,
	}
	if summary.History == nil {
		response["history"] = []*jobs.Job{}
	}

	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		if summary.ActiveJob.StatusMessage != "" {
			response["message"] = summary.ActiveJob.StatusMessage
		}
		response["active_job"] = summary.ActiveJob
	}

	respondJSON(w, http.StatusOK, response)
}
