package handler

import (
	"net/http"

	"github.com/Vivek290100/CodeMaster/internal/app/service"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/go-chi/chi/v5"
)

// ExecutionHandler serves asynchronous executions. Without a job service
// (no Redis) every route answers 503.
type ExecutionHandler struct {
	jobService *service.ExecutionJobService
}

func NewExecutionHandler(js *service.ExecutionJobService) *ExecutionHandler {
	return &ExecutionHandler{jobService: js}
}

type EnqueueResponse struct {
	JobID string `json:"job_id"`
}

func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.enqueue)      // POST /api/v1/executions
	r.Get("/{jobID}", h.getJob) // GET /api/v1/executions/{jobID}
}

func (h *ExecutionHandler) enqueue(w http.ResponseWriter, r *http.Request) {
	if h.jobService == nil {
		common.RespondWithErr(w, common.ErrServiceUnavailable)
		return
	}

	var req model.ExecuteRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	job, err := h.jobService.Enqueue(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+job.ID)
	common.RespondWithJSON(w, http.StatusAccepted, EnqueueResponse{JobID: job.ID})
}

func (h *ExecutionHandler) getJob(w http.ResponseWriter, r *http.Request) {
	if h.jobService == nil {
		common.RespondWithErr(w, common.ErrServiceUnavailable)
		return
	}

	job, err := h.jobService.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, job)
}
