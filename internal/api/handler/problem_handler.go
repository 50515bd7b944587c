package handler

import (
	"net/http"

	"github.com/Vivek290100/CodeMaster/internal/api/middleware"
	"github.com/Vivek290100/CodeMaster/internal/app/service"
	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService   *service.ProblemService
	executionService *service.ExecutionService
}

func NewProblemHandler(ps *service.ProblemService, es *service.ExecutionService) *ProblemHandler {
	return &ProblemHandler{problemService: ps, executionService: es}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)                                    // GET /api/v1/problems?difficulty=Easy
	r.Get("/{idOrSlug}", h.getProblem)                            // GET /api/v1/problems/two-sum
	r.Get("/{idOrSlug}/boilerplate/{language}", h.getBoilerplate) // GET /api/v1/problems/{id}/boilerplate/python
	r.Post("/execute", h.execute)                                 // POST /api/v1/problems/execute

	r.Group(func(authorRouter chi.Router) {
		authorRouter.Use(middleware.Authenticator)
		authorRouter.Use(middleware.AuthorOnly)
		authorRouter.Post("/", h.createProblem) // POST /api/v1/problems
	})
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateProblemRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	problem, err := h.problemService.CreateProblem(r.Context(), userID, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	difficulty := model.ProblemDifficulty(r.URL.Query().Get("difficulty"))

	problems, err := h.problemService.ListProblems(r.Context(), difficulty)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetProblem(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) getBoilerplate(w http.ResponseWriter, r *http.Request) {
	lang := model.Language(chi.URLParam(r, "language"))
	bp, err := h.problemService.GenerateBoilerplate(r.Context(), chi.URLParam(r, "idOrSlug"), lang)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, bp)
}

// execute runs a submission synchronously. The response arrives only after
// every test case has been run.
func (h *ProblemHandler) execute(w http.ResponseWriter, r *http.Request) {
	var req model.ExecuteRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	report, err := h.executionService.Execute(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, report)
}
