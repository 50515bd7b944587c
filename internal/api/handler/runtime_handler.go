package handler

import (
	"fmt"
	"net/http"

	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/platform/executor"
	"github.com/go-chi/chi/v5"
)

// RuntimeCatalog lists the language versions offered to solvers.
type RuntimeCatalog interface {
	All() []model.Runtime
}

type RuntimeHandler struct {
	catalog  RuntimeCatalog
	executor executor.Executor
}

func NewRuntimeHandler(catalog RuntimeCatalog, exec executor.Executor) *RuntimeHandler {
	return &RuntimeHandler{catalog: catalog, executor: exec}
}

type RuntimeStatus struct {
	model.Runtime
	Available bool `json:"available"`
}

type RuntimeCheckResponse struct {
	Runtimes     []RuntimeStatus `json:"runtimes"`
	RemoteCount  int             `json:"remoteCount"`
	AllAvailable bool            `json:"allAvailable"`
}

func (h *RuntimeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listRuntimes) // GET /api/v1/runtimes
	r.Get("/check", h.check)   // GET /api/v1/runtimes/check
}

func (h *RuntimeHandler) listRuntimes(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, h.catalog.All())
}

// check asks the code executor which runtimes it has installed and marks
// every configured runtime available or not.
func (h *RuntimeHandler) check(w http.ResponseWriter, r *http.Request) {
	remote, err := h.executor.Runtimes(r.Context())
	if err != nil {
		if common.HTTPStatusFromError(err) == http.StatusInternalServerError {
			err = fmt.Errorf("%v: %w", err, common.ErrServiceUnavailable)
		}
		common.RespondWithErr(w, err)
		return
	}

	installed := make(map[string]bool, len(remote))
	for _, rt := range remote {
		installed[rt.Language+"@"+rt.Version] = true
		for _, alias := range rt.Aliases {
			installed[alias+"@"+rt.Version] = true
		}
	}

	resp := RuntimeCheckResponse{RemoteCount: len(remote), AllAvailable: true}
	for _, rt := range h.catalog.All() {
		ok := installed[string(rt.Language)+"@"+rt.Version]
		resp.Runtimes = append(resp.Runtimes, RuntimeStatus{Runtime: rt, Available: ok})
		resp.AllAvailable = resp.AllAvailable && ok
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
