package api

import (
	"net/http"

	service "github.com/okian/arthouse/internal/app"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/pkg/logger"
)

type directorList struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []model.Director `json:"data"`
}

type directorProfile struct {
	Success bool                    `json:"success"`
	Data    service.DirectorProfile `json:"data"`
}

// DirectorsHandler serves director profiles.
type DirectorsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDirectorsHandler creates a new directors handler.
func NewDirectorsHandler(deps Dependencies, l logger.Logger) *DirectorsHandler {
	return &DirectorsHandler{deps: deps, logger: l}
}

// HandleList handles GET /api/directors.
func (h *DirectorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	dirs, err := h.deps.ListDirectors(r.Context())
	if err != nil {
		failRequest(w, r, h.logger, Wrap("api.list_directors", err))
		return
	}
	if dirs == nil {
		dirs = []model.Director{}
	}
	writeJSON(w, http.StatusOK, directorList{Success: true, Count: len(dirs), Data: dirs})
}

// HandleGet handles GET /api/directors/{id}.
func (h *DirectorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.GetDirector(r.Context(), r.PathValue("id"))
	if err != nil {
		failRequest(w, r, h.logger, Wrap("api.get_director", err))
		return
	}
	if p.Films == nil {
		p.Films = []model.Film{}
	}
	writeJSON(w, http.StatusOK, directorProfile{Success: true, Data: p})
}
