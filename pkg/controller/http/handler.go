package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
	"github.com/secmon-lab/ethiq/pkg/usecase"
	"github.com/secmon-lab/ethiq/pkg/utils/apperr"
)

var errBadRequest = goerr.New("bad request")

type apiHandler struct {
	registry *usecase.Registry
}

// TransitionRequest is the body of POST /api/items/{id}/transition
type TransitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor,omitempty"`
	Note   string `json:"note,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, model.ErrNotFound):
		status, msg = http.StatusNotFound, model.ErrNotFound.Error()
	case errors.Is(err, model.ErrIllegalTransition):
		status, msg = http.StatusConflict, model.ErrIllegalTransition.Error()
	case errors.Is(err, model.ErrInvalidFilter):
		status, msg = http.StatusBadRequest, model.ErrInvalidFilter.Error()
	case errors.Is(err, errBadRequest):
		status, msg = http.StatusBadRequest, err.Error()
	}

	if status >= http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
	} else {
		ctxlog.From(r.Context()).Warn("request rejected", "status", status, "error", err)
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func groupParam(v string) *types.GroupID {
	if v == "" || v == model.FilterAll {
		return nil
	}
	id := types.GroupID(v)
	return &id
}

func (h *apiHandler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec := model.FilterSpec{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Grade:    q.Get("grade"),
		Kind:     types.Kind(q.Get("kind")),
		GroupID:  groupParam(q.Get("group")),
	}

	items, err := h.registry.Query(r.Context(), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (h *apiHandler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.registry.GetItem(r.Context(), types.ItemID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (h *apiHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.registry.History(r.Context(), types.ItemID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, history)
}

func (h *apiHandler) transition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(errBadRequest, "invalid request body", goerr.V("reason", err.Error())))
		return
	}
	if req.Status == "" {
		writeError(w, r, goerr.Wrap(errBadRequest, "status is required"))
		return
	}

	item, err := h.registry.Transition(r.Context(),
		types.ItemID(chi.URLParam(r, "id")),
		types.Status(req.Status),
		usecase.WithActor(req.Actor),
		usecase.WithNote(req.Note),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (h *apiHandler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.registry.ListGroups(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, groups)
}

func (h *apiHandler) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.registry.GetGroup(r.Context(), types.GroupID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, group)
}

func (h *apiHandler) getScore(w http.ResponseWriter, r *http.Request) {
	agg, err := h.registry.Score(r.Context(), types.GroupID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, agg)
}

func (h *apiHandler) overview(w http.ResponseWriter, r *http.Request) {
	aggs, err := h.registry.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, aggs)
}

func (h *apiHandler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.registry.Categories(r.Context(), groupParam(r.URL.Query().Get("group")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, r, http.StatusOK, categories)
}
