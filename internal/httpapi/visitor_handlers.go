package httpapi

import (
	"net/http"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
	"github.com/esslidev/sga-advanced-system/internal/visitor"
)

type visitorResponse struct {
	ID          string `json:"id"`
	CIN         string `json:"CIN"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	VisitsCount *int   `json:"visitsCount,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toVisitorResponse(v *visitor.Visitor, withCount bool) visitorResponse {
	resp := visitorResponse{
		ID:        v.ID,
		CIN:       v.CIN,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if withCount {
		count := v.VisitsCount
		resp.VisitsCount = &count
	}
	return resp
}

type addVisitorRequest struct {
	CIN       string `json:"CIN" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type updateVisitorRequest struct {
	ID        string `json:"id" validate:"required"`
	CIN       string `json:"CIN"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (a *API) handleGetVisitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	v, err := a.visitors.Get(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: toVisitorResponse(v, false)})
}

func (a *API) handleGetVisitors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 10)
	page := intParam(q.Get("page"), 1)

	visitors, total, err := a.visitors.List(r.Context(), visitor.ListParams{
		Search:      q.Get("search"),
		OrderByName: q.Get("orderByName") != "",
		Limit:       limit,
		Page:        page,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]visitorResponse, 0, len(visitors))
	for _, v := range visitors {
		data = append(data, toVisitorResponse(v, true))
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:       data,
		Pagination: &paginationMeta{Total: total, Page: page, Pages: pageCount(total, limit)},
	})
}

func (a *API) handleAddVisitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req addVisitorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, r, apperr.Wrap(err, http.StatusBadRequest, locale.KeyMissingParameters))
		return
	}

	actorID, _ := auth.UserIDFromContext(r.Context())
	if _, err := a.visitors.Add(r.Context(), actorID, req.CIN, req.FirstName, req.LastName); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Response: successMeta(r, http.StatusCreated, locale.KeyVisitorCreated),
	})
}

func (a *API) handleUpdateVisitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	var req updateVisitorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, r, apperr.Wrap(err, http.StatusBadRequest, locale.KeyInvalidRequest))
		return
	}

	actorID, _ := auth.UserIDFromContext(r.Context())
	_, err := a.visitors.Update(r.Context(), actorID, visitor.UpdateParams{
		ID:        req.ID,
		CIN:       req.CIN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Response: successMeta(r, http.StatusOK, locale.KeyVisitorUpdated),
	})
}

func (a *API) handleDeleteVisitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	actorID, _ := auth.UserIDFromContext(r.Context())
	if err := a.visitors.Delete(r.Context(), actorID, r.URL.Query().Get("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Response: successMeta(r, http.StatusOK, locale.KeyVisitorDeleted),
	})
}
