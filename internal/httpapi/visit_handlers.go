package httpapi

import (
	"net/http"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
	"github.com/esslidev/sga-advanced-system/internal/visit"
)

type visitResponse struct {
	ID          string   `json:"id"`
	Divisions   []string `json:"divisions"`
	VisitDate   string   `json:"visitDate"`
	VisitReason string   `json:"visitReason"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toVisitResponse(v *visit.Visit) visitResponse {
	divisions := make([]string, 0, len(v.Divisions))
	for _, d := range v.Divisions {
		divisions = append(divisions, string(d))
	}
	return visitResponse{
		ID:          v.ID,
		Divisions:   divisions,
		VisitDate:   v.Date.UTC().Format(time.RFC3339),
		VisitReason: v.Reason,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type visitorRef struct {
	CIN       string `json:"CIN" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type addVisitRequest struct {
	VisitDate   time.Time  `json:"visitDate" validate:"required"`
	Divisions   []string   `json:"divisions" validate:"required,min=1,dive,oneof=division1 division2 division3 division4 division5"`
	VisitReason string     `json:"visitReason" validate:"required"`
	Visitor     visitorRef `json:"visitor" validate:"required"`
}

type updateVisitRequest struct {
	ID          string    `json:"id" validate:"required"`
	VisitorCIN  string    `json:"visitorCIN" validate:"omitempty,cin"`
	VisitDate   time.Time `json:"visitDate"`
	Divisions   []string  `json:"divisions" validate:"omitempty,min=1,dive,oneof=division1 division2 division3 division4 division5"`
	VisitReason string    `json:"visitReason"`
}

func (a *API) handleGetVisits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 10)
	page := intParam(q.Get("page"), 1)

	visits, total, err := a.visits.List(r.Context(), visit.Query{
		VisitorID: q.Get("visitorId"),
		Limit:     limit,
		Page:      page,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]visitResponse, 0, len(visits))
	for _, v := range visits {
		data = append(data, toVisitResponse(v))
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:       data,
		Pagination: &paginationMeta{Total: total, Page: page, Pages: pageCount(total, limit)},
	})
}

func (a *API) handleAddVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req addVisitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, r, apperr.Wrap(err, http.StatusBadRequest, locale.KeyInvalidVisitData))
		return
	}
	divisions, err := visit.ParseDivisions(req.Divisions)
	if err != nil {
		writeError(w, r, apperr.Wrap(err, http.StatusBadRequest, locale.KeyInvalidVisitData))
		return
	}

	actorID, _ := auth.UserIDFromContext(r.Context())
	_, err = a.visits.Add(r.Context(), actorID, visit.AddParams{
		Date:             req.VisitDate,
		Reason:           req.VisitReason,
		Divisions:        divisions,
		VisitorCIN:       req.Visitor.CIN,
		VisitorFirstName: req.Visitor.FirstName,
		VisitorLastName:  req.Visitor.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Response: successMeta(r, http.StatusCreated, locale.KeyVisitCreated),
	})
}

func (a *API) handleUpdateVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	var req updateVisitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, r, apperr.Wrap(err, http.StatusBadRequest, locale.KeyInvalidVisitData))
		return
	}

	params := visit.UpdateParams{
		ID:     req.ID,
		Date:   req.VisitDate,
		Reason: req.VisitReason,
	}
	if req.Divisions != nil {
		divisions, err := visit.ParseDivisions(req.Divisions)
		if err != nil {
			writeError(w, r, apperr.Wrap(err, http.StatusBadRequest, locale.KeyInvalidVisitData))
			return
		}
		params.Divisions = divisions
	}
	if req.VisitorCIN != "" {
		vis, err := a.visitors.GetByCIN(r.Context(), req.VisitorCIN)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.VisitorID = vis.ID
	}

	actorID, _ := auth.UserIDFromContext(r.Context())
	if err := a.visits.Update(r.Context(), actorID, params); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Response: successMeta(r, http.StatusOK, locale.KeyVisitUpdated),
	})
}

func (a *API) handleDeleteVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	actorID, _ := auth.UserIDFromContext(r.Context())
	if err := a.visits.Delete(r.Context(), actorID, r.URL.Query().Get("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Response: successMeta(r, http.StatusOK, locale.KeyVisitDeleted),
	})
}
