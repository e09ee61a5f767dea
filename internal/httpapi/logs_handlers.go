package httpapi

import (
	"net/http"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/locale"
)

type logResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

func (a *API) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 10)
	page := intParam(q.Get("page"), 1)

	query := audit.Query{
		UserID: q.Get("userId"),
		Limit:  limit,
		Page:   page,
	}
	if raw := q.Get("searchByAction"); raw != "" {
		action := audit.Action(raw)
		if !action.Valid() {
			writeError(w, r, apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest))
			return
		}
		query.Action = action
	}

	entries, total, err := a.logs.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]logResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, logResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    string(e.Action),
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:       data,
		Pagination: &paginationMeta{Total: total, Page: page, Pages: pageCount(total, limit)},
	})
}
