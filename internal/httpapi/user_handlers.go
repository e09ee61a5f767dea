package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
)

type userResponse struct {
	ID        string `json:"id"`
	CIN       string `json:"CIN"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserResponse(u *auth.User, withRole bool) userResponse {
	resp := userResponse{
		ID:        u.ID,
		CIN:       u.CIN,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if withRole {
		resp.Role = string(u.Role)
	}
	return resp
}

// handleGetUser returns the authenticated caller's own record.
func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest))
		return
	}

	user, err := a.auth.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: toUserResponse(user, false)})
}

func (a *API) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 10)
	page := intParam(q.Get("page"), 1)

	users, total, err := a.auth.ListUsers(r.Context(), auth.ListUsersParams{
		Search:      q.Get("search"),
		OrderByName: q.Get("orderByName") != "",
		Limit:       limit,
		Page:        page,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]userResponse, 0, len(users))
	for _, u := range users {
		data = append(data, toUserResponse(u, true))
	}
	writeJSON(w, http.StatusOK, envelope{
		Data:       data,
		Pagination: &paginationMeta{Total: total, Page: page, Pages: pageCount(total, limit)},
	})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	actorID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest))
		return
	}

	if err := a.auth.DeleteUser(r.Context(), actorID, r.URL.Query().Get("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Response: successMeta(r, http.StatusOK, locale.KeyUserDeleted),
	})
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
