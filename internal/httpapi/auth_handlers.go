package httpapi

import (
	"net/http"
	"strings"

	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
)

type signUpRequest struct {
	AdminAccessCode string `json:"adminAccessCode"`
	CIN             string `json:"CIN"`
	Password        string `json:"password"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

type signInRequest struct {
	CIN      string `json:"CIN"`
	Password string `json:"password"`
}

type signOutRequest struct {
	UserID string `json:"userId"`
}

type renewAccessRequest struct {
	RenewToken string `json:"renewToken"`
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, _, err := a.auth.SignUp(r.Context(), auth.SignUpParams{
		AdminAccessCode: req.AdminAccessCode,
		CIN:             req.CIN,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Auth:     &authPayload{AccessToken: pair.AccessToken, RenewToken: pair.RenewToken},
		Response: successMeta(r, http.StatusOK, locale.KeySignedUp),
	})
}

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, _, err := a.auth.SignIn(r.Context(), req.CIN, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Auth:     &authPayload{AccessToken: pair.AccessToken, RenewToken: pair.RenewToken},
		Response: successMeta(r, http.StatusOK, locale.KeySignedIn),
	})
}

func (a *API) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signOutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// the body may carry a userId; the token identity is the fallback
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID, _ = auth.UserIDFromContext(r.Context())
	}

	if err := a.auth.SignOut(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Response: successMeta(r, http.StatusOK, locale.KeySignedOut),
	})
}

func (a *API) handleRenewAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req renewAccessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	access, err := a.auth.RenewAccess(r.Context(), req.RenewToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Auth: &authPayload{AccessToken: access},
	})
}
