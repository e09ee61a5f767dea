package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/locale"
)

const languageHeader = "language"

// authPayload is the token block on sign-up, sign-in and renewal responses.
type authPayload struct {
	AccessToken string `json:"accessToken,omitempty"`
	RenewToken  string `json:"renewToken,omitempty"`
}

// responseMeta is the localized status block; the three boolean flags drive
// the client's renew-or-logout decision.
type responseMeta struct {
	StatusCode         int    `json:"statusCode"`
	Title              string `json:"title"`
	Message            string `json:"message"`
	ExpiredAccessToken bool   `json:"expiredAccessToken,omitempty"`
	ExpiredRenewToken  bool   `json:"expiredRenewToken,omitempty"`
	AccessUnauthorized bool   `json:"accessUnauthorized,omitempty"`
}

type paginationMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type envelope struct {
	Auth       *authPayload    `json:"auth,omitempty"`
	Data       any             `json:"data,omitempty"`
	Pagination *paginationMeta `json:"pagination,omitempty"`
	Response   *responseMeta   `json:"response,omitempty"`
}

func langOf(r *http.Request) locale.Language {
	return locale.Parse(r.Header.Get(languageHeader))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// successMeta builds the localized response block for a success key.
func successMeta(r *http.Request, code int, key locale.Key) *responseMeta {
	text := locale.Lookup(langOf(r), key)
	return &responseMeta{StatusCode: code, Title: text.Title, Message: text.Message}
}

// writeError renders any error as the localized error envelope. Errors that
// are not apperr values become opaque 500s.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.From(err)
	if !ok {
		appErr = apperr.Wrap(err, http.StatusInternalServerError, locale.KeyInternalServerError)
	}
	text := locale.Lookup(langOf(r), appErr.Key)
	writeJSON(w, appErr.Status, envelope{Response: &responseMeta{
		StatusCode:         appErr.Status,
		Title:              text.Title,
		Message:            text.Message,
		ExpiredAccessToken: appErr.ExpiredAccessToken,
		ExpiredRenewToken:  appErr.ExpiredRenewToken,
		AccessUnauthorized: appErr.AccessUnauthorized,
	}})
}

// decodeJSON strictly decodes a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(err, http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperr.Wrap(errors.New("body must contain a single JSON object"),
			http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, r, apperr.New(http.StatusMethodNotAllowed, locale.KeyInvalidRequest))
}

func pageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
