// Package client is the Go client for the visitor-management API. It keeps
// the access/renew token pair in a Session and transparently renews an
// expired access token once before failing over to a forced logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrAccessTokenMissing means the caller is not signed in.
	ErrAccessTokenMissing = errors.New("client: access token missing")

	// ErrSessionExpired means renewal failed and the session was cleared; the
	// user must sign in again.
	ErrSessionExpired = errors.New("client: session expired")
)

// ResponseMeta mirrors the API's response block.
type ResponseMeta struct {
	StatusCode         int    `json:"statusCode"`
	Title              string `json:"title"`
	Message            string `json:"message"`
	ExpiredAccessToken bool   `json:"expiredAccessToken"`
	ExpiredRenewToken  bool   `json:"expiredRenewToken"`
	AccessUnauthorized bool   `json:"accessUnauthorized"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Meta ResponseMeta
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Meta.StatusCode, e.Meta.Title)
}

type authBlock struct {
	AccessToken string `json:"accessToken"`
	RenewToken  string `json:"renewToken"`
}

type apiEnvelope struct {
	Auth       *authBlock      `json:"auth"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
	Response   *ResponseMeta   `json:"response"`
}

// Client talks to the API.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	httpc    *http.Client
	session  *Session
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// WithAPIKey sets the integration key sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLanguage sets the response language ("ar" or "fr").
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithSession attaches an existing session, sharing tokens between clients.
func WithSession(s *Session) Option {
	return func(c *Client) {
		if s != nil {
			c.session = s
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		language: "ar",
		httpc:    &http.Client{Timeout: 15 * time.Second},
		session:  NewSession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the client's session for subscription and inspection.
func (c *Client) Session() *Session { return c.session }

// SignUpParams carries the sign-up request.
type SignUpParams struct {
	AdminAccessCode string `json:"adminAccessCode"`
	CIN             string `json:"CIN"`
	Password        string `json:"password"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// SignUp registers an account and stores the returned token pair.
func (c *Client) SignUp(ctx context.Context, p SignUpParams) error {
	env, err := c.post(ctx, "/api/auth/sign-up", p, "")
	if err != nil {
		return err
	}
	if env.Auth != nil {
		c.session.Set(Auth{AccessToken: env.Auth.AccessToken, RenewToken: env.Auth.RenewToken})
	}
	return nil
}

// SignIn authenticates and stores the returned token pair.
func (c *Client) SignIn(ctx context.Context, cin, password string) error {
	body := map[string]string{"CIN": cin, "password": password}
	env, err := c.post(ctx, "/api/auth/sign-in", body, "")
	if err != nil {
		return err
	}
	if env.Auth != nil {
		c.session.Set(Auth{AccessToken: env.Auth.AccessToken, RenewToken: env.Auth.RenewToken})
	}
	return nil
}

// SignOut removes the server-side session and clears local tokens. Local
// tokens are dropped even when the server call fails.
func (c *Client) SignOut(ctx context.Context, userID string) error {
	defer c.session.Clear()
	_, err := c.post(ctx, "/api/auth/sign-out",
		map[string]string{"userId": userID}, c.session.Auth().AccessToken)
	return err
}

// RenewAccess exchanges the stored renew token for a fresh access token. An
// expired or rejected renew token clears the session.
func (c *Client) RenewAccess(ctx context.Context) error {
	auth := c.session.Auth()
	if auth.RenewToken == "" {
		c.session.Clear()
		return ErrSessionExpired
	}
	env, err := c.post(ctx, "/api/auth/access/renew", map[string]string{"renewToken": auth.RenewToken}, "")
	if err != nil {
		c.session.Clear()
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return ErrSessionExpired
		}
		return err
	}
	if env.Auth == nil || env.Auth.AccessToken == "" {
		c.session.Clear()
		return ErrSessionExpired
	}
	c.session.SetAccessToken(env.Auth.AccessToken)
	return nil
}

// Do performs an authenticated request. When the server reports an expired
// access token, the client renews once and retries once; any renewal failure
// clears the session and returns ErrSessionExpired.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	access := c.session.Auth().AccessToken
	if access == "" {
		return ErrAccessTokenMissing
	}

	env, err := c.roundTrip(ctx, method, path, body, access)
	if err == nil {
		return decodeData(env, out)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.Meta.ExpiredAccessToken {
		return err
	}

	if renewErr := c.RenewAccess(ctx); renewErr != nil {
		return renewErr
	}
	env, err = c.roundTrip(ctx, method, path, body, c.session.Auth().AccessToken)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func (c *Client) post(ctx context.Context, path string, body any, access string) (*apiEnvelope, error) {
	return c.roundTrip(ctx, http.MethodPost, path, body, access)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, access string) (*apiEnvelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.language != "" {
		req.Header.Set("language", c.language)
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		meta := ResponseMeta{StatusCode: resp.StatusCode}
		if env.Response != nil {
			meta = *env.Response
		}
		return nil, &APIError{Meta: meta}
	}
	return &env, nil
}

func decodeData(env *apiEnvelope, out any) error {
	if out == nil || env == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
