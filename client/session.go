package client

import "sync"

// Auth is the token pair held by a session.
type Auth struct {
	AccessToken string
	RenewToken  string
}

// Empty reports whether no tokens are held.
func (a Auth) Empty() bool { return a.AccessToken == "" && a.RenewToken == "" }

// Session holds the current token pair and notifies subscribers when it
// changes, so callers can react to forced logouts.
type Session struct {
	mu   sync.RWMutex
	auth Auth
	subs []chan Auth
}

func NewSession() *Session { return &Session{} }

// Auth returns the current token pair.
func (s *Session) Auth() Auth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// Set replaces the token pair.
func (s *Session) Set(a Auth) {
	s.mu.Lock()
	s.auth = a
	subs := append([]chan Auth(nil), s.subs...)
	s.mu.Unlock()
	notify(subs, a)
}

// SetAccessToken swaps in a renewed access token, keeping the renew token.
func (s *Session) SetAccessToken(tok string) {
	s.mu.Lock()
	s.auth.AccessToken = tok
	a := s.auth
	subs := append([]chan Auth(nil), s.subs...)
	s.mu.Unlock()
	notify(subs, a)
}

// Clear drops both tokens.
func (s *Session) Clear() { s.Set(Auth{}) }

// Subscribe returns a channel receiving each auth state change. Slow
// receivers miss intermediate states rather than blocking the session.
func (s *Session) Subscribe() <-chan Auth {
	ch := make(chan Auth, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func notify(subs []chan Auth, a Auth) {
	for _, ch := range subs {
		select {
		case ch <- a:
		default:
		}
	}
}
