// Package session owns the authentication state of the storefront client.
// It knows nothing about carts; other components react to its transitions
// through Subscribe.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("access token expired")
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*apiclient.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*apiclient.TokenPair, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

type User struct {
	ID    string
	Email string
	Role  string
}

func (u User) IsAdmin() bool { return u.Role == "admin" }

type State struct {
	Authenticated bool
	Loading       bool
	User          *User
}

// Tokens is what a caller needs to persist a session between runs.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l.With("component", "session") }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	auth Authenticator
	log  *slog.Logger
	now  func() time.Time

	mu           sync.Mutex
	state        State
	tokens       Tokens
	listeners    map[int]func(State)
	nextListener int
}

func New(auth Authenticator, opts ...Option) *Store {
	s := &Store{
		auth:      auth,
		log:       slog.Default().With("component", "session"),
		now:       time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

func (s *Store) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// Subscribe registers fn for every state change. fn runs outside the store
// lock on the goroutine that caused the change.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	l := s.log.With("email", email)
	had := s.State().Authenticated

	s.transition(func(st *State) { st.Loading = true })

	pair, err := s.auth.Login(ctx, email, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		s.abandon(had)
		return fmt.Errorf("login: %w", err)
	}

	if err := s.install(pair.AccessToken, pair.RefreshToken); err != nil {
		l.Warn("login_failed", "reason", "bad access token", "error", err)
		s.abandon(had)
		return fmt.Errorf("login: %w", err)
	}
	l.Info("login_success")
	return nil
}

// Restore resumes a saved session. Expired access tokens are refused; the
// caller may try Refresh with the saved refresh token instead.
func (s *Store) Restore(t Tokens) error {
	claims, err := tokens.PeekAccessClaims(t.AccessToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if tokens.Expired(claims, s.now()) {
		return fmt.Errorf("restore session: %w", ErrTokenExpired)
	}
	return s.install(t.AccessToken, t.RefreshToken)
}

// Resume is Restore that falls back to a refresh when the saved access
// token has expired.
func (s *Store) Resume(ctx context.Context, t Tokens) error {
	err := s.Restore(t)
	if !errors.Is(err, ErrTokenExpired) || t.RefreshToken == "" {
		return err
	}

	pair, err := s.auth.Refresh(ctx, t.RefreshToken)
	if err != nil {
		s.log.Warn("resume_refresh_failed", "error", err)
		return fmt.Errorf("resume session: %w", err)
	}
	if err := s.install(pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	return nil
}

// Refresh trades the refresh token for a new pair. Failure ends the session.
func (s *Store) Refresh(ctx context.Context) error {
	refresh := s.Tokens().RefreshToken
	if refresh == "" {
		return ErrNotAuthenticated
	}

	pair, err := s.auth.Refresh(ctx, refresh)
	if err != nil {
		s.log.Warn("refresh_failed", "error", err)
		s.end()
		return fmt.Errorf("refresh: %w", err)
	}
	if err := s.install(pair.AccessToken, pair.RefreshToken); err != nil {
		s.end()
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// Logout ends the session locally. The remote logout is best effort.
func (s *Store) Logout(ctx context.Context) {
	if !s.State().Authenticated {
		return
	}
	if err := s.auth.Logout(ctx); err != nil {
		s.log.Warn("remote_logout_failed", "error", err)
	}
	s.end()
	s.log.Info("logout")
}

func (s *Store) install(access, refresh string) error {
	claims, err := tokens.PeekAccessClaims(access)
	if err != nil {
		return err
	}

	// A different subject replacing a live session passes through the
	// unauthenticated state so per-user data is dropped and reloaded.
	if cur := s.State(); cur.Authenticated && cur.User != nil && cur.User.ID != claims.Subject {
		s.log.Info("session_switch", "from", cur.User.ID, "to", claims.Subject)
		s.end()
	}

	s.auth.SetToken(access)
	s.mu.Lock()
	s.tokens = Tokens{AccessToken: access, RefreshToken: refresh}
	s.mu.Unlock()

	s.transition(func(st *State) {
		st.Authenticated = true
		st.Loading = false
		st.User = &User{ID: claims.Subject, Email: claims.Email, Role: claims.Role}
	})
	return nil
}

// abandon settles a failed login attempt. An existing session survives it.
func (s *Store) abandon(hadSession bool) {
	if hadSession {
		s.transition(func(st *State) { st.Loading = false })
		return
	}
	s.end()
}

func (s *Store) end() {
	s.auth.SetToken("")
	s.mu.Lock()
	s.tokens = Tokens{}
	s.mu.Unlock()

	s.transition(func(st *State) { *st = State{} })
}

func (s *Store) transition(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	out := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copyState(out))
	}
}

func copyState(st State) State {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
