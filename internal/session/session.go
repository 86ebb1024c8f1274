package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/internal/storage"
	"github.com/samvad-hq/samvad-portal/pkg/apiclient"
	"github.com/samvad-hq/samvad-portal/pkg/publishers"
)

// TokenCookie is the cookie holding the session credential.
const TokenCookie = "token"

// ErrNoToken is returned when a successful auth response carries no token.
var ErrNoToken = errors.New("auth response has no token")

// CookieCredential reads the session token from the cookie store on every call.
type CookieCredential struct {
	Store storage.Store
}

// Credential returns the stored token, or "" when none is stored or the store
// cannot be read.
func (c CookieCredential) Credential() string {
	if c.Store == nil {
		return ""
	}
	token, err := c.Store.Get(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// AuthAPI is the part of the API client the session flows use.
type AuthAPI interface {
	SignIn(ctx context.Context, data any) (apiclient.Payload, error)
	SignUp(ctx context.Context, data any) (apiclient.Payload, error)
}

// EventPublisher fans auth events out to configured sinks.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Manager runs the sign-in, sign-up and sign-out flows and owns writes to the
// token cookie.
type Manager struct {
	api    AuthAPI
	store  storage.Store
	events EventPublisher
	log    logger.Logger
}

// NewManager wires a session manager. events may be nil.
func NewManager(api AuthAPI, store storage.Store, events EventPublisher, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Manager{api: api, store: store, events: events, log: log}
}

// SignIn authenticates and persists the returned token.
func (m *Manager) SignIn(ctx context.Context, data any) (apiclient.Payload, error) {
	return m.authenticate(ctx, publishers.EventSignIn, data, m.api.SignIn)
}

// SignUp registers and persists the returned token. A successful response
// without a token yields ErrNoToken and leaves the stored cookie untouched.
func (m *Manager) SignUp(ctx context.Context, data any) (apiclient.Payload, error) {
	return m.authenticate(ctx, publishers.EventSignUp, data, m.api.SignUp)
}

func (m *Manager) authenticate(ctx context.Context, kind string, data any, call func(context.Context, any) (apiclient.Payload, error)) (apiclient.Payload, error) {
	payload, err := call(ctx, data)
	if err != nil {
		m.publish(ctx, kind, publishers.OutcomeFailure)
		return nil, err
	}

	token, ok := payload.StringField(TokenCookie)
	if !ok || token == "" {
		m.publish(ctx, kind, publishers.OutcomeFailure)
		return payload, ErrNoToken
	}
	if err := m.store.Set(TokenCookie, token); err != nil {
		return payload, fmt.Errorf("persist token: %w", err)
	}

	m.log.InfoObj("session established", "session", map[string]any{"flow": kind})
	m.publish(ctx, kind, publishers.OutcomeSuccess)
	return payload, nil
}

// SignOut clears the stored token.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.Delete(TokenCookie); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	m.log.InfoObj("session cleared", "session", map[string]any{"flow": publishers.EventSignOut})
	m.publish(ctx, publishers.EventSignOut, publishers.OutcomeSuccess)
	return nil
}

// SignedIn reports whether a token is currently stored.
func (m *Manager) SignedIn() bool {
	return CookieCredential{Store: m.store}.Credential() != ""
}

func (m *Manager) publish(ctx context.Context, kind, outcome string) {
	if m.events == nil {
		return
	}
	evt := publishers.NewEvent(kind, outcome, time.Now())
	if _, err := m.events.Publish(ctx, evt); err != nil {
		m.log.WarnObj("auth event publish failed", "publish_error", map[string]any{
			"type":  kind,
			"error": err.Error(),
		})
	}
}
