// Package session owns client-side session state: the current user, the persisted bearer
// token, and the login, logout and register flows that move between them.
//
// A Controller starts Pending. Initialize settles it to Anonymous or Authenticated by
// verifying the stored token against the backend. Every operation that writes state takes a
// ticket when it starts; a result is applied only if no operation that started later has
// already applied its own, so slow responses cannot overwrite newer state.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hongminglow/authflow/internal/logging"
	"github.com/hongminglow/authflow/internal/models"
	"github.com/hongminglow/authflow/internal/models/dto"
)

// Backend is the subset of the HTTP API the controller depends on.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req dto.RegisterRequest) error
	Me(ctx context.Context, token string) (models.User, error)
}

// TokenStore is the durable slot holding the session token.
type TokenStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Option customizes a Controller.
type Option func(*Controller)

// WithNavigator sets the receiver of navigation effects.
func WithNavigator(n Navigator) Option {
	return func(c *Controller) { c.nav = n }
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller is the session state machine. It is safe for concurrent use.
type Controller struct {
	backend Backend
	tokens  TokenStore
	nav     Navigator
	log     *slog.Logger

	mu        sync.Mutex
	state     State
	user      *models.User
	issued    uint64 // last ticket handed out
	applied   uint64 // ticket of the last applied state change
	version   uint64 // bumped on every applied change
	listeners map[int]func(Snapshot)
	nextID    int

	// notifyMu serializes listener delivery; delivered is guarded by it.
	notifyMu  sync.Mutex
	delivered uint64
}

// New constructs a Pending controller.
func New(backend Backend, tokens TokenStore, opts ...Option) *Controller {
	c := &Controller{
		backend:   backend,
		tokens:    tokens,
		nav:       noopNavigator{},
		log:       logging.Discard(),
		state:     StatePending,
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current state and user.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// User returns the authenticated user, or nil.
func (c *Controller) User() *models.User {
	return c.Snapshot().User
}

// Subscribe registers fn to be called after applied state changes. Calls are serialized and
// each carries the state current at delivery time, so the last call a listener sees matches
// Snapshot once the controller is idle. Changes applied while a delivery is running may be
// coalesced into one call. fn must not call Initialize, Login, Logout or Register
// synchronously. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Initialize reconciles the stored token with the backend. A missing token, an unreadable
// store, or any whoami failure leaves the session Anonymous; the stored token is kept.
// Call it once at startup; calling it again re-verifies the token.
func (c *Controller) Initialize(ctx context.Context) {
	ticket := c.ticket()

	token, ok, err := c.tokens.Get(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "read stored token", "error", err)
		c.apply(ticket, StateAnonymous, nil)
		return
	}
	if !ok || token == "" {
		c.apply(ticket, StateAnonymous, nil)
		return
	}

	user, err := c.backend.Me(ctx, token)
	if err != nil {
		c.log.InfoContext(ctx, "stored token not accepted", "error", err)
		c.apply(ticket, StateAnonymous, nil)
		return
	}
	c.apply(ticket, StateAuthenticated, &user)
}

// Login authenticates with the backend, persists the token, loads the user and navigates to
// the profile. On failure it returns a *Failure and leaves the state untouched, except when
// the follow-up whoami fails: the session is then Anonymous and the token stays stored.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	ticket := c.ticket()

	token, err := c.backend.Login(ctx, username, password)
	if err != nil {
		c.log.InfoContext(ctx, "login rejected", "username", username, "error", err)
		return failureFrom(err)
	}

	if err := c.persist(ctx, ticket, token); err != nil {
		return err
	}

	user, err := c.backend.Me(ctx, token)
	if err != nil {
		c.log.WarnContext(ctx, "whoami after login failed", "username", username, "error", err)
		c.apply(ticket, StateAnonymous, nil)
		return failureFrom(err)
	}
	if !c.apply(ticket, StateAuthenticated, &user) {
		return ErrSuperseded
	}
	c.nav.Navigate(RouteProfile)
	return nil
}

// Logout forgets the token, drops to Anonymous and navigates home. It always succeeds; a
// storage error is logged and the in-memory state is still cleared.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.issued++
	ticket := c.issued
	if err := c.tokens.Delete(ctx); err != nil {
		c.log.ErrorContext(ctx, "delete stored token", "error", err)
	}
	c.mu.Unlock()

	c.apply(ticket, StateAnonymous, nil)
	c.nav.Navigate(RouteHome)
}

// Register creates an account and navigates to the success view. It never logs the user in
// and never touches the stored token.
func (c *Controller) Register(ctx context.Context, req dto.RegisterRequest) error {
	if err := c.backend.Register(ctx, req); err != nil {
		c.log.InfoContext(ctx, "registration rejected", "username", req.Username, "error", err)
		return failureFrom(err)
	}
	c.nav.Navigate(RouteSuccess)
	return nil
}

func (c *Controller) ticket() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// persist writes the token unless a newer operation has already settled the state.
func (c *Controller) persist(ctx context.Context, ticket uint64, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket < c.applied {
		return ErrSuperseded
	}
	if err := c.tokens.Set(ctx, token); err != nil {
		c.log.ErrorContext(ctx, "persist token", "error", err)
		return &Failure{Message: "could not save session", Err: err}
	}
	return nil
}

// apply sets the state if ticket is not older than the last applied change and reports
// whether it did, then notifies listeners.
func (c *Controller) apply(ticket uint64, state State, user *models.User) bool {
	c.mu.Lock()
	if applied := c.applied; ticket < applied {
		c.mu.Unlock()
		c.log.Debug("dropping stale session update", "ticket", ticket, "applied", applied)
		return false
	}
	c.applied = ticket
	c.state = state
	c.user = user
	c.version++
	c.mu.Unlock()

	c.notify()
	return true
}

// notify delivers the current snapshot unless it was already delivered. Listeners run with
// notifyMu held but c.mu released, so they may read the controller.
func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	version := c.version
	if version <= c.delivered {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	c.delivered = version
	for _, fn := range listeners {
		fn(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state}
	if c.user != nil {
		u := *c.user
		snap.User = &u
	}
	return snap
}
