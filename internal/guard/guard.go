// Package guard gates every authenticated command: it verifies the stored
// token against the backend and populates the session store with the merged
// profile before any protected operation runs.
package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/emberapps/outreach/internal/api"
	"github.com/emberapps/outreach/internal/session"
)

// ErrNoSession is returned when no token is present. No network call is
// made; the caller should route the user to the login entry point.
var ErrNoSession = errors.New("not logged in; run `outreach login` first")

// scopesResponse is the identity/scope check payload.
type scopesResponse struct {
	Email          string `json:"email"`
	HasGmailScope  bool   `json:"has_gmail_scope"`
	HasSheetsScope bool   `json:"has_sheets_scope"`
	HasOutlook     bool   `json:"has_outlook"`
}

// adminResponse is the admin-status check payload.
type adminResponse struct {
	IsAdmin bool   `json:"is_admin"`
	Email   string `json:"email"`
}

// Guard runs session verification. Per verification it moves through
// Init -> Verifying -> Authenticated or Failed; the only partial-failure
// path tolerated is the admin check, which degrades to is_admin=false.
type Guard struct {
	sess   *session.Store
	client *api.Client
	log    *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		g.log = log
	}
}

// New creates a Guard over the given session store and HTTP client.
func New(sess *session.Store, client *api.Client, opts ...Option) *Guard {
	g := &Guard{
		sess:   sess,
		client: client,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Verify establishes the session. With no token it returns ErrNoSession
// immediately, without touching the network. Otherwise it issues the scopes
// check and the admin check in parallel, joins both, and commits the merged
// profile to the session store in a single write. A failing admin check is
// downgraded to is_admin=false; a failing scopes check aborts verification
// and leaves the session without a profile.
func (g *Guard) Verify(ctx context.Context) (session.Profile, error) {
	if g.sess.Token() == "" {
		g.sess.SetLoading(false)
		return session.Profile{}, ErrNoSession
	}

	g.sess.SetLoading(true)
	defer g.sess.SetLoading(false)

	scopesCh := make(chan fn.Result[scopesResponse], 1)
	adminCh := make(chan fn.Result[adminResponse], 1)

	go func() {
		var resp scopesResponse
		err := g.client.Get(ctx, "/auth/check-scopes", &resp)
		if err != nil {
			scopesCh <- fn.Err[scopesResponse](err)
			return
		}
		scopesCh <- fn.Ok(resp)
	}()

	go func() {
		var resp adminResponse
		err := g.client.Get(ctx, "/api/admin/check", &resp)
		if err != nil {
			adminCh <- fn.Err[adminResponse](err)
			return
		}
		adminCh <- fn.Ok(resp)
	}()

	// Both checks must settle before anything is committed: no partial
	// profile writes.
	scopesRes := <-scopesCh
	adminRes := <-adminCh

	scopes, err := scopesRes.Unpack()
	if err != nil {
		g.sess.SetUser(fn.None[session.Profile]())
		return session.Profile{}, fmt.Errorf(
			"session verification failed: %w", err,
		)
	}

	// A failed admin check is not fatal; the user simply is not an
	// admin as far as this session is concerned.
	isAdmin := false
	if admin, err := adminRes.Unpack(); err == nil {
		isAdmin = admin.IsAdmin
	} else {
		g.log.Debug("Admin check failed, assuming non-admin", "err", err)
	}

	profile := session.Profile{
		Email:          scopes.Email,
		HasGmailScope:  scopes.HasGmailScope,
		HasSheetsScope: scopes.HasSheetsScope,
		HasOutlook:     scopes.HasOutlook,
		IsAdmin:        isAdmin,
	}
	g.sess.SetUser(fn.Some(profile))

	return profile, nil
}
