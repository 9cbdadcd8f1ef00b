package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberapps/outreach/internal/api"
	"github.com/emberapps/outreach/internal/session"
)

// guardBackend is a configurable fake for the two verification endpoints.
type guardBackend struct {
	scopesStatus int
	scopesBody   string
	adminStatus  int
	adminBody    string

	requests atomic.Int64
}

func (b *guardBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/check-scopes",
		func(w http.ResponseWriter, r *http.Request) {
			b.requests.Add(1)
			w.WriteHeader(b.scopesStatus)
			w.Write([]byte(b.scopesBody))
		})
	mux.HandleFunc("/api/admin/check",
		func(w http.ResponseWriter, r *http.Request) {
			b.requests.Add(1)
			w.WriteHeader(b.adminStatus)
			w.Write([]byte(b.adminBody))
		})
	return mux
}

// newGuardFixture wires a session with the given token to a guard talking
// to the fake backend.
func newGuardFixture(t *testing.T, token string,
	b *guardBackend) (*Guard, *session.Store) {

	t.Helper()

	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	sess, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, sess.SetToken(token))
	}

	client := api.NewClient(srv.URL, sess)
	return New(sess, client), sess
}

// TestVerify_MergedProfile verifies the happy path: both checks succeed and
// the committed profile merges them.
func TestVerify_MergedProfile(t *testing.T) {
	b := &guardBackend{
		scopesStatus: http.StatusOK,
		scopesBody: `{
			"email": "user@example.com",
			"has_gmail_scope": true,
			"has_sheets_scope": true,
			"has_outlook": false
		}`,
		adminStatus: http.StatusOK,
		adminBody:   `{"is_admin": true}`,
	}
	g, sess := newGuardFixture(t, "tok", b)

	profile, err := g.Verify(context.Background())
	require.NoError(t, err)

	require.Equal(t, "user@example.com", profile.Email)
	require.True(t, profile.HasGmailScope)
	require.True(t, profile.HasSheetsScope)
	require.False(t, profile.HasOutlook)
	require.True(t, profile.IsAdmin)

	// The store holds the same committed profile and loading is done.
	require.True(t, sess.User().IsSome())
	require.Equal(t, profile, sess.User().UnwrapOr(session.Profile{}))
	require.False(t, sess.IsLoading())
}

// TestVerify_AdminFailureTolerated verifies that a failing admin check
// downgrades to is_admin=false without aborting verification.
func TestVerify_AdminFailureTolerated(t *testing.T) {
	b := &guardBackend{
		scopesStatus: http.StatusOK,
		scopesBody:   `{"email": "user@example.com", "has_gmail_scope": true}`,
		adminStatus:  http.StatusInternalServerError,
		adminBody:    `{"message": "admin backend down"}`,
	}
	g, sess := newGuardFixture(t, "tok", b)

	profile, err := g.Verify(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user@example.com", profile.Email)
	require.False(t, profile.IsAdmin)

	require.True(t, sess.User().IsSome())
	stored := sess.User().UnwrapOr(session.Profile{})
	require.False(t, stored.IsAdmin)
	require.Equal(t, "user@example.com", stored.Email)
}

// TestVerify_ScopesFailureAborts verifies that a failing scopes check
// leaves no profile committed.
func TestVerify_ScopesFailureAborts(t *testing.T) {
	b := &guardBackend{
		scopesStatus: http.StatusBadGateway,
		scopesBody:   `{"message": "upstream down"}`,
		adminStatus:  http.StatusOK,
		adminBody:    `{"is_admin": true}`,
	}
	g, sess := newGuardFixture(t, "tok", b)

	_, err := g.Verify(context.Background())
	require.Error(t, err)

	require.True(t, sess.User().IsNone())
	require.False(t, sess.IsLoading())
}

// TestVerify_NoTokenNoNetwork verifies that a logged-out store resolves
// immediately with zero backend traffic.
func TestVerify_NoTokenNoNetwork(t *testing.T) {
	b := &guardBackend{
		scopesStatus: http.StatusOK,
		scopesBody:   `{}`,
		adminStatus:  http.StatusOK,
		adminBody:    `{}`,
	}
	g, sess := newGuardFixture(t, "", b)

	_, err := g.Verify(context.Background())
	require.ErrorIs(t, err, ErrNoSession)

	require.EqualValues(t, 0, b.requests.Load())
	require.False(t, sess.IsLoading())
}

// TestVerify_UnauthorizedClearsSession verifies that a 401 on the scopes
// check terminates the session through the HTTP client.
func TestVerify_UnauthorizedClearsSession(t *testing.T) {
	b := &guardBackend{
		scopesStatus: http.StatusUnauthorized,
		adminStatus:  http.StatusUnauthorized,
	}
	g, sess := newGuardFixture(t, "tok", b)

	_, err := g.Verify(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)

	require.Empty(t, sess.Token())
	require.True(t, sess.User().IsNone())
}
