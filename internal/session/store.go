// Package session holds the authenticated identity for the current process:
// the bearer token issued by the OAuth callback and the verified user
// profile. Only the token survives restarts; the profile must be re-verified
// at every session start.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// StateNamespace is the fixed key under which the session record is
// persisted in the state directory.
const StateNamespace = "ea_auth"

// Profile is the verified user identity, merged from the scopes check and
// the admin check.
type Profile struct {
	Email          string `json:"email"`
	HasGmailScope  bool   `json:"has_gmail_scope"`
	HasSheetsScope bool   `json:"has_sheets_scope"`
	HasOutlook     bool   `json:"has_outlook"`
	IsAdmin        bool   `json:"is_admin"`
}

// persistedState is the durable record. Deliberately token-only: the
// profile is never written to disk.
type persistedState struct {
	Token string `json:"token"`
}

// Store is the single source of truth for "am I logged in, and as whom".
// It is constructed once in command wiring and passed to every component
// that needs the token; all mutation goes through the four operations
// below. Safe for concurrent use.
type Store struct {
	mu sync.Mutex

	token   string
	user    fn.Option[Profile]
	loading bool

	// path is the on-disk location of the persisted record.
	path string
}

// DefaultStateDir returns the default client state directory.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".outreach"), nil
}

// NewStore creates a Store backed by the given state directory, restoring a
// previously persisted token if one exists. A missing, corrupt or
// unparseable record fails open to the logged-out state; it never surfaces
// as an error. The store starts in the loading state until the first
// verification resolves.
func NewStore(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	s := &Store{
		user:    fn.None[Profile](),
		loading: true,
		path:    filepath.Join(stateDir, StateNamespace+".json"),
	}
	s.token = restoreToken(s.path)

	return s, nil
}

// restoreToken reads the persisted record. Any read or parse failure is
// treated as "no token".
func restoreToken(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return ""
	}

	return state.Token
}

// Token returns the current bearer token, or empty if logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

// User returns the verified profile. None means either "verifying" or
// "not logged in"; consult IsLoading to tell them apart.
func (s *Store) User() fn.Option[Profile] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// IsLoading reports whether session verification is still outstanding.
// While true, callers must not draw conclusions about auth status.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// SetToken stores a new token (or clears it when empty) and synchronously
// persists the token-only record. It does not trigger any network call;
// verification is the route guard's job.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token

	return s.persistLocked()
}

// SetUser stores the verified profile. The profile is intentionally not
// persisted.
func (s *Store) SetUser(user fn.Option[Profile]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
}

// SetLoading tracks whether verification is outstanding.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = loading
}

// Logout clears both token and profile synchronously and removes the
// persisted record. Navigation back to the public entry point is the
// caller's responsibility.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = fn.None[Profile]()

	return s.persistLocked()
}

// persistLocked writes the durable record for the current token, or removes
// it entirely when logged out. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	if s.token == "" {
		err := os.Remove(s.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session record: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(persistedState{Token: s.token})
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}

	return nil
}
