package commands

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emberapps/outreach/internal/api"
)

// TestNewIdempotencyKey verifies keys are valid, unique UUIDs.
func TestNewIdempotencyKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k := newIdempotencyKey()
		_, err := uuid.Parse(k)
		require.NoError(t, err)
		require.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

// TestBackendUnreachable verifies the offline-queue eligibility split:
// transport failures qualify, backend responses and terminated sessions do
// not.
func TestBackendUnreachable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "transport failure",
			err:  errors.New("dial tcp: connection refused"),
			want: true,
		},
		{
			name: "backend error response",
			err:  &api.Error{StatusCode: 500, Message: "boom"},
			want: false,
		},
		{
			name: "terminated session",
			err:  api.ErrUnauthorized,
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, backendUnreachable(tc.err))
		})
	}
}
