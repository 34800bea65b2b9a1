package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsValidUUID(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()
	id, err := gen.NewID()
	require.NoError(t, err)

	parsed, err := googleuuid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, googleuuid.Version(7), parsed.Version())
}

func TestNewIDsAreUnique(t *testing.T) {
	t.Parallel()

	gen := NewGenerator()
	seen := make(map[string]struct{})
	for range 100 {
		id, err := gen.NewID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
