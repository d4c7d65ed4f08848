package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pustakalaya/bookstore-service/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	key := []byte("test-signing-key")
	token, err := auth.NewToken(key, 42, "reader@example.com", auth.RoleMember, time.Minute)
	require.NoError(t, err)

	identity, err := auth.ParseToken(key, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), identity.ID)
	require.Equal(t, "reader@example.com", identity.Email)
	require.Equal(t, auth.RoleMember, identity.Role)
}

func TestParseToken_WrongKey(t *testing.T) {
	t.Parallel()

	token, err := auth.NewToken([]byte("key-one"), 1, "a@b.c", auth.RoleAdmin, time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken([]byte("key-two"), token)
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	key := []byte("test-signing-key")
	token, err := auth.NewToken(key, 1, "a@b.c", auth.RoleMember, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(key, token)
	require.Error(t, err)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := auth.ParseRole("member")
	require.NoError(t, err)
	require.Equal(t, auth.RoleMember, role)

	_, err = auth.ParseRole("root")
	require.Error(t, err)
}

func TestIdentity_Is(t *testing.T) {
	t.Parallel()

	identity := auth.Identity{ID: 1, Role: auth.RoleStaff}
	require.True(t, identity.Is(auth.RoleAdmin, auth.RoleStaff))
	require.False(t, identity.Is(auth.RoleMember))
}
