package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/rgehrsitz/itrgo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthenticator() (*Authenticator, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewAuthenticator(store).WithCost(bcrypt.MinCost), store
}

func TestRegisterAndLogin(t *testing.T) {
	a, store := newAuthenticator()
	ctx := context.Background()

	require.True(t, a.Register(ctx, "asha", "s3cret"))
	assert.False(t, a.Register(ctx, "asha", "other"), "Duplicate usernames are refused")
	assert.False(t, a.Register(ctx, "", "x"))
	assert.False(t, a.Register(ctx, "bob", ""))

	u, err := store.GetUser(ctx, "asha")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("s3cret"), u.PasswordHash, "Only the hash is stored")

	id, ok := a.Login(ctx, "asha", "s3cret")
	require.True(t, ok)
	assert.Equal(t, domain.Identity{Username: "asha", Role: domain.RoleUser}, id)

	_, ok = a.Login(ctx, "asha", "wrong")
	assert.False(t, ok)
	_, ok = a.Login(ctx, "nobody", "s3cret")
	assert.False(t, ok)
}

func TestSeed(t *testing.T) {
	a, _ := newAuthenticator()
	ctx := context.Background()

	require.NoError(t, a.Seed(ctx))
	require.NoError(t, a.Seed(ctx), "Seeding twice is harmless")

	admin, ok := a.Login(ctx, "admin", "admin123")
	require.True(t, ok)
	assert.True(t, admin.IsAdmin())

	user, ok := a.Login(ctx, "user", "user123")
	require.True(t, ok)
	assert.False(t, user.IsAdmin())
}

func TestIdentityFor(t *testing.T) {
	assert.Equal(t, domain.RoleAdmin, IdentityFor("admin").Role)
	assert.Equal(t, domain.RoleUser, IdentityFor("Admin").Role)
	assert.Equal(t, domain.RoleUser, IdentityFor("administrator").Role)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), IdentityFor("admin"))
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin", id.Username)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)

	token, err := ti.Issue(IdentityFor("admin"))
	require.NoError(t, err)

	id, err := ti.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Username: "admin", Role: domain.RoleAdmin}, id)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)
	token, err := ti.Issue(IdentityFor("user"))
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other-secret", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ti.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user", "role": "user",
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ti.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing role", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user", "exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ti.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
