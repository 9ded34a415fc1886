package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalog-admin/apperr"
	"catalog-admin/models"
	"catalog-admin/store/memory"
)

func seed(t *testing.T, active bool) *memory.Store {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	s := memory.New()
	_, err = s.CreateAdmin(context.Background(), models.Admin{
		Username:     "admin",
		PasswordHash: string(hash),
		Email:        "admin@example.com",
		IsActive:     active,
	})
	require.NoError(t, err)
	return s
}

func TestLoginSuccess(t *testing.T) {
	v := NewVerifier(seed(t, true))

	admin, err := v.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, "admin@example.com", admin.Email)
}

func TestLoginInactiveIsNotFound(t *testing.T) {
	v := NewVerifier(seed(t, false))

	_, err := v.Login(context.Background(), "admin", "admin123")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, LoginFailedMsg, apperr.PublicMessage(err))
}

func TestLoginUnknownAndWrongPasswordLookTheSame(t *testing.T) {
	v := NewVerifier(seed(t, true))

	_, unknown := v.Login(context.Background(), "nobody", "admin123")
	_, wrong := v.Login(context.Background(), "admin", "nope")

	assert.True(t, apperr.Is(unknown, apperr.NotFound))
	assert.True(t, apperr.Is(wrong, apperr.InvalidCredential))
	assert.Equal(t, apperr.PublicMessage(unknown), apperr.PublicMessage(wrong))
	assert.Equal(t, apperr.HTTPStatus(unknown)/100, 4)
}

func TestLoginIsCaseSensitive(t *testing.T) {
	v := NewVerifier(seed(t, true))

	_, err := v.Login(context.Background(), "ADMIN", "admin123")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
}
