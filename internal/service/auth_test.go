package service

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denbox/denbox/internal/hash"
	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(users *MockUserRepository) *AuthService {
	return NewAuthService(users, "test-secret", time.Hour, false)
}

func TestAuthService_Login(t *testing.T) {
	digest, err := hash.Hash("hunter2")
	require.NoError(t, err)

	alice := &model.User{ID: "u1", Username: "alice", PasswordHash: digest}

	t.Run("valid credentials", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ByUsername", "alice").Return(alice, nil)

		user, err := newAuthService(users).Login("alice", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ByUsername", "alice").Return(alice, nil)

		_, err := newAuthService(users).Login("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ByUsername", "nobody").Return(nil, repository.ErrUserNotFound)

		_, err := newAuthService(users).Login("nobody", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_JWTRoundTrip(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	token, err := svc.GenerateJWT(&model.User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	claims, err := svc.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])

	_, err = svc.VerifyJWT(token + "tampered")
	assert.Error(t, err)
}

func TestAuthService_Cookies(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users)

	w := httptest.NewRecorder()
	svc.SetJWTCookie(w, "token-value")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	svc.ClearJWTCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
