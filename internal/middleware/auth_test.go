package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denbox/denbox/internal/ctxkeys"
	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) ByID(id string) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) All() ([]*model.User, error) {
	args := m.Called()
	if u := args.Get(0); u != nil {
		return u.([]*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAuth_ValidCookieResolvesUser(t *testing.T) {
	users := new(MockUserRepository)
	auth := service.NewAuthService(users, "test-secret", time.Hour, false)

	users.On("ByID", "u1").Return(&model.User{ID: "u1", Username: "alice", PasswordHash: "digest"}, nil)

	token, err := auth.GenerateJWT(&model.User{ID: "u1"})
	require.NoError(t, err)

	var seen *model.User
	handler := Auth(auth, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/hub", nil)
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Username)
	assert.Empty(t, seen.PasswordHash)
}

func TestAuth_BadTokenClearsCookie(t *testing.T) {
	users := new(MockUserRepository)
	auth := service.NewAuthService(users, "test-secret", time.Hour, false)

	var seen *model.User
	handler := Auth(auth, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/hub", nil)
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Nil(t, seen)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	users.AssertNotCalled(t, "ByID", mock.Anything)
}

func TestRequireAuth(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAuth(next)(w, httptest.NewRequest(http.MethodGet, "/apps/notes/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "not logged in")
	})

	t.Run("with session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/apps/notes/", nil)
		r = r.WithContext(ctxkeys.WithUser(r.Context(), &model.User{ID: "u1"}))

		w := httptest.NewRecorder()
		RequireAuth(next)(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
