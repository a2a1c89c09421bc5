package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/denbox/denbox/internal/hash"
	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService owns the session boundary: credential checks and the JWT
// cookie. The file and note services never touch it; they receive the
// resolved user.
type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiry     time.Duration
	secureCookies bool
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiry time.Duration, secureCookies bool) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
		secureCookies: secureCookies,
	}
}

// Login verifies credentials and returns the user. The bcrypt compare runs
// against a fixed digest when the user is unknown, so both failure paths
// cost the same.
func (s *AuthService) Login(username, password string) (*model.User, error) {
	user, err := s.userRepo.ByUsername(username)
	if err == repository.ErrUserNotFound {
		hash.Verify(unknownUserDigest, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !hash.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// unknownUserDigest is a throwaway bcrypt digest used to equalize login
// timing for unknown usernames.
const unknownUserDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.jwtExpiry.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
