package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"microchat/internal/config"
	handlers "microchat/internal/handler"
	"microchat/internal/models"
	"microchat/internal/service"
)

type stubAuth struct {
	service.AuthService
}

func (stubAuth) GetUserFromToken(token string) (*models.User, error) {
	if token != "valid" {
		return nil, errors.New("invalid token")
	}
	return &models.User{ID: "U1", Username: "alice"}, nil
}

type stubUsers struct {
	service.UserService
	touched []string
}

func (s *stubUsers) TouchLastSeen(ctx context.Context, userID string) error {
	s.touched = append(s.touched, userID)
	return nil
}

func (s *stubUsers) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, Username: "alice"}, nil
}

func newTestRouter() (http.Handler, *stubUsers) {
	users := &stubUsers{}
	services := &service.Service{Auth: stubAuth{}, User: users}
	h := &handlers.Handlers{
		AuthService: services.Auth,
		UserService: services.User,
		Cfg:         &config.Config{},
		Validate:    validator.New(),
	}
	return NewRouter(h, services), users
}

func TestRouter_PublicAndProtected(t *testing.T) {
	router, users := newTestRouter()

	t.Run("health без токена", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("metrics без токена", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "http_requests_total")
	})

	t.Run("защищенный путь без токена", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("защищенный путь с токеном", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer valid")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, users.touched, "U1")
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
