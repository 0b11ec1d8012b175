package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	handlers "microchat/internal/handler"
	"microchat/internal/models"
	"microchat/internal/observability"
	"microchat/internal/repository"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	panic("не используется")
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	panic("не используется")
}

func (m *mockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	panic("не используется")
}

func (m *mockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	panic("не используется")
}

func (m *mockAuthService) GetUserFromToken(tokenString string) (*models.User, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	panic("не используется")
}

func (m *mockUserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	panic("не используется")
}

func (m *mockUserService) UpdateProfile(ctx context.Context, req repository.UpdateProfileRequest) (*models.User, error) {
	panic("не используется")
}

func (m *mockUserService) SetAvatar(ctx context.Context, userID string, image models.Image) (string, error) {
	panic("не используется")
}

func (m *mockUserService) GetAvatar(ctx context.Context, username string) (*models.Image, error) {
	panic("не используется")
}

func (m *mockUserService) TouchLastSeen(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// echoUser answers with the user id found in the context
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	userID, _ := handlers.UserIDFromContext(r.Context())
	w.Write([]byte(userID + "|" + handlers.UsernameFromContext(r.Context())))
})

func TestAuthMiddleware(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("GetUserFromToken", "good").Return(&models.User{ID: "U1", Username: "alice"}, nil)
	auth.On("GetUserFromToken", "bad").Return(nil, errors.New("token expired"))

	h := AuthMiddleware(auth, []string{"/health"})(echoUser)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "публичный путь", path: "/health", wantStatus: http.StatusOK, wantBody: "|"},
		{name: "без заголовка", path: "/api/me", wantStatus: http.StatusUnauthorized},
		{name: "неверный формат", path: "/api/me", header: "Token good", wantStatus: http.StatusUnauthorized},
		{name: "недействительный токен", path: "/api/me", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "валидный токен", path: "/api/me", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "U1|alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestLastSeenMiddleware(t *testing.T) {
	users := new(mockUserService)
	users.On("TouchLastSeen", mock.Anything, "U1").Return(errors.New("db down")).Once()

	h := LastSeenMiddleware(users)(echoUser)

	t.Run("аутентифицированный пользователь", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req = req.WithContext(handlers.WithUser(req.Context(), "U1", "alice"))
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "ошибка обновления не прерывает запрос")
	})

	t.Run("аноним", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	users.AssertExpectations(t)
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/chats", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLoggingMiddleware_KeepsStatus(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/chats/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Use(MetricsMiddleware)

	counter := observability.HTTPRequestsTotal.WithLabelValues("/api/chats/{id}", http.MethodGet, "204")
	before := testutil.ToFloat64(counter)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chats/C1", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "c"}, order)
}
