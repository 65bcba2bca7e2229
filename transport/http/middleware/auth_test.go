package middleware_test

import (
	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	auditMocks "hotel/internal/domains/audit/mocks"
	auditModel "hotel/internal/domains/audit/model"
	"hotel/permissions"
	"hotel/shared/actor"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type protected struct {
	router http.Handler
	tokens *jwtMocks.MockJWT
	audit  *auditMocks.MockRecorder
	seen   *actor.Actor
}

func newProtectedRouter(t *testing.T) protected {
	ctrl := gomock.NewController(t)
	tokens := jwtMocks.NewMockJWT(ctrl)
	audit := auditMocks.NewMockRecorder(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	perms := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/auth/login", Method: http.MethodPost, Skip: true},
			{Path: "/v1/audit-logs", Method: http.MethodGet, Permissions: []string{constant.RoleAdmin}},
		},
	}

	authRole := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), perms, cfg, audit)

	seen := &actor.Actor{}
	record := func(w http.ResponseWriter, r *http.Request) {
		*seen = actor.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Group(func(protected chi.Router) {
		protected.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		protected.Post("/v1/auth/login", record)
		protected.Get("/v1/audit-logs", record)
		protected.Get("/v1/bookings/mybookings", record)
	})

	return protected{router: router, tokens: tokens, audit: audit, seen: seen}
}

func request(router http.Handler, method, target string, headers map[string]string) int {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec.Code
}

func TestAuth_MissingHeader(t *testing.T) {
	p := newProtectedRouter(t)

	assert.Equal(t, http.StatusUnauthorized, request(p.router, http.MethodGet, "/v1/bookings/mybookings", nil))
}

func TestAuth_SkippedEndpoint(t *testing.T) {
	p := newProtectedRouter(t)

	assert.Equal(t, http.StatusOK, request(p.router, http.MethodPost, "/v1/auth/login", nil))
}

func TestAuth_InvalidToken(t *testing.T) {
	p := newProtectedRouter(t)

	p.tokens.EXPECT().ValidateToken("bad", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	code := request(p.router, http.MethodGet, "/v1/bookings/mybookings", map[string]string{
		constant.RequestHeaderAuthorization: "Bearer bad",
	})

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuth_ActorFromClaims(t *testing.T) {
	p := newProtectedRouter(t)

	p.tokens.EXPECT().ValidateToken("good", jwt.AccessToken).Return(&jwt.Claims{
		UserID: "guest-1",
		Name:   "Asha",
		Role:   constant.RoleGuest,
	}, nil)

	code := request(p.router, http.MethodGet, "/v1/bookings/mybookings", map[string]string{
		constant.RequestHeaderAuthorization: "Bearer good",
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, actor.Actor{ID: "guest-1", Name: "Asha", Role: constant.RoleGuest}, *p.seen)
}

func TestRBAC_RoleNotAllowed(t *testing.T) {
	p := newProtectedRouter(t)

	p.tokens.EXPECT().ValidateToken("good", jwt.AccessToken).Return(&jwt.Claims{
		UserID: "staff-1",
		Name:   "Desk",
		Role:   constant.RoleReceptionist,
	}, nil)
	p.audit.EXPECT().Record(gomock.Any(), actor.Actor{ID: "staff-1", Name: "Desk", Role: constant.RoleReceptionist},
		auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)

	code := request(p.router, http.MethodGet, "/v1/audit-logs", map[string]string{
		constant.RequestHeaderAuthorization: "Bearer good",
	})

	assert.Equal(t, http.StatusForbidden, code)
}

func TestAPIKey(t *testing.T) {
	p := newProtectedRouter(t)

	t.Run("valid key runs as system", func(t *testing.T) {
		code := request(p.router, http.MethodGet, "/v1/audit-logs", map[string]string{
			constant.RequestHeaderAPIKey: "internal-key",
		})

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, actor.System(), *p.seen)
	})

	t.Run("wrong key is refused", func(t *testing.T) {
		p.audit.EXPECT().Record(gomock.Any(), gomock.Any(), auditModel.ActionUnauthorizedAttempt, gomock.Any(), auditModel.SeverityCritical)

		code := request(p.router, http.MethodGet, "/v1/audit-logs", map[string]string{
			constant.RequestHeaderAPIKey: "guess",
		})

		assert.Equal(t, http.StatusForbidden, code)
	})
}
