package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-union/engage-auth/internal/api/http/handlers"
	"github.com/campus-union/engage-auth/internal/auth"
	"github.com/campus-union/engage-auth/internal/config"
	"github.com/campus-union/engage-auth/internal/directus"
	"github.com/campus-union/engage-auth/internal/observability"
	"github.com/campus-union/engage-auth/internal/service"
)

const (
	testSecret    = "test-secret"
	studentRoleID = "role-student"
)

// upstreamFixture fakes the content backend for full-stack route tests.
type upstreamFixture struct {
	t        *testing.T
	roleID   string
	roleName string
}

func (u *upstreamFixture) handler() nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(u.t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email != "a@x.com" || body.Password != "p1" {
			w.WriteHeader(nethttp.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid user credentials."}]}`))
			return
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":   "U1",
			"role": u.roleID,
		}).SignedString([]byte("upstream-secret"))
		require.NoError(u.t, err)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"access_token": token}})
	})
	mux.HandleFunc("GET /items/profile", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"P1","user":"U1","name":"Alex"}]}`))
	})
	mux.HandleFunc("GET /items/profile/P1", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"P1","user":"U1","name":"Alex"}}`))
	})
	mux.HandleFunc("GET /users/U1", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"role": map[string]string{"name": u.roleName}},
		})
	})
	return mux
}

func newTestApp(t *testing.T, fixture *upstreamFixture) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	fixture.t = t
	if fixture.roleID == "" {
		fixture.roleID = studentRoleID
	}
	server := httptest.NewServer(fixture.handler())
	t.Cleanup(server.Close)

	cfg := config.Config{
		Directus: config.DirectusConfig{
			BaseURL:        server.URL,
			AdminToken:     "admin-token",
			StudentRoleID:  studentRoleID,
			TimeoutSeconds: 5,
		},
		Auth: config.AuthConfig{
			JWTSecret:        testSecret,
			SessionTTLHours:  24,
			RememberTTLHours: 720,
			RegisterTTLHours: 168,
		},
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	backend := directus.NewClient(cfg.Directus, logger, metrics)
	authService := service.NewAuthService(cfg, service.AuthDependencies{Backend: backend, Metrics: metrics})
	profileService := service.NewProfileService(backend)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", backend, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService),
		Admin:          handlers.NewAdminHandler(profileService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		AdminGuard:     auth.RequireAdmin(backend),
		Metrics:        metrics,
	})
	return app, authService.TokenManager()
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *nethttp.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func TestLoginEndpointRememberMe(t *testing.T) {
	app, tokens := newTestApp(t, &upstreamFixture{})

	resp := postJSON(t, app, "/api/auth/login", map[string]any{
		"email":        "a@x.com",
		"password":     "p1",
		"isRememberMe": true,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID        string `json:"id"`
				ProfileID string `json:"profileId"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "U1", out.Data.User.ID)
	assert.Equal(t, "P1", out.Data.User.ProfileID)

	claims, err := tokens.Parse(out.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "U1", claims.UserID)
	assert.Equal(t, "P1", claims.ProfileID)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	app, _ := newTestApp(t, &upstreamFixture{})

	resp := postJSON(t, app, "/api/auth/login", map[string]any{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"error"`)
}

func TestLoginEndpointMissingFields(t *testing.T) {
	app, _ := newTestApp(t, &upstreamFixture{})

	resp := postJSON(t, app, "/api/auth/login", map[string]any{"email": "a@x.com"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestProtectedProfileRoute(t *testing.T) {
	app, tokens := newTestApp(t, &upstreamFixture{})

	// Unauthorized without a bearer token.
	req := httptest.NewRequest(nethttp.MethodGet, "/api/profile", nil)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	token, _, err := tokens.Generate("U1", "P1", time.Hour)
	require.NoError(t, err)

	req = httptest.NewRequest(nethttp.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "P1", out.Data.ID)
	assert.Equal(t, "Alex", out.Data.Name)
}

func TestAdminRouteRoleCheck(t *testing.T) {
	cases := []struct {
		name     string
		roleName string
		want     int
	}{
		{"student is forbidden", "Student", nethttp.StatusForbidden},
		{"administrator passes", "Administrator", nethttp.StatusOK},
		{"short admin passes", "Admin", nethttp.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, tokens := newTestApp(t, &upstreamFixture{roleName: tc.roleName})

			token, _, err := tokens.Generate("U1", "P1", time.Hour)
			require.NoError(t, err)

			req := httptest.NewRequest(nethttp.MethodGet, "/api/admin/profiles", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, 10000)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
