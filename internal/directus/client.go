package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/campus-union/engage-auth/internal/config"
	"github.com/campus-union/engage-auth/internal/observability"
	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// Client talks to the headless content backend. Every call except Login is
// authenticated with the configured admin token.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient builds a backend client with an explicit request timeout.
func NewClient(cfg config.DirectusConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		adminToken: cfg.AdminToken,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
		metrics:    metrics,
	}
}

// Profile is the application-level record paired 1:1 with a backend user.
type Profile struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Name    string `json:"name"`
	Faculty string `json:"faculty,omitempty"`
	Bio     string `json:"bio,omitempty"`
}

type errorEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Login exchanges end-user credentials for the backend's access token. Any
// non-success response collapses to a single authentication failure so the
// caller cannot tell an unknown email from a wrong password.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	status, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false, &out, "login")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", apperrors.NewUnauthorized("invalid email or password")
	}
	return out.Data.AccessToken, nil
}

// UserRole fetches the role name for a user id.
func (c *Client) UserRole(ctx context.Context, userID string) (string, error) {
	var out struct {
		Data struct {
			Role struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"data"`
	}
	path := "/users/" + url.PathEscape(userID) + "?fields=role.name"
	status, err := c.do(ctx, http.MethodGet, path, nil, true, &out, "user_role")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", apperrors.NewUpstreamError(status, "failed to fetch user role")
	}
	return out.Data.Role.Name, nil
}

// ProfileByUser resolves the profile row back-referencing the given user. Zero
// rows means an identity exists without its profile, which is surfaced as a
// not-found error rather than defaulted.
func (c *Client) ProfileByUser(ctx context.Context, userID string) (*Profile, error) {
	var out struct {
		Data []Profile `json:"data"`
	}
	path := "/items/profile?filter[user][_eq]=" + url.QueryEscape(userID)
	status, err := c.do(ctx, http.MethodGet, path, nil, true, &out, "profile_by_user")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperrors.NewUpstreamError(status, "failed to fetch profile")
	}
	if len(out.Data) == 0 {
		return nil, apperrors.NewNotFound("profile", map[string]any{"user": userID})
	}
	return &out.Data[0], nil
}

// CreateUser registers a new identity with the given role. Backend failures
// keep their status code and message.
func (c *Client) CreateUser(ctx context.Context, email, password, firstName, roleID string) (string, error) {
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if _, err := c.doRaw(ctx, http.MethodPost, "/users", map[string]string{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"role":       roleID,
	}, true, &out, "create_user"); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

// CreateProfile creates the profile row linked to a freshly created identity.
func (c *Client) CreateProfile(ctx context.Context, userID, name string) (string, error) {
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if _, err := c.doRaw(ctx, http.MethodPost, "/items/profile", map[string]string{
		"user": userID,
		"name": name,
	}, true, &out, "create_profile"); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

// GetProfile fetches a single profile by its id.
func (c *Client) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	var out struct {
		Data Profile `json:"data"`
	}
	path := "/items/profile/" + url.PathEscape(profileID)
	status, err := c.do(ctx, http.MethodGet, path, nil, true, &out, "get_profile")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusForbidden {
		return nil, apperrors.NewNotFound("profile", map[string]any{"id": profileID})
	}
	if status != http.StatusOK {
		return nil, apperrors.NewUpstreamError(status, "failed to fetch profile")
	}
	return &out.Data, nil
}

// UpdateProfile patches editable fields on a profile row.
func (c *Client) UpdateProfile(ctx context.Context, profileID string, fields map[string]any) (*Profile, error) {
	var out struct {
		Data Profile `json:"data"`
	}
	path := "/items/profile/" + url.PathEscape(profileID)
	if _, err := c.doRaw(ctx, http.MethodPatch, path, fields, true, &out, "update_profile"); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListProfiles returns all profile rows.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var out struct {
		Data []Profile `json:"data"`
	}
	status, err := c.do(ctx, http.MethodGet, "/items/profile", nil, true, &out, "list_profiles")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperrors.NewUpstreamError(status, "failed to list profiles")
	}
	return out.Data, nil
}

// Ping checks backend reachability for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodGet, "/server/ping", nil, false, nil, "ping")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("backend ping returned %d", status)
	}
	return nil
}

// do performs one round trip and decodes a 2xx body into out. Non-2xx bodies
// are discarded; callers map the returned status themselves.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any, operation string) (int, error) {
	status, raw, err := c.roundTrip(ctx, method, path, body, authed, operation)
	if err != nil {
		return 0, err
	}
	if out != nil && status >= 200 && status <= 299 {
		if err := json.Unmarshal(raw, out); err != nil {
			return status, apperrors.NewUpstreamError(http.StatusBadGateway, "malformed backend response")
		}
	}
	return status, nil
}

// doRaw performs one round trip and, on a non-2xx status, returns the
// backend's own error message verbatim as an upstream error.
func (c *Client) doRaw(ctx context.Context, method, path string, body any, authed bool, out any, operation string) (int, error) {
	status, raw, err := c.roundTrip(ctx, method, path, body, authed, operation)
	if err != nil {
		return 0, err
	}
	if status < 200 || status > 299 {
		return status, apperrors.NewUpstreamError(status, upstreamMessage(raw, status))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return status, apperrors.NewUpstreamError(http.StatusBadGateway, "malformed backend response")
		}
	}
	return status, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any, authed bool, operation string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, apperrors.NewInternalError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamCall(operation, 0, time.Since(start))
		c.logger.Warn("backend call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return 0, nil, apperrors.NewUpstreamError(http.StatusBadGateway, "content backend unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.metrics.RecordUpstreamCall(operation, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, apperrors.NewUpstreamError(http.StatusBadGateway, "failed to read backend response")
	}
	return resp.StatusCode, raw, nil
}

// upstreamMessage extracts the first message from the backend's error
// envelope, falling back to the status text.
func upstreamMessage(raw []byte, status int) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Errors) > 0 && envelope.Errors[0].Message != "" {
		return envelope.Errors[0].Message
	}
	return http.StatusText(status)
}
