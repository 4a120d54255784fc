package service

import (
	"context"
	"net/http"
	"time"

	"github.com/campus-union/engage-auth/internal/auth"
	"github.com/campus-union/engage-auth/internal/config"
	"github.com/campus-union/engage-auth/internal/directus"
	"github.com/campus-union/engage-auth/internal/observability"
	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// AuthBackend is the slice of the backend client the session flows use.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (string, error)
	ProfileByUser(ctx context.Context, userID string) (*directus.Profile, error)
	CreateUser(ctx context.Context, email, password, firstName, roleID string) (string, error)
	CreateProfile(ctx context.Context, userID, name string) (string, error)
}

// LoginThrottle bounds repeated login failures per email and client address.
// A nil *auth.LoginThrottle satisfies it as a disabled throttle.
type LoginThrottle interface {
	Allow(ctx context.Context, email, addr string) bool
	RecordFailure(ctx context.Context, email, addr string)
	Clear(ctx context.Context, email, addr string)
}

// AuthService coordinates login and registration: credential exchange against
// the backend, role gating, profile resolution and session token issuance.
type AuthService struct {
	backend       AuthBackend
	tokens        *auth.TokenManager
	throttle      LoginThrottle
	metrics       *observability.Metrics
	studentRoleID string
	sessionTTL    time.Duration
	rememberTTL   time.Duration
	registerTTL   time.Duration
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Backend  AuthBackend
	Throttle LoginThrottle
	Metrics  *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	throttle := deps.Throttle
	if throttle == nil {
		throttle = (*auth.LoginThrottle)(nil)
	}
	return &AuthService{
		backend:       deps.Backend,
		tokens:        auth.NewTokenManager(cfg.Auth.JWTSecret),
		throttle:      throttle,
		metrics:       deps.Metrics,
		studentRoleID: cfg.Directus.StudentRoleID,
		sessionTTL:    time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
		rememberTTL:   time.Duration(cfg.Auth.RememberTTLHours) * time.Hour,
		registerTTL:   time.Duration(cfg.Auth.RegisterTTLHours) * time.Hour,
	}
}

// SessionResult is the outcome of a successful login or registration.
type SessionResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	ProfileID string
}

// Login authenticates an end-user against the backend and issues a session
// token. The steps run strictly in order: credential exchange, role gate,
// profile resolution, issuance. A remember-me login gets the long lifetime.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool, clientAddr string) (*SessionResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	if !s.throttle.Allow(ctx, email, clientAddr) {
		s.metrics.RecordAuthAttempt("login", "throttled")
		return nil, apperrors.NewTooManyRequests("too many failed login attempts, try again later", nil)
	}

	accessToken, err := s.backend.Login(ctx, email, password)
	if err != nil {
		// Only rejected credentials count toward the throttle; a backend
		// outage must not lock users out.
		if apperrors.ToDomainError(err).HTTPStatus == http.StatusUnauthorized {
			s.throttle.RecordFailure(ctx, email, clientAddr)
		}
		s.metrics.RecordAuthAttempt("login", "invalid_credentials")
		return nil, err
	}

	claims, err := directus.DecodeAccessToken(accessToken)
	if err != nil {
		s.metrics.RecordAuthAttempt("login", "malformed_token")
		return nil, err
	}

	if claims.Role != s.studentRoleID {
		s.metrics.RecordAuthAttempt("login", "wrong_role")
		return nil, apperrors.NewForbidden("account is not a student account")
	}

	profile, err := s.backend.ProfileByUser(ctx, claims.ID)
	if err != nil {
		s.metrics.RecordAuthAttempt("login", "no_profile")
		return nil, err
	}

	ttl := s.sessionTTL
	if rememberMe {
		ttl = s.rememberTTL
	}
	token, expiresAt, err := s.tokens.Generate(claims.ID, profile.ID, ttl)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.throttle.Clear(ctx, email, clientAddr)
	s.metrics.RecordAuthAttempt("login", "success")
	return &SessionResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    claims.ID,
		ProfileID: profile.ID,
	}, nil
}

// Register creates an identity with the student role, then its linked
// profile, then issues a medium-lived session token. When profile creation
// fails the identity stays behind: the backend offers no transaction across
// the two writes, so the error is surfaced instead of masked by a rollback.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*SessionResult, error) {
	if fullName == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("fullName, email and password are required", nil)
	}

	userID, err := s.backend.CreateUser(ctx, email, password, fullName, s.studentRoleID)
	if err != nil {
		s.metrics.RecordAuthAttempt("register", "identity_failed")
		return nil, err
	}

	profileID, err := s.backend.CreateProfile(ctx, userID, fullName)
	if err != nil {
		s.metrics.RecordAuthAttempt("register", "profile_failed")
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(userID, profileID, s.registerTTL)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.metrics.RecordAuthAttempt("register", "success")
	return &SessionResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    userID,
		ProfileID: profileID,
	}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
