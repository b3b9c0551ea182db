package auth

import (
	"context"
	"log/slog"
	"time"
)

// Session drives the StateStore from the auth and permission services. It is
// what presentation code talks to.
type Session struct {
	auth   *Service
	perms  *PermissionService
	tokens TokenStorage
	state  *StateStore
	logger *slog.Logger
	now    func() time.Time
}

func NewSession(auth *Service, perms *PermissionService, tokens TokenStorage, state *StateStore, logger *slog.Logger) *Session {
	return &Session{
		auth:   auth,
		perms:  perms,
		tokens: tokens,
		state:  state,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Session) State() *StateStore { return s.state }

func (s *Session) Login(ctx context.Context, creds LoginCredentials) (AuthResponse, error) {
	return s.authenticate(ctx, func() (AuthResponse, error) { return s.auth.Login(ctx, creds) })
}

func (s *Session) LoginWithGoogle(ctx context.Context, data GoogleAuthData) (AuthResponse, error) {
	return s.authenticate(ctx, func() (AuthResponse, error) { return s.auth.LoginWithGoogle(ctx, data) })
}

func (s *Session) LoginWithTelegram(ctx context.Context, data TelegramAuthData) (AuthResponse, error) {
	return s.authenticate(ctx, func() (AuthResponse, error) { return s.auth.LoginWithTelegram(ctx, data) })
}

func (s *Session) Register(ctx context.Context, data RegistrationData) (AuthResponse, error) {
	return s.authenticate(ctx, func() (AuthResponse, error) { return s.auth.Register(ctx, data) })
}

func (s *Session) authenticate(ctx context.Context, run func() (AuthResponse, error)) (AuthResponse, error) {
	s.state.SetLoading(true)
	s.state.SetError("")
	defer s.state.SetLoading(false)

	resp, err := run()
	if err != nil {
		s.state.SetError(err.Error())
		return AuthResponse{}, err
	}

	s.state.SetAuthenticated(resp.User, resp.Tokens, s.loadRoles(ctx))
	return resp, nil
}

// loadRoles never blocks a sign-in. On failure the permission cache is
// cleared, so the session has no roles rather than a previous user's.
func (s *Session) loadRoles(ctx context.Context) []Role {
	if err := s.perms.Initialize(ctx); err != nil {
		s.logger.Warn("failed to load user roles, continuing with empty roles", "error", err)
		s.perms.Clear()
		return []Role{}
	}
	roles, err := s.perms.Roles()
	if err != nil {
		return []Role{}
	}
	return roles
}

func (s *Session) Logout(ctx context.Context) error {
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	err := s.auth.Logout(ctx)
	s.perms.Clear()
	s.state.SetUnauthenticated()
	return err
}

// Check restores the session from stored tokens.
func (s *Session) Check(ctx context.Context) (AuthResponse, error) {
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	resp, err := s.auth.GetCurrentUser(ctx)
	if err != nil {
		s.perms.Clear()
		s.state.SetUnauthenticated()
		return AuthResponse{}, err
	}

	s.state.SetAuthenticated(resp.User, resp.Tokens, s.loadRoles(ctx))
	return resp, nil
}

func (s *Session) Refresh(ctx context.Context) (AuthTokens, error) {
	tokens, err := s.auth.RefreshToken(ctx)
	if err != nil {
		return AuthTokens{}, err
	}

	snap := s.state.Snapshot()
	if snap.IsAuthenticated {
		s.state.SetAuthenticated(*snap.User, tokens, snap.Roles)
	}
	return tokens, nil
}

// RefreshRoles reloads roles from the backend and publishes them to the state.
// On failure the previous roles stay in place.
func (s *Session) RefreshRoles(ctx context.Context) ([]Role, error) {
	if err := s.perms.Refresh(ctx); err != nil {
		return nil, err
	}
	roles, err := s.perms.Roles()
	if err != nil {
		return nil, err
	}
	s.state.SetRoles(roles)
	return roles, nil
}

// EnsureFresh refreshes the token pair when the stored access token expires
// within skew. Tokens without a readable exp claim are left alone.
func (s *Session) EnsureFresh(ctx context.Context, skew time.Duration) (bool, error) {
	access := s.tokens.AccessToken(ctx)
	if access == "" {
		return false, nil
	}

	exp, ok := TokenExpiry(access)
	if !ok || s.now().Add(skew).Before(exp) {
		return false, nil
	}

	s.logger.Debug("access token near expiry, refreshing", "expires_at", exp)
	if _, err := s.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) RequestPasswordReset(ctx context.Context, data PasswordResetRequest) (MessageResponse, error) {
	return s.passThrough(func() (MessageResponse, error) { return s.auth.RequestPasswordReset(ctx, data) })
}

func (s *Session) ResetPassword(ctx context.Context, data PasswordReset) (MessageResponse, error) {
	return s.passThrough(func() (MessageResponse, error) { return s.auth.ResetPassword(ctx, data) })
}

func (s *Session) VerifyEmail(ctx context.Context, data EmailVerification) (MessageResponse, error) {
	return s.passThrough(func() (MessageResponse, error) { return s.auth.VerifyEmail(ctx, data) })
}

func (s *Session) ResendVerificationEmail(ctx context.Context, email string) (MessageResponse, error) {
	return s.passThrough(func() (MessageResponse, error) { return s.auth.ResendVerificationEmail(ctx, email) })
}

func (s *Session) passThrough(run func() (MessageResponse, error)) (MessageResponse, error) {
	s.state.SetLoading(true)
	s.state.SetError("")
	defer s.state.SetLoading(false)

	resp, err := run()
	if err != nil {
		s.state.SetError(err.Error())
	}
	return resp, err
}

// The helpers below answer false or empty before permissions are loaded.

func (s *Session) HasPermission(resource, action string) bool {
	ok, err := s.perms.HasPermission(resource, action)
	return err == nil && ok
}

func (s *Session) CanAccess(resource, action, scope string) bool {
	ok, err := s.perms.CanAccess(resource, action, scope)
	return err == nil && ok
}

func (s *Session) HasRole(name string) bool {
	ok, err := s.perms.HasRole(name)
	return err == nil && ok
}

func (s *Session) HasAnyRole(names ...string) bool {
	ok, err := s.perms.HasAnyRole(names...)
	return err == nil && ok
}

func (s *Session) HasAllRoles(names ...string) bool {
	ok, err := s.perms.HasAllRoles(names...)
	return err == nil && ok
}

func (s *Session) Roles() []Role {
	roles, err := s.perms.Roles()
	if err != nil {
		return []Role{}
	}
	return roles
}

func (s *Session) Permissions() []Permission {
	perms, err := s.perms.Permissions()
	if err != nil {
		return []Permission{}
	}
	return perms
}
