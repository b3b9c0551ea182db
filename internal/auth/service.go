package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/internal/graphql"
)

const (
	registerMutation = `mutation Register($input: UserRegistrationInput!) {
	register(input: $input) {` + tokenFields + `
	}
}`

	refreshTokenMutation = `mutation RefreshToken($input: RefreshTokenInput!) {
	refreshToken(input: $input) {` + tokenFields + `
	}
}`

	requestPasswordResetMutation = `mutation RequestPasswordReset($input: PasswordResetRequestInput!) {
	requestPasswordReset(input: $input) {
		success
		message
	}
}`

	resetPasswordMutation = `mutation ResetPassword($input: PasswordResetInput!) {
	resetPassword(input: $input) {
		success
		message
	}
}`

	verifyEmailMutation = `mutation VerifyEmail($input: EmailVerificationInput!) {
	verifyEmail(input: $input) {
		success
		message
	}
}`

	resendVerificationEmailMutation = `mutation ResendVerificationEmail($email: String!) {
	resendVerificationEmail(email: $email) {
		success
		message
	}
}`
)

// Service orchestrates authentication flows. It is the only writer of the
// token store. Every method reports failure through its error, whose text is
// safe to show to a user.
type Service struct {
	tokens   TokenStorage
	client   graphql.Requester
	password Strategy
	google   Strategy
	telegram Strategy
	logger   *slog.Logger
}

func NewService(tokens TokenStorage, client graphql.Requester, logger *slog.Logger) *Service {
	return &Service{
		tokens:   tokens,
		client:   client,
		password: NewPasswordStrategy(client),
		google:   NewGoogleStrategy(client),
		telegram: NewTelegramStrategy(client),
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, creds LoginCredentials) (AuthResponse, error) {
	return s.loginWith(ctx, s.password, creds)
}

func (s *Service) LoginWithGoogle(ctx context.Context, data GoogleAuthData) (AuthResponse, error) {
	return s.loginWith(ctx, s.google, data)
}

func (s *Service) LoginWithTelegram(ctx context.Context, data TelegramAuthData) (AuthResponse, error) {
	return s.loginWith(ctx, s.telegram, data)
}

// loginWith persists tokens only after the strategy succeeded.
func (s *Service) loginWith(ctx context.Context, strategy Strategy, creds Credentials) (AuthResponse, error) {
	resp, err := strategy.Authenticate(ctx, creds)
	if err != nil {
		s.logger.Info("login failed", "strategy", strategy.Name(), "error", err)
		return AuthResponse{}, err
	}

	if err := s.tokens.Save(ctx, resp.Tokens); err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("login succeeded", "strategy", strategy.Name(), "user_id", resp.User.ID)
	return resp, nil
}

func (s *Service) Register(ctx context.Context, data RegistrationData) (AuthResponse, error) {
	const defaultMsg = "Registration failed"

	if err := data.Validate(); err != nil {
		return AuthResponse{}, err
	}

	out, err := graphql.Do[struct {
		Register *AuthTokens `json:"register"`
	}](ctx, s.client, registerMutation, map[string]any{"input": data}, "")
	if err != nil {
		return AuthResponse{}, failure(err, defaultMsg)
	}
	if out.Register == nil {
		return AuthResponse{}, failure(graphql.ErrEmptyData, defaultMsg)
	}

	if err := s.tokens.Save(ctx, *out.Register); err != nil {
		return AuthResponse{}, err
	}

	user, err := fetchMe(ctx, s.client, out.Register.AccessToken)
	if err != nil {
		return AuthResponse{}, failure(err, defaultMsg)
	}

	s.logger.Info("registration succeeded", "user_id", user.ID)
	return AuthResponse{User: *user, Tokens: *out.Register}, nil
}

// Logout forgets the local session. The backend is not told.
func (s *Service) Logout(ctx context.Context) error {
	return s.tokens.Clear(ctx)
}

func (s *Service) RefreshToken(ctx context.Context) (AuthTokens, error) {
	const defaultMsg = "Token refresh failed"

	refreshToken := s.tokens.RefreshToken(ctx)
	if refreshToken == "" {
		return AuthTokens{}, internal.NewAuthenticationError("No refresh token available", internal.ErrCodeNoRefreshToken)
	}

	out, err := graphql.Do[struct {
		RefreshToken *AuthTokens `json:"refreshToken"`
	}](ctx, s.client, refreshTokenMutation, map[string]any{
		"input": map[string]any{"refreshToken": refreshToken},
	}, s.tokens.AccessToken(ctx))
	if err != nil {
		return AuthTokens{}, failure(err, defaultMsg)
	}
	if out.RefreshToken == nil {
		return AuthTokens{}, failure(graphql.ErrEmptyData, defaultMsg)
	}

	if err := s.tokens.Save(ctx, *out.RefreshToken); err != nil {
		return AuthTokens{}, err
	}
	return *out.RefreshToken, nil
}

// GetCurrentUser returns the principal for the stored tokens. The tokens are
// returned as stored, not re-issued.
func (s *Service) GetCurrentUser(ctx context.Context) (AuthResponse, error) {
	tokens := s.tokens.Load(ctx)
	if tokens == nil {
		return AuthResponse{}, internal.NewAuthenticationError("Not authenticated", internal.ErrCodeNotAuthenticated)
	}

	user, err := fetchMe(ctx, s.client, tokens.AccessToken)
	if err != nil {
		return AuthResponse{}, failure(err, "Failed to get current user")
	}
	return AuthResponse{User: *user, Tokens: *tokens}, nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, data PasswordResetRequest) (MessageResponse, error) {
	if err := data.Validate(); err != nil {
		return MessageResponse{}, err
	}
	return s.message(ctx, requestPasswordResetMutation, "requestPasswordReset",
		map[string]any{"input": data}, "Password reset request failed")
}

func (s *Service) ResetPassword(ctx context.Context, data PasswordReset) (MessageResponse, error) {
	if err := data.Validate(); err != nil {
		return MessageResponse{}, err
	}
	return s.message(ctx, resetPasswordMutation, "resetPassword",
		map[string]any{"input": data}, "Password reset failed")
}

func (s *Service) VerifyEmail(ctx context.Context, data EmailVerification) (MessageResponse, error) {
	if err := data.Validate(); err != nil {
		return MessageResponse{}, err
	}
	return s.message(ctx, verifyEmailMutation, "verifyEmail",
		map[string]any{"input": data}, "Email verification failed")
}

func (s *Service) ResendVerificationEmail(ctx context.Context, email string) (MessageResponse, error) {
	if err := (PasswordResetRequest{Email: email}).Validate(); err != nil {
		return MessageResponse{}, err
	}
	return s.message(ctx, resendVerificationEmailMutation, "resendVerificationEmail",
		map[string]any{"email": email}, "Resend verification email failed")
}

func (s *Service) message(ctx context.Context, document, field string, vars map[string]any, defaultMsg string) (MessageResponse, error) {
	out, err := graphql.Do[map[string]*MessageResponse](ctx, s.client, document, vars, s.tokens.AccessToken(ctx))
	if err != nil {
		return MessageResponse{}, failure(err, defaultMsg)
	}
	msg := out[field]
	if msg == nil {
		return MessageResponse{}, failure(graphql.ErrEmptyData, defaultMsg)
	}
	return *msg, nil
}
