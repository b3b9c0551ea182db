package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/internal/graphql"
)

// Strategy turns one kind of Credentials into a token pair and the
// principal it belongs to. Strategies never persist anything.
type Strategy interface {
	Authenticate(ctx context.Context, creds Credentials) (AuthResponse, error)
	Name() string
}

const tokenFields = `
		accessToken
		refreshToken
		tokenType`

const userFields = `
		id
		email
		username
		isActive
		isVerified
		profile {
			id
			firstName
			lastName
			avatar
			language
			timezone
		}`

const (
	loginMutation = `mutation Login($input: UserLoginInput!) {
	login(input: $input) {` + tokenFields + `
	}
}`

	loginWithGoogleMutation = `mutation LoginWithGoogle($input: GoogleAuthInput!) {
	loginWithGoogle(input: $input) {` + tokenFields + `
	}
}`

	loginWithTelegramMutation = `mutation LoginWithTelegram($input: TelegramAuthInput!) {
	loginWithTelegram(input: $input) {` + tokenFields + `
	}
}`

	meQuery = `query Me {
	me {` + userFields + `
	}
}`
)

type PasswordStrategy struct {
	client graphql.Requester
}

func NewPasswordStrategy(client graphql.Requester) *PasswordStrategy {
	return &PasswordStrategy{client: client}
}

func (s *PasswordStrategy) Name() string { return StrategyEmailPassword }

func (s *PasswordStrategy) Authenticate(ctx context.Context, creds Credentials) (AuthResponse, error) {
	const defaultMsg = "Authentication failed"

	c, ok := creds.(LoginCredentials)
	if !ok {
		return AuthResponse{}, wrongVariant(s.Name(), creds)
	}
	if err := c.Validate(); err != nil {
		return AuthResponse{}, err
	}

	vars := map[string]any{"input": map[string]any{"username": c.Username, "password": c.Password}}
	return exchange(ctx, s.client, loginMutation, "login", vars, defaultMsg)
}

// GoogleStrategy exchanges a Google ID token.
type GoogleStrategy struct {
	client graphql.Requester
}

func NewGoogleStrategy(client graphql.Requester) *GoogleStrategy {
	return &GoogleStrategy{client: client}
}

func (s *GoogleStrategy) Name() string { return StrategyGoogle }

func (s *GoogleStrategy) Authenticate(ctx context.Context, creds Credentials) (AuthResponse, error) {
	const defaultMsg = "Google authentication failed"

	c, ok := creds.(GoogleAuthData)
	if !ok {
		return AuthResponse{}, wrongVariant(s.Name(), creds)
	}
	if err := c.Validate(); err != nil {
		return AuthResponse{}, err
	}

	vars := map[string]any{"input": map[string]any{"idToken": c.IDToken}}
	return exchange(ctx, s.client, loginWithGoogleMutation, "loginWithGoogle", vars, defaultMsg)
}

// TelegramStrategy exchanges a Telegram login widget payload.
type TelegramStrategy struct {
	client graphql.Requester
}

func NewTelegramStrategy(client graphql.Requester) *TelegramStrategy {
	return &TelegramStrategy{client: client}
}

func (s *TelegramStrategy) Name() string { return StrategyTelegram }

func (s *TelegramStrategy) Authenticate(ctx context.Context, creds Credentials) (AuthResponse, error) {
	const defaultMsg = "Telegram authentication failed"

	c, ok := creds.(TelegramAuthData)
	if !ok {
		return AuthResponse{}, wrongVariant(s.Name(), creds)
	}
	if err := c.Validate(); err != nil {
		return AuthResponse{}, err
	}

	// the struct encodes unset optional fields as null
	vars := map[string]any{"input": c}
	return exchange(ctx, s.client, loginWithTelegramMutation, "loginWithTelegram", vars, defaultMsg)
}

// exchange runs a token-issuing mutation, then `me` with the token it returned.
func exchange(ctx context.Context, client graphql.Requester, document, field string, vars map[string]any, defaultMsg string) (AuthResponse, error) {
	data, err := graphql.Do[map[string]*AuthTokens](ctx, client, document, vars, "")
	if err != nil {
		return AuthResponse{}, failure(err, defaultMsg)
	}

	tokens := data[field]
	if tokens == nil {
		return AuthResponse{}, failure(graphql.ErrEmptyData, defaultMsg)
	}

	user, err := fetchMe(ctx, client, tokens.AccessToken)
	if err != nil {
		return AuthResponse{}, failure(err, defaultMsg)
	}

	return AuthResponse{User: *user, Tokens: *tokens}, nil
}

func fetchMe(ctx context.Context, client graphql.Requester, accessToken string) (*User, error) {
	data, err := graphql.Do[struct {
		Me *User `json:"me"`
	}](ctx, client, meQuery, nil, accessToken)
	if err != nil {
		return nil, err
	}
	if data.Me == nil {
		return nil, graphql.ErrEmptyData
	}
	return data.Me, nil
}

// failure keeps already-sanitized errors and replaces anything else with defaultMsg.
func failure(err error, defaultMsg string) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return internal.NewUnknownError(defaultMsg, err)
}

func wrongVariant(strategy string, creds Credentials) error {
	return internal.NewValidationError(
		fmt.Sprintf("%s strategy does not accept %T credentials", strategy, creds),
		internal.ErrCodeValidationFailed,
	)
}
