package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/ontology-client/internal/storage"
)

const (
	keyAccessToken  = "auth_access_token"
	keyRefreshToken = "auth_refresh_token"
	keyTokenType    = "auth_token_type"
	keyUserData     = "auth_user_data"
)

// TokenStorage persists the token triple. Reads never fail: a medium error
// reads as absent.
type TokenStorage interface {
	Save(ctx context.Context, tokens AuthTokens) error
	Load(ctx context.Context) *AuthTokens
	Clear(ctx context.Context) error
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
}

type TokenStore struct {
	store  storage.Store
	logger *slog.Logger
}

func NewTokenStore(store storage.Store, logger *slog.Logger) *TokenStore {
	return &TokenStore{store: store, logger: logger}
}

// Save writes the three token fields as one unit. A batching medium applies
// them atomically, so a failed batch leaves the previous triple untouched.
// Otherwise the keys are written one by one and a failure restores the
// previous triple, or removes the keys when there was none.
func (t *TokenStore) Save(ctx context.Context, tokens AuthTokens) error {
	entries := map[string]string{
		keyAccessToken:  tokens.AccessToken,
		keyRefreshToken: tokens.RefreshToken,
		keyTokenType:    tokens.TokenType,
	}

	if batcher, ok := t.store.(storage.Batcher); ok {
		if err := batcher.SetMany(ctx, entries); err != nil {
			t.logger.Error("failed to save tokens", "error", err)
			return &StorageError{Op: "save", Err: err}
		}
		return nil
	}

	previous := t.Load(ctx)
	for _, k := range []string{keyAccessToken, keyRefreshToken, keyTokenType} {
		if err := t.store.Set(ctx, k, entries[k]); err != nil {
			t.logger.Error("failed to save tokens", "key", k, "error", err)
			t.rollback(ctx, previous)
			return &StorageError{Op: "save", Err: err}
		}
	}
	return nil
}

func (t *TokenStore) rollback(ctx context.Context, previous *AuthTokens) {
	if previous != nil {
		restored := true
		for k, v := range map[string]string{
			keyAccessToken:  previous.AccessToken,
			keyRefreshToken: previous.RefreshToken,
			keyTokenType:    previous.TokenType,
		} {
			if err := t.store.Set(ctx, k, v); err != nil {
				restored = false
				break
			}
		}
		if restored {
			return
		}
		t.logger.Warn("failed to restore previous tokens, removing them")
	}
	if err := t.store.Delete(ctx, keyAccessToken, keyRefreshToken, keyTokenType); err != nil {
		t.logger.Warn("failed to roll back partial token write", "error", err)
	}
}

func (t *TokenStore) Load(ctx context.Context) *AuthTokens {
	access := t.read(ctx, keyAccessToken)
	refresh := t.read(ctx, keyRefreshToken)
	tokenType := t.read(ctx, keyTokenType)

	if access == "" || refresh == "" || tokenType == "" {
		return nil
	}
	return &AuthTokens{AccessToken: access, RefreshToken: refresh, TokenType: tokenType}
}

func (t *TokenStore) Clear(ctx context.Context) error {
	if err := t.store.Delete(ctx, keyAccessToken, keyRefreshToken, keyTokenType, keyUserData); err != nil {
		t.logger.Error("failed to clear tokens", "error", err)
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

func (t *TokenStore) AccessToken(ctx context.Context) string {
	return t.read(ctx, keyAccessToken)
}

func (t *TokenStore) RefreshToken(ctx context.Context) string {
	return t.read(ctx, keyRefreshToken)
}

func (t *TokenStore) read(ctx context.Context, key string) string {
	v, err := t.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			t.logger.Warn("failed to read token storage", "key", key, "error", err)
		}
		return ""
	}
	return v
}
