package auth

import (
	"log/slog"

	"github.com/frahmantamala/ontology-client/internal/graphql"
	"github.com/frahmantamala/ontology-client/internal/storage"
)

// Container wires the auth subsystem once at startup and is passed down.
type Container struct {
	Tokens      *TokenStore
	Client      graphql.Requester
	Auth        *Service
	Permissions *PermissionService
	State       *StateStore
	Session     *Session

	store  storage.Store
	logger *slog.Logger
}

func NewContainer(store storage.Store, client graphql.Requester, logger *slog.Logger) *Container {
	c := &Container{Client: client, store: store, logger: logger}
	c.build()
	return c
}

// Reset rebuilds every service with empty in-memory state. Persisted tokens
// are kept. Intended for tests.
func (c *Container) Reset() {
	c.build()
}

func (c *Container) build() {
	c.Tokens = NewTokenStore(c.store, c.logger.With("component", "token_store"))
	c.Auth = NewService(c.Tokens, c.Client, c.logger.With("component", "auth_service"))
	c.Permissions = NewPermissionService(c.Client, c.Tokens, c.logger.With("component", "permission_service"))
	c.State = NewStateStore()
	c.Session = NewSession(c.Auth, c.Permissions, c.Tokens, c.State, c.logger.With("component", "session"))
}
