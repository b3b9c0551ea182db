package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/ontology-client/internal/graphql"
)

const myRolesQuery = `query MyRoles {
	myRoles {
		id
		name
		description
		permissions {
			id
			resource
			action
			scope
			roleId
		}
	}
}`

// TokenSource supplies the bearer token for authenticated reads.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// PermissionService caches the principal's roles and their flattened
// permissions. Queries fail with ErrNotInitialized until Initialize succeeds
// and again after Clear.
type PermissionService struct {
	client graphql.Requester
	tokens TokenSource
	logger *slog.Logger

	mu          sync.RWMutex
	roles       []Role
	permissions []Permission
	initialized bool
}

func NewPermissionService(client graphql.Requester, tokens TokenSource, logger *slog.Logger) *PermissionService {
	return &PermissionService{client: client, tokens: tokens, logger: logger}
}

// Initialize loads myRoles and replaces the cache. On failure the previous
// state is kept and the error returned.
func (p *PermissionService) Initialize(ctx context.Context) error {
	out, err := graphql.Do[struct {
		MyRoles []Role `json:"myRoles"`
	}](ctx, p.client, myRolesQuery, nil, p.tokens.AccessToken(ctx))
	if err != nil {
		p.logger.Error("failed to initialize permissions", "error", err)
		return err
	}

	roles := out.MyRoles
	if roles == nil {
		roles = []Role{}
	}
	permissions := make([]Permission, 0)
	for _, r := range roles {
		permissions = append(permissions, r.Permissions...)
	}

	p.mu.Lock()
	p.roles = roles
	p.permissions = permissions
	p.initialized = true
	p.mu.Unlock()

	p.logger.Debug("permissions loaded", "roles", len(roles), "permissions", len(permissions))
	return nil
}

func (p *PermissionService) Refresh(ctx context.Context) error {
	return p.Initialize(ctx)
}

func (p *PermissionService) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roles = nil
	p.permissions = nil
	p.initialized = false
}

func (p *PermissionService) Initialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// HasPermission ignores scope.
func (p *PermissionService) HasPermission(resource, action string) (bool, error) {
	return p.CanAccess(resource, action, "")
}

// CanAccess additionally requires an equal scope when scope is not empty.
func (p *PermissionService) CanAccess(resource, action, scope string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return false, ErrNotInitialized
	}

	for _, perm := range p.permissions {
		if perm.Resource != resource || perm.Action != action {
			continue
		}
		if scope == "" || perm.Scope == scope {
			return true, nil
		}
	}
	return false, nil
}

func (p *PermissionService) HasRole(name string) (bool, error) {
	return p.HasAnyRole(name)
}

func (p *PermissionService) HasAnyRole(names ...string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return false, ErrNotInitialized
	}

	for _, name := range names {
		if p.hasRoleLocked(name) {
			return true, nil
		}
	}
	return false, nil
}

// HasAllRoles is true for an empty list.
func (p *PermissionService) HasAllRoles(names ...string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return false, ErrNotInitialized
	}

	for _, name := range names {
		if !p.hasRoleLocked(name) {
			return false, nil
		}
	}
	return true, nil
}

// Roles returns a copy of the cached roles.
func (p *PermissionService) Roles() ([]Role, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	return cloneRoles(p.roles), nil
}

func (p *PermissionService) Permissions() ([]Permission, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	out := make([]Permission, len(p.permissions))
	copy(out, p.permissions)
	return out, nil
}

func (p *PermissionService) hasRoleLocked(name string) bool {
	for _, r := range p.roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func cloneRoles(roles []Role) []Role {
	out := make([]Role, len(roles))
	for i, r := range roles {
		out[i] = r
		out[i].Permissions = append([]Permission(nil), r.Permissions...)
	}
	return out
}
