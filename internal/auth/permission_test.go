package auth_test

import (
	"context"

	"github.com/frahmantamala/ontology-client/internal/auth"
	"github.com/frahmantamala/ontology-client/internal/graphql"
	"github.com/frahmantamala/ontology-client/internal/graphql/graphqltest"
	"github.com/frahmantamala/ontology-client/internal/storage/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func editorAndViewerRoles() []map[string]any {
	return []map[string]any{
		{
			"id": 1, "name": "editor",
			"permissions": []map[string]any{
				{"id": 10, "resource": "concept", "action": "update", "scope": "own", "roleId": 1},
				{"id": 11, "resource": "concept", "action": "create", "scope": "all", "roleId": 1},
			},
		},
		{
			"id": 2, "name": "viewer",
			"permissions": []map[string]any{
				{"id": 20, "resource": "dictionary", "action": "read", "scope": "all", "roleId": 2},
			},
		},
	}
}

var _ = Describe("PermissionService", func() {
	var (
		server *graphqltest.Server
		perms  *auth.PermissionService
		tokens *auth.TokenStore
		ctx    context.Context
	)

	BeforeEach(func() {
		server = graphqltest.NewServer()
		client := graphql.NewClient(graphql.Config{Endpoint: server.Endpoint()}, discardLogger(), nil)
		tokens = auth.NewTokenStore(memory.New(), discardLogger())
		perms = auth.NewPermissionService(client, tokens, discardLogger())
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	assertNotInitialized := func() {
		_, err := perms.HasPermission("concept", "update")
		Expect(err).To(MatchError(ContainSubstring("not initialized")))
		_, err = perms.CanAccess("concept", "update", "own")
		Expect(err).To(MatchError(auth.ErrNotInitialized))
		_, err = perms.HasRole("editor")
		Expect(err).To(MatchError(auth.ErrNotInitialized))
		_, err = perms.HasAnyRole("editor")
		Expect(err).To(MatchError(auth.ErrNotInitialized))
		_, err = perms.HasAllRoles()
		Expect(err).To(MatchError(auth.ErrNotInitialized))
		_, err = perms.Roles()
		Expect(err).To(MatchError(auth.ErrNotInitialized))
		_, err = perms.Permissions()
		Expect(err).To(MatchError(auth.ErrNotInitialized))
	}

	It("guards every query before Initialize", func() {
		assertNotInitialized()
	})

	Context("after Initialize", func() {
		BeforeEach(func() {
			Expect(tokens.Save(ctx, auth.AuthTokens{AccessToken: "A", RefreshToken: "B", TokenType: "Bearer"})).To(Succeed())
			server.Respond("MyRoles", map[string]any{"myRoles": editorAndViewerRoles()})
			Expect(perms.Initialize(ctx)).To(Succeed())
		})

		It("queries with the stored access token", func() {
			Expect(server.Calls()[0].Authorization).To(Equal("Bearer A"))
			Expect(perms.Initialized()).To(BeTrue())
		})

		It("flattens permissions in role order", func() {
			permissions, err := perms.Permissions()

			Expect(err).NotTo(HaveOccurred())
			ids := make([]int64, 0, len(permissions))
			for _, p := range permissions {
				ids = append(ids, p.ID)
			}
			Expect(ids).To(Equal([]int64{10, 11, 20}))
		})

		It("matches resource and action, ignoring scope", func() {
			Expect(perms.HasPermission("concept", "update")).To(BeTrue())
			Expect(perms.HasPermission("concept", "delete")).To(BeFalse())
		})

		It("checks scope only when one is given", func() {
			Expect(perms.CanAccess("concept", "update", "")).To(BeTrue())
			Expect(perms.CanAccess("concept", "update", auth.ScopeOwn)).To(BeTrue())
			Expect(perms.CanAccess("concept", "update", auth.ScopeAll)).To(BeFalse())
		})

		It("matches role names exactly", func() {
			Expect(perms.HasRole("editor")).To(BeTrue())
			Expect(perms.HasRole("Editor")).To(BeFalse())
			Expect(perms.HasAnyRole("admin", "viewer")).To(BeTrue())
			Expect(perms.HasAnyRole("admin")).To(BeFalse())
			Expect(perms.HasAllRoles("editor", "viewer")).To(BeTrue())
			Expect(perms.HasAllRoles("editor", "admin")).To(BeFalse())
			Expect(perms.HasAllRoles()).To(BeTrue())
		})

		It("returns copies", func() {
			roles, err := perms.Roles()
			Expect(err).NotTo(HaveOccurred())
			roles[0].Name = "mutated"
			roles[0].Permissions[0].Action = "mutated"

			again, _ := perms.Roles()
			Expect(again[0].Name).To(Equal("editor"))
			Expect(again[0].Permissions[0].Action).To(Equal("update"))

			permissions, _ := perms.Permissions()
			permissions[0].Resource = "mutated"
			Expect(perms.HasPermission("concept", "update")).To(BeTrue())
		})

		It("replaces the cache on Refresh", func() {
			server.Respond("MyRoles", map[string]any{"myRoles": []map[string]any{{"id": 3, "name": "admin", "permissions": []any{}}}})

			Expect(perms.Refresh(ctx)).To(Succeed())

			Expect(perms.HasRole("editor")).To(BeFalse())
			Expect(perms.HasRole("admin")).To(BeTrue())
			Expect(perms.Permissions()).To(BeEmpty())
		})

		It("keeps the cache when Refresh fails", func() {
			server.RespondErrors("MyRoles", graphql.Error{Message: "boom"})

			Expect(perms.Refresh(ctx)).To(MatchError("boom"))

			Expect(perms.HasRole("editor")).To(BeTrue())
		})

		It("returns to uninitialized on Clear", func() {
			perms.Clear()

			assertNotInitialized()
		})
	})

	It("treats null roles as empty", func() {
		server.Respond("MyRoles", map[string]any{"myRoles": nil})

		Expect(perms.Initialize(ctx)).To(Succeed())

		Expect(perms.Roles()).To(BeEmpty())
		Expect(perms.Permissions()).To(BeEmpty())
	})

	It("surfaces transport failures and stays uninitialized", func() {
		server.RespondErrors("MyRoles", graphql.Error{Message: "'NoneType' object is not iterable"})

		err := perms.Initialize(ctx)

		Expect(err).To(MatchError("'NoneType' object is not iterable"))
		Expect(perms.Initialized()).To(BeFalse())
	})
})
