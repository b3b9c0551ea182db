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

var _ = Describe("Container", func() {
	var (
		server    *graphqltest.Server
		container *auth.Container
		ctx       context.Context
	)

	BeforeEach(func() {
		server = graphqltest.NewServer()
		client := graphql.NewClient(graphql.Config{Endpoint: server.Endpoint()}, discardLogger(), nil)
		container = auth.NewContainer(memory.New(), client, discardLogger())
		ctx = context.Background()

		server.Respond("Login", map[string]any{"login": aliceTokens()})
		server.Respond("Me", map[string]any{"me": aliceUser()})
		server.Respond("MyRoles", map[string]any{"myRoles": editorAndViewerRoles()})
	})

	AfterEach(func() {
		server.Close()
	})

	It("shares one token store between services", func() {
		_, err := container.Session.Login(ctx, auth.LoginCredentials{Username: "alice", Password: "pw"})
		Expect(err).NotTo(HaveOccurred())

		Expect(container.Tokens.AccessToken(ctx)).To(Equal("A"))
		Expect(container.State.Snapshot().IsAuthenticated).To(BeTrue())
		Expect(container.Session.HasRole("editor")).To(BeTrue())
	})

	It("drops in-memory state on Reset but keeps persisted tokens", func() {
		_, err := container.Session.Login(ctx, auth.LoginCredentials{Username: "alice", Password: "pw"})
		Expect(err).NotTo(HaveOccurred())

		container.Reset()

		Expect(container.State.Snapshot().IsAuthenticated).To(BeFalse())
		Expect(container.Permissions.Initialized()).To(BeFalse())

		resp, err := container.Session.Check(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.User.Username).To(Equal("alice"))
		Expect(container.State.Snapshot().IsAuthenticated).To(BeTrue())
	})
})
