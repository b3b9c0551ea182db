package auth_test

import (
	"github.com/frahmantamala/ontology-client/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateStore", func() {
	var (
		store  *auth.StateStore
		user   auth.User
		tokens auth.AuthTokens
	)

	BeforeEach(func() {
		store = auth.NewStateStore()
		user = auth.User{ID: 1, Email: "a@x.com", Username: "alice"}
		tokens = auth.AuthTokens{AccessToken: "A", RefreshToken: "B", TokenType: "Bearer"}
	})

	It("starts signed out", func() {
		snap := store.Snapshot()
		Expect(snap.IsAuthenticated).To(BeFalse())
		Expect(snap.User).To(BeNil())
		Expect(snap.Tokens).To(BeNil())
		Expect(snap.Roles).To(BeEmpty())
	})

	It("sets user, tokens and roles in one snapshot", func() {
		var seen []auth.State
		store.Subscribe(func(s auth.State) { seen = append(seen, s) })

		store.SetAuthenticated(user, tokens, []auth.Role{{ID: 1, Name: "editor"}})

		Expect(seen).To(HaveLen(2))
		last := seen[1]
		Expect(last.IsAuthenticated).To(BeTrue())
		Expect(last.User).NotTo(BeNil())
		Expect(last.Tokens).NotTo(BeNil())
		Expect(last.Roles).To(HaveLen(1))
	})

	It("clears user and tokens together", func() {
		store.SetAuthenticated(user, tokens, nil)
		store.SetError("stale")

		store.SetUnauthenticated()

		snap := store.Snapshot()
		Expect(snap.IsAuthenticated).To(BeFalse())
		Expect(snap.User).To(BeNil())
		Expect(snap.Tokens).To(BeNil())
		Expect(snap.Error).To(BeEmpty())
	})

	It("never shows a snapshot where the flag disagrees with user and tokens", func() {
		store.Subscribe(func(s auth.State) {
			Expect(s.IsAuthenticated).To(Equal(s.User != nil && s.Tokens != nil))
		})

		store.SetAuthenticated(user, tokens, nil)
		store.SetLoading(true)
		store.UpdateUser(func(u *auth.User) { u.Username = "alice2" })
		store.SetUnauthenticated()
		store.Reset()
	})

	It("hands out snapshots that do not alias state", func() {
		store.SetAuthenticated(user, tokens, []auth.Role{{Name: "editor"}})

		snap := store.Snapshot()
		snap.User.Email = "mutated"
		snap.Roles[0].Name = "mutated"

		again := store.Snapshot()
		Expect(again.User.Email).To(Equal("a@x.com"))
		Expect(again.Roles[0].Name).To(Equal("editor"))
	})

	It("updates the user only when signed in", func() {
		store.UpdateUser(func(u *auth.User) { u.Username = "ghost" })
		Expect(store.Snapshot().User).To(BeNil())

		store.SetAuthenticated(user, tokens, nil)
		store.UpdateUser(func(u *auth.User) { u.Username = "alice2" })
		Expect(store.Snapshot().User.Username).To(Equal("alice2"))
	})

	It("stops notifying after unsubscribe", func() {
		calls := 0
		unsubscribe := store.Subscribe(func(auth.State) { calls++ })
		Expect(calls).To(Equal(1))

		store.SetLoading(true)
		unsubscribe()
		unsubscribe()
		store.SetLoading(false)

		Expect(calls).To(Equal(2))
	})

	It("notifies in subscription order", func() {
		var order []string
		store.Subscribe(func(auth.State) { order = append(order, "first") })
		store.Subscribe(func(auth.State) { order = append(order, "second") })
		order = nil

		store.SetRoles([]auth.Role{{Name: "viewer"}})

		Expect(order).To(Equal([]string{"first", "second"}))
	})
})
