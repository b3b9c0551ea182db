package concept_test

import (
	"github.com/frahmantamala/ontology-client/internal/concept"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildTree", func() {
	It("places concepts with absent parents at the root", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(1, nil, "a"),
			node(2, ptr(999), "b"),
		})

		Expect(ids(forest)).To(Equal([]int64{1, 2}))
		Expect(forest[0].Children).To(BeEmpty())
	})

	It("keeps children in input order", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(5, ptr(1), "z"),
			node(1, nil, "root"),
			node(3, ptr(1), "a"),
			node(4, ptr(3), "a/x"),
		})

		Expect(ids(forest)).To(Equal([]int64{1}))
		Expect(ids(forest[0].Children)).To(Equal([]int64{5, 3}))
		Expect(ids(forest[0].Children[1].Children)).To(Equal([]int64{4}))
	})

	It("returns an empty forest for empty input", func() {
		Expect(concept.BuildTree(nil)).To(BeEmpty())
	})

	It("treats a self-parented concept as a root", func() {
		forest := concept.BuildTree([]concept.Concept{node(1, ptr(1), "self")})

		Expect(ids(forest)).To(Equal([]int64{1}))
		Expect(forest[0].Children).To(BeEmpty())
	})

	It("ignores duplicate ids after the first", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(1, nil, "first"),
			node(1, nil, "second"),
		})

		Expect(forest).To(HaveLen(1))
		Expect(forest[0].Path).To(Equal("first"))
	})

	It("breaks a cycle at its first member in input order", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(1, nil, "root"),
			node(2, ptr(3), "b"),
			node(3, ptr(2), "c"),
		})

		Expect(ids(forest)).To(Equal([]int64{1, 2}))
		Expect(ids(forest[1].Children)).To(Equal([]int64{3}))
		Expect(forest[1].Children[0].Children).To(BeEmpty())
	})

	It("promotes the cycle member, not a node hanging off the cycle", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(4, ptr(2), "tail"),
			node(2, ptr(3), "b"),
			node(3, ptr(2), "c"),
		})

		Expect(ids(forest)).To(Equal([]int64{2}))
		Expect(ids(forest[0].Children)).To(Equal([]int64{4, 3}))
	})

	It("keeps every input node exactly once", func() {
		flat := []concept.Concept{
			node(1, ptr(2), "a"),
			node(2, ptr(3), "b"),
			node(3, ptr(1), "c"),
			node(4, ptr(5), "d"),
			node(5, ptr(4), "e"),
			node(6, nil, "f"),
		}

		forest := concept.BuildTree(flat)

		Expect(concept.TreeStats(forest).Total).To(Equal(len(flat)))
	})
})

var _ = Describe("AncestorChain", func() {
	flat := []concept.Concept{
		node(1, nil, "Root"),
		node(2, ptr(1), "L1"),
		node(3, ptr(2), "L2"),
	}

	It("returns the chain root first including the target", func() {
		chain := concept.AncestorChain(3, concept.IndexLookup(flat))

		Expect(chain).To(HaveLen(3))
		Expect([]string{chain[0].Path, chain[1].Path, chain[2].Path}).To(Equal([]string{"Root", "L1", "L2"}))
	})

	It("returns an empty chain for an unknown id", func() {
		chain := concept.AncestorChain(999, concept.IndexLookup(flat))

		Expect(chain).NotTo(BeNil())
		Expect(chain).To(BeEmpty())
	})

	It("stops at a parent missing from the set", func() {
		chain := concept.AncestorChain(7, concept.IndexLookup([]concept.Concept{node(7, ptr(42), "orphan")}))

		Expect(chain).To(HaveLen(1))
	})

	It("terminates on cyclic parents", func() {
		cyclic := []concept.Concept{
			node(1, ptr(2), "a"),
			node(2, ptr(1), "b"),
		}

		chain := concept.AncestorChain(1, concept.IndexLookup(cyclic))

		Expect(chain).To(HaveLen(2))
		Expect(chain[0].ID).To(Equal(int64(2)))
		Expect(chain[1].ID).To(Equal(int64(1)))
	})
})

var _ = Describe("TreeStats", func() {
	It("counts per level of the built forest", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(1, nil, "a"),
			node(2, ptr(1), "a/b"),
			node(3, ptr(1), "a/c"),
			node(4, ptr(3), "a/c/d"),
			node(5, nil, "e"),
		})

		stats := concept.TreeStats(forest)

		Expect(stats.Total).To(Equal(5))
		Expect(stats.Roots).To(Equal(2))
		Expect(stats.MaxDepth).To(Equal(2))
		Expect(stats.ByDepth).To(Equal([]concept.DepthCount{
			{Depth: 0, Count: 2},
			{Depth: 1, Count: 2},
			{Depth: 2, Count: 1},
		}))
	})
})

var _ = Describe("ValidateMove", func() {
	flat := []concept.Concept{
		node(1, nil, "a"),
		node(2, ptr(1), "a/b"),
		node(3, ptr(2), "a/b/c"),
		node(4, nil, "d"),
	}

	It("accepts a move under an unrelated node", func() {
		Expect(concept.ValidateMove(flat, 2, ptr(4))).To(Succeed())
	})

	It("accepts a move to the root", func() {
		Expect(concept.ValidateMove(flat, 3, nil)).To(Succeed())
	})

	It("rejects a move under itself", func() {
		Expect(concept.ValidateMove(flat, 2, ptr(2))).To(MatchError(concept.ErrCycle))
	})

	It("rejects a move under a descendant", func() {
		Expect(concept.ValidateMove(flat, 1, ptr(3))).To(MatchError(concept.ErrCycle))
	})

	It("rejects an unknown parent", func() {
		Expect(concept.ValidateMove(flat, 2, ptr(99))).To(MatchError(concept.ErrParentNotFound))
	})

	It("rejects an unknown concept", func() {
		Expect(concept.ValidateMove(flat, 99, nil)).To(MatchError(concept.ErrNotFound))
	})
})

var _ = Describe("FilterByMaxDepth", func() {
	It("prunes below the level without touching the input", func() {
		forest := concept.BuildTree([]concept.Concept{
			node(1, nil, "a"),
			node(2, ptr(1), "a/b"),
			node(3, ptr(2), "a/b/c"),
		})

		pruned := concept.FilterByMaxDepth(forest, 1)

		Expect(ids(pruned[0].Children)).To(Equal([]int64{2}))
		Expect(pruned[0].Children[0].Children).To(BeEmpty())
		Expect(forest[0].Children[0].Children).To(HaveLen(1))
	})
})

var _ = Describe("Search", func() {
	flat := []concept.Concept{
		node(1, nil, "ui/nav/Dashboard"),
		node(2, nil, "ui/button/save"),
	}

	It("matches paths ignoring case", func() {
		Expect(concept.Search(flat, "DASH")).To(HaveLen(1))
		Expect(concept.Search(flat, "ui/")).To(HaveLen(2))
	})

	It("matches nothing for a blank query", func() {
		Expect(concept.Search(flat, "  ")).To(BeEmpty())
	})
})

var _ = Describe("ConceptInput", func() {
	DescribeTable("Validate",
		func(input concept.ConceptInput, want string) {
			err := input.Validate()
			if want == "" {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(want))
		},
		Entry("valid", concept.ConceptInput{Path: "ui/nav/home", Depth: 2, ParentID: ptr(1)}, ""),
		Entry("empty path", concept.ConceptInput{Path: ""}, "path is required"),
		Entry("bad characters", concept.ConceptInput{Path: "ui nav"}, "Path can only contain letters, numbers, dots, dashes, underscores, and slashes"),
		Entry("negative depth", concept.ConceptInput{Path: "a", Depth: -1}, "depth must be at least 0"),
		Entry("too deep", concept.ConceptInput{Path: "a", Depth: 11}, "depth must not exceed 10"),
		Entry("non-positive parent", concept.ConceptInput{Path: "a", ParentID: ptr(0)}, "parentId must be at least 1"),
	)
})
