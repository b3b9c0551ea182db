// Package remote implements concept.RepositoryAPI over the GraphQL endpoint.
package remote

import (
	"context"

	"github.com/frahmantamala/ontology-client/internal/concept"
	"github.com/frahmantamala/ontology-client/internal/graphql"
)

const conceptFields = `
		id
		path
		depth
		parentId`

const (
	conceptsQuery = `query Concepts {
	concepts {` + conceptFields + `
	}
}`

	conceptsByDepthQuery = `query ConceptsByDepth($depth: Int!) {
	conceptsByDepth(depth: $depth) {` + conceptFields + `
	}
}`

	conceptChildrenQuery = `query ConceptChildren($parentId: Int!) {
	conceptChildren(parentId: $parentId) {` + conceptFields + `
	}
}`

	conceptQuery = `query Concept($id: Int!) {
	concept(id: $id) {` + conceptFields + `
	}
}`

	createConceptMutation = `mutation CreateConcept($input: ConceptInput!) {
	createConcept(input: $input) {` + conceptFields + `
	}
}`

	updateConceptMutation = `mutation UpdateConcept($id: Int!, $input: ConceptInput!) {
	updateConcept(id: $id, input: $input) {` + conceptFields + `
	}
}`

	deleteConceptMutation = `mutation DeleteConcept($id: Int!) {
	deleteConcept(id: $id)
}`
)

type TokenSource interface {
	AccessToken(ctx context.Context) string
}

type ConceptRepository struct {
	client graphql.Requester
	tokens TokenSource
}

func NewConceptRepository(client graphql.Requester, tokens TokenSource) *ConceptRepository {
	return &ConceptRepository{client: client, tokens: tokens}
}

func (r *ConceptRepository) GetAll(ctx context.Context) ([]concept.Concept, error) {
	out, err := graphql.Do[struct {
		Concepts []concept.Concept `json:"concepts"`
	}](ctx, r.client, conceptsQuery, nil, r.tokens.AccessToken(ctx))
	return nonNil(out.Concepts), err
}

func (r *ConceptRepository) GetByDepth(ctx context.Context, depth int) ([]concept.Concept, error) {
	out, err := graphql.Do[struct {
		Concepts []concept.Concept `json:"conceptsByDepth"`
	}](ctx, r.client, conceptsByDepthQuery, map[string]any{"depth": depth}, r.tokens.AccessToken(ctx))
	return nonNil(out.Concepts), err
}

func (r *ConceptRepository) GetChildren(ctx context.Context, parentID int64) ([]concept.Concept, error) {
	out, err := graphql.Do[struct {
		Concepts []concept.Concept `json:"conceptChildren"`
	}](ctx, r.client, conceptChildrenQuery, map[string]any{"parentId": parentID}, r.tokens.AccessToken(ctx))
	return nonNil(out.Concepts), err
}

func (r *ConceptRepository) GetByID(ctx context.Context, id int64) (*concept.Concept, error) {
	out, err := graphql.Do[struct {
		Concept *concept.Concept `json:"concept"`
	}](ctx, r.client, conceptQuery, map[string]any{"id": id}, r.tokens.AccessToken(ctx))
	if err != nil {
		return nil, err
	}
	return out.Concept, nil
}

func (r *ConceptRepository) Create(ctx context.Context, input concept.ConceptInput) (*concept.Concept, error) {
	out, err := graphql.Do[struct {
		Concept *concept.Concept `json:"createConcept"`
	}](ctx, r.client, createConceptMutation, map[string]any{"input": input}, r.tokens.AccessToken(ctx))
	if err != nil {
		return nil, err
	}
	if out.Concept == nil {
		return nil, graphql.ErrEmptyData
	}
	return out.Concept, nil
}

func (r *ConceptRepository) Update(ctx context.Context, id int64, input concept.ConceptInput) (*concept.Concept, error) {
	out, err := graphql.Do[struct {
		Concept *concept.Concept `json:"updateConcept"`
	}](ctx, r.client, updateConceptMutation, map[string]any{"id": id, "input": input}, r.tokens.AccessToken(ctx))
	if err != nil {
		return nil, err
	}
	return out.Concept, nil
}

func (r *ConceptRepository) Delete(ctx context.Context, id int64) error {
	out, err := graphql.Do[struct {
		Deleted bool `json:"deleteConcept"`
	}](ctx, r.client, deleteConceptMutation, map[string]any{"id": id}, r.tokens.AccessToken(ctx))
	if err != nil {
		return err
	}
	if !out.Deleted {
		return concept.ErrNotFound
	}
	return nil
}

func nonNil(cs []concept.Concept) []concept.Concept {
	if cs == nil {
		return []concept.Concept{}
	}
	return cs
}
