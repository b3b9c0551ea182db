package concept

import (
	"regexp"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/internal/validation"
)

const (
	MaxPathLength = 255
	MaxDepth      = 10
)

var pathPattern = regexp.MustCompile(`^[a-zA-Z0-9._\-/]+$`)

// Concept is one node of the ontology. Depth is display metadata and is not
// checked against the parent chain.
type Concept struct {
	ID       int64  `json:"id"`
	Path     string `json:"path"`
	Depth    int    `json:"depth"`
	ParentID *int64 `json:"parentId"`
}

// TreeConcept is a Concept with its children wired by BuildTree.
type TreeConcept struct {
	Concept
	Children []*TreeConcept `json:"children"`
}

// Dictionary is a localized label for one concept in one language.
type Dictionary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	LanguageID  int64   `json:"languageId"`
	ConceptID   int64   `json:"conceptId"`
}

type Language struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type ConceptInput struct {
	Path     string `json:"path"`
	Depth    int    `json:"depth"`
	ParentID *int64 `json:"parentId"`
}

func (in ConceptInput) Validate() error {
	v := validation.NewValidator()
	v.Field("path", in.Path).
		Required().
		MaxLength(MaxPathLength).
		Matches(pathPattern, "Path can only contain letters, numbers, dots, dashes, underscores, and slashes", internal.ErrCodeInvalidPath)
	v.Field("depth", in.Depth).
		MinInt(0, internal.ErrCodeInvalidDepth).
		MaxInt(MaxDepth, internal.ErrCodeInvalidDepth)
	if in.ParentID != nil {
		v.Field("parentId", in.ParentID).MinInt(1, internal.ErrCodeValidationFailed)
	}
	return v.Err()
}
