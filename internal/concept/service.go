package concept

import (
	"context"
	"log/slog"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]Concept, error)
	GetByDepth(ctx context.Context, depth int) ([]Concept, error)
	GetChildren(ctx context.Context, parentID int64) ([]Concept, error)
	// GetByID returns nil, nil for an unknown id.
	GetByID(ctx context.Context, id int64) (*Concept, error)
	Create(ctx context.Context, input ConceptInput) (*Concept, error)
	Update(ctx context.Context, id int64, input ConceptInput) (*Concept, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]Concept, error) {
	concepts, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list concepts", "error", err)
		return nil, err
	}
	s.logger.Debug("retrieved concepts", "count", len(concepts))
	return concepts, nil
}

func (s *Service) ListByDepth(ctx context.Context, depth int) ([]Concept, error) {
	return s.repo.GetByDepth(ctx, depth)
}

func (s *Service) Children(ctx context.Context, parentID int64) ([]Concept, error) {
	return s.repo.GetChildren(ctx, parentID)
}

func (s *Service) Get(ctx context.Context, id int64) (Concept, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Concept{}, err
	}
	if c == nil {
		return Concept{}, ErrNotFound
	}
	return *c, nil
}

func (s *Service) Create(ctx context.Context, input ConceptInput) (Concept, error) {
	if err := input.Validate(); err != nil {
		return Concept{}, err
	}

	c, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logger.Error("failed to create concept", "path", input.Path, "error", err)
		return Concept{}, err
	}

	s.logger.Info("concept created", "id", c.ID, "path", c.Path)
	return *c, nil
}

func (s *Service) Update(ctx context.Context, id int64, input ConceptInput) (Concept, error) {
	if err := input.Validate(); err != nil {
		return Concept{}, err
	}

	c, err := s.repo.Update(ctx, id, input)
	if err != nil {
		s.logger.Error("failed to update concept", "id", id, "error", err)
		return Concept{}, err
	}
	if c == nil {
		return Concept{}, ErrNotFound
	}
	return *c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete concept", "id", id, "error", err)
		return err
	}
	s.logger.Info("concept deleted", "id", id)
	return nil
}

// Move re-parents id under newParent, or makes it a root when newParent is
// nil. Moves that would create a cycle are rejected before any write. The
// new depth is one below the parent's.
func (s *Service) Move(ctx context.Context, id int64, newParent *int64) (Concept, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return Concept{}, err
	}

	if err := ValidateMove(flat, id, newParent); err != nil {
		s.logger.Warn("rejected concept move", "id", id, "error", err)
		return Concept{}, err
	}

	lookup := IndexLookup(flat)
	current, _ := lookup(id)

	depth := 0
	if newParent != nil {
		parent, _ := lookup(*newParent)
		depth = parent.Depth + 1
	}

	return s.Update(ctx, id, ConceptInput{Path: current.Path, Depth: depth, ParentID: newParent})
}

// Tree builds the forest of every concept. A negative maxDepth keeps all levels.
func (s *Service) Tree(ctx context.Context, maxDepth int) ([]*TreeConcept, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	forest := BuildTree(flat)
	if maxDepth >= 0 {
		forest = FilterByMaxDepth(forest, maxDepth)
	}
	return forest, nil
}

// Path returns the breadcrumb chain for id, root first.
func (s *Service) Path(ctx context.Context, id int64) ([]Concept, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	chain := AncestorChain(id, IndexLookup(flat))
	if len(chain) == 0 {
		return nil, ErrNotFound
	}
	return chain, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	forest, err := s.Tree(ctx, -1)
	if err != nil {
		return Stats{}, err
	}
	return TreeStats(forest), nil
}

func (s *Service) Search(ctx context.Context, query string) ([]Concept, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Search(flat, query), nil
}
