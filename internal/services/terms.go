package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
)

// TaxonomyService manages categories and tags. Names are trimmed and lower-cased.
type TaxonomyService interface {
	Create(ctx context.Context, kind models.TermKind, name string) (*models.Term, error)
	List(ctx context.Context, kind models.TermKind) ([]models.Term, error)
	// Delete removes a term. Recipes referencing it by name are left as they are.
	Delete(ctx context.Context, kind models.TermKind, id string) error
}

type taxonomyService struct {
	terms store.TermRepository
}

// NewTaxonomyService creates a new instance of TaxonomyService
func NewTaxonomyService(terms store.TermRepository) TaxonomyService {
	return &taxonomyService{terms: terms}
}

func (s *taxonomyService) Create(ctx context.Context, kind models.TermKind, name string) (*models.Term, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, models.NewValidationError(kind.Label() + " name is required")
	}
	exists := models.NewConflictError(kind.Label() + " already exists")

	if _, err := s.terms.FindByName(ctx, kind, name); err == nil {
		return nil, exists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internal("find term", err)
	}

	term := &models.Term{ID: models.NewID(), Kind: kind, Name: name}
	if err := s.terms.Create(ctx, term); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, exists
		}
		return nil, internal("create term", err)
	}
	return term, nil
}

func (s *taxonomyService) List(ctx context.Context, kind models.TermKind) ([]models.Term, error) {
	terms, err := s.terms.List(ctx, kind)
	if err != nil {
		return nil, internal("list terms", err)
	}
	return terms, nil
}

func (s *taxonomyService) Delete(ctx context.Context, kind models.TermKind, id string) error {
	if err := s.terms.Delete(ctx, kind, id); err != nil {
		return notFoundOr(err, kind.Label()+" not found", "delete term")
	}
	return nil
}
