package gormstore

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"gorm.io/gorm"
)

type termRepository struct {
	db *gorm.DB
}

// NewTermRepository creates a category and tag repository backed by db.
func NewTermRepository(db *gorm.DB) store.TermRepository {
	return &termRepository{db: db}
}

func (r *termRepository) Create(ctx context.Context, term *models.Term) error {
	return translate(r.db.WithContext(ctx).Create(term).Error)
}

func (r *termRepository) FindByName(ctx context.Context, kind models.TermKind, name string) (*models.Term, error) {
	var term models.Term
	err := r.db.WithContext(ctx).
		Where("kind = ? AND LOWER(name) = ?", kind, strings.ToLower(name)).
		First(&term).Error
	if err != nil {
		return nil, translate(err)
	}
	return &term, nil
}

func (r *termRepository) List(ctx context.Context, kind models.TermKind) ([]models.Term, error) {
	terms := []models.Term{}
	err := r.db.WithContext(ctx).Where("kind = ?", kind).
		Order("created_at ASC").Order("id ASC").
		Find(&terms).Error
	return terms, err
}

func (r *termRepository) Delete(ctx context.Context, kind models.TermKind, id string) error {
	return affected(r.db.WithContext(ctx).Where("kind = ? AND id = ?", kind, id).Delete(&models.Term{}))
}
