package gormstore

import (
	"context"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a comment repository backed by db.
func NewCommentRepository(db *gorm.DB) store.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *commentRepository) UpdateTextForUser(ctx context.Context, recipeID, userRef, text string, at time.Time) (*models.Comment, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.Comment{}).
		Where("recipe_id = ? AND user_ref = ?", recipeID, userRef).
		Updates(map[string]interface{}{"text": text, "updated_at": at})
	if err := affected(result); err != nil {
		return nil, err
	}
	return r.FindByRecipeAndUser(ctx, recipeID, userRef)
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) FindByRecipeAndUser(ctx context.Context, recipeID, userRef string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_ref = ?", recipeID, userRef).
		First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) Save(ctx context.Context, comment *models.Comment) error {
	result := r.db.WithContext(ctx).Model(comment).
		Select("text", "admin_edited", "last_edited_by", "updated_at").
		Updates(comment)
	return affected(result)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}))
}

func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID string, offset, limit int) ([]models.Comment, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Comment{}).Where("recipe_id = ?", recipeID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
