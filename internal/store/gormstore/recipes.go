package gormstore

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a recipe repository backed by db.
func NewRecipeRepository(db *gorm.DB) store.RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return translate(err)
	}
	recipe.Likes = []string{}
	recipe.Dislikes = []string{}
	return nil
}

func (r *recipeRepository) FindByID(ctx context.Context, id string) (*models.Recipe, error) {
	return findRecipe(r.db.WithContext(ctx), id)
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	result := r.db.WithContext(ctx).Model(recipe).
		Select("title", "description", "cooking_time", "images", "steps", "category_name", "tag_names", "updated_at").
		Updates(recipe)
	return affected(result)
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return affected(tx.Where("id = ?", id).Delete(&models.Recipe{}))
	})
}

func (r *recipeRepository) IncrementViews(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipe{}).Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if err := affected(result); err != nil {
			return err
		}
		var err error
		recipe, err = findRecipe(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepository) ListByViews(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Order("view_count DESC").Order("created_at ASC").Order("id ASC").
		Limit(limit).Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	if err := hydrate(r.db.WithContext(ctx), recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

type rankRow struct {
	ID           string
	LikeCount    int
	DislikeCount int
}

func (r *recipeRepository) ListByLikes(ctx context.Context, limit int) ([]models.RankedRecipe, error) {
	db := r.db.WithContext(ctx)

	var rows []rankRow
	err := db.Model(&models.Recipe{}).
		Select("recipes.id AS id, "+
			"(SELECT COUNT(*) FROM reactions WHERE reactions.recipe_id = recipes.id AND reactions.kind = ?) AS like_count, "+
			"(SELECT COUNT(*) FROM reactions WHERE reactions.recipe_id = recipes.id AND reactions.kind = ?) AS dislike_count",
			models.ReactionLike, models.ReactionDislike).
		Order("like_count DESC").Order("recipes.created_at ASC").Order("recipes.id ASC").
		Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.RankedRecipe{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var recipes []models.Recipe
	if err := db.Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}
	if err := hydrate(db, recipes); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	ranked := make([]models.RankedRecipe, 0, len(rows))
	for _, row := range rows {
		recipe, ok := byID[row.ID]
		if !ok {
			// deleted between the two queries
			continue
		}
		ranked = append(ranked, models.RankedRecipe{
			Recipe:       recipe,
			LikeCount:    row.LikeCount,
			DislikeCount: row.DislikeCount,
		})
	}
	return ranked, nil
}

func (r *recipeRepository) ToggleReaction(ctx context.Context, recipeID, principalID string, kind models.ReactionKind) (*models.ReactionStatus, error) {
	var status *models.ReactionStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRecipe(tx, recipeID); err != nil {
			return err
		}

		var existing models.Reaction
		err := tx.Where("recipe_id = ? AND principal_id = ?", recipeID, principalID).First(&existing).Error
		switch {
		case err == nil && existing.Kind == kind:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
			// one row per pair: switching kind replaces the opposite reaction
			reaction := models.Reaction{RecipeID: recipeID, PrincipalID: principalID, Kind: kind}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "principal_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
			}).Create(&reaction).Error
			if err != nil {
				return err
			}
		default:
			return err
		}

		status, err = reactionStatus(tx, recipeID, principalID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return status, nil
}

func (r *recipeRepository) ReactionStatus(ctx context.Context, recipeID, principalID string) (*models.ReactionStatus, error) {
	db := r.db.WithContext(ctx)
	if err := ensureRecipe(db, recipeID); err != nil {
		return nil, err
	}
	return reactionStatus(db, recipeID, principalID)
}

func ensureRecipe(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return nil
}

func reactionStatus(db *gorm.DB, recipeID, principalID string) (*models.ReactionStatus, error) {
	var reactions []models.Reaction
	if err := db.Where("recipe_id = ?", recipeID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	status := &models.ReactionStatus{}
	for _, reaction := range reactions {
		mine := reaction.PrincipalID == principalID
		switch reaction.Kind {
		case models.ReactionLike:
			status.LikeCount++
			status.Liked = status.Liked || mine
		case models.ReactionDislike:
			status.DislikeCount++
			status.Disliked = status.Disliked || mine
		}
	}
	return status, nil
}

func findRecipe(db *gorm.DB, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, translate(err)
	}
	recipes := []models.Recipe{recipe}
	if err := hydrate(db, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// hydrate fills Likes and Dislikes from the reactions table, in reaction order.
func hydrate(db *gorm.DB, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]string, len(recipes))
	index := make(map[string]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Likes = []string{}
		recipes[i].Dislikes = []string{}
	}

	var reactions []models.Reaction
	if err := db.Where("recipe_id IN ?", ids).Order("id ASC").Find(&reactions).Error; err != nil {
		return err
	}
	for _, reaction := range reactions {
		recipe := &recipes[index[reaction.RecipeID]]
		if reaction.Kind == models.ReactionLike {
			recipe.Likes = append(recipe.Likes, reaction.PrincipalID)
		} else {
			recipe.Dislikes = append(recipe.Dislikes, reaction.PrincipalID)
		}
	}
	return nil
}
