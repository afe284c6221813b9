package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
)

const (
	// MaxRecipeImages is the number of images accepted when a recipe is created.
	MaxRecipeImages = 3
	// DefaultListLimit is used by the ranking endpoints when no limit is given.
	DefaultListLimit = 10
	maxListLimit     = 100
)

// CreateRecipeInput holds the fields of a new recipe. Images are already
// stored and hold their public URLs.
type CreateRecipeInput struct {
	Title       string
	Description string
	CookingTime int
	Steps       []string
	Category    string
	Tags        []string
	Images      []string
}

// UpdateRecipeInput is a sparse update: nil fields are left untouched and
// NewImages are appended to the existing images.
type UpdateRecipeInput struct {
	Title       *string
	Description *string
	CookingTime *int
	Steps       []string
	Category    *string
	Tags        []string
	NewImages   []string
}

// RecipeService handles recipe lifecycle and the public rankings.
type RecipeService interface {
	Create(ctx context.Context, chef *auth.Principal, in CreateRecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, chef *auth.Principal, id string, in UpdateRecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, chef *auth.Principal, id string) error
	// Get returns the recipe after counting one more view.
	Get(ctx context.Context, id string) (*models.Recipe, error)
	Popular(ctx context.Context, limit int) ([]models.Recipe, error)
	MostLiked(ctx context.Context, limit int) ([]models.RankedRecipe, error)
}

type recipeService struct {
	recipes store.RecipeRepository
}

// NewRecipeService creates a new instance of RecipeService
func NewRecipeService(recipes store.RecipeRepository) RecipeService {
	return &recipeService{recipes: recipes}
}

func (s *recipeService) Create(ctx context.Context, chef *auth.Principal, in CreateRecipeInput) (*models.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	switch {
	case title == "":
		return nil, models.NewValidationError("Recipe title is required")
	case category == "":
		return nil, models.NewValidationError("Category is required")
	case len(in.Images) == 0:
		return nil, models.NewValidationError("At least 1 image is required")
	case len(in.Images) > MaxRecipeImages:
		return nil, models.NewValidationError(fmt.Sprintf("Max %d images allowed", MaxRecipeImages))
	case in.CookingTime < 0:
		return nil, models.NewValidationError("Cooking time cannot be negative")
	}

	recipe := &models.Recipe{
		ID:           models.NewID(),
		Title:        title,
		Description:  in.Description,
		CookingTime:  in.CookingTime,
		Images:       in.Images,
		Steps:        nonNil(in.Steps),
		CategoryName: category,
		TagNames:     nonNil(in.Tags),
		ChefID:       chef.ID,
		ChefUsername: chef.Username,
		ChefNumber:   chef.Number,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, internal("create recipe", err)
	}
	return recipe, nil
}

func (s *recipeService) Update(ctx context.Context, chef *auth.Principal, id string, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Recipe not found", "find recipe")
	}
	if recipe.ChefID != chef.ID {
		return nil, models.NewUnauthorizedError("Unauthorized: You can only edit your own recipes")
	}

	if len(in.NewImages) > 0 {
		recipe.Images = append(recipe.Images, in.NewImages...)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		recipe.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.CookingTime != nil {
		if *in.CookingTime < 0 {
			return nil, models.NewValidationError("Cooking time cannot be negative")
		}
		recipe.CookingTime = *in.CookingTime
	}
	if in.Steps != nil {
		recipe.Steps = in.Steps
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		recipe.CategoryName = strings.TrimSpace(*in.Category)
	}
	if in.Tags != nil {
		recipe.TagNames = in.Tags
	}
	recipe.UpdatedAt = time.Now()

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, notFoundOr(err, "Recipe not found", "update recipe")
	}
	return recipe, nil
}

func (s *recipeService) Delete(ctx context.Context, chef *auth.Principal, id string) error {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Recipe not found", "find recipe")
	}
	if recipe.ChefID != chef.ID {
		msg := fmt.Sprintf("Unauthorized: You can only delete your own recipes. Recipe belongs to %s, but you are %s", recipe.ChefID, chef.ID)
		return models.NewUnauthorizedError(msg).WithDetails(map[string]interface{}{
			"owner":  recipe.ChefID,
			"caller": chef.ID,
		})
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Recipe not found", "delete recipe")
	}
	return nil
}

func (s *recipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.recipes.IncrementViews(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Recipe not found", "increment views")
	}
	return recipe, nil
}

func (s *recipeService) Popular(ctx context.Context, limit int) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListByViews(ctx, clampLimit(limit))
	if err != nil {
		return nil, internal("list popular recipes", err)
	}
	return recipes, nil
}

func (s *recipeService) MostLiked(ctx context.Context, limit int) ([]models.RankedRecipe, error) {
	recipes, err := s.recipes.ListByLikes(ctx, clampLimit(limit))
	if err != nil {
		return nil, internal("list most liked recipes", err)
	}
	return recipes, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// recipeExists maps a missing recipe to the NotFound error every recipe
// scoped operation reports.
func recipeExists(ctx context.Context, recipes store.RecipeRepository, id string) error {
	_, err := recipes.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewNotFoundError("Recipe not found")
	}
	if err != nil {
		return internal("find recipe", err)
	}
	return nil
}
