package services

import (
	"context"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
)

// ReactionService toggles likes and dislikes. A principal is neutral, liked or
// disliked on each recipe; toggling the current state returns to neutral and
// toggling the other one switches over in a single write.
type ReactionService interface {
	ToggleLike(ctx context.Context, caller *auth.Principal, recipeID string) (*models.ReactionStatus, error)
	ToggleDislike(ctx context.Context, caller *auth.Principal, recipeID string) (*models.ReactionStatus, error)
	Status(ctx context.Context, caller *auth.Principal, recipeID string) (*models.ReactionStatus, error)
}

type reactionService struct {
	recipes store.RecipeRepository
}

// NewReactionService creates a new instance of ReactionService
func NewReactionService(recipes store.RecipeRepository) ReactionService {
	return &reactionService{recipes: recipes}
}

func (s *reactionService) ToggleLike(ctx context.Context, caller *auth.Principal, recipeID string) (*models.ReactionStatus, error) {
	return s.toggle(ctx, caller, recipeID, models.ReactionLike)
}

func (s *reactionService) ToggleDislike(ctx context.Context, caller *auth.Principal, recipeID string) (*models.ReactionStatus, error) {
	return s.toggle(ctx, caller, recipeID, models.ReactionDislike)
}

func (s *reactionService) Status(ctx context.Context, caller *auth.Principal, recipeID string) (*models.ReactionStatus, error) {
	status, err := s.recipes.ReactionStatus(ctx, recipeID, caller.ID)
	if err != nil {
		return nil, notFoundOr(err, "Recipe not found", "reaction status")
	}
	return status, nil
}

func (s *reactionService) toggle(ctx context.Context, caller *auth.Principal, recipeID string, kind models.ReactionKind) (*models.ReactionStatus, error) {
	status, err := s.recipes.ToggleReaction(ctx, recipeID, caller.ID, kind)
	if err != nil {
		return nil, notFoundOr(err, "Recipe not found", "toggle "+string(kind))
	}
	return status, nil
}
