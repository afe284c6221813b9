// Package store defines the persistence contracts used by the services.
// Every mutation touches a single record or document and is atomic on its own.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate key")

// RecipeRepository persists recipes and their reactions.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	FindByID(ctx context.Context, id string) (*models.Recipe, error)
	// Update writes the chef editable fields of recipe.
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id string) error
	// IncrementViews bumps the view count by one and returns the updated recipe.
	IncrementViews(ctx context.Context, id string) (*models.Recipe, error)
	ListByViews(ctx context.Context, limit int) ([]models.Recipe, error)
	// ListByLikes orders by like count descending, then by creation order.
	ListByLikes(ctx context.Context, limit int) ([]models.RankedRecipe, error)
	// ToggleReaction flips kind for principalID and clears the opposite reaction
	// in the same write.
	ToggleReaction(ctx context.Context, recipeID, principalID string, kind models.ReactionKind) (*models.ReactionStatus, error)
	ReactionStatus(ctx context.Context, recipeID, principalID string) (*models.ReactionStatus, error)
}

// CommentRepository persists comments. Insert must rely on the unique
// (recipe, user) index and return ErrDuplicate on conflict.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) error
	UpdateTextForUser(ctx context.Context, recipeID, userRef, text string, at time.Time) (*models.Comment, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	FindByRecipeAndUser(ctx context.Context, recipeID, userRef string) (*models.Comment, error)
	Save(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	ListByRecipe(ctx context.Context, recipeID string, offset, limit int) ([]models.Comment, int64, error)
}

// TermRepository persists categories and tags.
type TermRepository interface {
	Create(ctx context.Context, term *models.Term) error
	FindByName(ctx context.Context, kind models.TermKind, name string) (*models.Term, error)
	List(ctx context.Context, kind models.TermKind) ([]models.Term, error)
	Delete(ctx context.Context, kind models.TermKind, id string) error
}

// AccountRepository persists users, chefs and admins.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, role models.Role, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, role models.Role, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, role models.Role, username string) (*models.Account, error)
	FindByNumber(ctx context.Context, role models.Role, number string) (*models.Account, error)
	SetActive(ctx context.Context, role models.Role, id string, active bool) error
	Count(ctx context.Context, role models.Role) (int64, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Recipes  RecipeRepository
	Comments CommentRepository
	Terms    TermRepository
	Accounts AccountRepository
}
