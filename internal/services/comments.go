package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
)

const adminEditor = "Admin"

// CommentService manages the single comment each user may leave per recipe.
type CommentService interface {
	// Add creates the caller's comment, or rewrites it when one already exists.
	Add(ctx context.Context, caller *auth.Principal, recipeID, text string) (*models.Comment, error)
	// Edit lets the owner or an admin change a comment's text.
	Edit(ctx context.Context, caller *auth.Principal, commentID, text string) (*models.Comment, error)
	Delete(ctx context.Context, caller *auth.Principal, commentID string) error
	ListForRecipe(ctx context.Context, recipeID string, page, limit int) (*models.CommentPage, error)
	// GetForCaller returns the caller's comment on recipeID, or nil.
	GetForCaller(ctx context.Context, caller *auth.Principal, recipeID string) (*models.Comment, error)
}

type commentService struct {
	comments store.CommentRepository
	recipes  store.RecipeRepository
	accounts store.AccountRepository
	now      func() time.Time
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(comments store.CommentRepository, recipes store.RecipeRepository, accounts store.AccountRepository) CommentService {
	return &commentService{comments: comments, recipes: recipes, accounts: accounts, now: time.Now}
}

func (s *commentService) Add(ctx context.Context, caller *auth.Principal, recipeID, text string) (*models.Comment, error) {
	if err := recipeExists(ctx, s.recipes, recipeID); err != nil {
		return nil, err
	}
	text, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}
	author, err := s.accounts.FindByID(ctx, models.RoleUser, caller.ID)
	if err != nil {
		return nil, notFoundOr(err, "User details not found", "find comment author")
	}

	comment := &models.Comment{
		ID:         models.NewID(),
		RecipeID:   recipeID,
		UserRef:    caller.ID,
		Username:   author.Username,
		UserNumber: author.Number,
		Text:       text,
		CreatedAt:  s.now(),
	}
	err = s.comments.Insert(ctx, comment)
	if err == nil {
		return comment, nil
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return nil, internal("insert comment", err)
	}

	// The unique (recipe, user) index rejected the insert: rewrite the
	// existing comment instead.
	existing, err := s.comments.UpdateTextForUser(ctx, recipeID, caller.ID, text, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.NewConflictError("You have already commented on this recipe")
	}
	if err != nil {
		return nil, internal("update existing comment", err)
	}
	return existing, nil
}

func (s *commentService) Edit(ctx context.Context, caller *auth.Principal, commentID, text string) (*models.Comment, error) {
	text, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundOr(err, "Comment not found", "find comment")
	}

	owner := comment.UserRef == caller.ID
	if !owner && !caller.IsAdmin() {
		return nil, models.NewUnauthorizedError("Unauthorized: You can only edit your own comments")
	}

	now := s.now()
	comment.Text = text
	comment.UpdatedAt = &now
	if owner {
		comment.AdminEdited = false
		comment.LastEditedBy = nil
	} else {
		editor := adminEditor
		comment.AdminEdited = true
		comment.LastEditedBy = &editor
	}

	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, notFoundOr(err, "Comment not found", "save comment")
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, caller *auth.Principal, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return notFoundOr(err, "Comment not found", "find comment")
	}
	if comment.UserRef != caller.ID {
		return models.NewUnauthorizedError("Unauthorized: You can only delete your own comments")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return notFoundOr(err, "Comment not found", "delete comment")
	}
	return nil
}

func (s *commentService) ListForRecipe(ctx context.Context, recipeID string, page, limit int) (*models.CommentPage, error) {
	if err := recipeExists(ctx, s.recipes, recipeID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit)

	comments, total, err := s.comments.ListByRecipe(ctx, recipeID, (page-1)*limit, limit)
	if err != nil {
		return nil, internal("list comments", err)
	}
	return &models.CommentPage{
		Comments: comments,
		Pagination: models.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *commentService) GetForCaller(ctx context.Context, caller *auth.Principal, recipeID string) (*models.Comment, error) {
	comment, err := s.comments.FindByRecipeAndUser(ctx, recipeID, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("find caller comment", err)
	}
	return comment, nil
}

func validateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError("Comment text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return "", models.NewValidationError("Comment cannot be more than 500 characters")
	}
	return text, nil
}
