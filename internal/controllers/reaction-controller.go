package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReactionController serves likes and dislikes for users and chefs alike.
type ReactionController struct {
	service services.ReactionService
}

func NewReactionController(service services.ReactionService) *ReactionController {
	return &ReactionController{service: service}
}

// ToggleLike godoc
// @Summary Like or unlike a recipe
// @Description Likes the recipe, or removes the like if already liked. An existing dislike is replaced.
// @Tags reactions
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.APIResponse{data=models.ReactionStatus}
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security UserAuth
// @Security ChefAuth
// @Router /api/recipe/like/{id} [post]
func (rc *ReactionController) ToggleLike(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	status, err := rc.service.ToggleLike(ctx.Request.Context(), caller, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	message := "Recipe unliked successfully"
	if status.Liked {
		message = "Recipe liked successfully"
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse(message, status))
}

// ToggleDislike godoc
// @Summary Dislike or undislike a recipe
// @Tags reactions
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.APIResponse{data=models.ReactionStatus}
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security UserAuth
// @Security ChefAuth
// @Router /api/recipe/dislike/{id} [post]
func (rc *ReactionController) ToggleDislike(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	status, err := rc.service.ToggleDislike(ctx.Request.Context(), caller, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	message := "Recipe undisliked successfully"
	if status.Disliked {
		message = "Recipe disliked successfully"
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse(message, status))
}

// GetStatus godoc
// @Summary Caller's reaction to a recipe
// @Tags reactions
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.APIResponse{data=models.ReactionStatus}
// @Failure 404 {object} models.APIResponse
// @Security UserAuth
// @Security ChefAuth
// @Router /api/recipe/like-status/{id} [get]
func (rc *ReactionController) GetStatus(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	status, err := rc.service.Status(ctx.Request.Context(), caller, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("", status))
}
