package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CommentController handles HTTP requests related to comments
type CommentController struct {
	service services.CommentService
}

// NewCommentController creates a new instance of CommentController
func NewCommentController(service services.CommentService) *CommentController {
	return &CommentController{service: service}
}

type commentRequest struct {
	Text string `json:"text" example:"Lovely and easy to follow"`
}

func bindComment(ctx *gin.Context) (string, bool) {
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Comment text is required")
		return "", false
	}
	return req.Text, true
}

// AddComment godoc
// @Summary Comment on a recipe
// @Description Adds the caller's comment. A user has at most one comment per recipe; commenting again rewrites it.
// @Tags comments
// @Accept json
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param comment body commentRequest true "Comment"
// @Success 201 {object} models.APIResponse{data=models.Comment}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security UserAuth
// @Router /api/comment/addcomment/{recipeId} [post]
func (cc *CommentController) AddComment(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	text, ok := bindComment(ctx)
	if !ok {
		return
	}

	comment, err := cc.service.Add(ctx.Request.Context(), caller, ctx.Param("recipeId"), text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, models.NewSuccessResponse("Comment added successfully", comment))
}

// EditComment godoc
// @Summary Edit a comment
// @Description The owner or an admin may edit. Admin edits of another user's comment are flagged.
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path string true "Comment ID"
// @Param comment body commentRequest true "Comment"
// @Success 200 {object} models.APIResponse{data=models.Comment}
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security UserAuth
// @Security AdminAuth
// @Router /api/comment/editcomment/{commentId} [put]
func (cc *CommentController) EditComment(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	text, ok := bindComment(ctx)
	if !ok {
		return
	}

	comment, err := cc.service.Edit(ctx.Request.Context(), caller, ctx.Param("commentId"), text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("Comment updated successfully", comment))
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param commentId path string true "Comment ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security UserAuth
// @Router /api/comment/deletecomment/{commentId} [delete]
func (cc *CommentController) DeleteComment(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	id := ctx.Param("commentId")
	if err := cc.service.Delete(ctx.Request.Context(), caller, id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("Comment deleted successfully", gin.H{"id": id}))
}

// ListForRecipe godoc
// @Summary Comments on a recipe
// @Description Newest first, paginated.
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} models.APIResponse{data=[]models.Comment}
// @Failure 404 {object} models.APIResponse
// @Router /api/comment/allcommentsforrecipe/{recipeId} [get]
func (cc *CommentController) ListForRecipe(ctx *gin.Context) {
	page, err := cc.service.ListForRecipe(ctx.Request.Context(), ctx.Param("recipeId"),
		queryInt(ctx, "page", 1), queryInt(ctx, "limit", services.DefaultListLimit))
	if err != nil {
		respondError(ctx, err)
		return
	}
	resp := models.NewSuccessResponse("", page.Comments)
	resp.Count = intPtr(len(page.Comments))
	resp.Pagination = &page.Pagination
	ctx.JSON(http.StatusOK, resp)
}

// GetMyComment godoc
// @Summary Caller's comment on a recipe
// @Description data is null when the caller has not commented.
// @Tags comments
// @Produce json
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} models.APIResponse{data=models.Comment}
// @Security UserAuth
// @Router /api/comment/user/recipe/{recipeId} [get]
func (cc *CommentController) GetMyComment(ctx *gin.Context) {
	caller, ok := principal(ctx)
	if !ok {
		return
	}
	comment, err := cc.service.GetForCaller(ctx.Request.Context(), caller, ctx.Param("recipeId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("", comment))
}
