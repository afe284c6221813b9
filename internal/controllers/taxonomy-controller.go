package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TaxonomyController handles categories and tags.
type TaxonomyController struct {
	service services.TaxonomyService
}

func NewTaxonomyController(service services.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{service: service}
}

type termRequest struct {
	Name string `json:"name" example:"dessert"`
}

// Create returns the handler creating a term of kind.
//
// @Summary Create a category or tag
// @Tags categories
// @Accept json
// @Produce json
// @Param term body termRequest true "Term name"
// @Success 201 {object} models.APIResponse{data=models.Term}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Security AdminAuth
// @Router /api/categoryTag/create-category [post]
// @Router /api/categoryTag/create-tag [post]
func (tc *TaxonomyController) Create(kind models.TermKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req termRequest
		// an empty body is reported by the service as a missing name
		_ = ctx.ShouldBindJSON(&req)

		term, err := tc.service.Create(ctx.Request.Context(), kind, req.Name)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, models.NewSuccessResponse(kind.Label()+" created successfully", term))
	}
}

// List returns the handler listing every term of kind.
//
// @Summary List categories or tags
// @Tags categories
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.Term}
// @Security AdminAuth
// @Router /api/categoryTag/allcategory [get]
// @Router /api/categoryTag/alltags [get]
func (tc *TaxonomyController) List(kind models.TermKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		terms, err := tc.service.List(ctx.Request.Context(), kind)
		if err != nil {
			respondError(ctx, err)
			return
		}
		resp := models.NewSuccessResponse("", terms)
		resp.Count = intPtr(len(terms))
		ctx.JSON(http.StatusOK, resp)
	}
}

// Delete returns the handler deleting a term of kind by id.
//
// @Summary Delete a category or tag
// @Tags categories
// @Produce json
// @Param id path string true "Term ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/categoryTag/delete-category/{id} [delete]
// @Router /api/categoryTag/delete-tag/{id} [delete]
func (tc *TaxonomyController) Delete(kind models.TermKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := tc.service.Delete(ctx.Request.Context(), kind, ctx.Param("id")); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, models.NewSuccessResponse(kind.Label()+" deleted successfully", nil))
	}
}
