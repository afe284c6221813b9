package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/media"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

const imagesField = "images"

// ImageUploader stores uploaded recipe images.
type ImageUploader interface {
	SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]media.Upload, error)
	Discard(ctx context.Context, uploads []media.Upload)
}

// RecipeController handles HTTP requests related to recipes
type RecipeController struct {
	service  services.RecipeService
	uploader ImageUploader
}

// NewRecipeController creates a new instance of RecipeController
func NewRecipeController(service services.RecipeService, uploader ImageUploader) *RecipeController {
	return &RecipeController{service: service, uploader: uploader}
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description Create a recipe from a multipart form. steps and tags may be JSON arrays; otherwise steps is a single step and tags a comma separated list.
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param cookingTime formData int false "Cooking time in minutes"
// @Param steps formData string false "Steps"
// @Param category formData string true "Category name"
// @Param tags formData string false "Tags"
// @Param images formData file true "Between 1 and 3 JPG or PNG images"
// @Success 201 {object} models.APIResponse{data=models.Recipe}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Security ChefAuth
// @Router /api/recipe/create [post]
func (rc *RecipeController) CreateRecipe(ctx *gin.Context) {
	chef, ok := principal(ctx)
	if !ok {
		return
	}

	form, err := parseRecipeForm(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}
	cookingTime := 0
	if form.cookingTime != nil {
		cookingTime = *form.cookingTime
	}

	uploads, err := rc.uploader.SaveAll(ctx.Request.Context(), form.files)
	if err != nil {
		respondError(ctx, err)
		return
	}

	recipe, err := rc.service.Create(ctx.Request.Context(), chef, services.CreateRecipeInput{
		Title:       form.value("title"),
		Description: form.value("description"),
		CookingTime: cookingTime,
		Steps:       form.steps,
		Category:    form.value("category"),
		Tags:        form.tags,
		Images:      media.URLs(uploads),
	})
	if err != nil {
		rc.uploader.Discard(ctx.Request.Context(), uploads)
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, models.NewSuccessResponse("Recipe created successfully", recipe))
}

// UpdateRecipe godoc
// @Summary Edit a recipe
// @Description Sparse update of the caller's recipe. Only submitted fields change; uploaded images are appended.
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Recipe ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param cookingTime formData int false "Cooking time in minutes"
// @Param steps formData string false "Steps"
// @Param category formData string false "Category name"
// @Param tags formData string false "Tags"
// @Param images formData file false "Up to 3 additional images"
// @Success 200 {object} models.APIResponse{data=models.Recipe}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security ChefAuth
// @Router /api/recipe/edit/{id} [put]
func (rc *RecipeController) UpdateRecipe(ctx *gin.Context) {
	chef, ok := principal(ctx)
	if !ok {
		return
	}

	form, err := parseRecipeForm(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	uploads, err := rc.uploader.SaveAll(ctx.Request.Context(), form.files)
	if err != nil {
		respondError(ctx, err)
		return
	}

	recipe, err := rc.service.Update(ctx.Request.Context(), chef, ctx.Param("id"), services.UpdateRecipeInput{
		Title:       form.optional("title"),
		Description: form.optional("description"),
		CookingTime: form.cookingTime,
		Steps:       form.steps,
		Category:    form.optional("category"),
		Tags:        form.tags,
		NewImages:   media.URLs(uploads),
	})
	if err != nil {
		rc.uploader.Discard(ctx.Request.Context(), uploads)
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("Recipe updated successfully", recipe))
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security ChefAuth
// @Router /api/recipe/delete/{id} [delete]
func (rc *RecipeController) DeleteRecipe(ctx *gin.Context) {
	chef, ok := principal(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	if err := rc.service.Delete(ctx.Request.Context(), chef, id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("Recipe deleted successfully", gin.H{"id": id}))
}

// GetRecipe godoc
// @Summary Get a recipe
// @Description Returns the recipe and counts one more view.
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.APIResponse{data=models.Recipe}
// @Failure 404 {object} models.APIResponse
// @Router /api/recipe/{id} [get]
func (rc *RecipeController) GetRecipe(ctx *gin.Context) {
	recipe, err := rc.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.NewSuccessResponse("", recipe))
}

// GetPopular godoc
// @Summary Most viewed recipes
// @Tags recipes
// @Produce json
// @Param limit query int false "Maximum number of recipes" default(10)
// @Success 200 {object} models.APIResponse{data=[]models.Recipe}
// @Router /api/recipe/popular [get]
func (rc *RecipeController) GetPopular(ctx *gin.Context) {
	recipes, err := rc.service.Popular(ctx.Request.Context(), queryInt(ctx, "limit", services.DefaultListLimit))
	if err != nil {
		respondError(ctx, err)
		return
	}
	resp := models.NewSuccessResponse("", recipes)
	resp.Count = intPtr(len(recipes))
	ctx.JSON(http.StatusOK, resp)
}

// GetMostLiked godoc
// @Summary Most liked recipes
// @Tags recipes
// @Produce json
// @Param limit query int false "Maximum number of recipes" default(10)
// @Success 200 {object} models.APIResponse{data=[]models.RankedRecipe}
// @Router /api/recipe/most-liked [get]
func (rc *RecipeController) GetMostLiked(ctx *gin.Context) {
	recipes, err := rc.service.MostLiked(ctx.Request.Context(), queryInt(ctx, "limit", services.DefaultListLimit))
	if err != nil {
		respondError(ctx, err)
		return
	}
	resp := models.NewSuccessResponse("", recipes)
	resp.Count = intPtr(len(recipes))
	ctx.JSON(http.StatusOK, resp)
}

// recipeForm is the parsed multipart payload shared by create and edit.
type recipeForm struct {
	values      map[string][]string
	cookingTime *int
	steps       []string
	tags        []string
	files       []*multipart.FileHeader
}

func parseRecipeForm(ctx *gin.Context) (*recipeForm, error) {
	form := &recipeForm{values: map[string][]string{}}

	mf, err := ctx.MultipartForm()
	switch {
	case err == nil:
		form.values = mf.Value
		form.files = mf.File[imagesField]
	case errors.Is(err, http.ErrNotMultipart):
		// edits without new images may arrive url-encoded
		if err := ctx.Request.ParseForm(); err != nil {
			return nil, models.NewValidationError("Invalid form data")
		}
		form.values = ctx.Request.PostForm
	case errors.Is(err, multipart.ErrMessageTooLarge):
		return nil, models.NewValidationError("Request body too large")
	default:
		return nil, models.NewValidationError("Invalid form data")
	}

	if len(form.files) > services.MaxRecipeImages {
		return nil, models.NewValidationError(fmt.Sprintf("Max %d images allowed", services.MaxRecipeImages))
	}

	if raw, ok := form.values["cookingTime"]; ok && len(raw) > 0 && strings.TrimSpace(raw[0]) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
		if err != nil {
			return nil, models.NewValidationError("Cooking time must be a number")
		}
		form.cookingTime = &n
	}

	if form.steps, err = parseList(form.values["steps"], false); err != nil {
		return nil, err
	}
	if form.tags, err = parseList(form.values["tags"], true); err != nil {
		return nil, err
	}
	return form, nil
}

func (f *recipeForm) value(key string) string {
	if v := f.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// optional returns nil when key was not submitted.
func (f *recipeForm) optional(key string) *string {
	v, ok := f.values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

// parseList decodes a list field. Repeated fields are taken as is; a single
// value is read as a JSON array when it looks like one, otherwise as one item
// (or as a comma separated list when commaSeparated). A nil result means the
// field was not submitted.
func parseList(raw []string, commaSeparated bool) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	if len(raw) > 1 {
		return cleanList(raw), nil
	}

	value := strings.TrimSpace(raw[0])
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		var items []string
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			return nil, models.NewValidationError("Invalid JSON format: " + err.Error())
		}
		return cleanList(items), nil
	}
	if commaSeparated {
		return cleanList(strings.Split(value, ",")), nil
	}
	return cleanList([]string{value}), nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func queryInt(ctx *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
