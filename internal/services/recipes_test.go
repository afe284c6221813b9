package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipeValidation(t *testing.T) {
	env := setupTestEnv(t)
	chef := env.register(t, models.RoleChef, "gordon")
	ctx := context.Background()

	testCases := []struct {
		name    string
		input   CreateRecipeInput
		message string
	}{
		{"missing title", CreateRecipeInput{Category: "x", Images: []string{"a"}}, "Recipe title is required"},
		{"missing category", CreateRecipeInput{Title: "x", Images: []string{"a"}}, "Category is required"},
		{"no images", CreateRecipeInput{Title: "x", Category: "x"}, "At least 1 image is required"},
		{"too many images", CreateRecipeInput{Title: "x", Category: "x", Images: []string{"a", "b", "c", "d"}}, "Max 3 images allowed"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.recipes.Create(ctx, chef, tt.input)
			assertKind(t, err, models.KindValidation, tt.message)
		})
	}
}

func TestCreateRecipeSnapshotsChef(t *testing.T) {
	env := setupTestEnv(t)
	chef := env.register(t, models.RoleChef, "gordon")

	recipe := env.createRecipe(t, chef, "Risotto")
	assert.Equal(t, chef.ID, recipe.ChefID)
	assert.Equal(t, "gordon", recipe.ChefUsername)
	assert.Equal(t, "CHEF001", recipe.ChefNumber)
	assert.Equal(t, int64(0), recipe.ViewCount)
}

func TestUpdateRecipeAppendsImages(t *testing.T) {
	env := setupTestEnv(t)
	chef := env.register(t, models.RoleChef, "gordon")
	ctx := context.Background()

	recipe, err := env.recipes.Create(ctx, chef, CreateRecipeInput{
		Title: "Ramen", Category: "dinner", Images: []string{"img1", "img2"}, Steps: []string{"boil"},
	})
	require.NoError(t, err)

	title := "Tonkotsu Ramen"
	updated, err := env.recipes.Update(ctx, chef, recipe.ID, UpdateRecipeInput{
		Title:     &title,
		NewImages: []string{"img3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"img1", "img2", "img3"}, []string(updated.Images))
	assert.Equal(t, "Tonkotsu Ramen", updated.Title)
	assert.Equal(t, []string{"boil"}, []string(updated.Steps))
	assert.Equal(t, "dinner", updated.CategoryName)

	// no cap on update
	updated, err = env.recipes.Update(ctx, chef, recipe.ID, UpdateRecipeInput{NewImages: []string{"img4"}})
	require.NoError(t, err)
	assert.Len(t, updated.Images, 4)
}

func TestRecipeOwnership(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.register(t, models.RoleChef, "gordon")
	other := env.register(t, models.RoleChef, "jamie")
	ctx := context.Background()
	recipe := env.createRecipe(t, owner, "Paella")

	title := "Stolen"
	_, err := env.recipes.Update(ctx, other, recipe.ID, UpdateRecipeInput{Title: &title})
	assertKind(t, err, models.KindUnauthorized, "Unauthorized: You can only edit your own recipes")

	err = env.recipes.Delete(ctx, other, recipe.ID)
	assertKind(t, err, models.KindUnauthorized, "")
	assert.Contains(t, err.Error(), "Recipe belongs to "+owner.ID+", but you are "+other.ID)

	require.NoError(t, env.recipes.Delete(ctx, owner, recipe.ID))
	_, err = env.recipes.Get(ctx, recipe.ID)
	assertKind(t, err, models.KindNotFound, "Recipe not found")

	err = env.recipes.Delete(ctx, owner, recipe.ID)
	assertKind(t, err, models.KindNotFound, "Recipe not found")
}

func TestGetIncrementsViews(t *testing.T) {
	env := setupTestEnv(t)
	chef := env.register(t, models.RoleChef, "gordon")
	ctx := context.Background()
	recipe := env.createRecipe(t, chef, "Tacos")

	_, err := env.recipes.Get(ctx, recipe.ID)
	require.NoError(t, err)
	fetched, err := env.recipes.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.ViewCount)
}

func TestMostLikedOrdering(t *testing.T) {
	env := setupTestEnv(t)
	chef := env.register(t, models.RoleChef, "gordon")
	ctx := context.Background()

	top := env.createRecipe(t, chef, "Top")
	mid1 := env.createRecipe(t, chef, "Mid 1")
	mid2 := env.createRecipe(t, chef, "Mid 2")

	counts := map[string]int{top.ID: 5, mid1.ID: 3, mid2.ID: 3}
	for id, n := range counts {
		for i := 0; i < n; i++ {
			caller := env.register(t, models.RoleUser, "u"+id[:6]+string(rune('a'+i)))
			_, err := env.reactions.ToggleLike(ctx, caller, id)
			require.NoError(t, err)
		}
	}

	first, err := env.recipes.MostLiked(ctx, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, top.ID, first[0].ID)
	assert.Equal(t, 5, first[0].LikeCount)

	second, err := env.recipes.MostLiked(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, first[1].ID, second[1].ID)

	popular, err := env.recipes.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, popular, 3)
}
