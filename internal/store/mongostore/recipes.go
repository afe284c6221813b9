package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type recipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository creates a recipe repository over the recipes collection.
func NewRecipeRepository(db *mongo.Database) store.RecipeRepository {
	return &recipeRepository{coll: db.Collection(recipesCollection)}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	now := time.Now().UTC()
	recipe.CreatedAt, recipe.UpdatedAt = now, now
	normalize(recipe)
	_, err := r.coll.InsertOne(ctx, recipe)
	return translate(err)
}

func (r *recipeRepository) FindByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe); err != nil {
		return nil, translate(err)
	}
	normalize(&recipe)
	return &recipe, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": recipe.ID}, bson.M{"$set": bson.M{
		"title":        recipe.Title,
		"description":  recipe.Description,
		"cookingTime":  recipe.CookingTime,
		"images":       recipe.Images,
		"steps":        recipe.Steps,
		"categoryName": recipe.CategoryName,
		"tagNames":     recipe.TagNames,
		"updatedAt":    recipe.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *recipeRepository) IncrementViews(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"viewCount": 1}}, after()).Decode(&recipe)
	if err != nil {
		return nil, translate(err)
	}
	normalize(&recipe)
	return &recipe, nil
}

func (r *recipeRepository) ListByViews(ctx context.Context, limit int) ([]models.Recipe, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "viewCount", Value: -1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	for i := range recipes {
		normalize(&recipes[i])
	}
	return recipes, nil
}

func (r *recipeRepository) ListByLikes(ctx context.Context, limit int) ([]models.RankedRecipe, error) {
	size := func(field string) bson.M {
		return bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"likeCount": size("likes"), "dislikeCount": size("dislikes")}}},
		{{Key: "$sort", Value: bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	ranked := []models.RankedRecipe{}
	if err := cursor.All(ctx, &ranked); err != nil {
		return nil, err
	}
	for i := range ranked {
		normalize(&ranked[i].Recipe)
	}
	return ranked, nil
}

// ToggleReaction first tries to withdraw an existing reaction of the same
// kind. Otherwise it adds the caller to the kind's set and pulls them from the
// opposite set in the same update, so the sets never overlap.
func (r *recipeRepository) ToggleReaction(ctx context.Context, recipeID, principalID string, kind models.ReactionKind) (*models.ReactionStatus, error) {
	same, opposite := "likes", "dislikes"
	if kind == models.ReactionDislike {
		same, opposite = opposite, same
	}

	var recipe models.Recipe
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": recipeID, same: principalID},
		bson.M{"$pull": bson.M{same: principalID}},
		after(),
	).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = r.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": recipeID},
			bson.M{"$addToSet": bson.M{same: principalID}, "$pull": bson.M{opposite: principalID}},
			after(),
		).Decode(&recipe)
	}
	if err != nil {
		return nil, translate(err)
	}
	status := recipe.StatusFor(principalID)
	return &status, nil
}

func (r *recipeRepository) ReactionStatus(ctx context.Context, recipeID, principalID string) (*models.ReactionStatus, error) {
	opts := options.FindOne().SetProjection(bson.M{"likes": 1, "dislikes": 1})
	var recipe models.Recipe
	if err := r.coll.FindOne(ctx, bson.M{"_id": recipeID}, opts).Decode(&recipe); err != nil {
		return nil, translate(err)
	}
	status := recipe.StatusFor(principalID)
	return &status, nil
}

func normalize(recipe *models.Recipe) {
	if recipe.Likes == nil {
		recipe.Likes = []string{}
	}
	if recipe.Dislikes == nil {
		recipe.Dislikes = []string{}
	}
	if recipe.Images == nil {
		recipe.Images = []string{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []string{}
	}
	if recipe.TagNames == nil {
		recipe.TagNames = []string{}
	}
}
