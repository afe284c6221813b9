// Package mongostore implements the store contracts on MongoDB. Recipes keep
// likes and dislikes as embedded arrays and every mutation is a single
// document update.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	accountsCollection = "accounts"
	recipesCollection  = "recipes"
	commentsCollection = "comments"
	termsCollection    = "terms"
	countersCollection = "counters"
)

// New returns the MongoDB backed repositories for db.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Recipes:  NewRecipeRepository(db),
		Comments: NewCommentRepository(db),
		Terms:    NewTermRepository(db),
		Accounts: NewAccountRepository(db),
	}
}

// EnsureIndexes creates the unique and sort indexes the repositories rely on.
// The (recipe, user) index on comments is what makes comment upserts safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		accountsCollection: {
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		recipesCollection: {
			{Keys: bson.D{{Key: "viewCount", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "chef", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "recipe", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "recipe", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		termsCollection: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
