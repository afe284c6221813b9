package mongostore

import (
	"context"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type termRepository struct {
	coll *mongo.Collection
}

// NewTermRepository creates a category and tag repository over the terms collection.
func NewTermRepository(db *mongo.Database) store.TermRepository {
	return &termRepository{coll: db.Collection(termsCollection)}
}

func (r *termRepository) Create(ctx context.Context, term *models.Term) error {
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, term)
	return translate(err)
}

func (r *termRepository) FindByName(ctx context.Context, kind models.TermKind, name string) (*models.Term, error) {
	var term models.Term
	err := r.coll.FindOne(ctx, bson.M{"kind": kind, "name": strings.ToLower(name)}).Decode(&term)
	if err != nil {
		return nil, translate(err)
	}
	return &term, nil
}

func (r *termRepository) List(ctx context.Context, kind models.TermKind) ([]models.Term, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	terms := []models.Term{}
	if err := cursor.All(ctx, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *termRepository) Delete(ctx context.Context, kind models.TermKind, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "kind": kind})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
