package mongostore

import (
	"context"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository creates a comment repository over the comments collection.
func NewCommentRepository(db *mongo.Database) store.CommentRepository {
	return &commentRepository{coll: db.Collection(commentsCollection)}
}

func (r *commentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, comment)
	return translate(err)
}

func (r *commentRepository) UpdateTextForUser(ctx context.Context, recipeID, userRef, text string, at time.Time) (*models.Comment, error) {
	var comment models.Comment
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"recipe": recipeID, "user": userRef},
		bson.M{"$set": bson.M{"text": text, "updatedAt": at}},
		after(),
	).Decode(&comment)
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *commentRepository) FindByRecipeAndUser(ctx context.Context, recipeID, userRef string) (*models.Comment, error) {
	return r.findOne(ctx, bson.M{"recipe": recipeID, "user": userRef})
}

func (r *commentRepository) Save(ctx context.Context, comment *models.Comment) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": comment.ID}, bson.M{"$set": bson.M{
		"text":         comment.Text,
		"adminEdited":  comment.AdminEdited,
		"lastEditedBy": comment.LastEditedBy,
		"updatedAt":    comment.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID string, offset, limit int) ([]models.Comment, int64, error) {
	filter := bson.M{"recipe": recipeID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) findOne(ctx context.Context, filter bson.M) (*models.Comment, error) {
	var comment models.Comment
	if err := r.coll.FindOne(ctx, filter).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}
