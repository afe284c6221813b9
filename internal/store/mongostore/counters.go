package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CounterSequence allocates sequence values from counter documents.
type CounterSequence struct {
	coll *mongo.Collection
}

func NewCounterSequence(db *mongo.Database) *CounterSequence {
	return &CounterSequence{coll: db.Collection(countersCollection)}
}

// Next atomically increments the named counter, creating it on first use.
func (s *CounterSequence) Next(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		after().SetUpsert(true),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}
