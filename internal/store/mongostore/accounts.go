package mongostore

import (
	"context"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type accountRepository struct {
	coll *mongo.Collection
}

// NewAccountRepository creates an account repository over the accounts collection.
func NewAccountRepository(db *mongo.Database) store.AccountRepository {
	return &accountRepository{coll: db.Collection(accountsCollection)}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, account)
	return translate(err)
}

func (r *accountRepository) FindByID(ctx context.Context, role models.Role, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"role": role, "_id": id})
}

func (r *accountRepository) FindByEmail(ctx context.Context, role models.Role, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"role": role, "email": strings.ToLower(email)})
}

func (r *accountRepository) FindByUsername(ctx context.Context, role models.Role, username string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"role": role, "username": username})
}

func (r *accountRepository) FindByNumber(ctx context.Context, role models.Role, number string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"role": role, "number": strings.ToUpper(number)})
}

func (r *accountRepository) SetActive(ctx context.Context, role models.Role, id string, active bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"role": role, "_id": id},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Count(ctx context.Context, role models.Role) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"role": role})
}

func (r *accountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, translate(err)
	}
	return &account, nil
}
