package gormstore

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository backed by db.
func NewAccountRepository(db *gorm.DB) store.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Create(account).Error)
}

func (r *accountRepository) FindByID(ctx context.Context, role models.Role, id string) (*models.Account, error) {
	return r.findOne(ctx, "role = ? AND id = ?", role, id)
}

func (r *accountRepository) FindByEmail(ctx context.Context, role models.Role, email string) (*models.Account, error) {
	return r.findOne(ctx, "role = ? AND email = ?", role, strings.ToLower(email))
}

func (r *accountRepository) FindByUsername(ctx context.Context, role models.Role, username string) (*models.Account, error) {
	return r.findOne(ctx, "role = ? AND username = ?", role, username)
}

func (r *accountRepository) FindByNumber(ctx context.Context, role models.Role, number string) (*models.Account, error) {
	return r.findOne(ctx, "role = ? AND number = ?", role, strings.ToUpper(number))
}

func (r *accountRepository) SetActive(ctx context.Context, role models.Role, id string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("role = ? AND id = ?", role, id).
		Update("is_active", active)
	return affected(result)
}

func (r *accountRepository) Count(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *accountRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where(query, args...).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}
