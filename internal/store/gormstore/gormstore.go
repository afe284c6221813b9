// Package gormstore implements the store contracts on top of gorm, for the
// SQLite and PostgreSQL drivers.
package gormstore

import (
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"gorm.io/gorm"
)

// New returns the gorm backed repositories. db must be opened with
// TranslateError enabled so unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *store.Store {
	return &store.Store{
		Recipes:  NewRecipeRepository(db),
		Comments: NewCommentRepository(db),
		Terms:    NewTermRepository(db),
		Accounts: NewAccountRepository(db),
	}
}

// Migrate creates or updates every table and index the repositories need.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Recipe{},
		&models.Reaction{},
		&models.Comment{},
		&models.Term{},
		&models.Counter{},
	)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
