package services

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store/gormstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	store     *store.Store
	tokens    *auth.TokenService
	accounts  AccountService
	recipes   RecipeService
	reactions ReactionService
	comments  CommentService
	taxonomy  TaxonomyService
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormstore.Migrate(db))
	return db
}

func setupTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	st := gormstore.New(db)
	tokens, err := auth.NewTokenService("user-secret", "chef-secret", "admin-secret", time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:     st,
		tokens:    tokens,
		accounts:  NewAccountService(st.Accounts, gormstore.NewCounterSequence(db), tokens),
		recipes:   NewRecipeService(st.Recipes),
		reactions: NewReactionService(st.Recipes),
		comments:  NewCommentService(st.Comments, st.Recipes, st.Accounts),
		taxonomy:  NewTaxonomyService(st.Terms),
	}
}

// register creates an account and returns it as a principal.
func (e *testEnv) register(t *testing.T, role models.Role, username string) *auth.Principal {
	in := RegisterInput{Username: username, Email: username + "@example.com", Password: "password123"}
	var account *models.Account
	if role == models.RoleAdmin {
		res, err := e.accounts.RegisterAdmin(context.Background(), in)
		require.NoError(t, err)
		account = res.Account
	} else {
		var err error
		account, err = e.accounts.Register(context.Background(), role, in)
		require.NoError(t, err)
	}
	return &auth.Principal{ID: account.ID, Role: account.Role, Username: account.Username, Number: account.Number}
}

func (e *testEnv) createRecipe(t *testing.T, chef *auth.Principal, title string) *models.Recipe {
	recipe, err := e.recipes.Create(context.Background(), chef, CreateRecipeInput{
		Title:    title,
		Category: "dinner",
		Images:   []string{"img1"},
	})
	require.NoError(t, err)
	return recipe
}

func assertKind(t *testing.T, err error, kind models.ErrorKind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, models.KindOf(err), err.Error())
	if message != "" {
		assert.Equal(t, message, err.(*models.AppError).Message)
	}
}
