package main

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/franciscosanchezn/gin-recipe-api/internal/store/gormstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAccounts(t *testing.T) (services.AccountService, *auth.TokenService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gormstore.Migrate(db))

	tokens, err := auth.NewTokenService("user-secret", "chef-secret", "admin-secret", time.Hour)
	require.NoError(t, err)
	st := gormstore.New(db)
	return services.NewAccountService(st.Accounts, gormstore.NewCounterSequence(db), tokens), tokens
}

func TestSeedAccount(t *testing.T) {
	ctx := context.Background()
	accounts, tokens := setupAccounts(t)

	for _, role := range []models.Role{models.RoleUser, models.RoleChef, models.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			first, err := seedAccount(ctx, accounts, role)
			require.NoError(t, err)
			assert.Equal(t, role.NumberPrefix()+"001", first.Account.Number)

			principal, err := tokens.Resolve(first.Token, role)
			require.NoError(t, err)
			assert.Equal(t, first.Account.ID, principal.ID)

			// seeding again logs into the existing account
			second, err := seedAccount(ctx, accounts, role)
			require.NoError(t, err)
			assert.Equal(t, first.Account.ID, second.Account.ID)
		})
	}
}

func TestSeedAccount_OtherAdminExists(t *testing.T) {
	ctx := context.Background()
	accounts, _ := setupAccounts(t)

	_, err := accounts.RegisterAdmin(ctx, services.RegisterInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = seedAccount(ctx, accounts, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, models.KindUnauthenticated, models.KindOf(err))
}
