package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/spf13/cobra"
)

var seedRole string

// seedCmd creates a development account for a role and prints its credentials.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a development account (user, chef or admin) and print a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(seedRole)
		if !role.Valid() {
			return fmt.Errorf("unknown role %q (want user, chef or admin)", seedRole)
		}

		conf, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		b, err := openBackend(ctx, conf)
		if err != nil {
			return err
		}
		defer b.Close(ctx)

		tokens, err := auth.NewTokenService(conf.UserJWTSecret, conf.ChefJWTSecret, conf.AdminJWTSecret, conf.TokenTTL)
		if err != nil {
			return err
		}
		accounts := services.NewAccountService(b.store.Accounts, b.seq, tokens)

		result, err := seedAccount(ctx, accounts, role)
		if err != nil {
			return err
		}
		printSeeded(cmd, role, result)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedRole, "role", string(models.RoleAdmin), "Account role (user, chef or admin)")
	rootCmd.AddCommand(seedCmd)
}

// devCredentials returns the fixed credentials used for a role's development account.
func devCredentials(role models.Role) services.RegisterInput {
	return services.RegisterInput{
		Username: "dev-" + string(role),
		Email:    fmt.Sprintf("%s@recipes.dev", role),
		Password: "dev-secret-123",
	}
}

// seedAccount registers the development account for role, or logs into it
// when it already exists.
func seedAccount(ctx context.Context, accounts services.AccountService, role models.Role) (*services.AuthResult, error) {
	creds := devCredentials(role)

	var err error
	if role == models.RoleAdmin {
		var result *services.AuthResult
		result, err = accounts.RegisterAdmin(ctx, creds)
		if err == nil {
			return result, nil
		}
	} else {
		_, err = accounts.Register(ctx, role, creds)
	}
	if err != nil && models.KindOf(err) != models.KindConflict {
		return nil, err
	}
	// Conflict here means the account was seeded earlier, or for admin
	// that some other admin exists, in which case login fails below.
	return accounts.Login(ctx, role, services.LoginInput{Email: creds.Email, Password: creds.Password})
}

func printSeeded(cmd *cobra.Command, role models.Role, result *services.AuthResult) {
	creds := devCredentials(role)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Development %s account ready\n", role)
	fmt.Fprintf(out, "Number:   %s\n", result.Account.Number)
	fmt.Fprintf(out, "Email:    %s\n", creds.Email)
	fmt.Fprintf(out, "Password: %s\n", creds.Password)
	fmt.Fprintf(out, "Token:    %s\n", result.Token)
	fmt.Fprintln(out, "\nUse the token for testing:")
	fmt.Fprintf(out, "curl -H 'Authorization: Bearer %s' http://localhost:8080/api/...\n", result.Token)
}
