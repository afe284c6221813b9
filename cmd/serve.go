package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/media"
	"github.com/franciscosanchezn/gin-recipe-api/internal/server"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, conf)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, conf *config.Config) error {
	if conf.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := openBackend(ctx, conf)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		b.Close(closeCtx)
	}()

	tokens, err := auth.NewTokenService(conf.UserJWTSecret, conf.ChefJWTSecret, conf.AdminJWTSecret, conf.TokenTTL)
	if err != nil {
		return err
	}

	storage, err := media.NewStorage(ctx, conf.Media)
	if err != nil {
		return fmt.Errorf("failed to initialize media storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to prepare media storage: %w", err)
	}
	uploader := media.NewUploader(storage, media.NewProcessor(conf.Media.MaxWidth, conf.Media.MaxBytes))

	deps := server.Deps{
		Tokens:            tokens,
		Accounts:          services.NewAccountService(b.store.Accounts, b.seq, tokens),
		Recipes:           services.NewRecipeService(b.store.Recipes),
		Reactions:         services.NewReactionService(b.store.Recipes),
		Comments:          services.NewCommentService(b.store.Comments, b.store.Recipes, b.store.Accounts),
		Taxonomy:          services.NewTaxonomyService(b.store.Terms),
		Uploader:          uploader,
		AuthRatePerMinute: conf.AuthRatePerMinute,
	}
	if local, ok := storage.(*media.LocalStorage); ok {
		deps.MediaDir = local.Root()
		deps.MediaPath = "/uploads"
	}

	srv := server.New(server.Options{
		Host:           conf.Host,
		Port:           conf.Port,
		AllowedOrigins: conf.CORSAllowedOrigins,
	}, server.NewRouter(deps))

	err = server.Run(ctx, srv)
	log.Info("Server stopped")
	return err
}
