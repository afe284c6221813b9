package main

import (
	"os"

	_ "github.com/franciscosanchezn/gin-recipe-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/controllers"
	"github.com/franciscosanchezn/gin-recipe-api/internal/media"
	"github.com/franciscosanchezn/gin-recipe-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recipe-api",
	Short: "Recipe sharing API for users, chefs and an admin",
	Long: `Recipe sharing API. Chefs publish recipes, users and chefs react to
them, users comment, and a single admin moderates.

Running without a subcommand starts the server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotenvFile()
		setUpLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

// @title Recipe API
// @version 1.0
// @description Recipe sharing API with separate user, chef and admin tokens.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey UserAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a user token.
// @securityDefinitions.apikey ChefAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a chef token.
// @securityDefinitions.apikey AdminAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin token.
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment.
// LOG_LEVEL, when set, overrides the level derived from APP_ENV.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if level, err := log.ParseLevel(raw); err == nil {
			log.SetLevel(level)
		}
	}

	std := log.StandardLogger()
	services.SetLogger(std)
	controllers.SetLogger(std)
	middleware.SetLogger(std)
	media.SetLogger(std)
}

// loadConfig loads the application configuration from environment variables
func loadConfig() (*config.Config, error) {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log.Infof("Configuration loaded: %s", conf)
	return conf, nil
}
