// Package server assembles the gin engine and the HTTP server around it.
package server

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/controllers"
	"github.com/franciscosanchezn/gin-recipe-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "gin-recipe-api"

// Deps are the collaborators the routes are built from.
type Deps struct {
	Tokens    *auth.TokenService
	Accounts  services.AccountService
	Recipes   services.RecipeService
	Reactions services.ReactionService
	Comments  services.CommentService
	Taxonomy  services.TaxonomyService
	Uploader  controllers.ImageUploader

	// MediaDir is served at MediaPath when images are kept on local disk.
	MediaDir  string
	MediaPath string

	AuthRatePerMinute int
}

// NewRouter builds the engine with every API route mounted under /api.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	// multipart files above this are spooled to disk
	router.MaxMultipartMemory = 8 << 20

	router.GET("/health", healthCheckHandler)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if d.MediaDir != "" {
		path := d.MediaPath
		if path == "" {
			path = "/uploads"
		}
		router.Static(path, d.MediaDir)
	}

	setupRoutes(router.Group("/api"), d)
	return router
}

func setupRoutes(api *gin.RouterGroup, d Deps) {
	accounts := controllers.NewAccountController(d.Accounts)
	taxonomy := controllers.NewTaxonomyController(d.Taxonomy)
	recipes := controllers.NewRecipeController(d.Recipes, d.Uploader)
	reactions := controllers.NewReactionController(d.Reactions)
	comments := controllers.NewCommentController(d.Comments)

	limiter := middleware.NewRateLimiter(d.AuthRatePerMinute).Limit()

	userAuth := middleware.Authenticate(d.Tokens, models.RoleUser)
	chefAuth := []gin.HandlerFunc{
		middleware.Authenticate(d.Tokens, models.RoleChef),
		middleware.RequireAccount(d.Accounts),
	}
	adminAuth := []gin.HandlerFunc{
		middleware.Authenticate(d.Tokens, models.RoleAdmin),
		middleware.RequireAccount(d.Accounts),
		middleware.RequireRole(models.RoleAdmin),
	}
	// reactions come from users and chefs; comment edits from the admin or the author
	reactorAuth := middleware.Authenticate(d.Tokens, models.RoleUser, models.RoleChef)
	editorAuth := middleware.Authenticate(d.Tokens, models.RoleAdmin, models.RoleUser)

	users := api.Group("/users", limiter)
	{
		users.POST("/register", accounts.Register(models.RoleUser))
		users.POST("/login", accounts.Login(models.RoleUser))
	}

	chef := api.Group("/chef", limiter)
	{
		chef.POST("/register", accounts.Register(models.RoleChef))
		chef.POST("/login", accounts.Login(models.RoleChef))
	}

	admin := api.Group("/admin")
	{
		admin.POST("/register", limiter, accounts.RegisterAdmin)
		admin.POST("/login", limiter, accounts.Login(models.RoleAdmin))

		protected := admin.Group("", adminAuth...)
		protected.PATCH("/deactivate-user/:userNumber", accounts.SetActive(models.RoleUser, false, "userNumber"))
		protected.PATCH("/reactivate-user/:userNumber", accounts.SetActive(models.RoleUser, true, "userNumber"))
		protected.PATCH("/deactivate-chef/:chefNumber", accounts.SetActive(models.RoleChef, false, "chefNumber"))
		protected.PATCH("/reactivate-chef/:chefNumber", accounts.SetActive(models.RoleChef, true, "chefNumber"))
	}

	terms := api.Group("/categoryTag")
	{
		adminOnly := terms.Group("", adminAuth...)
		adminOnly.POST("/create-category", taxonomy.Create(models.TermCategory))
		adminOnly.GET("/allcategory", taxonomy.List(models.TermCategory))
		adminOnly.POST("/create-tag", taxonomy.Create(models.TermTag))
		adminOnly.GET("/alltags", taxonomy.List(models.TermTag))

		// deletion has always been public
		terms.DELETE("/delete-category/:id", taxonomy.Delete(models.TermCategory))
		terms.DELETE("/delete-tag/:id", taxonomy.Delete(models.TermTag))
	}

	recipe := api.Group("/recipe")
	{
		recipe.GET("/popular", recipes.GetPopular)
		recipe.GET("/most-liked", recipes.GetMostLiked)

		recipe.POST("/like/:id", reactorAuth, reactions.ToggleLike)
		recipe.POST("/dislike/:id", reactorAuth, reactions.ToggleDislike)
		recipe.GET("/like-status/:id", reactorAuth, reactions.GetStatus)

		chefOnly := recipe.Group("", chefAuth...)
		chefOnly.POST("/create", recipes.CreateRecipe)
		chefOnly.PUT("/edit/:id", recipes.UpdateRecipe)
		chefOnly.DELETE("/delete/:id", recipes.DeleteRecipe)

		recipe.GET("/:id", recipes.GetRecipe)
	}

	comment := api.Group("/comment")
	{
		comment.GET("/allcommentsforrecipe/:recipeId", comments.ListForRecipe)
		comment.POST("/addcomment/:recipeId", userAuth, comments.AddComment)
		comment.PUT("/editcomment/:commentId", editorAuth, comments.EditComment)
		comment.DELETE("/deletecomment/:commentId", userAuth, comments.DeleteComment)
		comment.GET("/user/recipe/:recipeId", userAuth, comments.GetMyComment)
	}
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}
