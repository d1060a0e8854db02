package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tomiwa-code/recipe-share-api/internal/api"
	"github.com/tomiwa-code/recipe-share-api/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Auth           *api.AuthHandler
	Users          *api.UserHandler
	Recipes        *api.RecipeHandler
	TokenValidator middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	Health         gin.HandlerFunc
	AllowedOrigins []string
}

// Setup configures the application routes
func Setup(d Deps) *gin.Engine {
	api.RegisterValidations()

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if d.Health != nil {
		router.GET("/healthz", d.Health)
	}

	auth := router.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
	}

	// Authenticated routes sit behind the token check and the rate limiter.
	authed := router.Group("")
	authed.Use(middleware.Auth(d.TokenValidator))
	if d.RateLimiter != nil {
		authed.Use(d.RateLimiter.Middleware())
	}

	user := authed.Group("/user")
	{
		user.GET("/me", d.Users.Me)
		user.PUT("/update", d.Users.UpdateProfile)
	}

	recipe := router.Group("/recipe")
	{
		recipe.GET("", d.Recipes.ListRecipes)
		recipe.GET("/:id", d.Recipes.GetRecipe)
	}

	authedRecipe := authed.Group("/recipe")
	{
		authedRecipe.POST("/create", d.Recipes.CreateRecipe)
		authedRecipe.PUT("/update/:id", d.Recipes.UpdateRecipe)
		authedRecipe.DELETE("/delete/:id", d.Recipes.DeleteRecipe)
		authedRecipe.POST("/save", d.Recipes.SaveRecipe)
	}

	return router
}
