package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tomiwa-code/recipe-share-api/internal/models"
)

// Response is the uniform JSON envelope for every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RegisterValidations installs custom rules on gin's validator engine.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
			return models.ValidDifficulty(fl.Field().String())
		})
	}
}

// Sign-up and login bind from JSON or form/multipart bodies alike.
type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	Location string `json:"location" form:"location"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type saveRecipeRequest struct {
	RecipeID string `json:"recipeId" binding:"required"`
}

type listRecipesRequest struct {
	Search     string  `form:"search"`
	Difficulty string  `form:"difficulty" binding:"omitempty,difficulty"`
	Cuisine    string  `form:"cuisine"`
	MaxPrep    int     `form:"maxPrep" binding:"omitempty,min=1"`
	MinRating  float64 `form:"minRating" binding:"omitempty,min=0,max=5"`
	Sort       string  `form:"sort" binding:"omitempty,oneof=newest oldest rating preptime"`
	Page       int     `form:"page" binding:"omitempty,min=1"`
	Limit      int     `form:"limit" binding:"omitempty,min=1,max=50"`
}

// authResponse pairs a user with a freshly issued token.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}
