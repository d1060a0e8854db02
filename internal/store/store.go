// Package store contains the persistence layer: repository interfaces, their
// MongoDB implementations, and the transactional unit-of-work that groups
// repository calls into a single atomic commit.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomiwa-code/recipe-share-api/internal/models"
)

// UnitOfWork runs body inside a database transaction. The context passed to
// body carries the active session; all repository calls made with it are part
// of the same atomic commit.
type UnitOfWork interface {
	Run(ctx context.Context, body func(ctx context.Context) error) error
}

// UserUpdate describes a partial user profile update. Nil fields keep their
// prior values.
type UserUpdate struct {
	Name     *string
	Location *string
	Avatar   *models.Image
	Cover    *models.Image
}

// UserRepository is the persistence surface for users.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) error
	AddSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error
	RemoveSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error
	RemoveSavedRecipeFromAll(ctx context.Context, recipeID primitive.ObjectID) error
}

// ListQuery captures the public list/search parameters.
type ListQuery struct {
	Search     string
	Difficulty string
	Cuisine    string
	MaxPrep    int
	MinRating  float64
	Sort       string
	Page       int
	Limit      int
}

// Bounds returns the effective page and limit after clamping. The single
// source for pagination bounds, so the query and the page arithmetic built on
// it can never disagree.
func (q ListQuery) Bounds() (page, limit int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	limit = q.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// RecipeRepository is the persistence surface for recipes.
type RecipeRepository interface {
	Insert(ctx context.Context, recipe *models.Recipe) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error)
	FindDetail(ctx context.Context, id primitive.ObjectID) (*models.RecipeDetail, error)
	Replace(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddSavedBy(ctx context.Context, recipeID, userID primitive.ObjectID) error
	RemoveSavedBy(ctx context.Context, recipeID, userID primitive.ObjectID) error
	List(ctx context.Context, q ListQuery) ([]models.RecipeDetail, int64, error)
}
