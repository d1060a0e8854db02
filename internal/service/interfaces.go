package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomiwa-code/recipe-share-api/internal/models"
)

// Identity is the authenticated caller, passed explicitly into every
// operation that needs it. Never attached to ambient/global state.
type Identity struct {
	UserID primitive.ObjectID
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

// TokenClaims are the verified contents of a bearer token.
type TokenClaims struct {
	UserID primitive.ObjectID
	Role   string
}

// ImageOptimizer re-encodes raw image bytes into the web delivery format.
type ImageOptimizer interface {
	Optimize(data []byte) ([]byte, error)
}

// UploadOptions request a storage-side transform applied before the object is
// written.
type UploadOptions struct {
	MaxWidth  int
	MaxHeight int
	Folder    string
}

// ImageStorage stores optimized images and serves delete requests. Delete is
// consumed best-effort by callers.
type ImageStorage interface {
	Upload(ctx context.Context, data []byte, opts UploadOptions) (models.Image, error)
	Delete(ctx context.Context, id string) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*TokenClaims, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, caller Identity, in UpdateProfileInput) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, caller Identity, in CreateRecipeInput) (*models.RecipeDetail, error)
	GetRecipe(ctx context.Context, id primitive.ObjectID) (*models.RecipeDetail, error)
	UpdateRecipe(ctx context.Context, caller Identity, id primitive.ObjectID, in UpdateRecipeInput) (*models.RecipeDetail, error)
	DeleteRecipe(ctx context.Context, caller Identity, id primitive.ObjectID) error
	ListRecipes(ctx context.Context, q ListRecipesQuery) (*RecipePage, error)
	ToggleSave(ctx context.Context, caller Identity, recipeID primitive.ObjectID) (*ToggleResult, error)
}
