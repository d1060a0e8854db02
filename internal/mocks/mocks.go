// Package mocks provides testify mocks and fakes for the persistence and
// image-pipeline interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomiwa-code/recipe-share-api/internal/models"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
	"github.com/tomiwa-code/recipe-share-api/internal/store"
)

// PassthroughUnitOfWork executes the body directly, without a database. RunErr
// short-circuits Run; CommitErr is returned after a successful body, standing
// in for a failed commit.
type PassthroughUnitOfWork struct {
	RunErr    error
	CommitErr error
	Calls     int
}

func (u *PassthroughUnitOfWork) Run(ctx context.Context, body func(ctx context.Context) error) error {
	u.Calls++
	if u.RunErr != nil {
		return u.RunErr
	}
	if err := body(ctx); err != nil {
		return err
	}
	return u.CommitErr
}

// MockUserRepository is a mock implementation of store.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	args := m.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id primitive.ObjectID, update store.UserUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockUserRepository) AddSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveSavedRecipeFromAll(ctx context.Context, recipeID primitive.ObjectID) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

// MockRecipeRepository is a mock implementation of store.RecipeRepository.
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Insert(ctx context.Context, recipe *models.Recipe) (primitive.ObjectID, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindDetail(ctx context.Context, id primitive.ObjectID) (*models.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeDetail), args.Error(1)
}

func (m *MockRecipeRepository) Replace(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) AddSavedBy(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	args := m.Called(ctx, recipeID, userID)
	return args.Error(0)
}

func (m *MockRecipeRepository) RemoveSavedBy(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	args := m.Called(ctx, recipeID, userID)
	return args.Error(0)
}

func (m *MockRecipeRepository) List(ctx context.Context, q store.ListQuery) ([]models.RecipeDetail, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.RecipeDetail), args.Get(1).(int64), args.Error(2)
}

// MockImageStorage is a mock implementation of service.ImageStorage.
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, data []byte, opts service.UploadOptions) (models.Image, error) {
	args := m.Called(ctx, data, opts)
	return args.Get(0).(models.Image), args.Error(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthService is a mock implementation of service.IAuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(token string) (*service.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, caller service.Identity, in service.UpdateProfileInput) (*models.User, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRecipeService is a mock implementation of service.IRecipeService.
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, caller service.Identity, in service.CreateRecipeInput) (*models.RecipeDetail, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id primitive.ObjectID) (*models.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, caller service.Identity, id primitive.ObjectID, in service.UpdateRecipeInput) (*models.RecipeDetail, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, caller service.Identity, id primitive.ObjectID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, q service.ListRecipesQuery) (*service.RecipePage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipePage), args.Error(1)
}

func (m *MockRecipeService) ToggleSave(ctx context.Context, caller service.Identity, recipeID primitive.ObjectID) (*service.ToggleResult, error) {
	args := m.Called(ctx, caller, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ToggleResult), args.Error(1)
}

// MockOptimizer is a mock implementation of service.ImageOptimizer.
type MockOptimizer struct {
	mock.Mock
}

func (m *MockOptimizer) Optimize(data []byte) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
