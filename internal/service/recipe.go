package service

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
	"github.com/tomiwa-code/recipe-share-api/internal/store"
)

// CreateRecipeInput is the typed create payload. The HTTP layer has already
// decoded the JSON-encoded array form fields.
type CreateRecipeInput struct {
	Name           string
	Description    string
	PrepTime       int
	Difficulty     string
	Servings       int
	Cuisine        string
	NutritionFacts []models.NutritionFact
	Ingredients    []models.Ingredient
	Instructions   []string
	Image          []byte
}

// UpdateRecipeInput is a partial update. Nil pointers and nil slices mean the
// field was absent; a present-but-empty array is a validation error.
type UpdateRecipeInput struct {
	Name           *string
	Description    *string
	PrepTime       *int
	Difficulty     *string
	Servings       *int
	Cuisine        *string
	NutritionFacts []models.NutritionFact
	Ingredients    []models.Ingredient
	Instructions   []string
	Image          []byte
}

// ListRecipesQuery mirrors the public list/search parameters.
type ListRecipesQuery struct {
	Search     string
	Difficulty string
	Cuisine    string
	MaxPrep    int
	MinRating  float64
	Sort       string
	Page       int
	Limit      int
}

// RecipePage is one page of list results.
type RecipePage struct {
	Items      []models.RecipeDetail `json:"recipes"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int64                 `json:"totalPages"`
}

// ToggleResult reports the state of the bookmark edge after a toggle.
type ToggleResult struct {
	IsSaved   bool `json:"isSaved"`
	SaveCount int  `json:"saveCount"`
}

// RecipeService coordinates recipe mutations with the transactional
// unit-of-work and the external image pipeline.
type RecipeService struct {
	uow       store.UnitOfWork
	recipes   store.RecipeRepository
	users     store.UserRepository
	optimizer ImageOptimizer
	images    ImageStorage
	logger    *slog.Logger
}

func NewRecipeService(uow store.UnitOfWork, recipes store.RecipeRepository, users store.UserRepository, optimizer ImageOptimizer, images ImageStorage, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		uow:       uow,
		recipes:   recipes,
		users:     users,
		optimizer: optimizer,
		images:    images,
		logger:    logger,
	}
}

// CreateRecipe optimizes and uploads the image, then inserts the document and
// re-reads it with creator fields populated, all inside one transaction. The
// image pipeline runs before any database write, so its failures leave no
// partial state; an upload orphaned by a later insert failure is logged.
func (s *RecipeService) CreateRecipe(ctx context.Context, caller Identity, in CreateRecipeInput) (*models.RecipeDetail, error) {
	if caller.UserID.IsZero() {
		return nil, apperr.Unauthorized("authentication required")
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	optimized, err := s.optimizer.Optimize(in.Image)
	if err != nil {
		return nil, err
	}
	image, err := s.images.Upload(ctx, optimized, UploadOptions{MaxWidth: 800, MaxHeight: 600})
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		PrepTime:       in.PrepTime,
		Difficulty:     in.Difficulty,
		Servings:       in.Servings,
		Cuisine:        strings.TrimSpace(in.Cuisine),
		NutritionFacts: in.NutritionFacts,
		Ingredients:    in.Ingredients,
		Instructions:   in.Instructions,
		Image:          image,
		CreatorID:      caller.UserID,
	}

	var detail *models.RecipeDetail
	err = s.uow.Run(ctx, func(txCtx context.Context) error {
		id, err := s.recipes.Insert(txCtx, recipe)
		if err != nil {
			return err
		}
		detail, err = s.recipes.FindDetail(txCtx, id)
		return err
	})
	if err != nil {
		// The uploaded object is orphaned; there is no compensating delete.
		s.logger.Warn("recipe insert failed after upload, image orphaned", "image_id", image.ID, "error", err)
		return nil, err
	}

	s.logger.Info("recipe created", "recipe_id", detail.ID.Hex(), "creator", caller.UserID.Hex())
	return detail, nil
}

// GetRecipe loads one recipe with its creator populated.
func (s *RecipeService) GetRecipe(ctx context.Context, id primitive.ObjectID) (*models.RecipeDetail, error) {
	return s.recipes.FindDetail(ctx, id)
}

// UpdateRecipe applies a partial update inside one transaction. Only the
// creator or an admin may update. A replacement image is optimized and
// uploaded first; the old stored image is then deleted best-effort before the
// reference is replaced.
func (s *RecipeService) UpdateRecipe(ctx context.Context, caller Identity, id primitive.ObjectID, in UpdateRecipeInput) (*models.RecipeDetail, error) {
	if caller.UserID.IsZero() {
		return nil, apperr.Unauthorized("authentication required")
	}

	var detail *models.RecipeDetail
	err := s.uow.Run(ctx, func(txCtx context.Context) error {
		recipe, err := s.recipes.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if recipe.CreatorID != caller.UserID && !caller.IsAdmin() {
			return apperr.Forbidden("only the creator or an admin may update this recipe")
		}
		if err := applyUpdate(recipe, in); err != nil {
			return err
		}

		if len(in.Image) > 0 {
			optimized, err := s.optimizer.Optimize(in.Image)
			if err != nil {
				return err
			}
			image, err := s.images.Upload(txCtx, optimized, UploadOptions{MaxWidth: 800, MaxHeight: 600})
			if err != nil {
				return err
			}
			s.cleanupImage(ctx, recipe.Image.ID)
			recipe.Image = image
		}

		if err := s.recipes.Replace(txCtx, recipe); err != nil {
			return err
		}
		detail, err = s.recipes.FindDetail(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteRecipe removes the document and pulls its id from every user's saved
// set in one transaction. The stored image is deleted best-effort after
// commit; its failure never affects the already-successful delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, caller Identity, id primitive.ObjectID) error {
	if caller.UserID.IsZero() {
		return apperr.Unauthorized("authentication required")
	}

	var imageID string
	err := s.uow.Run(ctx, func(txCtx context.Context) error {
		recipe, err := s.recipes.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if recipe.CreatorID != caller.UserID && !caller.IsAdmin() {
			return apperr.Forbidden("only the creator or an admin may delete this recipe")
		}
		imageID = recipe.Image.ID

		if err := s.recipes.Delete(txCtx, id); err != nil {
			return err
		}
		return s.users.RemoveSavedRecipeFromAll(txCtx, id)
	})
	if err != nil {
		return err
	}

	if imageID != "" {
		s.cleanupImage(ctx, imageID)
	}
	s.logger.Info("recipe deleted", "recipe_id", id.Hex())
	return nil
}

// ListRecipes runs the filtered, paginated public query.
func (s *RecipeService) ListRecipes(ctx context.Context, q ListRecipesQuery) (*RecipePage, error) {
	if q.Difficulty != "" && !models.ValidDifficulty(q.Difficulty) {
		return nil, apperr.Validation("difficulty", "difficulty must be easy, medium or hard")
	}

	listQuery := store.ListQuery{
		Search:     q.Search,
		Difficulty: q.Difficulty,
		Cuisine:    q.Cuisine,
		MaxPrep:    q.MaxPrep,
		MinRating:  q.MinRating,
		Sort:       q.Sort,
		Page:       q.Page,
		Limit:      q.Limit,
	}
	items, total, err := s.recipes.List(ctx, listQuery)
	if err != nil {
		return nil, err
	}

	// The same bounds the repository applied, so TotalPages is computed
	// against the limit the query actually used.
	page, limit := listQuery.Bounds()

	return &RecipePage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// ToggleSave flips the bookmark edge between the caller and a recipe. Both
// sides of the relation are updated in the same transaction so they cannot
// diverge.
func (s *RecipeService) ToggleSave(ctx context.Context, caller Identity, recipeID primitive.ObjectID) (*ToggleResult, error) {
	if caller.UserID.IsZero() {
		return nil, apperr.Unauthorized("authentication required")
	}
	if recipeID.IsZero() {
		return nil, apperr.Validation("recipeId", "recipeId is required")
	}

	var result ToggleResult
	err := s.uow.Run(ctx, func(txCtx context.Context) error {
		recipe, err := s.recipes.FindByID(txCtx, recipeID)
		if err != nil {
			return err
		}
		if _, err := s.users.FindByID(txCtx, caller.UserID); err != nil {
			return err
		}
		if recipe.CreatorID == caller.UserID {
			return apperr.SelfSave()
		}

		saved := false
		for _, id := range recipe.SavedBy {
			if id == caller.UserID {
				saved = true
				break
			}
		}

		if saved {
			if err := s.recipes.RemoveSavedBy(txCtx, recipeID, caller.UserID); err != nil {
				return err
			}
			if err := s.users.RemoveSavedRecipe(txCtx, caller.UserID, recipeID); err != nil {
				return err
			}
			result = ToggleResult{IsSaved: false, SaveCount: len(recipe.SavedBy) - 1}
			return nil
		}

		if err := s.recipes.AddSavedBy(txCtx, recipeID, caller.UserID); err != nil {
			return err
		}
		if err := s.users.AddSavedRecipe(txCtx, caller.UserID, recipeID); err != nil {
			return err
		}
		result = ToggleResult{IsSaved: true, SaveCount: len(recipe.SavedBy) + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *RecipeService) cleanupImage(ctx context.Context, id string) {
	if err := s.images.Delete(ctx, id); err != nil {
		s.logger.Warn("best-effort image delete failed", "image_id", id, "error", err)
	}
}

func validateCreate(in CreateRecipeInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperr.Validation("name", "name is required")
	case strings.TrimSpace(in.Description) == "":
		return apperr.Validation("description", "description is required")
	case in.PrepTime <= 0:
		return apperr.Validation("prepTime", "prepTime must be a positive number of minutes")
	case !models.ValidDifficulty(in.Difficulty):
		return apperr.Validation("difficulty", "difficulty must be easy, medium or hard")
	case in.Servings <= 0:
		return apperr.Validation("servings", "servings must be positive")
	case strings.TrimSpace(in.Cuisine) == "":
		return apperr.Validation("cuisine", "cuisine is required")
	case len(in.NutritionFacts) == 0:
		return apperr.Validation("nutritionFacts", "nutritionFacts must be a non-empty array")
	case len(in.Ingredients) == 0:
		return apperr.Validation("ingredients", "ingredients must be a non-empty array")
	case len(in.Instructions) == 0:
		return apperr.Validation("instructions", "instructions must be a non-empty array")
	case len(in.Image) == 0:
		return apperr.Validation("image", "an image attachment is required")
	}
	return nil
}

// applyUpdate copies present fields onto the loaded document. Array fields
// that are present but empty abort the update.
func applyUpdate(recipe *models.Recipe, in UpdateRecipeInput) error {
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return apperr.Validation("name", "name must not be empty")
		}
		recipe.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		recipe.Description = strings.TrimSpace(*in.Description)
	}
	if in.PrepTime != nil {
		if *in.PrepTime <= 0 {
			return apperr.Validation("prepTime", "prepTime must be a positive number of minutes")
		}
		recipe.PrepTime = *in.PrepTime
	}
	if in.Difficulty != nil {
		if !models.ValidDifficulty(*in.Difficulty) {
			return apperr.Validation("difficulty", "difficulty must be easy, medium or hard")
		}
		recipe.Difficulty = *in.Difficulty
	}
	if in.Servings != nil {
		if *in.Servings <= 0 {
			return apperr.Validation("servings", "servings must be positive")
		}
		recipe.Servings = *in.Servings
	}
	if in.Cuisine != nil {
		recipe.Cuisine = strings.TrimSpace(*in.Cuisine)
	}
	if in.NutritionFacts != nil {
		if len(in.NutritionFacts) == 0 {
			return apperr.Validation("nutritionFacts", "nutritionFacts must be a non-empty array")
		}
		recipe.NutritionFacts = in.NutritionFacts
	}
	if in.Ingredients != nil {
		if len(in.Ingredients) == 0 {
			return apperr.Validation("ingredients", "ingredients must be a non-empty array")
		}
		recipe.Ingredients = in.Ingredients
	}
	if in.Instructions != nil {
		if len(in.Instructions) == 0 {
			return apperr.Validation("instructions", "instructions must be a non-empty array")
		}
		recipe.Instructions = in.Instructions
	}
	return nil
}
