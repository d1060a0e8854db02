package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/middleware"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
)

// Uploaded images larger than this are rejected before decoding.
const maxImageBytes = 10 << 20

type RecipeHandler struct {
	svc    service.IRecipeService
	logger *slog.Logger
}

func NewRecipeHandler(svc service.IRecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{svc: svc, logger: logger}
}

// CreateRecipe handles POST /recipe/create. The payload is a multipart form:
// scalar fields, three JSON-encoded array fields, and an image file.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthorized("authentication required"))
		return
	}

	in := service.CreateRecipeInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Difficulty:  c.PostForm("difficulty"),
		Cuisine:     c.PostForm("cuisine"),
	}

	var err error
	if in.PrepTime, err = formInt(c, "prepTime"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if in.Servings, err = formInt(c, "servings"); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := decodeArrayField(c, "nutritionFacts", &in.NutritionFacts); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := decodeArrayField(c, "ingredients", &in.Ingredients); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := decodeArrayField(c, "instructions", &in.Instructions); err != nil {
		respondError(c, h.logger, err)
		return
	}

	image, err := formImage(c, "image")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	in.Image = image

	detail, err := h.svc.CreateRecipe(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "recipe created", detail)
}

// GetRecipe handles GET /recipe/:id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	detail, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "recipe fetched", detail)
}

// ListRecipes handles GET /recipe with search/filter/pagination query params.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var req listRecipesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("query", err.Error()))
		return
	}

	page, err := h.svc.ListRecipes(c.Request.Context(), service.ListRecipesQuery{
		Search:     req.Search,
		Difficulty: req.Difficulty,
		Cuisine:    req.Cuisine,
		MaxPrep:    req.MaxPrep,
		MinRating:  req.MinRating,
		Sort:       req.Sort,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "recipes fetched", page)
}

// UpdateRecipe handles PUT /recipe/update/:id. All fields are optional;
// present JSON array fields must be non-empty.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthorized("authentication required"))
		return
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var in service.UpdateRecipeInput
	if v, present := c.GetPostForm("name"); present {
		in.Name = &v
	}
	if v, present := c.GetPostForm("description"); present {
		in.Description = &v
	}
	if v, present := c.GetPostForm("difficulty"); present {
		in.Difficulty = &v
	}
	if v, present := c.GetPostForm("cuisine"); present {
		in.Cuisine = &v
	}
	if v, present := c.GetPostForm("prepTime"); present {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, h.logger, apperr.Validation("prepTime", "prepTime must be a number"))
			return
		}
		in.PrepTime = &n
	}
	if v, present := c.GetPostForm("servings"); present {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, h.logger, apperr.Validation("servings", "servings must be a number"))
			return
		}
		in.Servings = &n
	}

	if _, present := c.GetPostForm("nutritionFacts"); present {
		if err := decodeArrayField(c, "nutritionFacts", &in.NutritionFacts); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if _, present := c.GetPostForm("ingredients"); present {
		if err := decodeArrayField(c, "ingredients", &in.Ingredients); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if _, present := c.GetPostForm("instructions"); present {
		if err := decodeArrayField(c, "instructions", &in.Instructions); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	image, err := optionalFormImage(c, "image")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	in.Image = image

	detail, err := h.svc.UpdateRecipe(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "recipe updated", detail)
}

// DeleteRecipe handles DELETE /recipe/delete/:id.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthorized("authentication required"))
		return
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.DeleteRecipe(c.Request.Context(), caller, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "recipe deleted", nil)
}

// SaveRecipe handles POST /recipe/save, toggling the caller's bookmark.
func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthorized("authentication required"))
		return
	}

	var req saveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("recipeId", "recipeId is required"))
		return
	}
	recipeID, err := primitive.ObjectIDFromHex(req.RecipeID)
	if err != nil {
		respondError(c, h.logger, apperr.Validation("recipeId", "recipeId is not a valid id"))
		return
	}

	result, err := h.svc.ToggleSave(c.Request.Context(), caller, recipeID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	message := "recipe saved"
	if !result.IsSaved {
		message = "recipe unsaved"
	}
	respond(c, http.StatusOK, message, result)
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf(name, "%s is not a valid id", name)
	}
	return id, nil
}

func formInt(c *gin.Context, field string) (int, error) {
	v := c.PostForm(field)
	if v == "" {
		return 0, apperr.Validationf(field, "%s is required", field)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validationf(field, "%s must be a number", field)
	}
	return n, nil
}

// decodeArrayField unmarshals a JSON-encoded form field into out. Malformed
// JSON is a validation error naming the field; emptiness is enforced by the
// service.
func decodeArrayField[T any](c *gin.Context, field string, out *[]T) error {
	raw := c.PostForm(field)
	if raw == "" {
		*out = []T{}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperr.Validationf(field, "%s must be a valid JSON array", field)
	}
	if *out == nil {
		*out = []T{}
	}
	return nil
}

func formImage(c *gin.Context, field string) ([]byte, error) {
	data, err := optionalFormImage(c, field)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, apperr.Validationf(field, "an %s attachment is required", field)
	}
	return data, nil
}

func optionalFormImage(c *gin.Context, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validationf(field, "could not read %s attachment", field)
	}
	if file.Size > maxImageBytes {
		return nil, apperr.Validationf(field, "%s exceeds the %dMB limit", field, maxImageBytes>>20)
	}
	return readMultipartFile(file)
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return data, nil
}
