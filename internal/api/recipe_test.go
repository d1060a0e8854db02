package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomiwa-code/recipe-share-api/internal/api"
	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/mocks"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
	"github.com/tomiwa-code/recipe-share-api/internal/router"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
)

func newTestRouter(t *testing.T, auth *mocks.MockAuthService, recipes *mocks.MockRecipeService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return router.Setup(router.Deps{
		Auth:           api.NewAuthHandler(auth, logger),
		Users:          api.NewUserHandler(auth, logger),
		Recipes:        api.NewRecipeHandler(recipes, logger),
		TokenValidator: auth,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func authorize(auth *mocks.MockAuthService, caller service.Identity) {
	auth.On("ValidateToken", "good-token").Return(&service.TokenClaims{
		UserID: caller.UserID,
		Role:   caller.Role,
	}, nil)
}

func bearer(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for k, data := range files {
		fw, err := mw.CreateFormFile(k, k+".jpg")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateRecipe_Created(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	caller := service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator}
	authorize(auth, caller)

	detail := &models.RecipeDetail{
		Recipe: models.Recipe{
			ID:   primitive.NewObjectID(),
			Name: "jollof rice",
		},
	}
	recipes.On("CreateRecipe", mock.Anything, caller, mock.MatchedBy(func(in service.CreateRecipeInput) bool {
		return in.Name == "jollof rice" &&
			in.PrepTime == 45 &&
			len(in.Ingredients) == 1 &&
			in.Ingredients[0].Name == "rice" &&
			len(in.Instructions) == 2 &&
			string(in.Image) == "raw-image-bytes"
	})).Return(detail, nil)

	body, contentType := multipartBody(t, map[string]string{
		"name":           "jollof rice",
		"description":    "party staple",
		"difficulty":     "medium",
		"cuisine":        "nigerian",
		"prepTime":       "45",
		"servings":       "6",
		"nutritionFacts": `[{"label":"calories","value":"450"}]`,
		"ingredients":    `[{"name":"rice","amount":"2","unit":"cups"}]`,
		"instructions":   `["wash the rice","simmer in sauce"]`,
	}, map[string][]byte{"image": []byte("raw-image-bytes")})

	req := bearer(httptest.NewRequest(http.MethodPost, "/recipe/create", body))
	req.Header.Set("Content-Type", contentType)

	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "recipe created", env.Message)
	assert.Contains(t, string(env.Data), "jollof rice")
	recipes.AssertExpectations(t)
}

func TestCreateRecipe_MalformedArrayField(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	authorize(auth, service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator})

	body, contentType := multipartBody(t, map[string]string{
		"name":        "stew",
		"prepTime":    "20",
		"servings":    "4",
		"ingredients": `not-json`,
	}, map[string][]byte{"image": []byte("img")})

	req := bearer(httptest.NewRequest(http.MethodPost, "/recipe/create", body))
	req.Header.Set("Content-Type", contentType)

	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "ingredients")
	recipes.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRecipe_MissingPrepTime(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	authorize(auth, service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator})

	body, contentType := multipartBody(t, map[string]string{"name": "stew"}, nil)
	req := bearer(httptest.NewRequest(http.MethodPost, "/recipe/create", body))
	req.Header.Set("Content-Type", contentType)

	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "prepTime")
}

func TestCreateRecipe_RequiresToken(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)

	req := httptest.NewRequest(http.MethodPost, "/recipe/create", nil)
	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestGetRecipe_InvalidID(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)

	req := httptest.NewRequest(http.MethodGet, "/recipe/not-an-id", nil)
	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "id")
}

func TestGetRecipe_NotFound(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	id := primitive.NewObjectID()
	recipes.On("GetRecipe", mock.Anything, id).Return(nil, apperr.NotFound("recipe"))

	req := httptest.NewRequest(http.MethodGet, "/recipe/"+id.Hex(), nil)
	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestListRecipes_PassesQueryThrough(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	recipes.On("ListRecipes", mock.Anything, service.ListRecipesQuery{
		Search:     "rice",
		Difficulty: "easy",
		Cuisine:    "nigerian",
		MaxPrep:    30,
		MinRating:  4,
		Sort:       "rating",
		Page:       2,
		Limit:      12,
	}).Return(&service.RecipePage{Items: []models.RecipeDetail{}, Page: 2, Limit: 12}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/recipe?search=rice&difficulty=easy&cuisine=nigerian&maxPrep=30&minRating=4&sort=rating&page=2&limit=12", nil)
	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	recipes.AssertExpectations(t)
}

func TestListRecipes_RejectsUnknownDifficulty(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)

	req := httptest.NewRequest(http.MethodGet, "/recipe?difficulty=impossible", nil)
	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	recipes.AssertNotCalled(t, "ListRecipes", mock.Anything, mock.Anything)
}

func TestSaveRecipe_ToggleMessages(t *testing.T) {
	caller := service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator}
	recipeID := primitive.NewObjectID()

	tests := []struct {
		name    string
		result  *service.ToggleResult
		message string
	}{
		{"saved", &service.ToggleResult{IsSaved: true, SaveCount: 1}, "recipe saved"},
		{"unsaved", &service.ToggleResult{IsSaved: false, SaveCount: 0}, "recipe unsaved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.MockAuthService)
			recipes := new(mocks.MockRecipeService)
			authorize(auth, caller)
			recipes.On("ToggleSave", mock.Anything, caller, recipeID).Return(tt.result, nil)

			payload := strings.NewReader(`{"recipeId":"` + recipeID.Hex() + `"}`)
			req := bearer(httptest.NewRequest(http.MethodPost, "/recipe/save", payload))
			req.Header.Set("Content-Type", "application/json")

			w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.message, env.Message)

			var got service.ToggleResult
			require.NoError(t, json.Unmarshal(env.Data, &got))
			assert.Equal(t, *tt.result, got)
		})
	}
}

func TestSaveRecipe_SelfSaveForbidden(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	caller := service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator}
	authorize(auth, caller)
	recipeID := primitive.NewObjectID()
	recipes.On("ToggleSave", mock.Anything, caller, recipeID).
		Return(nil, apperr.SelfSave())

	payload := strings.NewReader(`{"recipeId":"` + recipeID.Hex() + `"}`)
	req := bearer(httptest.NewRequest(http.MethodPost, "/recipe/save", payload))
	req.Header.Set("Content-Type", "application/json")

	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "you cannot save your own recipe", env.Message)
}

func TestSaveRecipe_BadBody(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	authorize(auth, service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator})

	req := bearer(httptest.NewRequest(http.MethodPost, "/recipe/save", strings.NewReader(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "recipeId")
}

func TestDeleteRecipe_InternalErrorHidden(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	caller := service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator}
	authorize(auth, caller)
	id := primitive.NewObjectID()
	recipes.On("DeleteRecipe", mock.Anything, caller, id).
		Return(apperr.Internal(assert.AnError))

	req := bearer(httptest.NewRequest(http.MethodDelete, "/recipe/delete/"+id.Hex(), nil))
	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, env.Message, assert.AnError.Error())
}

func TestUpdateRecipe_PartialForm(t *testing.T) {
	auth := new(mocks.MockAuthService)
	recipes := new(mocks.MockRecipeService)
	caller := service.Identity{UserID: primitive.NewObjectID(), Role: models.RoleCreator}
	authorize(auth, caller)
	id := primitive.NewObjectID()

	recipes.On("UpdateRecipe", mock.Anything, caller, id, mock.MatchedBy(func(in service.UpdateRecipeInput) bool {
		return in.Name != nil && *in.Name == "renamed" &&
			in.Description == nil &&
			in.Ingredients == nil &&
			in.Image == nil
	})).Return(&models.RecipeDetail{Recipe: models.Recipe{ID: id, Name: "renamed"}}, nil)

	body, contentType := multipartBody(t, map[string]string{"name": "renamed"}, nil)
	req := bearer(httptest.NewRequest(http.MethodPut, "/recipe/update/"+id.Hex(), body))
	req.Header.Set("Content-Type", contentType)

	w, env := doRequest(t, newTestRouter(t, auth, recipes), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "recipe updated", env.Message)
	recipes.AssertExpectations(t)
}
