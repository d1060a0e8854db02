package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/database"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
)

// List pagination bounds.
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// MongoRecipeRepository implements RecipeRepository over the recipes collection.
type MongoRecipeRepository struct {
	coll *mongo.Collection
}

func NewRecipeRepository(db *database.Mongo) *MongoRecipeRepository {
	return &MongoRecipeRepository{coll: db.DB.Collection(database.RecipesCollection)}
}

func (r *MongoRecipeRepository) Insert(ctx context.Context, recipe *models.Recipe) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	if recipe.SavedBy == nil {
		recipe.SavedBy = []primitive.ObjectID{}
	}

	res, err := r.coll.InsertOne(ctx, recipe)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := res.InsertedID.(primitive.ObjectID)
	recipe.ID = id
	return id, nil
}

func (r *MongoRecipeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("recipe")
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindDetail loads a recipe with its creator fields populated.
func (r *MongoRecipeRepository) FindDetail(ctx context.Context, id primitive.ObjectID) (*models.RecipeDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	pipeline = append(pipeline, creatorLookup()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []models.RecipeDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, apperr.NotFound("recipe")
	}
	return &details[0], nil
}

func (r *MongoRecipeRepository) Replace(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": recipe.ID}, recipe)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("recipe")
	}
	return nil
}

func (r *MongoRecipeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("recipe")
	}
	return nil
}

func (r *MongoRecipeRepository) AddSavedBy(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, recipeID, bson.M{
		"$addToSet": bson.M{"savedBy": userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("recipe")
	}
	return nil
}

func (r *MongoRecipeRepository) RemoveSavedBy(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, recipeID, bson.M{
		"$pull": bson.M{"savedBy": userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("recipe")
	}
	return nil
}

// List returns a page of recipes matching q, with creators populated, plus the
// total match count. Text search and the cuisine filter combine as a plain AND.
func (r *MongoRecipeRepository) List(ctx context.Context, q ListQuery) ([]models.RecipeDetail, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	if q.Difficulty != "" {
		filter["difficulty"] = q.Difficulty
	}
	if q.Cuisine != "" {
		filter["cuisine"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Cuisine), Options: "i"}
	}
	if q.MaxPrep > 0 {
		filter["prepTime"] = bson.M{"$lte": q.MaxPrep}
	}
	if q.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": q.MinRating}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := q.Bounds()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: sortSpec(q.Sort)}},
		{{Key: "$skip", Value: int64(page-1) * int64(limit)}},
		{{Key: "$limit", Value: int64(limit)}},
	}
	pipeline = append(pipeline, creatorLookup()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	details := []models.RecipeDetail{}
	if err := cursor.All(ctx, &details); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func sortSpec(sort string) bson.D {
	switch sort {
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}
	case "preptime":
		return bson.D{{Key: "prepTime", Value: 1}, {Key: "createdAt", Value: -1}}
	default: // newest
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// creatorLookup joins and flattens the creator document, trimmed to the fields
// recipe responses embed.
func creatorLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": database.UsersCollection,
			"let":  bson.M{"creatorId": "$creator"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$creatorId"}}}}},
				{{Key: "$project", Value: bson.M{"name": 1, "avatar": 1, "location": 1, "role": 1}}},
			},
			"as": "creatorDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$creatorDoc", "preserveNullAndEmptyArrays": true}}},
	}
}
