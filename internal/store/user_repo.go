package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/database"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
)

// MongoUserRepository implements UserRepository over the users collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *database.Mongo) *MongoUserRepository {
	return &MongoUserRepository{coll: db.DB.Collection(database.UsersCollection)}
}

func (r *MongoUserRepository) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.SavedRecipes == nil {
		user.SavedRecipes = []primitive.ObjectID{}
	}

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, apperr.Duplicate(duplicateField(err), err)
		}
		return primitive.NilObjectID, err
	}
	id := res.InsertedID.(primitive.ObjectID)
	user.ID = id
	return id, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"username": handle})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Avatar != nil {
		set["avatar"] = update.Avatar
	}
	if update.Cover != nil {
		set["cover"] = update.Cover
	}

	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *MongoUserRepository) AddSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"savedRecipes": recipeID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *MongoUserRepository) RemoveSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"savedRecipes": recipeID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// RemoveSavedRecipeFromAll pulls recipeID out of every user's saved set. Used
// by the recipe delete cascade.
func (r *MongoUserRepository) RemoveSavedRecipeFromAll(ctx context.Context, recipeID primitive.ObjectID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"savedRecipes": recipeID},
		bson.M{"$pull": bson.M{"savedRecipes": recipeID}},
	)
	return err
}

// duplicateField extracts the offending field name from a mongo duplicate-key
// error by matching the index name.
func duplicateField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "username"):
		return "username"
	}
	return "field"
}
