package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type NutritionFact struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
}

type Ingredient struct {
	Name   string `bson:"name" json:"name"`
	Amount string `bson:"amount" json:"amount"`
	Unit   string `bson:"unit" json:"unit"`
}

type Recipe struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	Description    string               `bson:"description" json:"description"`
	PrepTime       int                  `bson:"prepTime" json:"prepTime"`
	Difficulty     string               `bson:"difficulty" json:"difficulty"`
	Servings       int                  `bson:"servings" json:"servings"`
	Cuisine        string               `bson:"cuisine" json:"cuisine"`
	Rating         float64              `bson:"rating" json:"rating"`
	NutritionFacts []NutritionFact      `bson:"nutritionFacts" json:"nutritionFacts"`
	Ingredients    []Ingredient         `bson:"ingredients" json:"ingredients"`
	Instructions   []string             `bson:"instructions" json:"instructions"`
	Image          Image                `bson:"image" json:"image"`
	CreatorID      primitive.ObjectID   `bson:"creator" json:"creator"`
	SavedBy        []primitive.ObjectID `bson:"savedBy" json:"savedBy"`
	CreatedAt      time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updated_at"`
}

// RecipeDetail is a recipe with its creator fields populated.
type RecipeDetail struct {
	Recipe  `bson:",inline"`
	Creator Creator `bson:"creatorDoc" json:"creator"`
}

// ValidDifficulty reports whether d is one of the known difficulty levels.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
