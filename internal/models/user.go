package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"
)

// Image is a stored image reference: the storage object id and its public URL.
type Image struct {
	ID  string `bson:"id" json:"id"`
	URL string `bson:"url" json:"url"`
}

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"password" json:"-"`
	Role         string               `bson:"role" json:"role"`
	Location     string               `bson:"location,omitempty" json:"location,omitempty"`
	Avatar       *Image               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Cover        *Image               `bson:"cover,omitempty" json:"cover,omitempty"`
	SavedRecipes []primitive.ObjectID `bson:"savedRecipes" json:"savedRecipes"`
	CreatedAt    time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updated_at"`
}

// Creator is the subset of user fields embedded in recipe responses.
type Creator struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Avatar   *Image             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Location string             `bson:"location,omitempty" json:"location"`
	Role     string             `bson:"role" json:"role"`
}
