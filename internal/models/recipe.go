package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recipe is owned by the chef that created it. The chef's username and
// number are copied at creation time and never refreshed.
type Recipe struct {
	ID           string                      `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title        string                      `gorm:"not null" bson:"title" json:"title"`
	Description  string                      `bson:"description" json:"description"`
	CookingTime  int                         `bson:"cookingTime" json:"cookingTime"`
	Images       datatypes.JSONSlice[string] `gorm:"not null" bson:"images" json:"images"`
	Steps        datatypes.JSONSlice[string] `bson:"steps" json:"steps"`
	CategoryName string                      `gorm:"not null;index" bson:"categoryName" json:"categoryName"`
	TagNames     datatypes.JSONSlice[string] `bson:"tagNames" json:"tagNames"`
	ChefID       string                      `gorm:"size:36;not null;index" bson:"chef" json:"chef"`
	ChefUsername string                      `gorm:"not null" bson:"chefUsername" json:"chefUsername"`
	ChefNumber   string                      `gorm:"not null" bson:"chefNumber" json:"chefNumber"`
	ViewCount    int64                       `gorm:"not null;default:0;index" bson:"viewCount" json:"viewCount"`

	// Likes and Dislikes hold principal ids. They are embedded arrays in the
	// document store and are hydrated from the reactions table in SQL.
	Likes    []string `gorm:"-" bson:"likes" json:"likes"`
	Dislikes []string `gorm:"-" bson:"dislikes" json:"dislikes"`

	CreatedAt time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RankedRecipe is a recipe annotated with its reaction counts.
type RankedRecipe struct {
	Recipe       `bson:",inline"`
	LikeCount    int `bson:"likeCount" json:"likeCount"`
	DislikeCount int `bson:"dislikeCount" json:"dislikeCount"`
}

// ReactionKind is either a like or a dislike.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Reaction is the SQL representation of a principal's reaction to a recipe.
// A single row per (recipe, principal) pair keeps likes and dislikes disjoint.
type Reaction struct {
	ID          uint         `gorm:"primaryKey"`
	RecipeID    string       `gorm:"size:36;not null;uniqueIndex:idx_reactions_recipe_principal"`
	PrincipalID string       `gorm:"size:36;not null;uniqueIndex:idx_reactions_recipe_principal"`
	Kind        ReactionKind `gorm:"size:8;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReactionStatus describes a principal's reaction to a recipe along with the totals.
type ReactionStatus struct {
	Liked        bool `json:"liked"`
	Disliked     bool `json:"disliked"`
	LikeCount    int  `json:"likeCount"`
	DislikeCount int  `json:"dislikeCount"`
}

// StatusFor computes the reaction status of principalID on r.
func (r *Recipe) StatusFor(principalID string) ReactionStatus {
	return ReactionStatus{
		Liked:        containsID(r.Likes, principalID),
		Disliked:     containsID(r.Dislikes, principalID),
		LikeCount:    len(r.Likes),
		DislikeCount: len(r.Dislikes),
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
