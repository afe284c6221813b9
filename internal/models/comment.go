package models

import "time"

// MaxCommentLength is the maximum number of characters in a comment.
const MaxCommentLength = 500

// Comment is a user's single comment on a recipe.
type Comment struct {
	ID           string     `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	RecipeID     string     `gorm:"size:36;not null;uniqueIndex:idx_comments_recipe_user" bson:"recipe" json:"recipe"`
	UserRef      string     `gorm:"size:36;not null;uniqueIndex:idx_comments_recipe_user" bson:"user" json:"user"`
	Username     string     `gorm:"not null" bson:"username" json:"username"`
	UserNumber   string     `gorm:"not null" bson:"userNumber" json:"userNumber"`
	Text         string     `gorm:"size:500;not null" bson:"text" json:"text"`
	AdminEdited  bool       `gorm:"not null;default:false" bson:"adminEdited" json:"adminEdited"`
	LastEditedBy *string    `bson:"lastEditedBy" json:"lastEditedBy"`
	CreatedAt    time.Time  `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime:false" bson:"updatedAt" json:"updatedAt"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// CommentPage is one page of a recipe's comments, newest first.
type CommentPage struct {
	Comments   []Comment
	Pagination Pagination
}
