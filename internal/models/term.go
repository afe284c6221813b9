package models

import "time"

// TermKind distinguishes categories from tags.
type TermKind string

const (
	TermCategory TermKind = "category"
	TermTag      TermKind = "tag"
)

// Label is the capitalized kind used in user facing messages.
func (k TermKind) Label() string {
	if k == TermTag {
		return "Tag"
	}
	return "Category"
}

// Term is a category or a tag. Names are stored lower-cased and are unique per kind.
// Recipes reference terms by name, so deleting a term leaves recipes untouched.
type Term struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Kind      TermKind  `gorm:"size:16;not null;uniqueIndex:idx_terms_kind_name" bson:"kind" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:idx_terms_kind_name" bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Counter backs the SQL sequence used for account numbers.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null"`
}
