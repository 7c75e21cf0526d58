package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackRecord is one user's rating and like state for one recipe. Rows are
// never deleted; un-liking sets Liked to false.
type FeedbackRecord struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_feedback_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_feedback_recipe_user;index" json:"user_id"`
	Rating    *int      `json:"rating,omitempty"`
	Liked     bool      `gorm:"not null;default:false" json:"liked"`
}

// TableName returns the table name for the FeedbackRecord model
func (FeedbackRecord) TableName() string {
	return "recipe_feedback"
}

func (f *FeedbackRecord) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
