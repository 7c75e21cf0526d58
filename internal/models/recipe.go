package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Recipe is a published or draft recipe together with its stored feedback
// aggregates. RatingAverage keeps full precision; rounding happens at the edge.
type Recipe struct {
	ID            uuid.UUID        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Title         string           `gorm:"size:255;not null" json:"title"`
	Body          string           `gorm:"type:text" json:"body"`
	Excerpt       string           `gorm:"type:text" json:"excerpt"`
	Status        string           `gorm:"size:20;not null;default:'publish';index" json:"status"`
	Ingredients   string           `gorm:"type:text" json:"ingredients"`
	Instructions  string           `gorm:"type:text" json:"instructions"`
	PrepTime      int              `gorm:"not null;default:0" json:"prep_time"`
	CookTime      int              `gorm:"not null;default:0" json:"cook_time"`
	Servings      int              `gorm:"not null;default:0" json:"servings"`
	Difficulty    string           `gorm:"size:20" json:"difficulty"`
	Calories      float64          `gorm:"type:float" json:"calories"`
	Protein       float64          `gorm:"type:float" json:"protein"`
	Carbs         float64          `gorm:"type:float" json:"carbs"`
	Fat           float64          `gorm:"type:float" json:"fat"`
	Gallery       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"gallery"`
	Featured      bool             `gorm:"not null;default:false;index" json:"featured"`
	RatingAverage float64          `gorm:"not null;default:0" json:"rating_average"`
	RatingCount   int64            `gorm:"not null;default:0" json:"rating_count"`
	LikeCount     int64            `gorm:"not null;default:0" json:"like_count"`
	AuthorID      uuid.UUID        `gorm:"type:varchar(36)" json:"author_id"`
	Terms         []Term           `gorm:"many2many:recipe_terms;constraint:OnDelete:CASCADE" json:"terms,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusPublish
	}
	return nil
}

// TermsIn returns the recipe's terms belonging to taxonomy, in stored order.
func (r *Recipe) TermsIn(taxonomy string) []Term {
	var out []Term
	for _, t := range r.Terms {
		if t.Taxonomy == taxonomy {
			out = append(out, t)
		}
	}
	return out
}
