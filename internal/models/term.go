package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Taxonomy names. Only categories are hierarchical.
const (
	TaxonomyCategory = "recipe_category"
	TaxonomyCuisine  = "cuisine_type"
	TaxonomyDiet     = "dietary_restriction"
)

// Taxonomies lists every taxonomy in display order.
var Taxonomies = []string{TaxonomyCategory, TaxonomyCuisine, TaxonomyDiet}

// IsTaxonomy reports whether name is a known taxonomy.
func IsTaxonomy(name string) bool {
	for _, t := range Taxonomies {
		if t == name {
			return true
		}
	}
	return false
}

// Term is a category, cuisine or dietary restriction. Slug never changes once
// created. Count is the number of published recipes carrying the term.
type Term struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
	Taxonomy    string     `gorm:"size:50;not null;uniqueIndex:idx_terms_taxonomy_slug" json:"taxonomy"`
	Slug        string     `gorm:"size:200;not null;uniqueIndex:idx_terms_taxonomy_slug" json:"slug"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	ParentID    *uuid.UUID `gorm:"type:varchar(36);index" json:"parent_id,omitempty"`
	Count       int64      `gorm:"not null;default:0" json:"count"`
}

func (t *Term) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
