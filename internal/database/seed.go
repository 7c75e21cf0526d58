package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/models"
)

type defaultTerm struct {
	Name        string
	Description string
}

var defaultTerms = map[string][]defaultTerm{
	models.TaxonomyCategory: {
		{"Appetizers", "Small dishes served before the main course"},
		{"Main Courses", "Hearty dishes that make up the main part of a meal"},
		{"Desserts", "Sweet dishes served at the end of a meal"},
		{"Breakfast", "Morning meal recipes"},
		{"Lunch", "Midday meal recipes"},
		{"Dinner", "Evening meal recipes"},
		{"Snacks", "Light meals or small portions"},
		{"Beverages", "Drinks and cocktails"},
	},
	models.TaxonomyCuisine: {
		{Name: "Italian"}, {Name: "Mexican"}, {Name: "Chinese"}, {Name: "Indian"}, {Name: "Japanese"},
		{Name: "Thai"}, {Name: "Mediterranean"}, {Name: "American"}, {Name: "French"},
	},
	models.TaxonomyDiet: {
		{Name: "Vegetarian"}, {Name: "Vegan"}, {Name: "Gluten-Free"}, {Name: "Dairy-Free"}, {Name: "Nut-Free"},
		{Name: "Keto"}, {Name: "Paleo"}, {Name: "Low-Carb"}, {Name: "Low-Fat"},
	},
}

// SeedDefaultTerms inserts the stock categories, cuisines and diets. Existing
// terms are left untouched, so it is safe to run on every start.
func SeedDefaultTerms(ctx context.Context, db *gorm.DB) (int64, error) {
	var inserted int64
	for _, taxonomy := range models.Taxonomies {
		for _, dt := range defaultTerms[taxonomy] {
			term := models.Term{
				Taxonomy:    taxonomy,
				Slug:        Slugify(dt.Name),
				Name:        dt.Name,
				Description: dt.Description,
			}
			res := db.WithContext(ctx).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "taxonomy"}, {Name: "slug"}},
					DoNothing: true,
				}).
				Create(&term)
			if res.Error != nil {
				return inserted, fmt.Errorf("failed to seed term %s/%s: %w", taxonomy, dt.Name, res.Error)
			}
			inserted += res.RowsAffected
		}
	}
	logging.Ctx(ctx).Info().Int64("inserted", inserted).Msg("default terms seeded")
	return inserted, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, strips accents and joins words with hyphens.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
