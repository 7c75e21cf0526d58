package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipe-carousel/backend/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "testpassword123"

// CreateTestUser inserts a user with the given role.
func CreateTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// RecipeFixture describes a recipe to insert. Zero values are filled in.
type RecipeFixture struct {
	Title        string
	Body         string
	Excerpt      string
	Ingredients  string
	Instructions string
	Status       string
	PrepTime     int
	Difficulty   string
	Featured     bool
	Gallery      []string
	CreatedAt    time.Time
	Rating       float64
	RatingCount  int64
	Likes        int64
	// Terms maps taxonomy to slugs; slugs must already exist.
	Terms map[string][]string
}

// CreateTestRecipe inserts a recipe and links its terms.
func CreateTestRecipe(t *testing.T, db *gorm.DB, f RecipeFixture) *models.Recipe {
	t.Helper()

	if f.Title == "" {
		f.Title = "Recipe " + uuid.NewString()[:8]
	}
	if f.Status == "" {
		f.Status = models.StatusPublish
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	recipe := &models.Recipe{
		Title:         f.Title,
		Body:          f.Body,
		Excerpt:       f.Excerpt,
		Ingredients:   f.Ingredients,
		Instructions:  f.Instructions,
		Status:        f.Status,
		PrepTime:      f.PrepTime,
		Difficulty:    f.Difficulty,
		Featured:      f.Featured,
		Gallery:       models.JSONBStringArray(f.Gallery),
		CreatedAt:     f.CreatedAt,
		RatingAverage: f.Rating,
		RatingCount:   f.RatingCount,
		LikeCount:     f.Likes,
	}

	for taxonomy, slugs := range f.Terms {
		for _, slug := range slugs {
			var term models.Term
			if err := db.Where("taxonomy = ? AND slug = ?", taxonomy, slug).First(&term).Error; err != nil {
				t.Fatalf("term %s/%s not found: %v", taxonomy, slug, err)
			}
			recipe.Terms = append(recipe.Terms, term)
		}
	}

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	// Bypass the default on featured=false and zeroed aggregates.
	if err := db.Model(recipe).Updates(map[string]interface{}{
		"featured":       f.Featured,
		"rating_average": f.Rating,
		"rating_count":   f.RatingCount,
		"like_count":     f.Likes,
	}).Error; err != nil {
		t.Fatalf("failed to set recipe aggregates: %v", err)
	}
	return recipe
}

// CreateChildTerm inserts a category nested under parentSlug.
func CreateChildTerm(t *testing.T, db *gorm.DB, parentSlug, slug, name string) *models.Term {
	t.Helper()

	var parent models.Term
	if err := db.Where("taxonomy = ? AND slug = ?", models.TaxonomyCategory, parentSlug).First(&parent).Error; err != nil {
		t.Fatalf("parent term %s not found: %v", parentSlug, err)
	}
	term := &models.Term{
		Taxonomy: models.TaxonomyCategory,
		Slug:     slug,
		Name:     name,
		ParentID: &parent.ID,
	}
	if err := db.Create(term).Error; err != nil {
		t.Fatalf("failed to create term: %v", err)
	}
	return term
}
