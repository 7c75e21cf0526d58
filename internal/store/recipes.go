// Package store executes compiled listing queries and recipe writes against
// the relational database.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// columns whitelists the SQL each logical field may expand to.
var columns = map[string]string{
	query.FieldID:            "recipes.id",
	query.FieldTitle:         "recipes.title",
	query.FieldBody:          "recipes.body",
	query.FieldExcerpt:       "recipes.excerpt",
	query.FieldIngredients:   "recipes.ingredients",
	query.FieldInstructions:  "recipes.instructions",
	query.FieldPrepTime:      "recipes.prep_time",
	query.FieldDifficulty:    "recipes.difficulty",
	query.FieldCreatedAt:     "recipes.created_at",
	query.FieldRatingAverage: "recipes.rating_average",
	query.FieldLikeCount:     "recipes.like_count",
}

// orderExprs overrides the sort expression for fields compared case-insensitively.
var orderExprs = map[string]string{
	query.FieldTitle: "LOWER(recipes.title)",
}

// QueryResult is one page of recipes and the total number of matches.
type QueryResult struct {
	Recipes []models.Recipe
	Total   int64
}

// RecipeStore reads and writes recipes and their term links.
type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// DB exposes the underlying handle for transactional callers.
func (s *RecipeStore) DB() *gorm.DB {
	return s.db
}

// Query runs a compiled descriptor. Taxonomy slugs that resolve to no term
// make the whole query match nothing.
func (s *RecipeStore) Query(ctx context.Context, d query.Descriptor) (*QueryResult, error) {
	termSets := make([][]uuid.UUID, 0, len(d.Taxonomy))
	for _, tc := range d.Taxonomy {
		ids, err := s.resolveClause(ctx, tc)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &QueryResult{Recipes: []models.Recipe{}}, nil
		}
		termSets = append(termSets, ids)
	}

	filtered := func() (*gorm.DB, error) {
		tx := s.db.WithContext(ctx).Model(&models.Recipe{})
		if d.Status != "" {
			tx = tx.Where("recipes.status = ?", d.Status)
		}
		if d.FeaturedOnly {
			tx = tx.Where("recipes.featured = ?", true)
		}
		for _, ids := range termSets {
			tx = tx.Where("recipes.id IN (SELECT recipe_id FROM recipe_terms WHERE term_id IN ?)", ids)
		}
		if d.Text != nil && d.Text.Term != "" {
			pattern := "%" + escapeLike(strings.ToLower(d.Text.Term)) + "%"
			conds := make([]string, 0, len(d.Text.Fields))
			args := make([]interface{}, 0, len(d.Text.Fields))
			for _, f := range d.Text.Fields {
				col, ok := columns[f]
				if !ok {
					return nil, fmt.Errorf("unknown search field %q", f)
				}
				conds = append(conds, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
				args = append(args, pattern)
			}
			tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
		for _, r := range d.Ranges {
			col, ok := columns[r.Field]
			if !ok || (r.Op != query.OpGTE && r.Op != query.OpLTE) {
				return nil, fmt.Errorf("unsupported range clause %s %s", r.Field, r.Op)
			}
			tx = tx.Where(fmt.Sprintf("%s %s ?", col, r.Op), r.Value)
		}
		for _, e := range d.Equals {
			col, ok := columns[e.Field]
			if !ok {
				return nil, fmt.Errorf("unknown equality field %q", e.Field)
			}
			tx = tx.Where(col+" = ?", e.Value)
		}
		return tx, nil
	}

	countQ, err := filtered()
	if err != nil {
		return nil, err
	}
	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	result := &QueryResult{Recipes: []models.Recipe{}, Total: total}
	if total == 0 || d.Offset < 0 || int64(d.Offset) >= total {
		return result, nil
	}

	findQ, err := filtered()
	if err != nil {
		return nil, err
	}
	for _, o := range d.Order {
		expr, ok := orderExprs[o.Field]
		if !ok {
			if expr, ok = columns[o.Field]; !ok {
				return nil, fmt.Errorf("unknown sort field %q", o.Field)
			}
		}
		if o.Desc {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		findQ = findQ.Order(expr)
	}

	err = findQ.
		Preload("Terms", orderTerms).
		Limit(d.Limit).
		Offset(d.Offset).
		Find(&result.Recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	return result, nil
}

func orderTerms(db *gorm.DB) *gorm.DB {
	return db.Order("terms.name ASC")
}

func (s *RecipeStore) resolveClause(ctx context.Context, tc query.TaxonomyClause) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Term{}).
		Where("taxonomy = ? AND slug IN ?", tc.Taxonomy, tc.Slugs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s terms: %w", tc.Taxonomy, err)
	}
	if !tc.IncludeChildren || len(ids) == 0 {
		return ids, nil
	}
	return s.withDescendants(ctx, tc.Taxonomy, ids)
}

// withDescendants expands ids to every term below them in the hierarchy.
func (s *RecipeStore) withDescendants(ctx context.Context, taxonomy string, ids []uuid.UUID) ([]uuid.UUID, error) {
	var terms []models.Term
	err := s.db.WithContext(ctx).
		Select("id", "parent_id").
		Where("taxonomy = ? AND parent_id IS NOT NULL", taxonomy).
		Find(&terms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load term hierarchy: %w", err)
	}

	children := make(map[uuid.UUID][]uuid.UUID)
	for _, t := range terms {
		children[*t.ParentID] = append(children[*t.ParentID], t.ID)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	queue := append([]uuid.UUID(nil), ids...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		queue = append(queue, children[id]...)
	}
	return out, nil
}

// FindByID loads a recipe with its terms regardless of status.
func (s *RecipeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Terms", orderTerms).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &types.NotFoundError{Resource: "recipe", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
