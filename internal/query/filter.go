// Package query turns listing input into a store-agnostic query descriptor
// and pagination state. Nothing here performs I/O.
package query

import (
	"strings"

	"github.com/pageza/recipe-carousel/backend/internal/models"
)

// RawTermInput holds taxonomy filter values exactly as received. Each value
// may itself be a comma separated list.
type RawTermInput struct {
	Categories []string
	Cuisines   []string
	Diets      []string
}

// TermFilter is the normalised, de-duplicated slug set per taxonomy.
type TermFilter struct {
	Categories []string
	Cuisines   []string
	Diets      []string
}

// Empty reports whether no taxonomy carries a slug.
func (f TermFilter) Empty() bool {
	return len(f.Categories) == 0 && len(f.Cuisines) == 0 && len(f.Diets) == 0
}

// ByTaxonomy returns the slugs for each taxonomy in fixed order, skipping
// empty ones.
func (f TermFilter) ByTaxonomy() []TaxonomySlugs {
	var out []TaxonomySlugs
	for _, ts := range []TaxonomySlugs{
		{Taxonomy: models.TaxonomyCategory, Slugs: f.Categories},
		{Taxonomy: models.TaxonomyCuisine, Slugs: f.Cuisines},
		{Taxonomy: models.TaxonomyDiet, Slugs: f.Diets},
	} {
		if len(ts.Slugs) > 0 {
			out = append(out, ts)
		}
	}
	return out
}

type TaxonomySlugs struct {
	Taxonomy string
	Slugs    []string
}

// BuildTermFilter normalises raw taxonomy input. Array and comma separated
// forms produce the same set. Unknown slugs are kept; resolving them is the
// store's job.
func BuildTermFilter(raw RawTermInput) (TermFilter, error) {
	var (
		f   TermFilter
		err error
	)
	if f.Categories, err = normalizeSlugs("categorySlugs", raw.Categories); err != nil {
		return TermFilter{}, err
	}
	if f.Cuisines, err = normalizeSlugs("cuisineSlugs", raw.Cuisines); err != nil {
		return TermFilter{}, err
	}
	if f.Diets, err = normalizeSlugs("dietSlugs", raw.Diets); err != nil {
		return TermFilter{}, err
	}
	return f, nil
}

func normalizeSlugs(field string, values []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			slug, err := cleanText(field, part)
			if err != nil {
				return nil, err
			}
			// Stored slugs are lowercase; case is the only rewrite.
			slug = strings.ToLower(slug)
			if slug == "" {
				continue
			}
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			out = append(out, slug)
		}
	}
	return out, nil
}
