// Package render produces the HTML listing page and the grid and pagination
// fragments returned by the async refresh endpoint.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/recipe-carousel/backend/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// maxCardCategories is how many category names a card shows.
const maxCardCategories = 2

// SortOption is one entry of the sort dropdown.
type SortOption struct {
	Value string
	Label string
}

// SortOptions lists the sort keys in dropdown order.
var SortOptions = []SortOption{
	{"date_desc", "Newest"},
	{"date_asc", "Oldest"},
	{"title_asc", "A–Z"},
	{"title_desc", "Z–A"},
	{"rating_desc", "Top rated"},
	{"rating_asc", "Lowest rated"},
	{"likes_desc", "Most liked"},
	{"likes_asc", "Least liked"},
}

// FormState echoes the submitted controls back into the page.
type FormState struct {
	Search     string
	Category   string
	Cuisine    string
	Diet       string
	Difficulty string
	PrepMin    int
	PrepMax    int
	Sort       string
	PageSize   int
}

// PageData is everything the full listing page needs.
type PageData struct {
	Title      string
	Action     string
	RefreshURL string
	Form       FormState
	Categories []types.TermView
	Cuisines   []types.TermView
	Diets      []types.TermView
	Result     *types.ListResult
	// Query holds the request parameters reused by pagination links.
	Query url.Values
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

type pager struct {
	TotalPages int
	Prev       *PageLink
	Next       *PageLink
	Links      []PageLink
}

type selectField struct {
	Name        string
	Placeholder string
	Options     []types.TermView
	Selected    string
}

type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("render").Funcs(template.FuncMap{
		"stars":           Stars,
		"firstCategories": firstCategories,
		"selectField": func(name, placeholder string, options []types.TermView, selected string) selectField {
			return selectField{Name: name, Placeholder: placeholder, Options: options, Selected: selected}
		},
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes the full listing page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	view := struct {
		PageData
		Items        []types.RecipeSummary
		Pager        pager
		SortOptions  []SortOption
		Difficulties []string
	}{
		PageData:     data,
		SortOptions:  SortOptions,
		Difficulties: []string{"Easy", "Medium", "Hard"},
	}
	if data.Result != nil {
		view.Items = data.Result.Items
		view.Pager = buildPager(data.Result.Pagination, data.Action, data.Query)
	}
	return r.tmpl.ExecuteTemplate(w, "page", view)
}

// Grid renders the card grid, or the empty-state notice.
func (r *Renderer) Grid(items []types.RecipeSummary) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "grid", items); err != nil {
		return "", fmt.Errorf("failed to render grid: %w", err)
	}
	return buf.String(), nil
}

// Pagination renders page links for p. Links point at base with the given
// query, the page parameter replaced. Single-page results render nothing.
func (r *Renderer) Pagination(p types.Pagination, base string, query url.Values) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "pagination", buildPager(p, base, query)); err != nil {
		return "", fmt.Errorf("failed to render pagination: %w", err)
	}
	return buf.String(), nil
}

// Stars renders a 0-5 average as filled and empty stars.
func Stars(avg float64) string {
	n := int(math.Round(avg))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func firstCategories(terms []types.TermRef) []types.TermRef {
	if len(terms) > maxCardCategories {
		return terms[:maxCardCategories]
	}
	return terms
}

func buildPager(p types.Pagination, base string, query url.Values) pager {
	pg := pager{TotalPages: p.TotalPages}
	if p.TotalPages <= 1 {
		return pg
	}
	link := func(n int) PageLink {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return PageLink{Number: n, Href: base + "?" + q.Encode(), Current: n == p.CurrentPage}
	}
	for n := 1; n <= p.TotalPages; n++ {
		pg.Links = append(pg.Links, link(n))
	}
	if p.HasPrev {
		prev := link(p.CurrentPage - 1)
		pg.Prev = &prev
	}
	if p.HasNext {
		next := link(p.CurrentPage + 1)
		pg.Next = &next
	}
	return pg
}
