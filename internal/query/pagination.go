package query

import "github.com/pageza/recipe-carousel/backend/internal/types"

// Pagination is the page state reported with every listing.
type Pagination = types.Pagination

// Paginate derives page state from the total match count. The current page
// is clamped into range; a request past the end is flagged, not rejected.
func Paginate(totalMatches int64, pageSize, requestedPage int) Pagination {
	pageSize = ClampPageSize(pageSize)
	if totalMatches < 0 {
		totalMatches = 0
	}

	totalPages := int((totalMatches + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	current := ClampPage(requestedPage)
	outOfRange := current > totalPages
	if outOfRange {
		current = totalPages
	}

	return Pagination{
		Total:         totalMatches,
		TotalPages:    totalPages,
		CurrentPage:   current,
		RequestedPage: requestedPage,
		PageSize:      pageSize,
		HasNext:       current < totalPages,
		HasPrev:       current > 1,
		OutOfRange:    outOfRange,
	}
}
