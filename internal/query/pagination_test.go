package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		requested int
		want      Pagination
	}{
		{
			name: "no matches", total: 0, pageSize: 6, requested: 1,
			want: Pagination{Total: 0, TotalPages: 1, CurrentPage: 1, RequestedPage: 1, PageSize: 6},
		},
		{
			name: "last partial page", total: 13, pageSize: 6, requested: 3,
			want: Pagination{Total: 13, TotalPages: 3, CurrentPage: 3, RequestedPage: 3, PageSize: 6, HasPrev: true},
		},
		{
			name: "middle page", total: 13, pageSize: 6, requested: 2,
			want: Pagination{Total: 13, TotalPages: 3, CurrentPage: 2, RequestedPage: 2, PageSize: 6, HasNext: true, HasPrev: true},
		},
		{
			name: "past the end", total: 13, pageSize: 6, requested: 9,
			want: Pagination{Total: 13, TotalPages: 3, CurrentPage: 3, RequestedPage: 9, PageSize: 6, HasPrev: true, OutOfRange: true},
		},
		{
			name: "exact multiple", total: 12, pageSize: 6, requested: 1,
			want: Pagination{Total: 12, TotalPages: 2, CurrentPage: 1, RequestedPage: 1, PageSize: 6, HasNext: true},
		},
		{
			name: "zero page size clamps to one", total: 3, pageSize: 0, requested: 1,
			want: Pagination{Total: 3, TotalPages: 3, CurrentPage: 1, RequestedPage: 1, PageSize: 1, HasNext: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.total, tt.pageSize, tt.requested))
		})
	}
}

func TestPaginateInvariants(t *testing.T) {
	for total := int64(0); total < 60; total += 7 {
		for size := 1; size <= 24; size += 5 {
			for page := -1; page < 12; page++ {
				p := Paginate(total, size, page)
				assert.GreaterOrEqual(t, p.TotalPages, 1)
				assert.GreaterOrEqual(t, p.CurrentPage, 1)
				assert.LessOrEqual(t, p.CurrentPage, p.TotalPages)
				assert.Equal(t, p.CurrentPage < p.TotalPages, p.HasNext)
				assert.Equal(t, p.CurrentPage > 1, p.HasPrev)
			}
		}
	}
}
