package records

import (
	"cmp"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaging(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"absent", "", "", 1, 10},
		{"explicit", "3", "25", 3, 25},
		{"non-numeric", "abc", "ten", 1, 10},
		{"zero", "0", "0", 1, 10},
		{"negative", "-2", "-5", 1, 10},
		{"float", "2.5", "1e3", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ParsePaging(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPaginate_TwentyFiveItems(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		page     int
		wantLen  int
		wantNext bool
		wantPrev bool
		wantHead int
	}{
		{page: 1, wantLen: 10, wantNext: true, wantPrev: false, wantHead: 0},
		{page: 2, wantLen: 10, wantNext: true, wantPrev: true, wantHead: 10},
		{page: 3, wantLen: 5, wantNext: false, wantPrev: true, wantHead: 20},
		{page: 4, wantLen: 0, wantNext: false, wantPrev: true},
	}

	for _, tt := range tests {
		p := Paginate(items, nil, tt.page, 10)

		assert.Len(t, p.Items, tt.wantLen, "page %d", tt.page)
		assert.NotNil(t, p.Items)
		assert.Equal(t, Pagination{
			Page:       tt.page,
			Limit:      10,
			Total:      25,
			TotalPages: 3,
			HasNext:    tt.wantNext,
			HasPrev:    tt.wantPrev,
		}, p.Pagination)
		if tt.wantLen > 0 {
			assert.Equal(t, tt.wantHead, p.Items[0])
		}
	}
}

func TestPaginate_SortsWithoutTouchingInput(t *testing.T) {
	items := []int{1, 3, 2}

	p := Paginate(items, func(a, b int) int { return cmp.Compare(b, a) }, 1, 10)

	assert.Equal(t, []int{3, 2, 1}, p.Items)
	assert.Equal(t, []int{1, 3, 2}, items)
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string(nil), nil, 1, 10)

	assert.Empty(t, p.Items)
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, p.Pagination)
}

func TestPaginate_CoercesNonPositive(t *testing.T) {
	p := Paginate([]int{1, 2, 3}, nil, 0, -1)

	assert.Equal(t, 1, p.Pagination.Page)
	assert.Equal(t, 10, p.Pagination.Limit)
	assert.Len(t, p.Items, 3)
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	p := Paginate([]int{1, 2, 3}, nil, 1<<62, 1<<62)

	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Pagination.TotalPages)
	assert.False(t, p.Pagination.HasNext)
}

func TestPaginate_HugeLimitPastTheEnd(t *testing.T) {
	p := Paginate([]int{1, 2, 3, 4, 5}, nil, 2, math.MaxInt)

	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 1, p.Pagination.TotalPages)
	assert.True(t, p.Pagination.HasPrev)

	first := Paginate([]int{1, 2, 3, 4, 5}, nil, 1, math.MaxInt)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, first.Items)
}
