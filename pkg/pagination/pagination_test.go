package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"explicit", "?page=3&per_page=5", Params{Page: 3, PerPage: 5, Offset: 10}},
		{"negative page", "?page=-1", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"per_page too large", "?per_page=500", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"garbage", "?page=abc&per_page=x", Params{Page: 1, PerPage: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	first := Paginate(all, Params{Page: 1, PerPage: 2, Offset: 0})
	assert.Equal(t, []int{1, 2}, first.Data)
	assert.Equal(t, 5, first.TotalCount)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := Paginate(all, Params{Page: 3, PerPage: 2, Offset: 4})
	assert.Equal(t, []int{5}, last.Data)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
}

func TestPaginate_BeyondEnd(t *testing.T) {
	res := Paginate([]string{"a"}, Params{Page: 4, PerPage: 10, Offset: 30})

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 1, res.TotalPages)
}
