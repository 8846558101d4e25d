package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateRoundsUp(t *testing.T) {
	p := Paginate(2, 20, 41)
	assert.Equal(t, int64(2), p.CurrentPage)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.Equal(t, int64(41), p.TotalItems)
	assert.Equal(t, int64(20), p.ItemsPerPage)
}

func TestPaginateExactMultiple(t *testing.T) {
	p := Paginate(1, 20, 40)
	assert.Equal(t, int64(2), p.TotalPages)
}

func TestPaginateEmptyResult(t *testing.T) {
	p := Paginate(1, 20, 0)
	assert.Equal(t, int64(0), p.TotalPages)
	assert.Equal(t, int64(0), p.TotalItems)
	assert.Equal(t, int64(1), p.CurrentPage)
}

func TestPaginateClampsOutOfRangePage(t *testing.T) {
	p := Paginate(99, 20, 41)
	assert.Equal(t, int64(3), p.CurrentPage)
	assert.Equal(t, int64(3), p.TotalPages)
	// bounds hold for any page/limit combination
	assert.LessOrEqual(t, p.CurrentPage*p.ItemsPerPage, p.TotalItems+p.ItemsPerPage)
}
