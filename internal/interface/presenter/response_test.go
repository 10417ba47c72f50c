package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 2, 3)
	assert.Equal(t, 2, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(1, 2, 3)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(0, 20, 0)
	assert.Zero(t, p.TotalPages)
	assert.False(t, p.HasNext)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t,
		`attachment; filename="merged.pdf"; filename*=UTF-8''merged.pdf`,
		ContentDisposition("merged.pdf"))
	assert.Equal(t,
		`attachment; filename="__.pdf"; filename*=UTF-8''%E8%B3%87%E6%96%99.pdf`,
		ContentDisposition("資料.pdf"))
}
