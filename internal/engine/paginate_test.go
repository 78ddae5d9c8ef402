package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-data-gateway/models"
)

func makeRecords(n int) []models.Record {
	out := make([]models.Record, n)
	for i := range out {
		out[i] = models.Record{"id": strconv.Itoa(i)}
	}
	return out
}

func TestPaginate_DefaultLimit(t *testing.T) {
	page := Paginate(makeRecords(100), 0, 0)

	assert.Len(t, page.Data, DefaultLimit)
	assert.Equal(t, 100, page.Total)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.True(t, page.HasMore)
}

func TestPaginate_Window(t *testing.T) {
	page := Paginate(makeRecords(10), 3, 4)

	assert.Len(t, page.Data, 3)
	assert.Equal(t, "4", page.Data[0].ID())
	assert.Equal(t, 10, page.Total)
	assert.True(t, page.HasMore)
}

func TestPaginate_LastPageHasMoreFalse(t *testing.T) {
	page := Paginate(makeRecords(10), 5, 5)

	assert.Len(t, page.Data, 5)
	assert.False(t, page.HasMore)
}

func TestPaginate_OffsetBeyondEnd(t *testing.T) {
	page := Paginate(makeRecords(3), 10, 50)

	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.Total)
	assert.False(t, page.HasMore)
}

func TestPaginate_HasMoreBoundary(t *testing.T) {
	// offset+limit == total is exactly the last page
	page := Paginate(makeRecords(30), 10, 20)

	assert.False(t, page.HasMore)

	page = Paginate(makeRecords(31), 10, 20)
	assert.True(t, page.HasMore)
}
