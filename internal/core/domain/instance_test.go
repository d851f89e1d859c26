package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleInstance() *Instance {
	return &Instance{
		NumBooks:     5,
		NumLibraries: 3,
		NumDays:      4,
		BookScores:   []int{1, 2, 3, 4, 5},
		Libraries: []Library{
			{ID: 0, BookIDs: []int{0, 1, 2}, TotalBooks: 3, SignupDays: 1, BooksPerDay: 1},
			{ID: 1, BookIDs: []int{1, 2}, TotalBooks: 2, SignupDays: 1, BooksPerDay: 1},
			{ID: 2, BookIDs: []int{2, 4}, TotalBooks: 2, SignupDays: 1, BooksPerDay: 1},
		},
	}
}

func TestInstance_TotalBookSlots(t *testing.T) {
	assert.Equal(t, 7, sampleInstance().TotalBookSlots())
}

func TestInstance_LibrariesPerBook(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 0, 1}, sampleInstance().LibrariesPerBook())
}

func TestInstance_LibrariesPerBook_NegativeBookCount(t *testing.T) {
	inst := &Instance{NumBooks: -1, Libraries: []Library{{ID: 0, BookIDs: []int{0}}}}

	assert.Empty(t, inst.LibrariesPerBook())
	assert.Equal(t, 0, inst.DuplicatedBooks())
}

func TestInstance_LibrariesPerBook_CountsLibrariesNotOccurrences(t *testing.T) {
	inst := &Instance{
		NumBooks: 2,
		Libraries: []Library{
			{ID: 0, BookIDs: []int{0, 0, 0}},
			{ID: 1, BookIDs: []int{1, 7, -1}},
		},
	}

	assert.Equal(t, []int{1, 1}, inst.LibrariesPerBook())
	assert.Equal(t, 0, inst.DuplicatedBooks())
}

func TestInstance_DuplicatedBooks(t *testing.T) {
	assert.Equal(t, 2, sampleInstance().DuplicatedBooks())
}
