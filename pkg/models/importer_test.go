package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShelfToStatus(t *testing.T) {
	assert.Equal(t, StatusFinished, ShelfToStatus("read"))
	assert.Equal(t, StatusCurrentlyReading, ShelfToStatus("currently-reading"))
	assert.Equal(t, StatusWantToRead, ShelfToStatus("to-read"))
	// Custom Goodreads shelves fall back to the wishlist
	assert.Equal(t, StatusWantToRead, ShelfToStatus("favorites-2024"))
	assert.Equal(t, StatusWantToRead, ShelfToStatus(""))
}
