package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{StatusWantToRead, StatusWantToRead, true},
		{StatusWantToRead, StatusCurrentlyReading, true},
		{StatusWantToRead, StatusFinished, true},
		{StatusCurrentlyReading, StatusFinished, true},
		{StatusCurrentlyReading, StatusWantToRead, true},
		{StatusFinished, StatusCurrentlyReading, true}, // re-read
		{StatusFinished, StatusWantToRead, false},
		{"bogus", StatusFinished, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPercentComplete(t *testing.T) {
	p := &ReadingProgress{CurrentPage: 50, TotalPages: 200}
	assert.Equal(t, 25, p.PercentComplete())

	p = &ReadingProgress{CurrentPage: 250, TotalPages: 200}
	assert.Equal(t, 100, p.PercentComplete(), "past the last page clamps to 100")

	p = &ReadingProgress{CurrentPage: 50, TotalPages: 0}
	assert.Equal(t, 0, p.PercentComplete(), "unknown page count reads as 0")

	p = &ReadingProgress{CurrentPage: -10, TotalPages: 200}
	assert.Equal(t, 0, p.PercentComplete())
}

func TestIsValidReadingStatus(t *testing.T) {
	assert.True(t, IsValidReadingStatus(StatusWantToRead))
	assert.True(t, IsValidReadingStatus(StatusCurrentlyReading))
	assert.True(t, IsValidReadingStatus(StatusFinished))
	assert.False(t, IsValidReadingStatus("abandoned"))
	assert.False(t, IsValidReadingStatus(""))
}
