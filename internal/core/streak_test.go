package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestAdvanceStreakFirstRead(t *testing.T) {
	result := AdvanceStreak(0, 0, nil, day(2026, time.March, 10, 21))

	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 1, result.LongestStreak)
	assert.False(t, result.Extended)
}

func TestAdvanceStreakSameDay(t *testing.T) {
	// Morning read, then evening read the same day
	last := day(2026, time.March, 10, 7)
	result := AdvanceStreak(4, 9, &last, day(2026, time.March, 10, 23))

	assert.Equal(t, 4, result.Streak)
	assert.Equal(t, 9, result.LongestStreak)
	assert.False(t, result.Extended)
}

func TestAdvanceStreakNextDay(t *testing.T) {
	last := day(2026, time.March, 10, 23)
	result := AdvanceStreak(4, 4, &last, day(2026, time.March, 11, 0))

	assert.Equal(t, 5, result.Streak)
	assert.Equal(t, 5, result.LongestStreak, "longest follows the current streak when passed")
	assert.True(t, result.Extended)
}

func TestAdvanceStreakNextDayKeepsLongest(t *testing.T) {
	last := day(2026, time.March, 10, 12)
	result := AdvanceStreak(2, 30, &last, day(2026, time.March, 11, 12))

	assert.Equal(t, 3, result.Streak)
	assert.Equal(t, 30, result.LongestStreak)
	assert.True(t, result.Extended)
}

func TestAdvanceStreakGapResets(t *testing.T) {
	last := day(2026, time.March, 10, 12)
	result := AdvanceStreak(15, 15, &last, day(2026, time.March, 13, 12))

	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 15, result.LongestStreak)
	assert.False(t, result.Extended)
}

func TestAdvanceStreakClockSkewResets(t *testing.T) {
	// A last-read date in the future counts as a gap, not a crash
	last := day(2026, time.March, 20, 12)
	result := AdvanceStreak(5, 8, &last, day(2026, time.March, 13, 12))

	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 8, result.LongestStreak)
	assert.False(t, result.Extended)
}

func TestAdvanceStreakMonthBoundary(t *testing.T) {
	last := day(2026, time.January, 31, 22)
	result := AdvanceStreak(10, 10, &last, day(2026, time.February, 1, 6))

	assert.Equal(t, 11, result.Streak)
	assert.True(t, result.Extended)
}
