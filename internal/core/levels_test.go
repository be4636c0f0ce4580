package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{-50, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{2500, 6},
		{10000, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 50000; xp += 37 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level must never decrease (xp=%d)", xp)
		prev = level
	}
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(1))
	assert.Equal(t, 100, XPForLevel(2))
	assert.Equal(t, 400, XPForLevel(3))
	assert.Equal(t, 8100, XPForLevel(10))

	// XPForLevel is the inverse floor of LevelForXP
	for level := 1; level <= 60; level++ {
		threshold := XPForLevel(level)
		assert.Equal(t, level, LevelForXP(threshold), "threshold of level %d", level)
		if threshold > 0 {
			assert.Equal(t, level-1, LevelForXP(threshold-1), "one xp below level %d", level)
		}
	}
}

func TestRankForLevel(t *testing.T) {
	tests := []struct {
		level int
		rank  string
	}{
		{1, "Novice Reader"},
		{4, "Novice Reader"},
		{5, "Dedicated Reader"},
		{10, "Bookworm"},
		{15, "Avid Bookworm"},
		{20, "Bibliophile"},
		{30, "Expert Bibliophile"},
		{40, "Master Bibliophile"},
		{49, "Master Bibliophile"},
		{50, "Legendary Reader"},
		{120, "Legendary Reader"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.rank, RankForLevel(tt.level), "level=%d", tt.level)
	}
}

func TestSessionXP(t *testing.T) {
	assert.Equal(t, 0, SessionXP(0))
	assert.Equal(t, 0, SessionXP(9))
	assert.Equal(t, 10, SessionXP(10))
	assert.Equal(t, 20, SessionXP(25))
	assert.Equal(t, 60, SessionXP(60))
	assert.Equal(t, 120, SessionXP(125))
}
