// Package core - Core Business Logic
// Protocol-agnostic services for reading sessions, gamification,
// progress tracking and the social graph.
package core

import (
	"math"
)

// LevelForXP computes a user's level from total XP.
// level = floor(sqrt(xp/100)) + 1, so level 1 runs 0-99 XP,
// level 2 needs 100, level 3 needs 400, level 4 needs 900.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100.0)) + 1
}

// XPForLevel returns the total XP required to reach a level
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return n * n * 100
}

// RankForLevel maps a level to its reader rank title
func RankForLevel(level int) string {
	switch {
	case level >= 50:
		return "Legendary Reader"
	case level >= 40:
		return "Master Bibliophile"
	case level >= 30:
		return "Expert Bibliophile"
	case level >= 20:
		return "Bibliophile"
	case level >= 15:
		return "Avid Bookworm"
	case level >= 10:
		return "Bookworm"
	case level >= 5:
		return "Dedicated Reader"
	default:
		return "Novice Reader"
	}
}

// SessionXP converts reading minutes to XP in 10-minute blocks:
// 10 XP per full 10 minutes read, partial blocks earn nothing.
func SessionXP(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes / 10) * 10
}
