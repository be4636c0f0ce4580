package core

import (
	"time"
)

// StreakResult is the outcome of advancing a reading streak
type StreakResult struct {
	Streak        int
	LongestStreak int
	// Extended is true only when the streak grew by one day, which is
	// what fires the streak_updated achievement check.
	Extended bool
}

// AdvanceStreak applies one day of reading to a streak state machine.
// Day boundaries are server-local calendar days:
//   - same day as the last read: no change
//   - exactly the next day: streak extends by one
//   - anything else (gap, clock skew, first read ever): reset to 1
func AdvanceStreak(currentStreak, longestStreak int, lastReadDate *time.Time, now time.Time) StreakResult {
	today := truncateDay(now)

	if lastReadDate == nil {
		return StreakResult{Streak: 1, LongestStreak: max(longestStreak, 1)}
	}

	last := truncateDay(*lastReadDate)
	switch {
	case last.Equal(today):
		return StreakResult{Streak: currentStreak, LongestStreak: longestStreak}
	case last.AddDate(0, 0, 1).Equal(today):
		streak := currentStreak + 1
		return StreakResult{
			Streak:        streak,
			LongestStreak: max(longestStreak, streak),
			Extended:      true,
		}
	default:
		return StreakResult{Streak: 1, LongestStreak: max(longestStreak, 1)}
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
