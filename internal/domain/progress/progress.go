package progress

import (
	"time"

	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
)

const (
	questChallengeWeight = 0.6
	questBoostWeight     = 0.4
)

// DaysRemaining counts the whole days left in an activity window. Both ends
// are midnight-normalized, and the result never goes negative no matter how
// stale the row is.
func DaysRemaining(now, startedAt time.Time, durationDays int) int {
	elapsed := dateutil.DaysBetween(startedAt, now)
	remaining := durationDays - elapsed
	if remaining < 0 {
		return 0
	}

	return remaining
}

// DaysUntilStart is zero once now has reached startTime.
func DaysUntilStart(now, startTime time.Time) int {
	if !now.Before(startTime) {
		return 0
	}

	days := dateutil.DaysBetween(now, startTime)
	if days < 0 {
		return 0
	}

	return days
}

func Expired(now, startedAt time.Time, durationDays int) bool {
	return dateutil.DaysBetween(startedAt, now) >= durationDays
}

func subPercent(done, required int) float64 {
	if required <= 0 {
		return 100
	}

	percent := float64(done) / float64(required) * 100
	if percent > 100 {
		return 100
	}

	return percent
}

// CountPercent is the progress of a verification-counted activity.
func CountPercent(count, required int) float64 {
	return subPercent(count, required)
}

// QuestPercent blends the two quest sub-requirements, challenges weighted at
// 60 percent and boosts at 40.
func QuestPercent(challengeDone, challengeRequired, boostDone, boostRequired int) float64 {
	return questChallengeWeight*subPercent(challengeDone, challengeRequired) +
		questBoostWeight*subPercent(boostDone, boostRequired)
}
