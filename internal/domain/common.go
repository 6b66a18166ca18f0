package domain

import (
	"database/sql"
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/pkg/dateutil"
	"github.com/rocketman2178/healthrocket-backend/pkg/enum"
)

func enumActivityKind(s string) (entity.ActivityKind, error) {
	return enum.ToEnum[entity.ActivityKind](s)
}

func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// nextBurnStreak extends the streak when the previous earn was yesterday,
// keeps it for a second earn today, and resets it after any gap.
func nextBurnStreak(user *entity.User, now time.Time) int {
	if !user.LastEarnedAt.Valid {
		return 1
	}

	switch dateutil.DaysBetween(user.LastEarnedAt.Time, now) {
	case 0:
		if user.BurnStreak == 0 {
			return 1
		}
		return user.BurnStreak
	case 1:
		return user.BurnStreak + 1
	default:
		return 1
	}
}
