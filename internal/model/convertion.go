package model

import (
	"time"

	"github.com/rocketman2178/healthrocket-backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano
const DefaultDateLayout string = "2006-01-02"

func ConvertActivity(def *entity.ActivityDefinition) Activity {
	if def == nil {
		return Activity{}
	}

	startTime := ""
	if def.StartTime.Valid {
		startTime = def.StartTime.Time.Format(DefaultTimeLayout)
	}

	return Activity{
		ID:                    def.ID,
		Name:                  def.Name,
		Kind:                  string(def.Kind),
		Tier:                  def.Tier,
		Category:              def.Category,
		DurationDays:          def.DurationDays,
		FuelPointReward:       def.FuelPointReward,
		VerificationsRequired: def.VerificationsRequired,
		BoostsRequired:        def.BoostsRequired,
		EntryFeeCents:         def.EntryFeeCents,
		MinPlayers:            def.MinPlayers,
		StartTime:             startTime,
		PrerequisiteID:        def.PrerequisiteID.String,
		Premium:               def.Premium,
	}
}

func ConvertActivityInstance(instance *entity.ActivityInstance) ActivityInstance {
	if instance == nil {
		return ActivityInstance{}
	}

	return ActivityInstance{
		ID:                    instance.ID,
		ActivityID:            instance.ActivityID,
		Kind:                  string(instance.Kind),
		Status:                string(instance.Status),
		StartedAt:             instance.StartedAt.Format(DefaultTimeLayout),
		VerificationCount:     instance.VerificationCount,
		VerificationsRequired: instance.VerificationsRequired,
		BoostCount:            instance.BoostCount,
		BoostsRequired:        instance.BoostsRequired,
	}
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:             user.ID,
		Name:           user.Name,
		Status:         string(user.Status),
		PlanTier:       string(user.PlanTier),
		BurnStreak:     user.BurnStreak,
		ContestCredits: user.ContestCredits,
	}
}

func ConvertBoost(boost *entity.Boost) Boost {
	if boost == nil {
		return Boost{}
	}

	return Boost{
		ID:         boost.ID,
		Name:       boost.Name,
		Category:   boost.Category,
		FuelPoints: boost.FuelPoints,
	}
}

func ConvertPrizeDistribution(d *entity.PrizeDistribution) PrizeDistribution {
	if d == nil {
		return PrizeDistribution{}
	}

	return PrizeDistribution{
		PrizeID:   d.PrizeID,
		UserID:    d.UserID,
		Pool:      string(d.Pool),
		Period:    d.Period,
		AwardedAt: d.AwardedAt.Format(DefaultTimeLayout),
	}
}
