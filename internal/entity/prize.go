package entity

import (
	"time"

	"github.com/rocketman2178/healthrocket-backend/pkg/enum"
)

type PrizePool string

var (
	HeroPool   = enum.New(PrizePool("hero"))
	LegendPool = enum.New(PrizePool("legend"))
)

// Prize is one award line in a period's prize pool. Claimed never exceeds
// Quantity; the increment is guarded at the repository.
type Prize struct {
	Base

	Name string
	Pool PrizePool

	// Period keys the monthly draw, e.g. "March:2024".
	Period string

	Quantity int
	Claimed  int
	Priority int
}

// PrizeDistribution is the immutable record of one prize handed to one
// player during a draw run.
type PrizeDistribution struct {
	Base

	PrizeID string `gorm:"uniqueIndex:idx_distribution_once"`
	Prize   Prize  `gorm:"foreignKey:PrizeID"`

	UserID string `gorm:"uniqueIndex:idx_distribution_once"`
	User   User   `gorm:"foreignKey:UserID"`

	Pool      PrizePool
	Period    string
	AwardedAt time.Time
}

// ContestPayout records one player's share of a settled contest fee pool.
type ContestPayout struct {
	Base

	ActivityID string             `gorm:"uniqueIndex:idx_payout_once"`
	Activity   ActivityDefinition `gorm:"foreignKey:ActivityID"`

	UserID string `gorm:"uniqueIndex:idx_payout_once"`
	User   User   `gorm:"foreignKey:UserID"`

	Rank        int
	AmountCents int64
	Refund      bool
	SettledAt   time.Time
}
