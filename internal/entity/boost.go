package entity

import "time"

// Boost is a daily micro-action worth a small fuel-point award. Boosts are
// reference data like activity definitions but never create instances; a
// completion row per day is enough.
type Boost struct {
	Base

	Name       string
	Category   string
	FuelPoints int
}

type BoostCompletion struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_boost_completion_day"`
	User   User   `gorm:"foreignKey:UserID"`

	BoostID string `gorm:"uniqueIndex:idx_boost_completion_day"`
	Boost   Boost  `gorm:"foreignKey:BoostID"`

	// CompletedOn is the completion day in YYYY-MM-DD form; one row per
	// user, boost and day.
	CompletedOn string `gorm:"uniqueIndex:idx_boost_completion_day"`

	CompletedAt time.Time
}
