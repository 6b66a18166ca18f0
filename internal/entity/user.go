package entity

import (
	"database/sql"
	"time"

	"github.com/rocketman2178/healthrocket-backend/pkg/enum"
)

type UserStatus string

var (
	Commander = enum.New(UserStatus("commander"))
	Hero      = enum.New(UserStatus("hero"))
	Legend    = enum.New(UserStatus("legend"))
)

type PlanTier string

var (
	PlanFree = enum.New(PlanTier("free"))
	PlanCore = enum.New(PlanTier("core"))
	PlanPro  = enum.New(PlanTier("pro"))
)

// PrizeEligible reports whether the plan participates in the monthly prize
// draw. Free accounts earn points and statuses but never prizes.
func (p PlanTier) PrizeEligible() bool {
	return p == PlanCore || p == PlanPro
}

type User struct {
	Base

	Name string `gorm:"unique"`

	Status          UserStatus
	StatusChangedAt time.Time

	PlanTier PlanTier

	// BurnStreak counts consecutive days with at least one fuel point earned.
	BurnStreak   int
	LastEarnedAt sql.NullTime

	ContestCredits int
}

type StatusHistory struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Status    UserStatus
	StartedAt time.Time
	EndedAt   sql.NullTime
}
