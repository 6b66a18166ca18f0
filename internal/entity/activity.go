package entity

import (
	"database/sql"
	"time"

	"github.com/rocketman2178/healthrocket-backend/pkg/enum"
)

type ActivityKind string

var (
	KindChallenge = enum.New(ActivityKind("challenge"))
	KindQuest     = enum.New(ActivityKind("quest"))
	KindContest   = enum.New(ActivityKind("contest"))
)

type ActivityStatus string

var (
	// Registered is used only for fee-gated contests awaiting their start
	// date. Everything else begins at Active.
	ActivityRegistered = enum.New(ActivityStatus("registered"))
	ActivityActive     = enum.New(ActivityStatus("active"))
	ActivityCompleted  = enum.New(ActivityStatus("completed"))
	ActivityCanceled   = enum.New(ActivityStatus("canceled"))
	ActivityExpired    = enum.New(ActivityStatus("expired"))
)

// ActivityDefinition is reference data describing one startable activity.
// Rows are loaded once at startup into the catalog and never mutated.
type ActivityDefinition struct {
	Base

	Name     string
	Kind     ActivityKind
	Tier     int
	Category string

	DurationDays    int
	FuelPointReward int

	VerificationsRequired int
	BoostsRequired        int

	// Contest fields.
	EntryFeeCents int64
	MinPlayers    int
	StartTime     sql.NullTime

	PrerequisiteID sql.NullString

	// Premium definitions bypass the tier-0 foundation gate.
	Premium bool

	// Spec holds the kind-specific payload, decoded by the catalog into a
	// ChallengeSpec, QuestSpec or ContestSpec.
	Spec Map
}

// ActivityInstance is one user's in-flight pursuit of a definition. Rows in
// a terminal status are soft-deleted, so live rows are always registered or
// active.
type ActivityInstance struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	ActivityID string
	Activity   ActivityDefinition `gorm:"foreignKey:ActivityID"`

	Kind   ActivityKind
	Status ActivityStatus

	StartedAt time.Time

	VerificationCount     int
	VerificationsRequired int

	BoostCount     int
	BoostsRequired int

	// PaymentRef holds the authorization handle of a fee-funded contest
	// entry so the payment callback can finalize idempotently.
	PaymentRef sql.NullString
}

// CompletedActivity is the immutable history row appended at completion. It
// is the only feed of the slot-cap counters and of prerequisite checks.
type CompletedActivity struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	ActivityID string
	Activity   ActivityDefinition `gorm:"foreignKey:ActivityID"`

	Kind        ActivityKind
	Category    string
	Tier        int
	FuelPoints  int
	CompletedAt time.Time
}

type FuelSource string

var (
	FuelFromChallenge = enum.New(FuelSource("challenge"))
	FuelFromQuest     = enum.New(FuelSource("quest"))
	FuelFromContest   = enum.New(FuelSource("contest"))
	FuelFromBoost     = enum.New(FuelSource("boost"))
	FuelFromPrize     = enum.New(FuelSource("prize"))
)

// FuelLog records every fuel-point award. Period averages and active-day
// counts are computed from it.
type FuelLog struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Points   int
	Source   FuelSource
	EarnedAt time.Time
}
