package model

type Activity struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Kind                  string `json:"kind"`
	Tier                  int    `json:"tier"`
	Category              string `json:"category"`
	DurationDays          int    `json:"duration_days"`
	FuelPointReward       int    `json:"fuel_point_reward"`
	VerificationsRequired int    `json:"verifications_required"`
	BoostsRequired        int    `json:"boosts_required"`
	EntryFeeCents         int64  `json:"entry_fee_cents"`
	MinPlayers            int    `json:"min_players"`
	StartTime             string `json:"start_time,omitempty"`
	PrerequisiteID        string `json:"prerequisite_id,omitempty"`
	Premium               bool   `json:"premium"`
}

type ActivityInstance struct {
	ID                    string  `json:"id"`
	ActivityID            string  `json:"activity_id"`
	Kind                  string  `json:"kind"`
	Status                string  `json:"status"`
	StartedAt             string  `json:"started_at"`
	VerificationCount     int     `json:"verification_count"`
	VerificationsRequired int     `json:"verifications_required"`
	BoostCount            int     `json:"boost_count"`
	BoostsRequired        int     `json:"boosts_required"`
	ProgressPercent       float64 `json:"progress_percent"`
	DaysRemaining         int     `json:"days_remaining"`
	DaysUntilStart        int     `json:"days_until_start,omitempty"`
}

type GetCatalogRequest struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Tier     int    `json:"tier"`
}

type GetCatalogResponse struct {
	Activities []Activity `json:"activities"`
}

type StartActivityRequest struct {
	ActivityID string `json:"activity_id"`

	// PaymentHandle resumes a previously pending fee authorization.
	PaymentHandle string `json:"payment_handle,omitempty"`
}

type StartActivityResponse struct {
	Instance ActivityInstance `json:"instance"`

	// PendingPaymentHandle is set instead of Instance when the fee
	// authorization has not settled yet.
	PendingPaymentHandle string `json:"pending_payment_handle,omitempty"`
}

type CancelActivityRequest struct {
	ActivityID string `json:"activity_id"`
}

type CancelActivityResponse struct{}

type CompleteActivityRequest struct {
	ActivityID string `json:"activity_id"`
}

type CompleteActivityResponse struct {
	FuelPoints int `json:"fuel_points"`
}

type SubmitVerificationRequest struct {
	ActivityID string `json:"activity_id"`
	Proof      string `json:"proof"`
}

type SubmitVerificationResponse struct {
	VerificationCount int  `json:"verification_count"`
	AutoCompleted     bool `json:"auto_completed"`
	FuelPoints        int  `json:"fuel_points,omitempty"`
}

type GetMyActivitiesRequest struct{}

type GetMyActivitiesResponse struct {
	Instances []ActivityInstance `json:"instances"`
}

type ContestPayout struct {
	UserID      string `json:"user_id"`
	Rank        int    `json:"rank"`
	AmountCents int64  `json:"amount_cents"`
	Refund      bool   `json:"refund"`
}

type SettleContestRequest struct {
	ActivityID string `json:"activity_id"`
}

type SettleContestResponse struct {
	Payouts []ContestPayout `json:"payouts"`
}
