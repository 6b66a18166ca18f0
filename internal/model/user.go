package model

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	PlanTier       string `json:"plan_tier"`
	BurnStreak     int    `json:"burn_streak"`
	ContestCredits int    `json:"contest_credits"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type StatusHistoryEntry struct {
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
}

type GetStatusHistoryRequest struct{}

type GetStatusHistoryResponse struct {
	History []StatusHistoryEntry `json:"history"`
}
