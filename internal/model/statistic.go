package model

type UserStatistic struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	FuelPoints   float64 `json:"fuel_points"`
	CurrentRank  int     `json:"current_rank"`
	PreviousRank int     `json:"previous_rank"`
}

type GetLeaderBoardRequest struct {
	Period string `json:"period"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetLeaderBoardResponse struct {
	LeaderBoard []UserStatistic `json:"leaderboard"`
}

type RefreshStatusRequest struct{}

type RefreshStatusResponse struct {
	Status string `json:"status"`
}
