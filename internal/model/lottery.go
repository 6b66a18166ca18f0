package model

type Prize struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Pool     string `json:"pool"`
	Period   string `json:"period"`
	Quantity int    `json:"quantity"`
	Claimed  int    `json:"claimed"`
	Priority int    `json:"priority"`
}

type PrizeDistribution struct {
	PrizeID   string `json:"prize_id"`
	UserID    string `json:"user_id"`
	Pool      string `json:"pool"`
	Period    string `json:"period"`
	AwardedAt string `json:"awarded_at"`
}

type DrawPrizesRequest struct {
	Period string `json:"period"`
}

type DrawPrizesResponse struct {
	Distributions []PrizeDistribution `json:"distributions"`
}

type GetDistributionsRequest struct {
	Period string `json:"period"`
}

type GetDistributionsResponse struct {
	Distributions []PrizeDistribution `json:"distributions"`
}
