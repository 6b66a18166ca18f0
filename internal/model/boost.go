package model

type Boost struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	FuelPoints int    `json:"fuel_points"`
}

type GetBoostsRequest struct{}

type GetBoostsResponse struct {
	Boosts []Boost `json:"boosts"`
}

type CompleteBoostRequest struct {
	BoostID string `json:"boost_id"`
}

type CompleteBoostResponse struct {
	FuelPoints int `json:"fuel_points"`
	BurnStreak int `json:"burn_streak"`
}
