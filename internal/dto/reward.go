package dto

type RewardResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}
