package dto

type ActivityResponse struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Points      int      `json:"points"`
	Items       []string `json:"items"`
	Verified    bool     `json:"verified"`
	Date        string   `json:"date"`
}

type DashboardResponse struct {
	User           UserResponse       `json:"user"`
	RecentActivity []ActivityResponse `json:"recent_activity"`
}
