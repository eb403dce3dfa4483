package dto

type OrderItemRequest struct {
	RewardID int `json:"reward_id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gt=0,lte=10"`
}

type DeliveryInfoRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	Province     string `json:"province" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country"`
}

type PlaceOrderRequest struct {
	Items        []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	DeliveryInfo DeliveryInfoRequest `json:"delivery_info" validate:"required"`
}

type RedemptionResponse struct {
	ID         string `json:"id"`
	RewardID   int    `json:"reward_id"`
	Quantity   int    `json:"quantity"`
	PointsUsed int    `json:"points_used"`
	Status     string `json:"status"`
}

type OrderResponse struct {
	ID              string               `json:"id"`
	TotalPoints     int                  `json:"total_points"`
	Status          string               `json:"status"`
	Redemptions     []RedemptionResponse `json:"redemptions"`
	RemainingPoints int                  `json:"remaining_points"`
	CreatedAt       string               `json:"created_at"`
}

type InsufficientPointsResponse struct {
	Error          string `json:"error"`
	UserPoints     int    `json:"user_points"`
	RequiredPoints int    `json:"required_points"`
}
