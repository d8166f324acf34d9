package dto

// MenuItemRequest payload for POST /menu.
type MenuItemRequest struct {
	Name     string  `json:"name"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// CartItemRequest payload for POST /carts.
type CartItemRequest struct {
	MenuID string  `json:"menuId"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Price  float64 `json:"price"`
}
