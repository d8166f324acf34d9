package domain

// MenuItem is a dish offered by the restaurant.
type MenuItem struct {
	ID       any     `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string  `bson:"name" json:"name"`
	Recipe   string  `bson:"recipe,omitempty" json:"recipe,omitempty"`
	Image    string  `bson:"image,omitempty" json:"image,omitempty"`
	Category string  `bson:"category,omitempty" json:"category,omitempty"`
	Price    float64 `bson:"price" json:"price"`
}

// Review is a customer testimonial.
type Review struct {
	ID      any     `bson:"_id,omitempty" json:"_id,omitempty"`
	Name    string  `bson:"name" json:"name"`
	Details string  `bson:"details,omitempty" json:"details,omitempty"`
	Rating  float64 `bson:"rating" json:"rating"`
}

// CartItem is a menu item placed in a diner's cart. Email partitions carts
// per diner and is trusted as supplied by the client.
type CartItem struct {
	ID     any     `bson:"_id,omitempty" json:"_id,omitempty"`
	MenuID string  `bson:"menuId,omitempty" json:"menuId,omitempty"`
	Email  string  `bson:"email" json:"email"`
	Name   string  `bson:"name,omitempty" json:"name,omitempty"`
	Image  string  `bson:"image,omitempty" json:"image,omitempty"`
	Price  float64 `bson:"price" json:"price"`
}
