package dto

import "time"

// TokenRequest is the identity claim set submitted to POST /jwt.
type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterUserRequest payload for POST /users. Role is not accepted here;
// it only changes through promotion.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

// ExistingUserResponse is returned when the email is already registered.
type ExistingUserResponse struct {
	Message    string `json:"message"`
	InsertedID any    `json:"insertedId"`
}

// AdminStatusResponse answers GET /users/admin/:email.
type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}
