package domain

// Identity is the claim set a caller submits to obtain a token. It is not
// checked against the user collection.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
