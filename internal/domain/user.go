package domain

// Role values stored on a user record. Anything other than RoleAdmin is the
// default role.
const (
	RoleAdmin = "admin"
)

// User is a registered diner. Email is the natural key.
type User struct {
	ID    any    `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Email string `bson:"email" json:"email"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether the record carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
