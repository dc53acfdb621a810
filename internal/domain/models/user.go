package models

// User is the public part of a login record.
type User struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID string `json:"clientId"`
}

// Credentials is a stored login record. Password is compared as stored.
type Credentials struct {
	User
	Password string
}
