package identity

import "time"

// User represents a registered exchange customer.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carries the data needed to register or authenticate a user.
type Credentials struct {
	Email    string
	Password string
}
