package models

import "fmt"

// User is a single account record.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string // stored as given, no hashing
}

func (u User) String() string {
	return fmt.Sprintf("#%d %s <%s>", u.ID, u.Username, u.Email)
}
