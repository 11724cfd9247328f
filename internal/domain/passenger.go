package domain

import "time"

// Passenger identity. Email is the natural key: the resolver refuses to
// create a second passenger with an email already on file.
type Passenger struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PassportNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
