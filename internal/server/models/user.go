package models

import "time"

// User is a marketplace account. AccountType is one of the assessment kinds
// (sme, donor, investor, professional).
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	AccountType  string
	CreatedAt    time.Time
}
