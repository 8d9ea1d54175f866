// Package domain holds the devserver's persistence-level entities.
package domain

import "time"

type User struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Patient is the maternal sub-profile row, keyed by the owning user.
type Patient struct {
	UserID           string
	DueDate          *time.Time
	BloodType        string
	EmergencyContact string
	ClinicName       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
