// Package store defines the devserver's data access interfaces. Concrete
// drivers (sqlite) implement Store; handlers and services depend only on
// the interfaces.
package store

import (
	"context"
	"errors"

	"github.com/amanihealth/amani/internal/devserver/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, exposing one sub-repository
// per aggregate.
type Store interface {
	Users() Users
	Patients() Patients
	MedicalRecords() MedicalRecords

	ApplyMigrations() error

	// WithTx executes fn within a transaction. fn returning an error
	// rolls the transaction back; nil commits it.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	Patients() Patients
	MedicalRecords() MedicalRecords
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A duplicate email fails with ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates full_name and phone and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error
}

type Patients interface {
	GetPatientByUserID(ctx context.Context, userID string) (domain.Patient, error)
	CreatePatient(ctx context.Context, p domain.Patient) error
	UpdatePatient(ctx context.Context, p domain.Patient) error
}

type MedicalRecords interface {
	// ListByUser returns the user's records ordered by creation.
	ListByUser(ctx context.Context, userID string) ([]domain.MedicalRecord, error)

	// GetByID scopes the lookup to the owning user; a foreign record
	// reads as ErrNotFound.
	GetByID(ctx context.Context, userID, id string) (domain.MedicalRecord, error)

	Create(ctx context.Context, rec domain.MedicalRecord) error
	Update(ctx context.Context, rec domain.MedicalRecord) error
	Delete(ctx context.Context, userID, id string) error
}
