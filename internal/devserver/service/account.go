package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/amanihealth/amani/internal/devserver/domain"
	"github.com/amanihealth/amani/internal/devserver/store"
	"github.com/amanihealth/amani/pkg/cryptox"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/idx"
)

var (
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	ErrEmailTaken         = errors.New("service: email already registered")
	ErrInvalidInput       = errors.New("service: invalid input")
)

const minPasswordLength = 8

// AccountService handles registration and login.
type AccountService struct {
	Store store.Store
}

// Register creates a user plus an empty patient sub-profile in one
// transaction and returns the stored user.
func (s *AccountService) Register(ctx context.Context, req healthsdk.RegisterRequest) (domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" {
		return domain.User{}, fmt.Errorf("%w: full_name and email are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.User{}, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := cryptox.Hash(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         healthsdk.RoleMother,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Patients().CreatePatient(ctx, domain.Patient{UserID: user.ID})
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrEmailTaken
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login checks the password against the stored argon2id hash. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := cryptox.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return user, nil
}
