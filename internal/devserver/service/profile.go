package service

import (
	"context"
	"errors"

	"github.com/amanihealth/amani/internal/devserver/domain"
	"github.com/amanihealth/amani/internal/devserver/store"
	"github.com/amanihealth/amani/pkg/healthsdk"
)

// ProfileService reads and patches the user and patient profiles.
type ProfileService struct {
	Store store.Store
}

// GetProfile assembles the wire-level profile, attaching the patient
// sub-profile when one exists.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (healthsdk.UserProfile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return healthsdk.UserProfile{}, err
	}
	profile := toProfile(user)

	patient, err := s.Store.Patients().GetPatientByUserID(ctx, userID)
	if err == nil {
		p := toPatientProfile(patient)
		profile.Patient = &p
	} else if !errors.Is(err, store.ErrNotFound) {
		return healthsdk.UserProfile{}, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch healthsdk.ProfilePatch) (healthsdk.UserProfile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return healthsdk.UserProfile{}, err
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if user.FullName == "" {
		return healthsdk.UserProfile{}, ErrInvalidInput
	}
	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		return healthsdk.UserProfile{}, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) GetPatient(ctx context.Context, userID string) (healthsdk.PatientProfile, error) {
	patient, err := s.Store.Patients().GetPatientByUserID(ctx, userID)
	if err != nil {
		return healthsdk.PatientProfile{}, err
	}
	return toPatientProfile(patient), nil
}

func (s *ProfileService) UpdatePatient(ctx context.Context, userID string, patch healthsdk.PatientPatch) (healthsdk.PatientProfile, error) {
	patient, err := s.Store.Patients().GetPatientByUserID(ctx, userID)
	if err != nil {
		return healthsdk.PatientProfile{}, err
	}
	if patch.DueDate != nil {
		patient.DueDate = patch.DueDate
	}
	if patch.BloodType != nil {
		patient.BloodType = *patch.BloodType
	}
	if patch.EmergencyContact != nil {
		patient.EmergencyContact = *patch.EmergencyContact
	}
	if patch.ClinicName != nil {
		patient.ClinicName = *patch.ClinicName
	}
	if err := s.Store.Patients().UpdatePatient(ctx, patient); err != nil {
		return healthsdk.PatientProfile{}, err
	}
	return toPatientProfile(patient), nil
}

func toProfile(u domain.User) healthsdk.UserProfile {
	return healthsdk.UserProfile{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}

func toPatientProfile(p domain.Patient) healthsdk.PatientProfile {
	return healthsdk.PatientProfile{
		DueDate:          p.DueDate,
		BloodType:        p.BloodType,
		EmergencyContact: p.EmergencyContact,
		ClinicName:       p.ClinicName,
	}
}
