package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/amanihealth/amani/internal/devserver/domain"
)

type patientsRepo struct {
	db dbtx
}

func (r *patientsRepo) GetPatientByUserID(ctx context.Context, userID string) (domain.Patient, error) {
	var (
		p       domain.Patient
		dueDate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, due_date, blood_type, emergency_contact, clinic_name, created_at, updated_at
		 FROM patients WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &dueDate, &p.BloodType, &p.EmergencyContact, &p.ClinicName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	if dueDate.Valid {
		p.DueDate = &dueDate.Time
	}
	return p, nil
}

func (r *patientsRepo) CreatePatient(ctx context.Context, p domain.Patient) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patients (user_id, due_date, blood_type, emergency_contact, clinic_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, optionalTime(p.DueDate), p.BloodType, p.EmergencyContact, p.ClinicName, now, now,
	)
	return mapConstraint(err)
}

func (r *patientsRepo) UpdatePatient(ctx context.Context, p domain.Patient) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE patients SET due_date = ?, blood_type = ?, emergency_contact = ?, clinic_name = ?, updated_at = ?
		 WHERE user_id = ?`,
		optionalTime(p.DueDate), p.BloodType, p.EmergencyContact, p.ClinicName, time.Now().UTC(), p.UserID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func optionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
