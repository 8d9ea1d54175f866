package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/amanihealth/amani/internal/devserver/domain"
)

type recordsRepo struct {
	db dbtx
}

const recordColumns = `id, user_id, type, date, payload, created_at, updated_at`

func scanRecord(scan func(dest ...any) error) (domain.MedicalRecord, error) {
	var (
		rec     domain.MedicalRecord
		payload []byte
	)
	err := scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Date, &payload, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.MedicalRecord{}, mapNotFound(err)
	}
	rec.Payload = payload
	return rec, nil
}

func (r *recordsRepo) ListByUser(ctx context.Context, userID string) ([]domain.MedicalRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM medical_records WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MedicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *recordsRepo) GetByID(ctx context.Context, userID, id string) (domain.MedicalRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM medical_records WHERE user_id = ? AND id = ?`, userID, id)
	return scanRecord(row.Scan)
}

func (r *recordsRepo) Create(ctx context.Context, rec domain.MedicalRecord) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medical_records (id, user_id, type, date, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Type, rec.Date.UTC(), []byte(rec.Payload), now, now,
	)
	return mapConstraint(err)
}

func (r *recordsRepo) Update(ctx context.Context, rec domain.MedicalRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medical_records SET type = ?, date = ?, payload = ?, updated_at = ?
		 WHERE user_id = ? AND id = ?`,
		rec.Type, rec.Date.UTC(), []byte(rec.Payload), time.Now().UTC(), rec.UserID, rec.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *recordsRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM medical_records WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
