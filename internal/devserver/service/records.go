package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amanihealth/amani/internal/devserver/domain"
	"github.com/amanihealth/amani/internal/devserver/store"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/idx"
)

// RecordService manages medical records. Every operation is scoped to the
// owning user; a foreign record id behaves like a missing one.
type RecordService struct {
	Store store.Store
}

func (s *RecordService) List(ctx context.Context, userID string) ([]healthsdk.MedicalRecord, error) {
	rows, err := s.Store.MedicalRecords().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]healthsdk.MedicalRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toWireRecord(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Add assigns the canonical id and persists the record.
func (s *RecordService) Add(ctx context.Context, userID string, rec healthsdk.MedicalRecord) (healthsdk.MedicalRecord, error) {
	if rec.Payload == nil {
		return healthsdk.MedicalRecord{}, fmt.Errorf("%w: missing payload", ErrInvalidInput)
	}
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return healthsdk.MedicalRecord{}, err
	}

	row := domain.MedicalRecord{
		ID:      idx.New().String(),
		UserID:  userID,
		Type:    string(rec.Type),
		Date:    rec.Date,
		Payload: payload,
	}
	if err := s.Store.MedicalRecords().Create(ctx, row); err != nil {
		return healthsdk.MedicalRecord{}, err
	}
	rec.ID = row.ID
	return rec, nil
}

// Update applies a partial update. A replacement payload must decode
// against the record's existing type.
func (s *RecordService) Update(ctx context.Context, userID, id string, date *time.Time, payload json.RawMessage) (healthsdk.MedicalRecord, error) {
	row, err := s.Store.MedicalRecords().GetByID(ctx, userID, id)
	if err != nil {
		return healthsdk.MedicalRecord{}, err
	}
	if date != nil {
		row.Date = *date
	}
	if len(payload) > 0 {
		if _, err := healthsdk.DecodePayload(healthsdk.RecordType(row.Type), payload); err != nil {
			return healthsdk.MedicalRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		row.Payload = payload
	}
	if err := s.Store.MedicalRecords().Update(ctx, row); err != nil {
		return healthsdk.MedicalRecord{}, err
	}
	return toWireRecord(row)
}

func (s *RecordService) Delete(ctx context.Context, userID, id string) error {
	return s.Store.MedicalRecords().Delete(ctx, userID, id)
}

func toWireRecord(row domain.MedicalRecord) (healthsdk.MedicalRecord, error) {
	payload, err := healthsdk.DecodePayload(healthsdk.RecordType(row.Type), row.Payload)
	if err != nil {
		return healthsdk.MedicalRecord{}, fmt.Errorf("record %s: %w", row.ID, err)
	}
	return healthsdk.MedicalRecord{
		ID:      row.ID,
		Type:    healthsdk.RecordType(row.Type),
		Date:    row.Date,
		Payload: payload,
	}, nil
}
