package healthsdk

import (
	"context"
	"net/http"
)

// ListMedicalRecords fetches the full record list in server order.
func (s *Session) ListMedicalRecords(ctx context.Context) ([]MedicalRecord, error) {
	return doAuth[[]MedicalRecord](ctx, s, http.MethodGet, "/medical-records", nil)
}

// AddMedicalRecord creates a record and returns the server's canonical copy
// with its assigned id. The submitted record's ID field is ignored.
func (s *Session) AddMedicalRecord(ctx context.Context, rec MedicalRecord) (MedicalRecord, error) {
	return doAuth[MedicalRecord](ctx, s, http.MethodPost, "/medical-records", rec)
}

// UpdateMedicalRecord applies a partial update and returns the canonical
// updated record.
func (s *Session) UpdateMedicalRecord(ctx context.Context, id string, patch RecordPatch) (MedicalRecord, error) {
	return doAuth[MedicalRecord](ctx, s, http.MethodPatch, "/medical-records/"+id, patch)
}

// DeleteMedicalRecord deletes a record by id.
func (s *Session) DeleteMedicalRecord(ctx context.Context, id string) error {
	_, err := doAuth[struct{}](ctx, s, http.MethodDelete, "/medical-records/"+id, nil)
	return err
}
