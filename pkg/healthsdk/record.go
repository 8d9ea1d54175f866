package healthsdk

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecordType tags the variant carried in a MedicalRecord payload.
type RecordType string

const (
	RecordTypeANCVisit    RecordType = "anc_visit"
	RecordTypeVaccination RecordType = "vaccination"
	RecordTypeDoctorNote  RecordType = "doctor_note"
)

// Vaccination status values accepted at the wire boundary.
const (
	VaccineStatusScheduled    = "scheduled"
	VaccineStatusAdministered = "administered"
	VaccineStatusMissed       = "missed"
)

// MedicalRecord is one entry in the patient's record list. Payload is a
// tagged union: its concrete type is determined by Type, validated when the
// record is decoded off the wire so nothing downstream has to re-check it.
type MedicalRecord struct {
	ID      string
	Type    RecordType
	Date    time.Time
	Payload RecordPayload
}

// RecordPayload is implemented by exactly one details struct per RecordType.
type RecordPayload interface {
	recordType() RecordType
	validate() error
}

// ANCVisitDetails holds the fields of an antenatal-care visit record.
type ANCVisitDetails struct {
	GestationalWeeks int     `json:"gestational_weeks"`
	BloodPressure    string  `json:"blood_pressure,omitempty"`
	WeightKG         float64 `json:"weight_kg,omitempty"`
	FetalHeartRate   int     `json:"fetal_heart_rate,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

func (ANCVisitDetails) recordType() RecordType { return RecordTypeANCVisit }

func (d ANCVisitDetails) validate() error {
	if d.GestationalWeeks < 1 || d.GestationalWeeks > 45 {
		return fmt.Errorf("gestational_weeks out of range: %d", d.GestationalWeeks)
	}
	return nil
}

// VaccinationDetails holds the fields of a vaccination record.
type VaccinationDetails struct {
	Vaccine string `json:"vaccine"`
	Status  string `json:"status"`
	Batch   string `json:"batch,omitempty"`
}

func (VaccinationDetails) recordType() RecordType { return RecordTypeVaccination }

func (d VaccinationDetails) validate() error {
	if d.Vaccine == "" {
		return fmt.Errorf("vaccine name is required")
	}
	switch d.Status {
	case VaccineStatusScheduled, VaccineStatusAdministered, VaccineStatusMissed:
		return nil
	default:
		return fmt.Errorf("unknown vaccination status %q", d.Status)
	}
}

// DoctorNoteDetails holds the fields of a doctor's note record.
type DoctorNoteDetails struct {
	Doctor string `json:"doctor"`
	Note   string `json:"note"`
}

func (DoctorNoteDetails) recordType() RecordType { return RecordTypeDoctorNote }

func (d DoctorNoteDetails) validate() error {
	if d.Note == "" {
		return fmt.Errorf("note text is required")
	}
	return nil
}

// wireRecord is the JSON shape of a MedicalRecord.
type wireRecord struct {
	ID      string          `json:"id"`
	Type    RecordType      `json:"type"`
	Date    time.Time       `json:"date"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the record with its payload under the variant tag.
func (r MedicalRecord) MarshalJSON() ([]byte, error) {
	if r.Payload == nil {
		return nil, fmt.Errorf("medical record %s has no payload", r.ID)
	}
	if got := r.Payload.recordType(); got != r.Type {
		return nil, fmt.Errorf("medical record %s: payload is %s but type is %s", r.ID, got, r.Type)
	}

	payload, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireRecord{
		ID:      r.ID,
		Type:    r.Type,
		Date:    r.Date,
		Payload: payload,
	})
}

// UnmarshalJSON decodes and validates the tagged payload. Unknown types and
// payloads failing their variant's validation are rejected here, at the
// boundary, rather than trusted downstream.
func (r *MedicalRecord) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	payload, err := decodePayload(w.Type, w.Payload)
	if err != nil {
		return fmt.Errorf("medical record %s: %w", w.ID, err)
	}

	r.ID = w.ID
	r.Type = w.Type
	r.Date = w.Date
	r.Payload = payload
	return nil
}

// DecodePayload decodes and validates a raw payload against the variant
// named by typ. Used by servers that persist payloads as opaque JSON.
func DecodePayload(typ RecordType, raw json.RawMessage) (RecordPayload, error) {
	return decodePayload(typ, raw)
}

func decodePayload(typ RecordType, raw json.RawMessage) (RecordPayload, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing payload")
	}

	var payload RecordPayload
	switch typ {
	case RecordTypeANCVisit:
		var d ANCVisitDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		payload = d
	case RecordTypeVaccination:
		var d VaccinationDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		payload = d
	case RecordTypeDoctorNote:
		var d DoctorNoteDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		payload = d
	default:
		return nil, fmt.Errorf("unknown record type %q", typ)
	}

	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", typ, err)
	}
	return payload, nil
}

// NewRecord builds a record from a payload, deriving the type tag. The id is
// left empty: ids are assigned by the server, never locally.
func NewRecord(date time.Time, payload RecordPayload) (MedicalRecord, error) {
	if payload == nil {
		return MedicalRecord{}, fmt.Errorf("nil payload")
	}
	if err := payload.validate(); err != nil {
		return MedicalRecord{}, fmt.Errorf("invalid %s payload: %w", payload.recordType(), err)
	}
	return MedicalRecord{
		Type:    payload.recordType(),
		Date:    date,
		Payload: payload,
	}, nil
}

// RecordPatch carries a partial medical-record update. A nil Payload leaves
// the payload untouched; a non-nil Payload fully replaces it and must match
// the record's existing type, which the server enforces.
type RecordPatch struct {
	Date    *time.Time    `json:"date,omitempty"`
	Payload RecordPayload `json:"payload,omitempty"`
}
