package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amanihealth/amani/internal/devserver/service"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/httpx"
	"github.com/amanihealth/amani/pkg/slogx"
)

type RecordsHandler struct {
	RecordService *service.RecordService
}

func (h *RecordsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	records, err := h.RecordService.List(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, records)
}

func (h *RecordsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Decoding validates the tagged payload; a bad variant never reaches
	// the service layer.
	var rec healthsdk.MedicalRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.RecordService.Add(ctx, httpx.UserIDFromContext(ctx), rec)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, created)
}

// recordPatchBody mirrors healthsdk.RecordPatch on the receiving side:
// the payload stays raw until the record's type is known.
type recordPatchBody struct {
	Date    *time.Time      `json:"date"`
	Payload json.RawMessage `json:"payload"`
}

func (h *RecordsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var patch recordPatchBody
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.RecordService.Update(ctx,
		httpx.UserIDFromContext(ctx), r.PathValue("id"), patch.Date, patch.Payload)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, updated)
}

func (h *RecordsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.RecordService.Delete(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil)
}
