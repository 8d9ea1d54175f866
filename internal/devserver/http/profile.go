package http

import (
	"encoding/json"
	"net/http"

	"github.com/amanihealth/amani/internal/devserver/service"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/httpx"
	"github.com/amanihealth/amani/pkg/slogx"
)

type ProfileHandler struct {
	ProfileService *service.ProfileService
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profile, err := h.ProfileService.GetProfile(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, profile)
}

func (h *ProfileHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var patch healthsdk.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	profile, err := h.ProfileService.UpdateProfile(ctx, httpx.UserIDFromContext(ctx), patch)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, profile)
}

type PatientHandler struct {
	ProfileService *service.ProfileService
}

func (h *PatientHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	patient, err := h.ProfileService.GetPatient(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, patient)
}

func (h *PatientHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var patch healthsdk.PatientPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	patient, err := h.ProfileService.UpdatePatient(ctx, httpx.UserIDFromContext(ctx), patch)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, patient)
}
