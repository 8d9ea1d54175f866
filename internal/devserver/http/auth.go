package http

import (
	"encoding/json"
	"net/http"

	"github.com/amanihealth/amani/internal/devserver/domain"
	"github.com/amanihealth/amani/internal/devserver/service"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/httpx"
	"github.com/amanihealth/amani/pkg/slogx"
)

type AuthHandler struct {
	AccountService *service.AccountService
	TokenService   *service.TokenService
	ProfileService *service.ProfileService
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req healthsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.AccountService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	h.writeAuthPayload(w, r, user)
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req healthsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.AccountService.Register(ctx, req)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	log.Info("user registered", "user_id", user.ID)
	h.writeAuthPayload(w, r, user)
}

// HandleLogout acknowledges the logout. Tokens are stateless; the client
// discards its copy.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteData(w, http.StatusOK, nil)
}

func (h *AuthHandler) writeAuthPayload(w http.ResponseWriter, r *http.Request, user domain.User) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, expiresIn, err := h.TokenService.Mint(user)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	profile, err := h.ProfileService.GetProfile(ctx, user.ID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, healthsdk.AuthPayload{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      profile,
	})
}
