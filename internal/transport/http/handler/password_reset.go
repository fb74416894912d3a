package handler

import (
	"encoding/json"
	"net/http"

	"github.com/auth-otp-api/internal/application/auth"
	"github.com/auth-otp-api/internal/domain"
	"github.com/auth-otp-api/internal/pkg/validate"
)

// PasswordResetHandler handles the forgot/reset-password flow.
type PasswordResetHandler struct {
	svc auth.Service
}

func NewPasswordResetHandler(svc auth.Service) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

func (h *PasswordResetHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Reset code sent to email.")
}

func (h *PasswordResetHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyResetCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	email, err := h.svc.VerifyResetCode(r.Context(), req.ResetCode)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Data: "Reset code verified", Email: email, Msg: "Success"})
}

func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password reset successfully")
}
