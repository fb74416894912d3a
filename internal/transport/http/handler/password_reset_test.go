package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/auth-otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestForgot_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ForgotPassword", mock.Anything, "alice@x.com").Return(nil)

	h := NewPasswordResetHandler(svc)
	rr := postJSON(t, h.Forgot, `{"email":"alice@x.com"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Reset code sent to email.", decodeEnvelope(t, rr).Data)
}

func TestForgot_UserNotFound(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ForgotPassword", mock.Anything, "nobody@x.com").
		Return(fmt.Errorf("user not found: %w", domain.ErrNotFound))

	h := NewPasswordResetHandler(svc)
	rr := postJSON(t, h.Forgot, `{"email":"nobody@x.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVerifyResetCode_ReturnsEmail(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyResetCode", mock.Anything, "654321").Return("alice@x.com", nil)

	h := NewPasswordResetHandler(svc)
	rr := postJSON(t, h.VerifyResetCode, `{"resetCode":"654321"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, "Success", env.Msg)
	assert.Equal(t, "alice@x.com", env.Email)
	assert.Equal(t, "Reset code verified", env.Data)
}

func TestVerifyResetCode_InvalidOrExpired(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyResetCode", mock.Anything, "000000").
		Return("", fmt.Errorf("invalid or expired reset code: %w", domain.ErrBadRequest))

	h := NewPasswordResetHandler(svc)
	rr := postJSON(t, h.VerifyResetCode, `{"resetCode":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReset_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResetPassword", mock.Anything, domain.ResetPasswordRequest{
		Email: "alice@x.com", ResetCode: "654321", NewPassword: "new-password1",
	}).Return(nil)

	h := NewPasswordResetHandler(svc)
	rr := postJSON(t, h.Reset, `{"email":"alice@x.com","resetCode":"654321","newPassword":"new-password1"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Password reset successfully", decodeEnvelope(t, rr).Data)
}

func TestReset_MissingCode_Rejected(t *testing.T) {
	h := NewPasswordResetHandler(&mockAuthSvc{})
	rr := postJSON(t, h.Reset, `{"email":"alice@x.com","newPassword":"new-password1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReset_InvalidOrExpired(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResetPassword", mock.Anything, mock.Anything).
		Return(fmt.Errorf("invalid or expired reset code: %w", domain.ErrBadRequest))

	h := NewPasswordResetHandler(svc)
	rr := postJSON(t, h.Reset, `{"email":"alice@x.com","resetCode":"111111","newPassword":"new-password1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
