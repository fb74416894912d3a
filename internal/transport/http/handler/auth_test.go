package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth-otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, req domain.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}
func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}
func (m *mockAuthSvc) ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockAuthSvc) VerifyResetCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- Register ---

func TestRegister_Created(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(r domain.RegisterRequest) bool {
		return r.Username == "alice" && r.Email == "alice@x.com"
	})).Return(nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Register, `{"username":"alice","email":"alice@x.com","password":"password1"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Success", env.Msg)
	assert.Equal(t, "User registered. OTP sent to email.", env.Data)
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(fmt.Errorf("email address already exists: %w", domain.ErrConflict))

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Register, `{"username":"bob","email":"alice@x.com","password":"password2"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Failure", decodeEnvelope(t, rr).Msg)
}

func TestRegister_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	rr := postJSON(t, h.Register, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_ValidationFailure_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	rr := postJSON(t, h.Register, `{"username":"alice","email":"alice@x.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_InternalFault_NoDetailLeaked(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(fmt.Errorf("dynamo: connection refused"))

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Register, `{"username":"alice","email":"alice@x.com","password":"password1"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, "Internal server error", env.Data)
}

// --- VerifyOTP ---

func TestVerifyOTP_ReturnsUserAndToken(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, domain.VerifyOTPRequest{Email: "alice@x.com", OTP: "123456"}).
		Return(&domain.User{UserID: "u1", Username: "alice", Email: "alice@x.com", Verified: true}, "bearer-token", nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.VerifyOTP, `{"email":"alice@x.com","otp":"123456"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Data AuthData `json:"data"`
		Msg  string   `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, "Success", env.Msg)
	assert.Equal(t, "bearer-token", env.Data.Token)
	require.NotNil(t, env.Data.User)
	assert.Equal(t, "u1", env.Data.User.ID)
	assert.True(t, env.Data.User.Verified)
}

func TestVerifyOTP_InvalidOrExpired(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest))

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.VerifyOTP, `{"email":"alice@x.com","otp":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyOTP_UserNotFound(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("user not found: %w", domain.ErrNotFound))

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.VerifyOTP, `{"email":"nobody@x.com","otp":"123456"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Login ---

func TestLogin_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, domain.LoginRequest{Email: "alice@x.com", Password: "password1"}).
		Return(&domain.User{UserID: "u1", Verified: true}, "bearer-token", nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Login, `{"email":"alice@x.com","password":"password1"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogin_Unverified_Forbidden(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("user not verified: %w", domain.ErrForbidden))

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Login, `{"email":"alice@x.com","password":"password1"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogin_BadCredentials_Unauthorized(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Login, `{"email":"alice@x.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// --- ResendOTP ---

func TestResendOTP_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResendOTP", mock.Anything, domain.ResendOTPRequest{Email: "alice@x.com"}).Return(nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.ResendOTP, `{"email":"alice@x.com"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OTP sent successfully", decodeEnvelope(t, rr).Data)
}

func TestResendOTP_BadChannel(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	rr := postJSON(t, h.ResendOTP, `{"email":"alice@x.com","channel":"pigeon"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
