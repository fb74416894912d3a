// Package auth implements the credential and verification state machine:
// registration with email OTP, login, and the forgot/reset-password flow.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/auth-otp-api/internal/domain"
	"github.com/auth-otp-api/internal/infrastructure/smtp"
	"github.com/auth-otp-api/internal/infrastructure/sns"
	"github.com/auth-otp-api/internal/pkg/id"
	"github.com/auth-otp-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldPasswordHash     = "password_hash"
	fieldVerified         = "verified"
	fieldOTP              = "otp"
	fieldOTPExpires       = "otp_expires"
	fieldResetCode        = "reset_code"
	fieldResetCodeExpires = "reset_code_expires"
)

const (
	registerOTPTTL = 15 * time.Minute
	resendOTPTTL   = 10 * time.Minute
	resetCodeTTL   = 15 * time.Minute
)

// UserStore is the persistence capability the service requires.
type UserStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByResetCode(ctx context.Context, code string, now time.Time) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// TokenSigner issues a signed identity assertion for a user ID.
type TokenSigner interface {
	Sign(userID string) (string, error)
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) error
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, code string) (string, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// ServiceDeps bundles the collaborators for NewService.
type ServiceDeps struct {
	UserRepo  UserStore
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
	Signer    TokenSigner
}

type service struct {
	userRepo  UserStore
	mailer    smtp.Mailer
	smsSender sns.SMSSender
	signer    TokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:  deps.UserRepo,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		signer:    deps.Signer,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("email address already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return fmt.Errorf("username already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	expires := now.Add(registerOTPTTL).Unix()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Verified:     false,
		OTP:          &code,
		OTPExpires:   &expires,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return err
	}

	// The user row is already persisted; a failed send is reported to the
	// client but the account stays recoverable through resend-otp.
	if err := s.mailer.SendEmail(req.Email, "Your OTP Code",
		fmt.Sprintf("Your OTP code is %s. It expires in 15 minutes.", code)); err != nil {
		slog.Error("failed to send OTP email", "user_id", u.UserID, "err", err)
		return err
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if !codeMatches(u.OTP, u.OTPExpires, req.OTP) {
		return nil, "", fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
	}

	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{
		fieldVerified:   true,
		fieldOTP:        nil,
		fieldOTPExpires: nil,
	}); err != nil {
		return nil, "", err
	}
	u.Verified = true
	u.OTP = nil
	u.OTPExpires = nil

	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if !u.Verified {
		return nil, "", fmt.Errorf("user not verified: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	// Reject an undeliverable SMS request before the stored OTP pair is
	// overwritten; the email channel stays usable either way.
	if req.Channel == "sms" {
		if u.Phone == nil {
			return fmt.Errorf("no phone number on account: %w", domain.ErrBadRequest)
		}
		if s.smsSender == nil {
			return fmt.Errorf("sms delivery not available: %w", domain.ErrBadRequest)
		}
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{
		fieldOTP:        code,
		fieldOTPExpires: time.Now().Add(resendOTPTTL).Unix(),
	}); err != nil {
		return err
	}

	message := fmt.Sprintf("Your OTP code is %s. It expires in 10 minutes.", code)
	if req.Channel == "sms" {
		return s.smsSender.SendSMS(ctx, *u.Phone, message)
	}
	return s.mailer.SendEmail(u.Email, "Your OTP Code", message)
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := otp.GenerateResetCode()
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{
		fieldResetCode:        code,
		fieldResetCodeExpires: time.Now().Add(resetCodeTTL).Unix(),
	}); err != nil {
		return err
	}

	return s.mailer.SendEmail(u.Email, "Password Reset Request",
		fmt.Sprintf("You requested a password reset. Your reset code is %s. This code expires in 15 minutes.", code))
}

func (s *service) VerifyResetCode(ctx context.Context, code string) (string, error) {
	u, err := s.userRepo.GetByResetCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("invalid or expired reset code: %w", domain.ErrBadRequest)
		}
		return "", err
	}
	return u.Email, nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("invalid or expired reset code: %w", domain.ErrBadRequest)
		}
		return err
	}
	if !codeMatches(u.ResetCode, u.ResetCodeExpires, req.ResetCode) {
		return fmt.Errorf("invalid or expired reset code: %w", domain.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.Update(ctx, u.UserID, map[string]interface{}{
		fieldPasswordHash:     string(hash),
		fieldResetCode:        nil,
		fieldResetCodeExpires: nil,
	})
}

func (s *service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.Get(ctx, userID)
}

// codeMatches reports whether presented equals the stored code and the code
// has not expired. The comparison is constant-time.
func codeMatches(stored *string, expires *int64, presented string) bool {
	if stored == nil || expires == nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) != 1 {
		return false
	}
	return *expires > time.Now().Unix()
}
