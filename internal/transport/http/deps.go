package http

import (
	"github.com/auth-otp-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/auth-otp-api/internal/infrastructure/jwt"
	"github.com/auth-otp-api/internal/infrastructure/smtp"
	"github.com/auth-otp-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}
