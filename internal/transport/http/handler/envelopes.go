package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/auth-otp-api/internal/domain"
)

// Envelope is the response wrapper shared by every endpoint: a payload under
// "data" and a coarse "msg" of Success or Failure. verify-reset-code also
// surfaces the owning email at the top level.
type Envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Email string      `json:"email,omitempty"`
	Msg   string      `json:"msg"`
}

// AuthData is the success payload for verify-otp and login.
type AuthData struct {
	User    *SafeUser `json:"user"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
}

// SafeUser is the client-facing projection of a user. Password hashes and
// pending codes never leave the service.
type SafeUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		ID:        u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Data: data, Msg: "Success"})
}

func writeFailure(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, Envelope{Data: detail, Msg: "Failure"})
}

// NotFound is the catch-all handler for unrouted paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusNotFound, fmt.Sprintf("Cannot %s route %s", r.Method, r.URL.Path))
}

// httpError maps domain sentinel errors to status codes. Anything unmapped is
// an internal fault: logged with detail, reported to the client without it.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeFailure(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("internal error", "err", err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
	}
}
