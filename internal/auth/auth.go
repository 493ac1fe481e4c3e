// Package auth guards the API with bearer tokens and checks teacher logins.
//
// Routing code only sees the Verifier and Issuer interfaces, so the token
// scheme (the fixed teacher token, or signed JWTs) is picked at startup
// without touching any handler.
package auth

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/aanand-mishra/classroom-api/internal/errs"
	"github.com/aanand-mishra/classroom-api/internal/types"
	"github.com/aanand-mishra/classroom-api/internal/utils/response"
)

// StaticTokenValue is the only token the static scheme issues and accepts.
const StaticTokenValue = "valid-teacher-token"

const (
	msgTokenRequired      = "Access token required"
	msgTokenInvalid       = "Invalid or expired token"
	msgCredentialsMissing = "Email and password are required"
	msgInvalidCredentials = "Invalid credentials"
)

// Verifier decides whether a bearer token grants access.
type Verifier interface {
	Verify(token string) error
}

// Issuer hands out a token after a successful login.
type Issuer interface {
	Issue(teacher types.Teacher) (string, error)
}

// Scheme is a token scheme that both issues and verifies.
type Scheme interface {
	Verifier
	Issuer
}

// StaticToken is the fixed single-token scheme.
type StaticToken struct{}

func (StaticToken) Issue(types.Teacher) (string, error) { return StaticTokenValue, nil }

func (StaticToken) Verify(token string) error {
	if token != StaticTokenValue {
		return errs.E(errs.ErrForbidden, msgTokenInvalid)
	}
	return nil
}

// BearerToken returns the second space-separated field of the
// Authorization header, or "" when there is none.
func BearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Middleware rejects requests without a token (401) or with a token v
// does not accept (403).
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				response.Error(w, errs.E(errs.ErrUnauthorized, msgTokenRequired))
				return
			}

			if err := v.Verify(token); err != nil {
				response.Error(w, errs.Wrap(errs.ErrForbidden, msgTokenInvalid, err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CheckCredentials compares a login attempt with the teacher record.
//
// The email must match exactly. The stored password may be plaintext or a
// bcrypt hash.
func CheckCredentials(teacher types.Teacher, email, password string) error {
	if email == "" || password == "" {
		return errs.E(errs.ErrValidation, msgCredentialsMissing)
	}

	if email != teacher.Email || !passwordMatches(teacher.Password, password) {
		return errs.E(errs.ErrUnauthorized, msgInvalidCredentials)
	}

	return nil
}

func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

func isBcryptHash(s string) bool {
	return len(s) == 60 &&
		(strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
