package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aanand-mishra/classroom-api/internal/errs"
	"github.com/aanand-mishra/classroom-api/internal/types"
)

var teacher = types.Teacher{
	ID:       "teacher-001",
	Name:     "John Smith",
	Email:    "teacher@school.com",
	Password: "teacher123",
}

func TestStaticToken(t *testing.T) {
	var s StaticToken

	token, err := s.Issue(teacher)
	if err != nil || token != StaticTokenValue {
		t.Fatalf("Issue = %q, %v", token, err)
	}
	if err := s.Verify(StaticTokenValue); err != nil {
		t.Errorf("Verify(valid) = %v", err)
	}
	if err := s.Verify("nope"); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("Verify(invalid) = %v, want ErrForbidden", err)
	}
}

func TestJWT(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	j := NewJWT("s3cret", "classroom-api", time.Hour)
	j.Now = func() time.Time { return now }

	token, err := j.Issue(teacher)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := j.Verify(token); err != nil {
		t.Fatalf("Verify fresh token: %v", err)
	}

	other := NewJWT("different", "classroom-api", time.Hour)
	other.Now = j.Now
	if err := other.Verify(token); err == nil {
		t.Error("token verified with the wrong secret")
	}

	foreign := NewJWT("s3cret", "someone-else", time.Hour)
	foreign.Now = j.Now
	if err := foreign.Verify(token); err == nil {
		t.Error("token verified with the wrong issuer")
	}

	now = start.Add(2 * time.Hour)
	if err := j.Verify(token); err == nil {
		t.Error("expired token verified")
	}

	if err := j.Verify(StaticTokenValue); err == nil {
		t.Error("static token accepted by the jwt scheme")
	}
}

func TestJWTTokensAreUnique(t *testing.T) {
	j := NewJWT("s3cret", "classroom-api", time.Hour)

	a, err := j.Issue(teacher)
	if err != nil {
		t.Fatal(err)
	}
	b, err := j.Issue(teacher)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two logins produced the same token")
	}
}

func TestCheckCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("teacher123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	hashed := teacher
	hashed.Password = string(hash)

	cases := []struct {
		name     string
		teacher  types.Teacher
		email    string
		password string
		want     error
		msg      string
	}{
		{"plaintext ok", teacher, "teacher@school.com", "teacher123", nil, ""},
		{"bcrypt ok", hashed, "teacher@school.com", "teacher123", nil, ""},
		{"bcrypt wrong", hashed, "teacher@school.com", "wrong", errs.ErrUnauthorized, "Invalid credentials"},
		{"wrong password", teacher, "teacher@school.com", "wrong", errs.ErrUnauthorized, "Invalid credentials"},
		{"email is case sensitive", teacher, "Teacher@school.com", "teacher123", errs.ErrUnauthorized, "Invalid credentials"},
		{"missing email", teacher, "", "teacher123", errs.ErrValidation, "Email and password are required"},
		{"missing password", teacher, "teacher@school.com", "", errs.ErrValidation, "Email and password are required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckCredentials(tc.teacher, tc.email, tc.password)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("err = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if err.Error() != tc.msg {
				t.Errorf("message = %q, want %q", err.Error(), tc.msg)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(StaticToken{})(next)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, "Access token required"},
		{"no token after scheme", "Bearer", http.StatusUnauthorized, "Access token required"},
		{"wrong token", "Bearer nope", http.StatusForbidden, "Invalid or expired token"},
		{"valid token", "Bearer " + StaticTokenValue, http.StatusTeapot, ""},
		{"scheme word is not checked", "Token " + StaticTokenValue, http.StatusTeapot, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.body != "" && !strings.Contains(rec.Body.String(), tc.body) {
				t.Errorf("body = %s, want it to contain %q", rec.Body.String(), tc.body)
			}
		})
	}
}
