package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aanand-mishra/classroom-api/internal/auth"
	"github.com/aanand-mishra/classroom-api/internal/config"
	"github.com/aanand-mishra/classroom-api/internal/repository"
	"github.com/aanand-mishra/classroom-api/internal/storage/jsonfile"
	"github.com/aanand-mishra/classroom-api/internal/types"
)

var testNow = time.Date(2023, time.October, 18, 9, 30, 0, 0, time.UTC)

func newServer(t *testing.T, tokens auth.Scheme) http.Handler {
	t.Helper()

	store := jsonfile.New(filepath.Join(t.TempDir(), "database.json"))
	if err := store.EnsureInitialized(context.Background()); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	return New(Deps{
		Repo:   repository.New(store, repository.WithClock(func() time.Time { return testNow })),
		Tokens: tokens,
		CORS: config.CORS{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time { return testNow },
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, errMsg string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if errMsg == "" {
		return
	}
	got := decode[map[string]string](t, rec)["error"]
	if got != errMsg {
		t.Errorf("error = %q, want %q", got, errMsg)
	}
}

type loginBody struct {
	Token   string         `json:"token"`
	Teacher map[string]any `json:"teacher"`
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "teacher@school.com",
		"password": "teacher123",
	})
	expect(t, rec, http.StatusOK, "")

	body := decode[loginBody](t, rec)

	if _, leaked := body.Teacher["password"]; leaked {
		t.Error("login response contains the password")
	}
	if body.Teacher["name"] != "John Smith" {
		t.Errorf("teacher = %v", body.Teacher)
	}
	return body.Token
}

func TestLogin(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	if token := login(t, h); token != auth.StaticTokenValue {
		t.Errorf("token = %q", token)
	}

	expect(t, do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "teacher@school.com", "password": "nope",
	}), http.StatusUnauthorized, "Invalid credentials")

	expect(t, do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "teacher@school.com",
	}), http.StatusBadRequest, "Email and password are required")

	expect(t, do(t, h, http.MethodPost, "/api/auth/login", "", nil),
		http.StatusBadRequest, "Email and password are required")
}

func TestTokenRequired(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	for _, path := range []string{"/api/students", "/api/students/stu-001", "/api/stats"} {
		expect(t, do(t, h, http.MethodGet, path, "", nil), http.StatusUnauthorized, "Access token required")
		expect(t, do(t, h, http.MethodGet, path, "wrong", nil), http.StatusForbidden, "Invalid or expired token")
	}
}

func TestHealthIsPublic(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	rec := do(t, h, http.MethodGet, "/api/health", "", nil)
	expect(t, rec, http.StatusOK, "")

	body := decode[map[string]string](t, rec)
	if body["status"] != "ok" || body["timestamp"] != "2023-10-18T09:30:00.000Z" {
		t.Errorf("health = %v", body)
	}
}

func TestUnknownRoutes(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	expect(t, do(t, h, http.MethodGet, "/api/nothing", "", nil), http.StatusNotFound, "Route not found")
	expect(t, do(t, h, http.MethodPatch, "/api/health", "", nil), http.StatusNotFound, "Route not found")
}

func TestListQueryParameters(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	cases := []struct {
		query       string
		wantLen     int
		wantPage    int
		wantPerPage int
		wantPages   int
	}{
		{"", 10, 1, 10, 2},
		{"?page=abc&limit=xyz", 10, 1, 10, 2},
		{"?page=0&limit=0", 10, 1, 10, 2},
		{"?limit=-3", 1, 1, 1, 12},
		{"?page=-1&limit=4", 4, 1, 4, 3},
		{"?page=9223372036854775807", 0, 9223372036854775807, 10, 2},
		{"?limit=9223372036854775807", 12, 1, 9223372036854775807, 1},
	}

	for _, tc := range cases {
		rec := do(t, h, http.MethodGet, "/api/students"+tc.query, auth.StaticTokenValue, nil)
		expect(t, rec, http.StatusOK, "")

		page := decode[types.StudentPage](t, rec)
		p := page.Pagination
		if len(page.Students) != tc.wantLen || p.CurrentPage != tc.wantPage ||
			p.StudentsPerPage != tc.wantPerPage || p.TotalPages != tc.wantPages {
			t.Errorf("%q: %d students, pagination %+v", tc.query, len(page.Students), p)
		}
	}
}

func TestLoginRejectsNonStringFields(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	expect(t, do(t, h, http.MethodPost, "/api/auth/login", "", `{"email":1,"password":"teacher123"}`),
		http.StatusBadRequest, "invalid JSON body")
}

func TestStudentLifecycle(t *testing.T) {
	h := newServer(t, auth.StaticToken{})
	token := login(t, h)

	rec := do(t, h, http.MethodGet, "/api/students?page=1&limit=5", token, nil)
	expect(t, rec, http.StatusOK, "")
	page := decode[types.StudentPage](t, rec)
	if len(page.Students) != 5 || page.Pagination.TotalPages != 3 || !page.Pagination.HasNextPage {
		t.Fatalf("page = %+v", page.Pagination)
	}

	rec = do(t, h, http.MethodPost, "/api/students", token, map[string]string{
		"firstName": "A", "lastName": "B", "email": "a@b.com",
	})
	expect(t, rec, http.StatusCreated, "")
	raw := decode[map[string]any](t, rec)
	if raw["id"] != "stu-013" {
		t.Errorf("id = %v, want stu-013", raw["id"])
	}
	if age, ok := raw["age"]; !ok || age != nil {
		t.Errorf("age = %v (present %v), want explicit null", age, ok)
	}
	if courses, ok := raw["courses"].([]any); !ok || len(courses) != 0 {
		t.Errorf("courses = %v, want []", raw["courses"])
	}

	expect(t, do(t, h, http.MethodPost, "/api/students", token, map[string]string{
		"firstName": "C", "lastName": "D", "email": "A@B.COM",
	}), http.StatusBadRequest, "Student with this email already exists")

	expect(t, do(t, h, http.MethodPost, "/api/students", token, `{"firstName":`),
		http.StatusBadRequest, "")

	rec = do(t, h, http.MethodPut, "/api/students/stu-013", token, map[string]any{
		"age": 30, "courses": []string{"Art"},
	})
	expect(t, rec, http.StatusOK, "")
	updated := decode[types.Student](t, rec)
	if updated.FirstName != "A" || updated.Age == nil || *updated.Age != 30 || len(updated.Courses) != 1 {
		t.Errorf("updated = %+v", updated)
	}

	expect(t, do(t, h, http.MethodPut, "/api/students/stu-013", token, map[string]any{"age": 101}),
		http.StatusBadRequest, "Age must be between 16 and 100")
	expect(t, do(t, h, http.MethodPut, "/api/students/stu-999", token, map[string]any{"age": 20}),
		http.StatusNotFound, "Student not found")

	rec = do(t, h, http.MethodGet, "/api/students/stu-013", token, nil)
	expect(t, rec, http.StatusOK, "")
	if got := decode[types.Student](t, rec); got.Email != "a@b.com" {
		t.Errorf("email = %q", got.Email)
	}

	rec = do(t, h, http.MethodDelete, "/api/students/stu-013", token, nil)
	expect(t, rec, http.StatusOK, "")
	deleted := decode[struct {
		Message string        `json:"message"`
		Student types.Student `json:"student"`
	}](t, rec)
	if deleted.Message != "Student deleted successfully" || deleted.Student.ID != "stu-013" {
		t.Errorf("delete response = %+v", deleted)
	}

	expect(t, do(t, h, http.MethodGet, "/api/students/stu-013", token, nil), http.StatusNotFound, "Student not found")
	expect(t, do(t, h, http.MethodDelete, "/api/students/stu-013", token, nil), http.StatusNotFound, "Student not found")

	rec = do(t, h, http.MethodPost, "/api/students", token, map[string]string{
		"firstName": "E", "lastName": "F", "email": "e@f.com",
	})
	expect(t, rec, http.StatusCreated, "")
	if got := decode[types.Student](t, rec); got.ID != "stu-014" {
		t.Errorf("id after delete = %q, want stu-014", got.ID)
	}
}

func TestStats(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	rec := do(t, h, http.MethodGet, "/api/stats", auth.StaticTokenValue, nil)
	expect(t, rec, http.StatusOK, "")

	stats := decode[types.Stats](t, rec)
	if stats.TotalStudents != 12 || stats.AverageAge == nil || *stats.AverageAge != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.EnrollmentsThisYear != 8 {
		t.Errorf("enrollmentsThisYear = %d, want 8", stats.EnrollmentsThisYear)
	}
}

func TestJWTMode(t *testing.T) {
	jwt := auth.NewJWT("test-secret", "classroom-api", time.Hour)
	h := newServer(t, jwt)

	token := login(t, h)
	if token == auth.StaticTokenValue {
		t.Fatal("jwt mode issued the static token")
	}

	expect(t, do(t, h, http.MethodGet, "/api/students/stu-001", token, nil), http.StatusOK, "")
	expect(t, do(t, h, http.MethodGet, "/api/students/stu-001", auth.StaticTokenValue, nil),
		http.StatusForbidden, "Invalid or expired token")
}

func TestCORSPreflight(t *testing.T) {
	h := newServer(t, auth.StaticToken{})

	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("preflight missing Access-Control-Allow-Origin, headers %v", rec.Header())
	}
}
