// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, auth and the repository all import types without
// depending on each other.
package types

import "encoding/json"

// Teacher is the single account allowed to log in.
// Password is stored as-is in the document (plaintext in the seed, or a
// bcrypt hash).
type Teacher struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

// Profile returns the teacher without the password.
func (t Teacher) Profile() TeacherProfile {
	return TeacherProfile{ID: t.ID, Name: t.Name, Email: t.Email}
}

// TeacherProfile is the redacted teacher returned by the login endpoint.
type TeacherProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Student represents a student record.
//
// Age is a pointer so that "no age" encodes as JSON null rather than 0.
type Student struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Age            *int     `json:"age"`
	EnrollmentDate string   `json:"enrollmentDate"`
	Image          string   `json:"image"`
	Courses        []string `json:"courses"`
}

// Document is the whole persisted state. It is always loaded and saved
// as one unit.
//
// StudentSequence is the numeric suffix of the last issued student id.
type Document struct {
	Teacher         Teacher   `json:"teacher"`
	Students        []Student `json:"students"`
	StudentSequence int       `json:"studentSequence,omitempty"`
}

// Pagination describes one page of a filtered student list.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalStudents   int  `json:"totalStudents"`
	StudentsPerPage int  `json:"studentsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// StudentPage is the body of GET /api/students.
type StudentPage struct {
	Students   []Student  `json:"students"`
	Pagination Pagination `json:"pagination"`
}

// Stats is the body of GET /api/stats.
type Stats struct {
	TotalStudents       int  `json:"totalStudents"`
	TotalUniqueCourses  int  `json:"totalUniqueCourses"`
	AverageAge          *int `json:"averageAge"`
	EnrollmentsThisYear int  `json:"enrollmentsThisYear"`
}

// Optional is a JSON field that remembers whether its key was present.
//
// A missing key leaves Set false. A present key sets Set, and Value is nil
// for an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// UnmarshalJSON is only called by encoding/json when the key is present,
// including for a literal null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
