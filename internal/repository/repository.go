// Package repository implements the student operations on top of a
// storage.Storage.
//
// Every operation is one read-modify-write cycle over the whole document:
// load, work on the in-memory copy, save if something changed. A mutex
// serialises the cycles, so two concurrent writers cannot overwrite each
// other's changes within one process.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aanand-mishra/classroom-api/internal/errs"
	"github.com/aanand-mishra/classroom-api/internal/storage"
	"github.com/aanand-mishra/classroom-api/internal/types"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	idPrefix  = "stu-"
	dateFmt   = "2006-01-02"
	faceCount = 12
)

const (
	msgNotFound       = "Student not found"
	msgDuplicateEmail = "Student with this email already exists"
	msgEmailTaken     = "Another student with this email already exists"
	msgStorage        = "Internal server error"
)

// Repository runs student operations against one document store.
type Repository struct {
	mu    sync.Mutex
	store storage.Storage

	now   func() time.Time
	image func() string
}

// Option customises a Repository.
type Option func(*Repository)

// WithClock replaces time.Now, used for default enrollment dates and the
// enrollmentsThisYear statistic.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithImagePicker replaces the random placeholder avatar picker.
func WithImagePicker(pick func() string) Option {
	return func(r *Repository) { r.image = pick }
}

// New returns a Repository over store.
func New(store storage.Storage, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		now:   time.Now,
		image: func() string { return storage.FaceURL(rand.IntN(faceCount) + 1) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListQuery selects one page of students. Zero or negative Page and Limit
// are clamped to 1; use DefaultPage/DefaultLimit for absent values.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// CreateInput is the body of POST /api/students.
type CreateInput struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Email          string   `json:"email" validate:"required"`
	Age            *int     `json:"age" validate:"omitempty,age_range"`
	EnrollmentDate string   `json:"enrollmentDate"`
	Image          string   `json:"image"`
	Courses        []string `json:"courses"`
}

// UpdateInput is the body of PUT /api/students/{id}.
//
// String fields fall back to the stored value when absent, null or empty.
// Age and Courses fall back only when the key is absent, so an explicit
// 0 or [] is kept.
type UpdateInput struct {
	FirstName      *string                  `json:"firstName"`
	LastName       *string                  `json:"lastName"`
	Email          *string                  `json:"email"`
	Age            types.Optional[int]      `json:"age" validate:"omitempty,age_range"`
	EnrollmentDate *string                  `json:"enrollmentDate"`
	Image          *string                  `json:"image"`
	Courses        types.Optional[[]string] `json:"courses"`
}

// load returns the stored document, or a fresh seed when the store cannot
// be read. The seed is not written back.
func (r *Repository) load(ctx context.Context) types.Document {
	doc, err := r.store.Load(ctx)
	if err != nil {
		slog.Warn("cannot load document, serving seed data",
			slog.String("error", err.Error()))
		doc = storage.Seed()
	}

	for i := range doc.Students {
		if doc.Students[i].Courses == nil {
			doc.Students[i].Courses = []string{}
		}
	}
	return doc
}

func (r *Repository) save(ctx context.Context, doc types.Document) error {
	if err := r.store.Save(ctx, doc); err != nil {
		slog.Error("cannot save document", slog.String("error", err.Error()))
		return errs.Wrap(errs.ErrStorage, msgStorage, err)
	}
	return nil
}

// Teacher returns the teacher record of the current document.
func (r *Repository) Teacher(ctx context.Context) types.Teacher {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx).Teacher
}

// ─────────────────────────────────────────────────────────────────────────────
// List filters by search (case-insensitive substring of first name, last
// name or email), then slices out the requested page.
// ─────────────────────────────────────────────────────────────────────────────
func (r *Repository) List(ctx context.Context, q ListQuery) (types.StudentPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)

	page := max(q.Page, 1)
	limit := max(q.Limit, 1)

	students := doc.Students
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered := make([]types.Student, 0, len(students))
		for _, s := range students {
			if strings.Contains(strings.ToLower(s.FirstName), needle) ||
				strings.Contains(strings.ToLower(s.LastName), needle) ||
				strings.Contains(strings.ToLower(s.Email), needle) {
				filtered = append(filtered, s)
			}
		}
		students = filtered
	}

	total := len(students)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// page <= totalPages keeps (page-1)*limit below total, so it cannot
	// overflow for huge page or limit values.
	out := make([]types.Student, 0, min(limit, total))
	if page <= totalPages {
		start := (page - 1) * limit
		end := start + min(limit, total-start)
		out = append(out, students[start:end]...)
	}

	return types.StudentPage{
		Students: out,
		Pagination: types.Pagination{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalStudents:   total,
			StudentsPerPage: limit,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}, nil
}

// Get returns the student with the exact id.
func (r *Repository) Get(ctx context.Context, id string) (types.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	i := indexOf(doc.Students, id)
	if i < 0 {
		return types.Student{}, errs.E(errs.ErrNotFound, msgNotFound)
	}
	return doc.Students[i], nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Create validates in, assigns the next id and appends the new student.
//
// Ids come from the document's sequence, never from the current count, so
// an id freed by a delete is not handed out again.
// ─────────────────────────────────────────────────────────────────────────────
func (r *Repository) Create(ctx context.Context, in CreateInput) (types.Student, error) {
	if err := checkInput(in); err != nil {
		return types.Student{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)

	if emailTaken(doc.Students, in.Email, "") {
		return types.Student{}, errs.E(errs.ErrConflict, msgDuplicateEmail)
	}

	seq := nextSequence(doc)

	student := types.Student{
		ID:             fmt.Sprintf("%s%03d", idPrefix, seq),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		EnrollmentDate: in.EnrollmentDate,
		Image:          in.Image,
		Courses:        in.Courses,
	}
	if in.Age != nil && *in.Age != 0 {
		age := *in.Age
		student.Age = &age
	}
	if student.EnrollmentDate == "" {
		student.EnrollmentDate = r.now().UTC().Format(dateFmt)
	}
	if student.Image == "" {
		student.Image = r.image()
	}
	if student.Courses == nil {
		student.Courses = []string{}
	}

	doc.Students = append(doc.Students, student)
	doc.StudentSequence = seq

	if err := r.save(ctx, doc); err != nil {
		return types.Student{}, err
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update merges in over the stored student. Checks run in this order:
// unknown id, email owned by another student, age out of range.
// ─────────────────────────────────────────────────────────────────────────────
func (r *Repository) Update(ctx context.Context, id string, in UpdateInput) (types.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	i := indexOf(doc.Students, id)
	if i < 0 {
		return types.Student{}, errs.E(errs.ErrNotFound, msgNotFound)
	}

	if email := deref(in.Email); email != "" && emailTaken(doc.Students, email, id) {
		return types.Student{}, errs.E(errs.ErrConflict, msgEmailTaken)
	}

	if err := checkInput(in); err != nil {
		return types.Student{}, err
	}

	current := doc.Students[i]
	updated := current

	updated.FirstName = orDefault(in.FirstName, current.FirstName)
	updated.LastName = orDefault(in.LastName, current.LastName)
	updated.Email = orDefault(in.Email, current.Email)
	updated.EnrollmentDate = orDefault(in.EnrollmentDate, current.EnrollmentDate)
	updated.Image = orDefault(in.Image, current.Image)

	if in.Age.Set {
		updated.Age = in.Age.Value
	}
	if in.Courses.Set {
		updated.Courses = []string{}
		if in.Courses.Value != nil && *in.Courses.Value != nil {
			updated.Courses = *in.Courses.Value
		}
	}

	doc.Students[i] = updated

	if err := r.save(ctx, doc); err != nil {
		return types.Student{}, err
	}

	return updated, nil
}

// Delete removes the student and returns the removed record.
func (r *Repository) Delete(ctx context.Context, id string) (types.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	i := indexOf(doc.Students, id)
	if i < 0 {
		return types.Student{}, errs.E(errs.ErrNotFound, msgNotFound)
	}

	// Pin the sequence before removing, so the freed id is never reissued
	// even when the sequence was only implied by the ids.
	doc.StudentSequence = nextSequence(doc) - 1

	removed := doc.Students[i]
	doc.Students = append(doc.Students[:i], doc.Students[i+1:]...)

	if err := r.save(ctx, doc); err != nil {
		return types.Student{}, err
	}

	return removed, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Stats summarises the collection. averageAge is the mean of the non-null
// ages rounded half up, or null when no student has an age.
// ─────────────────────────────────────────────────────────────────────────────
func (r *Repository) Stats(ctx context.Context) (types.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	year := r.now().Year()

	courses := make(map[string]struct{})
	var (
		ageSum, ageCount int
		thisYear         int
	)

	for _, s := range doc.Students {
		for _, c := range s.Courses {
			courses[c] = struct{}{}
		}
		if s.Age != nil {
			ageSum += *s.Age
			ageCount++
		}
		if enrollmentYear(s.EnrollmentDate) == year {
			thisYear++
		}
	}

	stats := types.Stats{
		TotalStudents:       len(doc.Students),
		TotalUniqueCourses:  len(courses),
		EnrollmentsThisYear: thisYear,
	}
	if ageCount > 0 {
		avg := int(math.Floor(float64(ageSum)/float64(ageCount) + 0.5))
		stats.AverageAge = &avg
	}

	return stats, nil
}

func indexOf(students []types.Student, id string) int {
	for i, s := range students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// emailTaken reports whether a student other than exceptID already uses
// email. Emails compare case-insensitively.
func emailTaken(students []types.Student, email, exceptID string) bool {
	for _, s := range students {
		if s.ID != exceptID && strings.EqualFold(s.Email, email) {
			return true
		}
	}
	return false
}

// nextSequence returns the next free id number: one past the larger of the
// stored sequence and the highest numeric id in the document.
func nextSequence(doc types.Document) int {
	highest := doc.StudentSequence
	for _, s := range doc.Students {
		if n := idNumber(s.ID); n > highest {
			highest = n
		}
	}
	return highest + 1
}

func idNumber(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, idPrefix))
	if err != nil || !strings.HasPrefix(id, idPrefix) {
		return 0
	}
	return n
}

// enrollmentYear returns the year of a YYYY-MM-DD or RFC 3339 date, or 0
// when the value does not parse.
func enrollmentYear(date string) int {
	for _, layout := range []string{dateFmt, time.RFC3339} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year()
		}
	}
	return 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
