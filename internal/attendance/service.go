package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"qrattend/internal/auth"
)

const defaultParty = "Unknown"

var (
	// ErrUnauthorized is returned when the supplied admin credential does not
	// match the configured one.
	ErrUnauthorized = errors.New("invalid admin pin")

	// ErrStudentNotFound is returned when the referenced student does not exist.
	ErrStudentNotFound = errors.New("student not found")
)

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string { return e.Field + " is required" }

// Repo is the persistence surface the service needs.
type Repo interface {
	Insert(ctx context.Context, rec Record) (Record, bool, error)
	List(ctx context.Context, studentID string, limit, offset int) ([]Record, error)
}

// Service runs the check-in workflow.
type Service struct {
	repo Repo
	pin  string
}

// NewService creates a service gated by the given admin PIN.
func NewService(repo Repo, adminPIN string) *Service {
	return &Service{repo: repo, pin: adminPIN}
}

// CheckInInput carries a check-in submission. Lecturer and Course default to
// "Unknown" when absent.
type CheckInInput struct {
	StudentID string
	Lecturer  string
	Course    string
	AdminPIN  string
}

// CheckIn records attendance for today. The bool result reports whether a new
// record was created; false with a nil error means attendance was already
// taken today, which is a business outcome rather than a failure. Days are
// calendar days in UTC.
func (s *Service) CheckIn(ctx context.Context, in CheckInInput) (*Record, bool, error) {
	if in.StudentID == "" {
		return nil, false, &ValidationError{Field: "student_id"}
	}
	if !auth.VerifyPIN(in.AdminPIN, s.pin) {
		return nil, false, ErrUnauthorized
	}
	if in.Lecturer == "" {
		in.Lecturer = defaultParty
	}
	if in.Course == "" {
		in.Course = defaultParty
	}

	now := time.Now().UTC()
	rec := Record{
		ID:        uuid.NewString(),
		StudentID: in.StudentID,
		Lecturer:  in.Lecturer,
		Course:    in.Course,
		MarkedOn:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	inserted, created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	return &inserted, created, nil
}

// List returns attendance records filtered by student id when given.
func (s *Service) List(ctx context.Context, studentID string, limit, offset int) ([]Record, error) {
	return s.repo.List(ctx, studentID, limit, offset)
}
