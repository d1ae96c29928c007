package student

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"qrattend/internal/qr"
)

// ErrNotFound is returned when no student matches the given id.
var ErrNotFound = errors.New("student not found")

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string { return e.Field + " is required" }

// Repo is the persistence surface the service needs.
type Repo interface {
	Create(ctx context.Context, st *Student) error
	Get(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context) ([]Student, error)
	SetAssetURLs(ctx context.Context, id string, photoURL, qrURL *string) error
}

// Uploader stores a named object in a bucket and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, object, contentType string, data []byte) (string, error)
}

// Service runs the registration workflow.
type Service struct {
	repo         Repo
	uploads      Uploader
	photoBucket  string
	qrBucket     string
	frontendBase string
}

// NewService creates a registration service.
func NewService(repo Repo, uploads Uploader, photoBucket, qrBucket, frontendBase string) *Service {
	return &Service{
		repo:         repo,
		uploads:      uploads,
		photoBucket:  photoBucket,
		qrBucket:     qrBucket,
		frontendBase: frontendBase,
	}
}

// RegisterInput carries the caller-supplied registration fields. Photo is
// optional; PhotoContentType is the declared type of the uploaded file.
type RegisterInput struct {
	Name             string
	Username         string
	Email            string
	MatricNumber     string
	Photo            []byte
	PhotoContentType string
}

// RegisterResult is the composed outcome of a registration.
type RegisterResult struct {
	Student           Student
	ScanTarget        string
	PhotoUploadFailed bool
}

// Register creates the student record, uploads the optional photo and the
// generated QR code, and attaches the derived URLs.
//
// A failed photo upload is tolerated: the student keeps a null photo_url and
// PhotoUploadFailed is set. A failed QR upload aborts the registration — the
// QR code is what the student checks in with.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	for _, f := range []struct{ name, val string }{
		{"name", in.Name},
		{"username", in.Username},
		{"email", in.Email},
		{"matric_number", in.MatricNumber},
	} {
		if f.val == "" {
			return nil, &ValidationError{Field: f.name}
		}
	}

	st := &Student{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		MatricNumber: in.MatricNumber,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	var photoURL *string
	photoFailed := false
	if len(in.Photo) > 0 {
		object := "photo_" + st.ID + extFor(in.PhotoContentType)
		url, err := s.uploads.Upload(ctx, s.photoBucket, object, in.PhotoContentType, in.Photo)
		if err != nil {
			log.Printf("photo upload failed for student %s: %v", st.ID, err)
			photoFailed = true
		} else {
			photoURL = &url
		}
	}

	target := qr.ScanTarget(s.frontendBase, st.ID)
	png, err := qr.EncodePNG(target)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	qrURL, err := s.uploads.Upload(ctx, s.qrBucket, "qr_"+st.ID+".png", "image/png", png)
	if err != nil {
		return nil, fmt.Errorf("upload qr: %w", err)
	}

	if err := s.repo.SetAssetURLs(ctx, st.ID, photoURL, &qrURL); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	st.PhotoURL = photoURL
	st.QRCodeURL = &qrURL

	return &RegisterResult{Student: *st, ScanTarget: target, PhotoUploadFailed: photoFailed}, nil
}

// Get returns a student or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}

// List returns all registered students.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.repo.List(ctx)
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
