package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Student represents a registered student.
type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	MatricNumber string    `json:"matric_number"`
	PhotoURL     *string   `json:"photo_url"`
	QRCodeURL    *string   `json:"qr_code_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new student, assigning id and created_at.
func (r *Repository) Create(ctx context.Context, st *Student) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, username, email, matric_number)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, st.ID, st.Name, st.Username, st.Email, st.MatricNumber)
	return row.Scan(&st.CreatedAt)
}

// Get returns a student by id, or nil when no row matches.
func (r *Repository) Get(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, username, email, matric_number, photo_url, qr_code_url, created_at
		FROM students WHERE id = $1
	`, id)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.Username, &st.Email, &st.MatricNumber, &st.PhotoURL, &st.QRCodeURL, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// List returns all students, newest first.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, username, email, matric_number, photo_url, qr_code_url, created_at
		FROM students
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Username, &st.Email, &st.MatricNumber, &st.PhotoURL, &st.QRCodeURL, &st.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// SetAssetURLs attaches the derived photo and QR URLs after upload. This is
// the single post-creation mutation a student record ever sees.
func (r *Repository) SetAssetURLs(ctx context.Context, id string, photoURL, qrURL *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE students SET photo_url = $2, qr_code_url = $3 WHERE id = $1
	`, id, photoURL, qrURL)
	return err
}
