package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Record represents a recorded attendance entry.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Lecturer  string    `json:"lecturer"`
	Course    string    `json:"course"`
	MarkedOn  time.Time `json:"marked_on"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new record unless one already exists for the same
// (student, course, lecturer, day). The unique index makes this a single
// conditional insert, so concurrent submissions cannot both land. The second
// return value reports whether a new row was created; on a duplicate the
// existing record is returned instead.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, lecturer, course, marked_on)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (student_id, course, lecturer, marked_on) DO NOTHING
		RETURNING created_at
	`, rec.ID, rec.StudentID, rec.Lecturer, rec.Course, rec.MarkedOn)
	err := row.Scan(&rec.CreatedAt)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Record{}, false, ErrStudentNotFound
		}
		return Record{}, false, err
	}

	existing, err := r.findForDay(ctx, rec.StudentID, rec.Course, rec.Lecturer, rec.MarkedOn)
	if err != nil {
		return Record{}, false, err
	}
	return existing, false, nil
}

func (r *Repository) findForDay(ctx context.Context, studentID, course, lecturer string, day time.Time) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, lecturer, course, marked_on, created_at
		FROM attendance
		WHERE student_id = $1 AND course = $2 AND lecturer = $3 AND marked_on = $4
	`, studentID, course, lecturer, day)
	var rec Record
	err := row.Scan(&rec.ID, &rec.StudentID, &rec.Lecturer, &rec.Course, &rec.MarkedOn, &rec.CreatedAt)
	return rec, err
}

// List returns records with basic filters, newest first.
func (r *Repository) List(ctx context.Context, studentID string, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, student_id, lecturer, course, marked_on, created_at
		FROM attendance
	`
	args := []any{}
	if studentID != "" {
		query += ` WHERE student_id = $1`
		args = append(args, studentID)
	}
	if studentID != "" {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Lecturer, &rec.Course, &rec.MarkedOn, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
