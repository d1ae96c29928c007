package attendance

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	inserted  *Record
	duplicate bool
	insertErr error
}

func (f *fakeRepo) Insert(_ context.Context, rec Record) (Record, bool, error) {
	if f.insertErr != nil {
		return Record{}, false, f.insertErr
	}
	f.inserted = &rec
	rec.CreatedAt = time.Now().UTC()
	return rec, !f.duplicate, nil
}

func (f *fakeRepo) List(_ context.Context, studentID string, limit, offset int) ([]Record, error) {
	return nil, nil
}

const pin = "4821"

func TestCheckInMissingStudentID(t *testing.T) {
	svc := NewService(&fakeRepo{}, pin)
	_, _, err := svc.CheckIn(context.Background(), CheckInInput{AdminPIN: pin})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "student_id" {
		t.Fatalf("err = %v, want student_id ValidationError", err)
	}
}

func TestCheckInWrongPIN(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, pin)
	_, _, err := svc.CheckIn(context.Background(), CheckInInput{StudentID: "s1", AdminPIN: "0000"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if repo.inserted != nil {
		t.Error("record inserted despite bad pin")
	}
}

func TestCheckInDefaults(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, pin)
	rec, created, err := svc.CheckIn(context.Background(), CheckInInput{StudentID: "s1", AdminPIN: pin})
	if err != nil || !created {
		t.Fatalf("CheckIn = %v, created=%v", err, created)
	}
	if rec.Lecturer != "Unknown" || rec.Course != "Unknown" {
		t.Errorf("defaults not applied: %+v", rec)
	}
	if rec.ID == "" {
		t.Error("no id assigned")
	}

	now := time.Now().UTC()
	wantDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !rec.MarkedOn.Equal(wantDay) {
		t.Errorf("marked_on = %v, want %v", rec.MarkedOn, wantDay)
	}
}

func TestCheckInPassesFieldsThrough(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, pin)
	rec, _, err := svc.CheckIn(context.Background(), CheckInInput{
		StudentID: "s1", Lecturer: "Dr. Okoro", Course: "CS101", AdminPIN: pin,
	})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.StudentID != "s1" || rec.Lecturer != "Dr. Okoro" || rec.Course != "CS101" {
		t.Errorf("record = %+v", rec)
	}
}

func TestCheckInDuplicateIsNotAnError(t *testing.T) {
	svc := NewService(&fakeRepo{duplicate: true}, pin)
	rec, created, err := svc.CheckIn(context.Background(), CheckInInput{StudentID: "s1", AdminPIN: pin})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if created {
		t.Error("created = true, want duplicate outcome")
	}
	if rec == nil {
		t.Error("existing record not returned")
	}
}

func TestCheckInUnknownStudent(t *testing.T) {
	svc := NewService(&fakeRepo{insertErr: ErrStudentNotFound}, pin)
	_, _, err := svc.CheckIn(context.Background(), CheckInInput{StudentID: "ghost", AdminPIN: pin})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}
