package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

type stubActivityRepo struct {
	insertErr error
	inserted  []*domain.StudentActivity
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.StudentActivity) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, a)
	return nil
}

func TestActivityService_Process_HappyPath(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.StudentActivity{
		StudentID: "65f1c0de000000000000abcd",
		Action:    domain.ActivityCreated,
		ActorID:   "user_1",
		Email:     "ada@example.com",
		At:        time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Action != domain.ActivityCreated {
		t.Errorf("expected activity inserted, got %+v", repo.inserted)
	}
}

func TestActivityService_Process_MissingStudent(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.StudentActivity{Action: domain.ActivityDeleted}); err == nil {
		t.Fatalf("expected error for entry without student id")
	}
	if len(repo.inserted) != 0 {
		t.Errorf("expected nothing inserted")
	}
}

func TestActivityService_Process_StoreError(t *testing.T) {
	storeErr := errors.New("write concern")
	svc := NewActivityService(&stubActivityRepo{insertErr: storeErr}, zerolog.Nop())

	err := svc.Process(context.Background(), domain.StudentActivity{StudentID: "x", Action: domain.ActivityUpdated})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
