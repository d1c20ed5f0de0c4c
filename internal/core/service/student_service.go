package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
	"github.com/studentsdesk/studentsdesk-api/internal/core/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type StudentService struct {
	repo     ports.StudentRepository
	cache    ports.StatsCache
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStudentService wires the student use cases. cache and activity may be
// nil, in which case stats are computed on every call and no activity trail
// is kept.
func NewStudentService(
	repo ports.StudentRepository,
	cache ports.StatsCache,
	activity ports.ActivityRecorder,
	logger zerolog.Logger,
) *StudentService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	if activity == nil {
		activity = noopRecorder{}
	}
	return &StudentService{
		repo:     repo,
		cache:    cache,
		activity: activity,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *StudentService) ListStudents(ctx context.Context, identity *domain.Identity, in ports.ListStudentsInput) (*ports.ListStudentsResult, error) {
	page := in.Page
	if page < 1 {
		page = defaultPage
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, total, err := s.repo.List(ctx, ports.ListStudentsFilter{
		Scope:  domain.ScopeFor(identity),
		Search: in.Search,
		Course: in.Course,
		Status: in.Status,
		Sort:   domain.ParseSort(in.SortBy),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if items == nil {
		items = []*domain.Student{}
	}

	return &ports.ListStudentsResult{
		Items:       items,
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id string, identity *domain.Identity) (*domain.Student, error) {
	return s.repo.FindByID(ctx, id, domain.ScopeFor(identity))
}

// CreateStudent validates data, rejects an e-mail already used within the
// caller's scope and persists the record. An authenticated caller becomes
// the owner.
func (s *StudentService) CreateStudent(ctx context.Context, data map[string]any, identity *domain.Identity) (*domain.Student, error) {
	in, res := validation.ParseStudentInput(data)
	if !res.IsValid {
		return nil, res.Err()
	}

	if err := s.ensureEmailFree(ctx, in.Email, "", domain.ScopeFor(identity)); err != nil {
		return nil, err
	}

	student := domain.NewStudent(in, identity, s.now())
	if err := validation.CheckStudentSchema(student); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, domain.ErrDuplicateStudent) {
			return nil, err
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.invalidateStats(ctx, student.CreatedBy)
	s.record(student, domain.ActivityCreated, identity)

	s.logger.Info().
		Str("student_id", student.ID).
		Str("course", string(student.Course)).
		Str("created_by", student.CreatedBy).
		Msg("student created")

	return student, nil
}

// UpdateStudent replaces the fields carried by data on an existing record.
// Optional fields missing from data keep their stored value.
func (s *StudentService) UpdateStudent(ctx context.Context, id string, data map[string]any, identity *domain.Identity) (*domain.Student, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	in, res := validation.ParseStudentInput(data)
	if !res.IsValid {
		return nil, res.Err()
	}

	student, err := s.repo.FindByID(ctx, id, domain.Unscoped())
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(student, identity) {
		return nil, domain.ErrForbidden
	}

	if in.Email != student.Email {
		if err := s.ensureEmailFree(ctx, in.Email, student.ID, domain.ScopeFor(identity)); err != nil {
			return nil, err
		}
	}

	student.Apply(in)
	student.UpdatedAt = s.now()
	if err := validation.CheckStudentSchema(student); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateStudent) || errors.Is(err, domain.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update student: %w", err)
	}

	s.invalidateStats(ctx, updated.CreatedBy)
	s.record(updated, domain.ActivityUpdated, identity)

	s.logger.Info().Str("student_id", updated.ID).Str("user_id", identity.UserID).Msg("student updated")
	return updated, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id string, identity *domain.Identity) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}

	student, err := s.repo.FindByID(ctx, id, domain.Unscoped())
	if err != nil {
		return err
	}
	if !domain.CanMutate(student, identity) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, student.ID); err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("delete student: %w", err)
	}

	s.invalidateStats(ctx, student.CreatedBy)
	s.record(student, domain.ActivityDeleted, identity)

	s.logger.Info().Str("student_id", student.ID).Str("user_id", identity.UserID).Msg("student deleted")
	return nil
}

// StudentStats summarises the records owned by the caller. Results are
// served from the cache when present.
func (s *StudentService) StudentStats(ctx context.Context, identity *domain.Identity) (*domain.StudentStats, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	owner := identity.UserID

	cached, ok, err := s.cache.Get(ctx, owner)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", owner).Msg("stats cache read failed")
	} else if ok {
		return cached, nil
	}

	stats, err := s.repo.Stats(ctx, owner, s.now().Add(-domain.RecentWindow))
	if err != nil {
		return nil, fmt.Errorf("student stats: %w", err)
	}
	normaliseStats(stats)

	if err := s.cache.Set(ctx, owner, stats); err != nil {
		s.logger.Warn().Err(err).Str("user_id", owner).Msg("stats cache write failed")
	}
	return stats, nil
}

// ensureEmailFree fails with ErrDuplicateStudent when another record in
// scope already uses email. selfID excludes the record being updated.
func (s *StudentService) ensureEmailFree(ctx context.Context, email, selfID string, scope domain.Scope) error {
	existing, err := s.repo.FindByEmail(ctx, email, scope)
	switch {
	case errors.Is(err, domain.ErrStudentNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check duplicate email: %w", err)
	case existing.ID != selfID:
		return domain.ErrDuplicateStudent
	default:
		return nil
	}
}

func (s *StudentService) invalidateStats(ctx context.Context, owner string) {
	if owner == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, owner); err != nil {
		s.logger.Warn().Err(err).Str("user_id", owner).Msg("stats cache invalidation failed")
	}
}

func (s *StudentService) record(student *domain.Student, action domain.ActivityAction, identity *domain.Identity) {
	a := domain.StudentActivity{
		StudentID: student.ID,
		Action:    action,
		Email:     student.Email,
		At:        s.now(),
	}
	if identity != nil {
		a.ActorID = identity.UserID
	}
	s.activity.Record(a)
}

func normaliseStats(st *domain.StudentStats) {
	if st.ByCourse == nil {
		st.ByCourse = []domain.CountByKey{}
	}
	if st.ByStatus == nil {
		st.ByStatus = []domain.CountByKey{}
	}
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context, string) (*domain.StudentStats, bool, error) {
	return nil, false, nil
}
func (noopStatsCache) Set(context.Context, string, *domain.StudentStats) error { return nil }
func (noopStatsCache) Invalidate(context.Context, string) error                { return nil }

type noopRecorder struct{}

func (noopRecorder) Record(domain.StudentActivity) {}
