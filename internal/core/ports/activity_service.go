package ports

import (
	"context"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// ActivityRecorder accepts activity entries without blocking the caller.
type ActivityRecorder interface {
	Record(a domain.StudentActivity)
}

// ActivityService stores one activity entry. It is driven by the queue
// workers, never by a request goroutine.
type ActivityService interface {
	Process(ctx context.Context, a domain.StudentActivity) error
}
