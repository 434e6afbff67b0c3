package ports

import (
	"context"
	"time"

	"EasyFinder/internal/domain"
)

// LeadSource loads the current lead set.
type LeadSource interface {
	Load(ctx context.Context) ([]domain.Lead, error)
}

// LeadStore is a LeadSource whose contents can be replaced by an upload.
type LeadStore interface {
	LeadSource
	Replace(ctx context.Context, content []byte) error
}

// ActivityLog is the append-only audit trail.
type ActivityLog interface {
	Append(ctx context.Context, event domain.ActivityEvent) error
	Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error)
	Clear(ctx context.Context) error
}

// StatusRepository persists client status checks.
type StatusRepository interface {
	Create(ctx context.Context, clientName string) (domain.StatusCheck, error)
	List(ctx context.Context) ([]domain.StatusCheck, error)
}

// Outreach delivers the NDA invitation. The boolean reports delivery; the
// error carries the reason when delivery failed.
type Outreach interface {
	SendNDA(ctx context.Context, to, name, company string) (bool, error)
}

// Notifier streams run digests to an operator channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
