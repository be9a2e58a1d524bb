package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/logger"
)

type Kind string

const (
	KindProjectAssigned Kind = "project.assigned"
	KindLogCreated      Kind = "log.created"
	KindReportPublished Kind = "report.published"
	KindFileUploaded    Kind = "file.uploaded"
)

// Event is what the lifecycle services publish instead of calling delivery
// code inline. RecipientIDs are resolved by the publisher (it knows the
// project); the dispatcher only filters by each recipient's settings.
type Event struct {
	Kind         Kind
	ActorID      uuid.UUID
	ProjectID    uuid.UUID
	SubjectID    uuid.UUID // report/log/file id depending on Kind
	Title        string
	Detail       string
	RecipientIDs []uuid.UUID
	OccurredAt   time.Time
}

type Handler func(ctx context.Context, ev Event)

// Bus is a synchronous in-process fan-out. Handlers run on the publishing
// goroutine; delivery work that must not block the request belongs inside
// the handler, not here.
type Bus struct {
	log *logger.Logger

	mu       sync.RWMutex
	handlers []Handler
}

func NewBus(log *logger.Logger) *Bus {
	return &Bus{log: log.With("component", "EventBus")}
}

func (b *Bus) Subscribe(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	if b == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()
	b.log.Debug("Publishing event", "kind", ev.Kind, "project_id", ev.ProjectID)
	for _, h := range handlers {
		h(ctx, ev)
	}
}
