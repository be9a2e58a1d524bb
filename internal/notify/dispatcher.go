package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/mail"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// Dispatcher turns bus events into emails, honoring each recipient's
// notification toggles. A nil mail client disables delivery but still
// exercises the subscription path, which keeps the core testable without a
// mail backend.
type Dispatcher struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	settingsRepo repos.UserSettingsRepo
	mailClient   mail.Client
}

func NewDispatcher(
	log *logger.Logger,
	userRepo repos.UserRepo,
	settingsRepo repos.UserSettingsRepo,
	mailClient mail.Client,
) *Dispatcher {
	return &Dispatcher{
		log:          log.With("component", "NotifyDispatcher"),
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		mailClient:   mailClient,
	}
}

func (d *Dispatcher) Register(bus *events.Bus) {
	bus.Subscribe(d.Handle)
}

func (d *Dispatcher) Handle(ctx context.Context, ev events.Event) {
	if len(ev.RecipientIDs) == 0 {
		return
	}
	users, err := d.userRepo.GetByIDs(ctx, nil, dedupe(ev.RecipientIDs, ev.ActorID))
	if err != nil {
		d.log.Warn("Failed to load notification recipients", "error", err, "kind", ev.Kind)
		return
	}
	if len(users) == 0 {
		return
	}
	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	settingsRows, err := d.settingsRepo.GetByUserIDs(ctx, nil, userIDs)
	if err != nil {
		d.log.Warn("Failed to load notification settings", "error", err, "kind", ev.Kind)
		settingsRows = nil
	}
	settingsByUser := make(map[uuid.UUID]*types.UserSettings, len(settingsRows))
	for _, s := range settingsRows {
		settingsByUser[s.UserID] = s
	}

	for _, u := range users {
		if !wantsEvent(settingsByUser[u.ID], ev.Kind) {
			continue
		}
		d.deliver(ctx, u, ev)
	}
}

// Missing settings rows mean defaults, and the defaults are all-on.
func wantsEvent(s *types.UserSettings, kind events.Kind) bool {
	if s == nil {
		return true
	}
	switch kind {
	case events.KindProjectAssigned:
		return s.NotifyNewProject
	case events.KindLogCreated:
		return s.NotifyNewLog
	case events.KindReportPublished:
		return s.NotifyReport
	case events.KindFileUploaded:
		return s.NotifyFile
	default:
		return true
	}
}

func (d *Dispatcher) deliver(ctx context.Context, user *types.User, ev events.Event) {
	if d.mailClient == nil {
		d.log.Debug("Mail client not configured, skipping delivery", "kind", ev.Kind, "user_id", user.ID)
		return
	}
	_, err := d.mailClient.Send(ctx, mail.SendEmailRequest{
		To:      []mail.EmailAddress{{Email: user.Email, Name: user.FirstName + " " + user.LastName}},
		Subject: ev.Title,
		Text:    fmt.Sprintf("%s\n\n%s", ev.Title, ev.Detail),
	})
	if err != nil {
		d.log.Warn("Notification delivery failed", "error", err, "kind", ev.Kind, "user_id", user.ID)
	}
}

func dedupe(ids []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
