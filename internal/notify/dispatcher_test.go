package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/seoportal-backend/internal/events"
	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/mail"
	"github.com/yungbote/seoportal-backend/internal/repos"
	"github.com/yungbote/seoportal-backend/internal/types"
)

// fakeUserRepo only answers GetByIDs; the dispatcher touches nothing else.
type fakeUserRepo struct {
	repos.UserRepo
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	out := []*types.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	repos.UserSettingsRepo
	settings map[uuid.UUID]*types.UserSettings
}

func (f *fakeSettingsRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserSettings, error) {
	out := []*types.UserSettings{}
	for _, id := range userIDs {
		if s, ok := f.settings[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type recordingMailClient struct {
	sent []mail.SendEmailRequest
}

func (c *recordingMailClient) Send(ctx context.Context, req mail.SendEmailRequest) (*mail.SendEmailResult, error) {
	c.sent = append(c.sent, req)
	return &mail.SendEmailResult{}, nil
}

func TestDispatcherHonorsUserToggles(t *testing.T) {
	wants := &types.User{ID: uuid.New(), Email: "wants@example.com", FirstName: "Wants", LastName: "Mail"}
	optedOut := &types.User{ID: uuid.New(), Email: "optout@example.com", FirstName: "Opted", LastName: "Out"}
	noRow := &types.User{ID: uuid.New(), Email: "defaults@example.com", FirstName: "No", LastName: "Row"}

	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{
		wants.ID:    wants,
		optedOut.ID: optedOut,
		noRow.ID:    noRow,
	}}
	settingsRepo := &fakeSettingsRepo{settings: map[uuid.UUID]*types.UserSettings{
		wants.ID:    {UserID: wants.ID, NotifyReport: true},
		optedOut.ID: {UserID: optedOut.ID, NotifyReport: false},
	}}
	client := &recordingMailClient{}

	bus := events.NewBus(logger.NewNop())
	NewDispatcher(logger.NewNop(), userRepo, settingsRepo, client).Register(bus)

	bus.Publish(context.Background(), events.Event{
		Kind:         events.KindReportPublished,
		Title:        "Report published",
		Detail:       "Your January report is ready.",
		RecipientIDs: []uuid.UUID{wants.ID, optedOut.ID, noRow.ID},
	})

	if len(client.sent) != 2 {
		t.Fatalf("deliveries: want=2 got=%d", len(client.sent))
	}
	delivered := map[string]bool{}
	for _, req := range client.sent {
		if len(req.To) != 1 {
			t.Fatalf("recipients per mail: want=1 got=%d", len(req.To))
		}
		delivered[req.To[0].Email] = true
		if req.Subject != "Report published" {
			t.Fatalf("subject: want=%q got=%q", "Report published", req.Subject)
		}
	}
	if !delivered[wants.Email] {
		t.Fatalf("opted-in user not delivered")
	}
	// Users without a settings row get the all-on defaults.
	if !delivered[noRow.Email] {
		t.Fatalf("defaulted user not delivered")
	}
	if delivered[optedOut.Email] {
		t.Fatalf("opted-out user was delivered")
	}
}

func TestDispatcherSkipsActorAndDuplicates(t *testing.T) {
	actor := &types.User{ID: uuid.New(), Email: "actor@example.com"}
	peer := &types.User{ID: uuid.New(), Email: "peer@example.com"}

	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{
		actor.ID: actor,
		peer.ID:  peer,
	}}
	client := &recordingMailClient{}

	bus := events.NewBus(logger.NewNop())
	NewDispatcher(logger.NewNop(), userRepo, &fakeSettingsRepo{}, client).Register(bus)

	bus.Publish(context.Background(), events.Event{
		Kind:         events.KindLogCreated,
		ActorID:      actor.ID,
		Title:        "Work logged",
		RecipientIDs: []uuid.UUID{actor.ID, peer.ID, peer.ID, uuid.Nil},
	})

	if len(client.sent) != 1 {
		t.Fatalf("deliveries: want=1 got=%d", len(client.sent))
	}
	if client.sent[0].To[0].Email != peer.Email {
		t.Fatalf("delivered to %q, want %q", client.sent[0].To[0].Email, peer.Email)
	}
}

func TestDispatcherWithoutMailClientIsLogOnly(t *testing.T) {
	user := &types.User{ID: uuid.New(), Email: "quiet@example.com"}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{user.ID: user}}

	bus := events.NewBus(logger.NewNop())
	NewDispatcher(logger.NewNop(), userRepo, &fakeSettingsRepo{}, nil).Register(bus)

	// Must not panic with delivery disabled.
	bus.Publish(context.Background(), events.Event{
		Kind:         events.KindFileUploaded,
		Title:        "File uploaded",
		RecipientIDs: []uuid.UUID{user.ID},
	})
}
