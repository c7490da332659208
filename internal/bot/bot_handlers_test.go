package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"

	"coalition_site/internal/cms"
	"coalition_site/internal/config"
	"coalition_site/internal/model"
	"coalition_site/internal/site"
	"coalition_site/internal/storage"
)

var now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// --- mocks ---

type sentMsg struct {
	ChatID    int64
	MessageID int
	Text      string
	Markup    bool
}

type mockAPI struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMsg
	edits   []sentMsg
	answers []string
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch msg := c.(type) {
	case tgbotapi.MessageConfig:
		m.nextID++
		m.sent = append(m.sent, sentMsg{ChatID: msg.ChatID, MessageID: m.nextID, Text: msg.Text, Markup: msg.ReplyMarkup != nil})
		return tgbotapi.Message{MessageID: m.nextID}, nil
	case tgbotapi.EditMessageTextConfig:
		m.edits = append(m.edits, sentMsg{ChatID: msg.ChatID, MessageID: msg.MessageID, Text: msg.Text, Markup: msg.ReplyMarkup != nil})
		return tgbotapi.Message{MessageID: msg.MessageID}, nil
	}
	return tgbotapi.Message{}, nil
}

func (m *mockAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		m.mu.Lock()
		m.answers = append(m.answers, cb.Text)
		m.mu.Unlock()
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(tgbotapi.UpdatesChannel)
}

func (m *mockAPI) StopReceivingUpdates() {}

func (m *mockAPI) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Text
}

func (m *mockAPI) lastEdit() sentMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return sentMsg{}
	}
	return m.edits[len(m.edits)-1]
}

// memSource serves fixed documents.
type memSource struct {
	docs []model.Document
}

func (s *memSource) FetchAllOfType(_ context.Context, kind model.Kind) ([]model.Document, error) {
	var out []model.Document
	for _, d := range s.docs {
		if d.Type == kind {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memSource) FetchByUID(_ context.Context, kind model.Kind, uid string) (*model.Document, error) {
	for _, d := range s.docs {
		if d.Type == kind && d.UID == uid {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("lookup %s: %w", uid, cms.ErrNotFound)
}

// --- helpers ---

func eventDoc(uid, title string, offset time.Duration) model.Document {
	data, _ := json.Marshal(map[string]any{
		"tiltle":     []map[string]string{{"type": "heading1", "text": title}},
		"start_date": now.Add(offset).Format(time.RFC3339),
	})
	return model.Document{UID: uid, Type: model.KindEvent, Data: data}
}

func testDocs() []model.Document {
	var docs []model.Document
	for i := 1; i <= 6; i++ {
		docs = append(docs, eventDoc(fmt.Sprintf("e%d", i), fmt.Sprintf("Event %d", i), time.Duration(i)*24*time.Hour))
	}
	return append(docs, eventDoc("old", "Old Event", -24*time.Hour))
}

func newTestBot(t *testing.T) (*Bot, *mockAPI, *storage.SQLite) {
	t.Helper()
	store, err := storage.NewSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pages := site.New(&memSource{docs: testDocs()}, log)
	pages.SetClock(func() time.Time { return now })

	api := &mockAPI{}
	b := &Bot{
		api:   api,
		store: store,
		pages: pages,
		cfg:   &config.Config{},
		log:   log,
		now:   func() time.Time { return now },
	}
	return b, api, store
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("reply missing %q, got:\n%s", want, got)
	}
}

func callback(chatID int64, messageID int, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}

// --- handler tests ---

func TestHandleStart(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleStart(100)
	requireContains(t, api.lastText(), "Welcome to the Coalition bot")
}

func TestHandleHelp(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleHelp(100)
	requireContains(t, api.lastText(), "/events")
	requireContains(t, api.lastText(), "/countdown")
}

func TestHandleList(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	b.handleList(ctx, 100, "events")
	reply := api.lastText()
	requireContains(t, reply, "Slide 1 of 2 (7 items)")
	requireContains(t, reply, "Event 1")
	requireContains(t, reply, "/show events e4")
	if strings.Contains(reply, "Event 5") {
		t.Errorf("first slide shows the fifth event:\n%s", reply)
	}
	if !api.sent[0].Markup {
		t.Error("expected an inline keyboard")
	}

	sess, err := store.GetSession(ctx, 100, api.sent[0].MessageID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	want := model.ListSession{ChatID: 100, MessageID: 1, List: "events", Filter: "all", Sort: "default"}
	sess.UpdatedAt = time.Time{}
	if diff := cmp.Diff(want, *sess); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("next edits the message and stores the index", func(t *testing.T) {
		b, api, store := newTestBot(t)
		b.handleList(ctx, 100, "events")

		b.handleCallback(ctx, callback(100, 1, "n"))
		edit := api.lastEdit()
		if edit.MessageID != 1 || !edit.Markup {
			t.Fatalf("edit = %+v", edit)
		}
		requireContains(t, edit.Text, "Slide 2 of 2")
		requireContains(t, edit.Text, "Old Event")

		sess, _ := store.GetSession(ctx, 100, 1)
		if sess.Index != 1 {
			t.Errorf("stored index = %d, want 1", sess.Index)
		}
	})

	t.Run("filter resets index", func(t *testing.T) {
		b, api, store := newTestBot(t)
		b.handleList(ctx, 100, "events")
		b.handleCallback(ctx, callback(100, 1, "n"))

		b.handleCallback(ctx, callback(100, 1, "f:past"))
		requireContains(t, api.lastEdit().Text, "Events [Past")

		sess, _ := store.GetSession(ctx, 100, 1)
		if sess.Filter != "past" || sess.Index != 0 {
			t.Errorf("session = %+v", sess)
		}
	})

	t.Run("unchanged state does not edit", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleList(ctx, 100, "events")

		b.handleCallback(ctx, callback(100, 1, "p"))
		b.handleCallback(ctx, callback(100, 1, "noop"))
		if len(api.edits) != 0 {
			t.Errorf("got %d edits, want none", len(api.edits))
		}
		if len(api.answers) != 2 {
			t.Errorf("got %d callback answers, want 2", len(api.answers))
		}
	})

	t.Run("unknown message", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleCallback(ctx, callback(100, 99, "n"))
		if len(api.answers) != 1 || !strings.Contains(api.answers[0], "expired") {
			t.Errorf("answers = %v", api.answers)
		}
	})
}

func TestHandleShow(t *testing.T) {
	ctx := context.Background()

	t.Run("bad args", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleShow(ctx, 100, "events")
		requireContains(t, api.lastText(), "usage: /show")
	})

	t.Run("not found", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleShow(ctx, 100, "events missing")
		requireContains(t, api.lastText(), "Nothing found")
	})

	t.Run("success", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleShow(ctx, 100, "events e2")
		reply := api.lastText()
		requireContains(t, reply, "Event 2")
		requireContains(t, reply, "/countdown e2")
		requireContains(t, reply, "Related Events:")
	})
}

func TestHandleCountdown(t *testing.T) {
	ctx := context.Background()

	t.Run("bad args", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleCountdown(ctx, 100, "")
		requireContains(t, api.lastText(), "usage: /countdown")
	})

	t.Run("unknown event", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleCountdown(ctx, 100, "missing")
		requireContains(t, api.lastText(), "not found")
	})

	t.Run("past event", func(t *testing.T) {
		b, api, store := newTestBot(t)
		b.handleCountdown(ctx, 100, "old")
		requireContains(t, api.lastText(), "already passed")

		cs, _ := store.ListCountdowns(ctx, 100)
		if len(cs) != 0 {
			t.Errorf("stored %d countdowns, want 0", len(cs))
		}
	})

	t.Run("event", func(t *testing.T) {
		b, api, store := newTestBot(t)
		b.handleCountdown(ctx, 100, "e1")
		reply := api.lastText()
		requireContains(t, reply, "Event 1")
		requireContains(t, reply, "1 Days : 00 Hours : 00 Minutes : 00 Seconds")

		active, err := store.ListActiveCountdowns(ctx)
		if err != nil {
			t.Fatalf("list active: %v", err)
		}
		if len(active) != 1 {
			t.Fatalf("got %d active countdowns, want 1", len(active))
		}
		want := model.Countdown{ID: 1, ChatID: 100, MessageID: 1, Label: "Event 1", Target: now.Add(24 * time.Hour)}
		active[0].CreatedAt = time.Time{}
		if diff := cmp.Diff(want, active[0]); diff != "" {
			t.Errorf("countdown mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("offset", func(t *testing.T) {
		b, api, store := newTestBot(t)
		b.handleCountdown(ctx, 100, "0 0 1 30 Doors open")
		requireContains(t, api.lastText(), "Doors open\n00 Hours : 01 Minutes : 30 Seconds")

		c, err := store.GetCountdown(ctx, 1)
		if err != nil {
			t.Fatalf("get countdown: %v", err)
		}
		if !c.Target.Equal(now.Add(90 * time.Second)) {
			t.Errorf("target = %v, want now+90s", c.Target)
		}
	})
}

func TestHandleCountdowns(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	b.handleCountdowns(ctx, 100)
	requireContains(t, api.lastText(), "no countdowns")

	b.handleCountdown(ctx, 100, "0 2 0 0 Rehearsal")
	b.handleCountdowns(ctx, 100)
	requireContains(t, api.lastText(), "#1 Rehearsal [running]")
	requireContains(t, api.lastText(), "02:00:00 left")
}

func TestHandleStop(t *testing.T) {
	ctx := context.Background()

	t.Run("bad args", func(t *testing.T) {
		b, api, _ := newTestBot(t)
		b.handleStop(ctx, 100, "abc")
		requireContains(t, api.lastText(), "Usage: /stop")
	})

	t.Run("wrong chat", func(t *testing.T) {
		b, api, store := newTestBot(t)
		c := &model.Countdown{ChatID: 200, Target: now.Add(time.Hour)}
		if err := store.CreateCountdown(ctx, c); err != nil {
			t.Fatalf("seed countdown: %v", err)
		}
		b.handleStop(ctx, 100, "1")
		requireContains(t, api.lastText(), "not found")
	})

	t.Run("success", func(t *testing.T) {
		b, api, store := newTestBot(t)
		b.handleCountdown(ctx, 100, "0 1 0 0 Break")

		b.handleStop(ctx, 100, "1")
		requireContains(t, api.lastText(), "Countdown #1 stopped.")
		requireContains(t, api.lastEdit().Text, "Break\nCountdown stopped.")

		if _, err := store.GetCountdown(ctx, 1); err == nil {
			t.Error("countdown still stored")
		}
	})
}

func TestHandleUpdateAccess(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)
	b.cfg = &config.Config{AllowedUsers: []int64{1}}

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 2},
		Chat:     &tgbotapi.Chat{ID: 100},
		Text:     "/events",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 7}},
	}}
	b.handleUpdate(ctx, update)
	if diff := cmp.Diff("Access denied.", api.lastText()); diff != "" {
		t.Errorf("reply mismatch (-want +got):\n%s", diff)
	}

	b.handleUpdate(ctx, tgbotapi.Update{CallbackQuery: callback(100, 1, "n")})
	if len(api.answers) != 1 || api.answers[0] != "Access denied." {
		t.Errorf("answers = %v", api.answers)
	}
}

func TestEditMessage(t *testing.T) {
	b, api, _ := newTestBot(t)
	if err := b.EditMessage(100, 5, "updated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := sentMsg{ChatID: 100, MessageID: 5, Text: "updated"}
	if diff := cmp.Diff(want, api.lastEdit()); diff != "" {
		t.Errorf("edit mismatch (-want +got):\n%s", diff)
	}
}
