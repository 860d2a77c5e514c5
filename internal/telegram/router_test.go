package telegram

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
	"github.com/igray-umney/telegram-bot-server/internal/store"
)

// fakeBot records the traffic a handler produces.
type fakeBot struct {
	nextID  int
	editErr error
	sent    []tgbotapi.MessageConfig
	edits   []tgbotapi.EditMessageTextConfig
	deleted []int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch v := c.(type) {
	case tgbotapi.EditMessageTextConfig:
		if f.editErr != nil {
			return tgbotapi.Message{}, f.editErr
		}
		f.edits = append(f.edits, v)
		return tgbotapi.Message{MessageID: v.MessageID}, nil
	case tgbotapi.MessageConfig:
		f.nextID++
		f.sent = append(f.sent, v)
		return tgbotapi.Message{MessageID: f.nextID}, nil
	default:
		return tgbotapi.Message{}, nil
	}
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if del, ok := c.(tgbotapi.DeleteMessageConfig); ok {
		f.deleted = append(f.deleted, del.MessageID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestRouter(t *testing.T) (*Router, *fakeBot, store.Repo) {
	t.Helper()
	repo, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	bot := &fakeBot{}
	queue := NewDeleteQueue(bot, zap.NewNop())
	r := NewRouter(bot, zap.NewNop(), repo, queue, "https://example.test")
	return r, bot, repo
}

func commandMsg(text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		MessageID: 900,
		From:      &tgbotapi.User{ID: 42, UserName: "parent", FirstName: "Аня"},
		Chat:      &tgbotapi.Chat{ID: 100},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func callbackUpd(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 42, UserName: "parent"},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: 100}},
	}}
}

func TestRenderMenu_SecondRenderEditsInPlace(t *testing.T) {
	r, bot, _ := newTestRouter(t)

	r.renderMenu(100, "42", "menu", mainMenuKeyboard())
	r.renderMenu(100, "42", "menu again", mainMenuKeyboard())

	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1 (second render must edit)", len(bot.sent))
	}
	if len(bot.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(bot.edits))
	}
	id, ok := r.menus.get("42")
	if !ok || id != 1 {
		t.Fatalf("tracked menu id = %d (%v), want 1", id, ok)
	}
}

func TestRenderMenu_EditFailureFallsBackToSend(t *testing.T) {
	r, bot, _ := newTestRouter(t)

	r.renderMenu(100, "42", "menu", mainMenuKeyboard())
	bot.editErr = errors.New("message to edit not found")
	r.renderMenu(100, "42", "menu again", mainMenuKeyboard())

	if len(bot.sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (failed edit falls back to send)", len(bot.sent))
	}
	if id, _ := r.menus.get("42"); id != 2 {
		t.Fatalf("tracked menu id = %d, want the fallback message id 2", id)
	}
}

func TestStart_CreatesDefaultedUser(t *testing.T) {
	r, bot, repo := newTestRouter(t)
	fixed := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/start")})

	u, err := repo.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if u.Enabled {
		t.Fatal("new user must start disabled")
	}
	if u.Time != "19:00" || u.Timezone != "Москва" || u.ReminderType != "motivational" {
		t.Fatalf("unexpected defaults: %+v", u)
	}
	if !u.HasStarted || u.ChatID != 100 || u.Username != "parent" {
		t.Fatalf("handshake fields not set: %+v", u)
	}
	// The triggering /start message is cleaned up best-effort.
	if len(bot.deleted) == 0 || bot.deleted[0] != 900 {
		t.Fatalf("command message not deleted: %v", bot.deleted)
	}
}

func TestNotify_ValidTimePersists(t *testing.T) {
	r, bot, repo := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/start")})

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/notify 08:15")})

	u, err := repo.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Time != "08:15" {
		t.Fatalf("time = %q, want 08:15", u.Time)
	}
	last := bot.sent[len(bot.sent)-1]
	if !strings.Contains(last.Text, "08:15") {
		t.Fatalf("no confirmation sent, last message: %q", last.Text)
	}
}

func TestNotify_InvalidTimeRejected(t *testing.T) {
	r, bot, repo := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/start")})

	for _, bad := range []string{"/notify 24:00", "/notify 7", "/notify abc", "/notify"} {
		r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg(bad)})
	}

	u, err := repo.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Time != "19:00" {
		t.Fatalf("time changed to %q on invalid input", u.Time)
	}
	last := bot.sent[len(bot.sent)-1]
	if !strings.Contains(last.Text, "Неверный формат") {
		t.Fatalf("expected usage reply, got %q", last.Text)
	}
}

func TestNotify_UnknownUserPromptsStart(t *testing.T) {
	r, bot, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/notify 08:15")})
	last := bot.sent[len(bot.sent)-1]
	if last.Text != startFirstText {
		t.Fatalf("expected /start prompt, got %q", last.Text)
	}
}

func TestCallback_ToggleFlipsEnabled(t *testing.T) {
	r, _, repo := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/start")})

	r.HandleUpdate(context.Background(), callbackUpd("toggle_notifications"))

	u, err := repo.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !u.Enabled {
		t.Fatal("toggle did not enable notifications")
	}
	if r.queue.pending() != 1 {
		t.Fatalf("expected 1 queued ephemeral deletion, got %d", r.queue.pending())
	}
}

func TestCallback_SetTimezoneRestoresSpaces(t *testing.T) {
	r, _, repo := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/start")})

	r.HandleUpdate(context.Background(), callbackUpd("tz_Нижний_Новгород"))

	u, err := repo.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Timezone != "Нижний Новгород" {
		t.Fatalf("timezone = %q, want multi-word city restored", u.Timezone)
	}
}

func TestCallback_UnknownTypeIgnored(t *testing.T) {
	r, _, repo := newTestRouter(t)
	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: commandMsg("/start")})

	r.HandleUpdate(context.Background(), callbackUpd("type_spam"))

	u, _ := repo.Get(context.Background(), "42")
	if u.ReminderType != domain.DefaultType {
		t.Fatalf("reminder type changed to %q by unknown payload", u.ReminderType)
	}
}

func TestCallback_MissingSenderIgnored(t *testing.T) {
	r, bot, _ := newTestRouter(t)
	upd := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		Data:    "settings",
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: 100}},
	}}
	r.HandleUpdate(context.Background(), upd)
	if len(bot.sent) != 0 || len(bot.edits) != 0 {
		t.Fatalf("callback without sender produced traffic: %d sends, %d edits", len(bot.sent), len(bot.edits))
	}
}

func TestCallback_UnknownDataIsNoOp(t *testing.T) {
	r, bot, _ := newTestRouter(t)
	r.HandleUpdate(context.Background(), callbackUpd("bogus_data"))
	if len(bot.sent) != 0 || len(bot.edits) != 0 {
		t.Fatalf("unknown callback produced traffic: %d sends, %d edits", len(bot.sent), len(bot.edits))
	}
}
