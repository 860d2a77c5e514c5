package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
	"github.com/igray-umney/telegram-bot-server/internal/store"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendMessage(chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestServer(t *testing.T) (*Server, store.Repo, *fakeNotifier) {
	t.Helper()
	repo, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	n := &fakeNotifier{}
	return New(repo, zap.NewNop(), n), repo, n
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, payload
}

func TestStatus_UnknownUserDefaults(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec, got := doJSON(t, s.Handler(), http.MethodGet, "/api/telegram/status/999", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got["connected"] != false || got["enabled"] != false ||
		got["time"] != "19:00" || got["type"] != "motivational" {
		t.Fatalf("unexpected defaults: %v", got)
	}
}

func TestStatus_KnownUser(t *testing.T) {
	s, repo, _ := newTestServer(t)
	u := domain.NewUser("42", time.Now())
	u.Enabled = true
	u.HasStarted = true
	u.Time = "08:15"
	u.Timezone = "Владивосток"
	if err := repo.Upsert(context.Background(), u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rec, got := doJSON(t, s.Handler(), http.MethodGet, "/api/telegram/status/42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got["connected"] != true || got["enabled"] != true ||
		got["time"] != "08:15" || got["timezone"] != "Владивосток" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestConnect_CreatesEnabledUser(t *testing.T) {
	s, repo, _ := newTestServer(t)
	body := `{"userId":"7","username":"mom","settings":{"time":"10:30","reminderType":"playful"}}`
	rec, got := doJSON(t, s.Handler(), http.MethodPost, "/api/telegram/connect", body)
	if rec.Code != http.StatusOK || got["success"] != true {
		t.Fatalf("connect failed: %d %v", rec.Code, got)
	}

	u, err := repo.Get(context.Background(), "7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !u.Enabled || u.Time != "10:30" || u.ReminderType != "playful" || u.Username != "mom" {
		t.Fatalf("unexpected record: %+v", u)
	}
	if u.HasStarted {
		t.Fatal("connect must not fake the chat handshake")
	}
}

func TestConnect_IgnoresInvalidSettings(t *testing.T) {
	s, repo, _ := newTestServer(t)
	body := `{"userId":"8","settings":{"time":"25:99","reminderType":"spam"}}`
	rec, _ := doJSON(t, s.Handler(), http.MethodPost, "/api/telegram/connect", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	u, err := repo.Get(context.Background(), "8")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Time != domain.DefaultTime || u.ReminderType != domain.DefaultType {
		t.Fatalf("invalid settings leaked into the record: %+v", u)
	}
}

func TestConnect_RequiresUserID(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodPost, "/api/telegram/connect", `{"settings":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSendNotification_Flow(t *testing.T) {
	s, repo, n := newTestServer(t)

	// Unknown user -> 404.
	rec, _ := doJSON(t, s.Handler(), http.MethodPost, "/api/telegram/send-notification",
		`{"userId":"ghost","message":"hi"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: status = %d, want 404", rec.Code)
	}

	// Known but not handshaken -> 404.
	u := domain.NewUser("5", time.Now())
	if err := repo.Upsert(context.Background(), u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec, _ = doJSON(t, s.Handler(), http.MethodPost, "/api/telegram/send-notification",
		`{"userId":"5","message":"hi"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("no chat: status = %d, want 404", rec.Code)
	}

	// Handshaken -> delivered.
	u.ChatID = 777
	u.HasStarted = true
	if err := repo.Upsert(context.Background(), u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec, got := doJSON(t, s.Handler(), http.MethodPost, "/api/telegram/send-notification",
		`{"userId":"5","message":"пора заниматься"}`)
	if rec.Code != http.StatusOK || got["success"] != true {
		t.Fatalf("delivery: %d %v", rec.Code, got)
	}
	if len(n.sent) != 1 || n.sent[0] != "пора заниматься" {
		t.Fatalf("notifier got %v", n.sent)
	}
}

func TestRoot_Liveness(t *testing.T) {
	s, repo, _ := newTestServer(t)
	if err := repo.Upsert(context.Background(), domain.NewUser("1", time.Now())); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec, got := doJSON(t, s.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got["status"] != "ok" || got["users"] != float64(1) {
		t.Fatalf("unexpected payload: %v", got)
	}
}
