package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
	"github.com/igray-umney/telegram-bot-server/internal/store"
)

// Notifier delivers an immediate chat message on behalf of the
// companion web app. telegram.Router implements it.
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// Server exposes the user store to the companion web app: a status
// lookup, a connect/upsert call, an immediate-send endpoint and a
// liveness payload.
type Server struct {
	repo     store.Repo
	log      *zap.Logger
	notifier Notifier
	started  time.Time
	now      func() time.Time
}

func New(repo store.Repo, log *zap.Logger, notifier Notifier) *Server {
	s := &Server{
		repo:     repo,
		log:      log,
		notifier: notifier,
		now:      time.Now,
	}
	s.started = s.now()
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/telegram/status/", s.handleStatus)
	mux.HandleFunc("/api/telegram/connect", s.handleConnect)
	mux.HandleFunc("/api/telegram/send-notification", s.handleSendNotification)
	return mux
}

type statusResponse struct {
	Connected bool   `json:"connected"`
	Enabled   bool   `json:"enabled"`
	Time      string `json:"time"`
	Timezone  string `json:"timezone"`
	Type      string `json:"type"`
}

// handleStatus returns the user's connection state. Unknown ids get the
// documented defaults with connected=false rather than a 404: the web
// app renders the same settings form either way.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/api/telegram/status/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}

	resp := statusResponse{
		Connected: false,
		Enabled:   false,
		Time:      domain.DefaultTime,
		Timezone:  domain.DefaultTimezone,
		Type:      domain.DefaultType,
	}
	u, err := s.repo.Get(r.Context(), userID)
	switch {
	case err == nil:
		resp = statusResponse{
			Connected: u.HasStarted,
			Enabled:   u.Enabled,
			Time:      u.Time,
			Timezone:  u.Timezone,
			Type:      u.ReminderType,
		}
	case errors.Is(err, store.ErrNotFound):
		// keep defaults
	default:
		s.log.Error("status lookup failed", zap.String("userID", userID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type connectRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Settings struct {
		Time         string `json:"time"`
		ReminderType string `json:"reminderType"`
	} `json:"settings"`
}

type connectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleConnect creates or updates a user from the web app and enables
// their reminders. Settings outside the accepted vocabulary are ignored
// in favor of the current (or default) values.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	apply := func(u *domain.User) {
		u.Username = req.Username
		u.Enabled = true
		if clock, err := domain.ParseClock(req.Settings.Time); err == nil {
			u.Time = clock
		}
		if domain.KnownType(req.Settings.ReminderType) {
			u.ReminderType = req.Settings.ReminderType
		}
	}

	_, err := s.repo.Update(r.Context(), req.UserID, func(u *domain.User) error {
		apply(u)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		u := domain.NewUser(req.UserID, s.now())
		apply(u)
		err = s.repo.Upsert(r.Context(), u)
	}
	if err != nil {
		s.log.Error("connect failed", zap.String("userID", req.UserID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, connectResponse{Success: true, Message: "настройки сохранены"})
}

type sendRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleSendNotification pushes an immediate message to the user's chat.
// It fails with 404 when the chat handshake has not happened yet, since
// there is no destination to deliver to.
func (s *Server) handleSendNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	u, err := s.repo.Get(r.Context(), req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, sendResponse{Error: "user not found"})
		return
	}
	if err != nil {
		s.log.Error("send lookup failed", zap.String("userID", req.UserID), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, sendResponse{Error: "internal error"})
		return
	}
	if u.ChatID == 0 || !u.HasStarted {
		s.writeJSON(w, http.StatusNotFound, sendResponse{Error: "telegram chat not connected"})
		return
	}
	if err := s.notifier.SendMessage(u.ChatID, req.Message); err != nil {
		s.log.Error("notification send failed", zap.String("userID", req.UserID), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, sendResponse{Error: "delivery failed"})
		return
	}
	s.writeJSON(w, http.StatusOK, sendResponse{Success: true})
}

// handleRoot is the liveness payload.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	count, err := s.repo.Count(r.Context())
	if err != nil {
		count = 0
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"users":  count,
		"uptime": int64(s.now().Sub(s.started).Seconds()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response failed", zap.Error(err))
	}
}
