package telegram

import (
	"context"
	"errors"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
	"github.com/igray-umney/telegram-bot-server/internal/store"
)

const (
	confirmTTL = 2 * time.Second
	testTTL    = 10 * time.Second
)

func userIDOf(from *tgbotapi.User) string {
	return strconv.FormatInt(from.ID, 10)
}

// handleStart registers the user (or refreshes an existing record),
// completes the chat handshake and shows the welcome menu.
func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := userIDOf(msg.From)

	u, err := r.repo.Get(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u = domain.NewUser(userID, r.now())
		u.ChatID = chatID
		u.Username = msg.From.UserName
		u.FirstName = msg.From.FirstName
		u.HasStarted = true
		err = r.repo.Upsert(ctx, u)
	case err == nil:
		_, err = r.repo.Update(ctx, userID, func(u *domain.User) error {
			u.ChatID = chatID
			u.Username = msg.From.UserName
			u.FirstName = msg.From.FirstName
			u.HasStarted = true
			return nil
		})
	}
	if err != nil {
		r.log.Error("start registration failed", zap.String("userID", userID), zap.Error(err))
		r.sendText(chatID, genericErrText)
		return
	}

	r.log.Info("user started", zap.String("userID", userID))
	r.renderMenu(chatID, userID, welcomeText, mainMenuKeyboard())
}

func (r *Router) showSettings(ctx context.Context, chatID int64, userID string) {
	u, err := r.repo.Get(ctx, userID)
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.renderMenu(chatID, userID, settingsText(u), settingsKeyboard(u))
}

func (r *Router) showStatus(ctx context.Context, chatID int64, userID string) {
	u, err := r.repo.Get(ctx, userID)
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.renderMenu(chatID, userID, statusText(u), statusKeyboard())
}

func (r *Router) showTimeMenu(ctx context.Context, chatID int64, userID string) {
	if _, err := r.repo.Get(ctx, userID); err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.renderMenu(chatID, userID, "⏰ *Выберите время для уведомлений:*", timeKeyboard())
}

// handleNotify processes "/notify HH:MM". Invalid input gets a usage
// reply and changes nothing.
func (r *Router) handleNotify(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := userIDOf(msg.From)

	clock, err := domain.ParseClock(msg.CommandArguments())
	if err != nil {
		r.sendText(chatID, notifyUsageText)
		return
	}

	if _, err := r.repo.Update(ctx, userID, func(u *domain.User) error {
		u.Time = clock
		return nil
	}); err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.sendText(chatID, "⏰ Время напоминаний установлено: "+clock)
}

func (r *Router) handleToggle(ctx context.Context, chatID int64, userID string) {
	u, err := r.repo.Update(ctx, userID, func(u *domain.User) error {
		u.Enabled = !u.Enabled
		return nil
	})
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}

	text := "Уведомления выключены ❌"
	if u.Enabled {
		text = "Уведомления включены ✅"
	}
	r.sendEphemeral(chatID, text, confirmTTL)
	r.renderMenu(chatID, userID, settingsText(u), settingsKeyboard(u))
}

func (r *Router) handleSetTime(ctx context.Context, chatID int64, userID, payload string) {
	clock, err := domain.ParseClock(payload)
	if err != nil {
		// Stale or tampered button payload: ignore.
		return
	}
	u, err := r.repo.Update(ctx, userID, func(u *domain.User) error {
		u.Time = clock
		return nil
	})
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.sendEphemeral(chatID, "⏰ Время установлено: "+clock, confirmTTL)
	r.renderMenu(chatID, userID, settingsText(u), settingsKeyboard(u))
}

func (r *Router) handleSetTimezone(ctx context.Context, chatID int64, userID, city string) {
	if !domain.KnownCity(city) {
		return
	}
	u, err := r.repo.Update(ctx, userID, func(u *domain.User) error {
		u.Timezone = city
		return nil
	})
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.sendEphemeral(chatID, "🌍 Город установлен: "+city, confirmTTL)
	r.renderMenu(chatID, userID, settingsText(u), settingsKeyboard(u))
}

func (r *Router) handleSetType(ctx context.Context, chatID int64, userID, typ string) {
	if !domain.KnownType(typ) {
		return
	}
	u, err := r.repo.Update(ctx, userID, func(u *domain.User) error {
		u.ReminderType = typ
		return nil
	})
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	r.sendEphemeral(chatID, "💬 Тип установлен: "+domain.TypeLabel(typ), confirmTTL)
	r.renderMenu(chatID, userID, settingsText(u), settingsKeyboard(u))
}

// handleTestNotification sends a sample reminder that removes itself.
func (r *Router) handleTestNotification(ctx context.Context, chatID int64, userID string) {
	u, err := r.repo.Get(ctx, userID)
	if err != nil {
		r.promptStart(chatID, userID, err)
		return
	}
	text := "🧪 Тестовое уведомление:\n\n" + domain.PickMessage(u.ReminderType)
	r.sendEphemeral(chatID, text, testTTL)
}

// promptStart is the shared not-found path: unknown users are told to
// run /start, anything else is an internal error.
func (r *Router) promptStart(chatID int64, userID string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, startFirstText)
		return
	}
	r.log.Error("store operation failed", zap.String("userID", userID), zap.Error(err))
	r.sendText(chatID, genericErrText)
}
