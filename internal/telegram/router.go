package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/store"
)

// botClient is the slice of the Telegram API the router needs. Satisfied
// by *tgbotapi.BotAPI; tests substitute a fake.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router wires Telegram updates to handlers. It owns the per-user menu
// sessions and the ephemeral-deletion queue.
type Router struct {
	bot       botClient
	log       *zap.Logger
	repo      store.Repo
	queue     *DeleteQueue
	menus     *menuSessions
	webAppURL string
	now       func() time.Time
}

// NewRouter creates a Telegram router.
func NewRouter(bot botClient, log *zap.Logger, repo store.Repo, queue *DeleteQueue, webAppURL string) *Router {
	return &Router{
		bot:       bot,
		log:       log,
		repo:      repo,
		queue:     queue,
		menus:     newMenuSessions(),
		webAppURL: webAppURL,
		now:       time.Now,
	}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil && upd.Message.From != nil {
		r.handleMessage(ctx, upd.Message)
		return
	}
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		// Free-form text has no role here; all input goes through
		// commands and buttons.
		return
	}

	chatID := msg.Chat.ID
	userID := userIDOf(msg.From)

	switch msg.Command() {
	case "start":
		r.deleteMessage(chatID, msg.MessageID)
		r.handleStart(ctx, msg)
	case "app":
		r.deleteMessage(chatID, msg.MessageID)
		r.renderMenu(chatID, userID, appText, appKeyboard(r.webAppURL))
	case "settings":
		r.deleteMessage(chatID, msg.MessageID)
		r.showSettings(ctx, chatID, userID)
	case "status":
		r.deleteMessage(chatID, msg.MessageID)
		r.showStatus(ctx, chatID, userID)
	case "help":
		r.deleteMessage(chatID, msg.MessageID)
		r.renderMenu(chatID, userID, helpText, helpKeyboard())
	case "notify":
		r.handleNotify(ctx, msg)
	case "time":
		r.deleteMessage(chatID, msg.MessageID)
		r.showTimeMenu(ctx, chatID, userID)
	default:
		// Unknown command: ignore.
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	userID := userIDOf(cb.From)
	action := parseCallback(cb.Data)

	r.answerCallback(cb.ID, "")

	switch action.kind {
	case actionMainMenu:
		r.renderMenu(chatID, userID, mainMenuText, mainMenuKeyboard())
	case actionSettings, actionBackToSettings:
		r.showSettings(ctx, chatID, userID)
	case actionStatus:
		r.showStatus(ctx, chatID, userID)
	case actionHelp:
		r.renderMenu(chatID, userID, helpText, helpKeyboard())
	case actionToggleNotifications:
		r.handleToggle(ctx, chatID, userID)
	case actionChangeTime:
		r.showTimeMenu(ctx, chatID, userID)
	case actionChangeTimezone:
		r.renderMenu(chatID, userID, "🌍 *Выберите ваш город:*", timezoneKeyboard())
	case actionChangeType:
		r.renderMenu(chatID, userID, "💬 *Выберите тип уведомлений:*", typeKeyboard())
	case actionTestNotification:
		r.handleTestNotification(ctx, chatID, userID)
	case actionSetTime:
		r.handleSetTime(ctx, chatID, userID, action.payload)
	case actionSetTimezone:
		r.handleSetTimezone(ctx, chatID, userID, action.payload)
	case actionSetType:
		r.handleSetType(ctx, chatID, userID, action.payload)
	case actionUnknown:
		// Stale or foreign callback data: no-op.
	}
}

// renderMenu shows text+keyboard as the user's single live menu message:
// edit the tracked message in place, or send a fresh one and track it
// when there is nothing to edit (or the edit fails because the message
// is gone or too old).
func (r *Router) renderMenu(chatID int64, userID, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if msgID, ok := r.menus.get(userID); ok {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := r.bot.Send(edit); err == nil {
			return
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = kb
	sent, err := r.bot.Send(msg)
	if err != nil {
		r.log.Error("send menu failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}
	r.menus.record(userID, sent.MessageID)
}

// sendText sends a plain reply without touching the menu session.
func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Error("send text failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// sendEphemeral sends a short-lived confirmation and queues its deletion.
func (r *Router) sendEphemeral(chatID int64, text string, ttl time.Duration) {
	sent, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		r.log.Error("send ephemeral failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}
	r.queue.Schedule(chatID, sent.MessageID, ttl)
}

// deleteMessage removes a message best-effort. The user's own command
// messages are cleaned up this way before a menu is rendered.
func (r *Router) deleteMessage(chatID int64, messageID int) {
	_, _ = r.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
}

func (r *Router) answerCallback(id, text string) {
	_, _ = r.bot.Request(tgbotapi.NewCallback(id, text))
}

// SendMessage sends a plain text message to the given chat. This makes
// Router satisfy scheduler.Sender and the HTTP API's notifier.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
