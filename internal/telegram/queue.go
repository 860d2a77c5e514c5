package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// deleteEntry is one pending ephemeral-message deletion.
type deleteEntry struct {
	chatID    int64
	messageID int
	deleteAt  time.Time
}

// DeleteQueue expires ephemeral messages (confirmations, test
// notifications) at their scheduled time. One queue replaces the
// scattered per-message timers of the previous implementation, so
// expiry is a single testable operation. Deletion is best-effort:
// a message already removed on the Telegram side is not an error.
type DeleteQueue struct {
	bot botClient
	log *zap.Logger

	mu      sync.Mutex
	entries []deleteEntry

	now func() time.Time
}

func NewDeleteQueue(bot botClient, log *zap.Logger) *DeleteQueue {
	return &DeleteQueue{bot: bot, log: log, now: time.Now}
}

// Schedule queues a message for deletion after the given delay.
func (q *DeleteQueue) Schedule(chatID int64, messageID int, after time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, deleteEntry{
		chatID:    chatID,
		messageID: messageID,
		deleteAt:  q.now().Add(after),
	})
}

// Run sweeps the queue twice a second until ctx is canceled.
func (q *DeleteQueue) Run(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			q.log.Info("delete queue stopping")
			return
		case <-ticker.C:
			q.sweep(q.now())
		}
	}
}

// sweep deletes every entry due at or before now and drops it from the
// queue regardless of the outcome.
func (q *DeleteQueue) sweep(now time.Time) {
	q.mu.Lock()
	var due, rest []deleteEntry
	for _, e := range q.entries {
		if e.deleteAt.After(now) {
			rest = append(rest, e)
		} else {
			due = append(due, e)
		}
	}
	q.entries = rest
	q.mu.Unlock()

	for _, e := range due {
		if _, err := q.bot.Request(tgbotapi.NewDeleteMessage(e.chatID, e.messageID)); err != nil {
			q.log.Debug("ephemeral delete failed",
				zap.Int64("chatID", e.chatID),
				zap.Int("messageID", e.messageID),
				zap.Error(err),
			)
		}
	}
}

// pending returns the number of queued deletions.
func (q *DeleteQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
