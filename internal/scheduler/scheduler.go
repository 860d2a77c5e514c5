package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
	"github.com/igray-umney/telegram-bot-server/internal/store"
)

// Sender is the minimal interface the scheduler needs to deliver a
// reminder. telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler scans all users once per minute and fires the reminder for
// everyone whose configured local time matches the current minute.
// There is no catch-up: a minute missed (process down, tick delayed) is
// that day's reminder skipped.
type Scheduler struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender

	now  func() time.Time
	pick func(reminderType string) string
}

func New(repo store.Repo, log *zap.Logger, sender Sender) *Scheduler {
	return &Scheduler{
		repo:   repo,
		log:    log,
		sender: sender,
		now:    time.Now,
		pick:   domain.PickMessage,
	}
}

// Run drives the minute tick until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() { s.tick(ctx) }); err != nil {
		return err
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// tick performs one scan. Send failures are logged per user and do not
// stop the loop.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()

	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("list users failed", zap.Error(err))
		return
	}

	for _, u := range users {
		if !u.Enabled || !u.HasStarted || u.ChatID == 0 {
			continue
		}
		if domain.LocalClock(now, u.Timezone) != u.Time {
			continue
		}
		if err := s.sender.SendMessage(u.ChatID, s.pick(u.ReminderType)); err != nil {
			s.log.Error("reminder send failed",
				zap.String("userID", u.UserID),
				zap.Int64("chatID", u.ChatID),
				zap.Error(err),
			)
			continue
		}
		s.log.Info("reminder sent",
			zap.String("userID", u.UserID),
			zap.String("time", u.Time),
			zap.String("timezone", u.Timezone),
		)
	}
}
