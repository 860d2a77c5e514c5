package telegram

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDeleteQueue_SweepDeletesDueEntries(t *testing.T) {
	bot := &fakeBot{}
	q := NewDeleteQueue(bot, zap.NewNop())

	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return base }

	q.Schedule(100, 1, 2*time.Second)
	q.Schedule(100, 2, 10*time.Second)

	// Nothing due yet.
	q.sweep(base.Add(1 * time.Second))
	if len(bot.deleted) != 0 || q.pending() != 2 {
		t.Fatalf("premature deletion: deleted=%v pending=%d", bot.deleted, q.pending())
	}

	// The 2s confirmation expires, the 10s test message stays.
	q.sweep(base.Add(3 * time.Second))
	if len(bot.deleted) != 1 || bot.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want [1]", bot.deleted)
	}
	if q.pending() != 1 {
		t.Fatalf("pending = %d, want 1", q.pending())
	}

	// Everything expired.
	q.sweep(base.Add(11 * time.Second))
	if len(bot.deleted) != 2 || q.pending() != 0 {
		t.Fatalf("deleted = %v pending=%d, want both gone", bot.deleted, q.pending())
	}
}
