// Package scheduler keeps live countdown messages up to date.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coalition_site/internal/bot"
	"coalition_site/internal/countdown"
	"coalition_site/internal/model"
	"coalition_site/internal/storage"
)

// sessionTTL is how long an idle list carousel keeps its state.
const sessionTTL = 7 * 24 * time.Hour

// Sender is the interface for editing Telegram messages.
type Sender interface {
	EditMessage(chatID int64, messageID int, text string) error
}

// Scheduler ticks once per second and re-renders every active countdown.
type Scheduler struct {
	store  storage.Storage
	sender Sender
	log    *slog.Logger
	tick   time.Duration
	prune  time.Duration
	now    func() time.Time
}

// New creates a Scheduler with a one-second tick.
func New(store storage.Storage, sender Sender, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		sender: sender,
		log:    log,
		tick:   time.Second,
		prune:  time.Hour,
		now:    time.Now,
	}
}

// SetTickInterval overrides the default one-second update interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetClock overrides the clock countdowns are computed against.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.updateAll(ctx)
	s.pruneSessions(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	pruner := time.NewTicker(s.prune)
	defer pruner.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateAll(ctx)
		case <-pruner.C:
			s.pruneSessions(ctx)
		}
	}
}

func (s *Scheduler) updateAll(ctx context.Context) {
	active, err := s.store.ListActiveCountdowns(ctx)
	if err != nil {
		s.log.Error("list active countdowns", "error", err)
		return
	}

	now := s.now()
	for i := range active {
		if ctx.Err() != nil {
			return
		}
		s.update(ctx, &active[i], now)
	}
}

func (s *Scheduler) update(ctx context.Context, c *model.Countdown, now time.Time) {
	state := countdown.Compute(c.Target, now)
	if err := s.sender.EditMessage(c.ChatID, c.MessageID, bot.FormatCountdown(c, state)); err != nil {
		s.log.Error("edit countdown", "countdown_id", c.ID, "chat_id", c.ChatID, "error", err)
		return
	}

	// A /stop that lands between the snapshot and the edit above would be
	// overwritten by this tick, so restore the stopped text.
	_, err := s.store.GetCountdown(ctx, c.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := s.sender.EditMessage(c.ChatID, c.MessageID, bot.FormatStopped(c)); err != nil {
			s.log.Warn("restore stopped countdown", "countdown_id", c.ID, "error", err)
		}
		return
	case err != nil:
		s.log.Error("get countdown", "countdown_id", c.ID, "error", err)
		return
	}

	if !state.Completed {
		return
	}

	if err := s.store.CompleteCountdown(ctx, c.ID); err != nil {
		s.log.Error("complete countdown", "countdown_id", c.ID, "error", err)
		return
	}
	s.log.Info("countdown finished", "countdown_id", c.ID, "chat_id", c.ChatID, "label", c.Label)
}

func (s *Scheduler) pruneSessions(ctx context.Context) {
	n, err := s.store.PruneSessions(ctx, s.now().Add(-sessionTTL))
	if err != nil {
		s.log.Error("prune sessions", "error", err)
		return
	}
	if n > 0 {
		s.log.Info("pruned list sessions", "count", n)
	}
}
