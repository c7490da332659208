// Package storage defines the persistence interface for transport state and
// its SQLite implementation. Site content is never stored here.
package storage

import (
	"context"
	"errors"
	"time"

	"coalition_site/internal/model"
)

// ErrNotFound is returned when a session or countdown does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	SaveSession(ctx context.Context, s *model.ListSession) error
	GetSession(ctx context.Context, chatID int64, messageID int) (*model.ListSession, error)
	PruneSessions(ctx context.Context, before time.Time) (int64, error)

	CreateCountdown(ctx context.Context, c *model.Countdown) error
	GetCountdown(ctx context.Context, id int64) (*model.Countdown, error)
	ListCountdowns(ctx context.Context, chatID int64) ([]model.Countdown, error)
	ListActiveCountdowns(ctx context.Context) ([]model.Countdown, error)
	SetCountdownMessage(ctx context.Context, id int64, messageID int) error
	CompleteCountdown(ctx context.Context, id int64) error
	DeleteCountdown(ctx context.Context, id int64) error

	Close() error
}
