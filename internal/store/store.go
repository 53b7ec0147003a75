// Package store owns persistence for users, standups and team tokens.
// The two implementations (Postgres via gorm, and an in-memory variant)
// satisfy the same interface so callers never know which one they hold.
package store

import (
	"context"
	"errors"
	"time"

	"progress-bot/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

type Store interface {
	// Users
	GetUser(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error

	// Standups. "Today" is the current UTC calendar day; at most one
	// standup exists per (user, day).
	TodayStandup(ctx context.Context, username string) (*model.Standup, error)
	LatestStandup(ctx context.Context, username string) (*model.Standup, error)
	StandupBefore(ctx context.Context, username string, date time.Time) (*model.Standup, error)
	StandupByID(ctx context.Context, id int) (*model.Standup, error)
	CreateStandup(ctx context.Context, standup *model.Standup) error
	UpdateStandup(ctx context.Context, standup *model.Standup) error
	DeleteTodayStandup(ctx context.Context, username string) error

	// Teams
	BotTokenForTeam(ctx context.Context, teamID string) (string, error)
	UpsertTeam(ctx context.Context, team *model.Team) error

	// Reminder sweep
	UsersDueReminder(ctx context.Context, now time.Time) ([]model.User, error)
	MarkNotified(ctx context.Context, userID int, at time.Time) error
}
