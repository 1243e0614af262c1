// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/evgengiga/dashbord/internal/model"
)

// Authenticator exchanges credentials for a backend session.
type Authenticator interface {
	Authenticate(ctx context.Context, creds model.Credentials) (*model.Session, error)
	Profile(ctx context.Context, token string) (*model.Profile, error)
}

// DashboardFetcher loads the dashboard for a filter selection.
type DashboardFetcher interface {
	FetchDashboard(ctx context.Context, filters model.Filters) (*model.Payload, error)
}

// SessionStore persists the active session.
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context) (*model.Session, error)
	DeleteSession(ctx context.Context) error
}

// SnapshotStore keeps the last good payload per filter selection.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, filters model.Filters, payload *model.Payload) error
	GetSnapshot(ctx context.Context, filters model.Filters) (*model.Payload, error)
}

// Storage is the persistence layer.
type Storage interface {
	SessionStore
	SnapshotStore
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
