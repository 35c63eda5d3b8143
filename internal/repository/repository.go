package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

// DefaultKey is the storage key the alert collection lives under.
const DefaultKey = "crisis_ai_alerts"

var (
	// ErrNotFound means nothing has been stored under the key yet.
	ErrNotFound = errors.New("no stored alerts")
	// ErrStorage wraps every read or write failure of the backend.
	ErrStorage = errors.New("alert storage failure")
	// ErrCorruptData means the stored value does not decode into valid alerts.
	ErrCorruptData = errors.New("corrupt alert data")
)

// AlertPersister stores the whole alert collection as one unit.
// Save overwrites atomically: a later Load never observes a partial write.
type AlertPersister interface {
	Load(ctx context.Context) ([]models.Alert, error)
	Save(ctx context.Context, alerts []models.Alert) error
}

// Backend is a persister that owns a connection and can drop its key.
type Backend interface {
	AlertPersister
	Delete(ctx context.Context) error
	Close() error
}
