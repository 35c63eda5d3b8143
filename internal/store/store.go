// Package store owns the canonical alert collection. Every mutation runs
// read, modify and persist under one lock, and memory only changes after
// the persister accepted the new collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-crisis-alerts/internal/metrics"
	"github.com/mr1hm/go-crisis-alerts/internal/models"
	"github.com/mr1hm/go-crisis-alerts/internal/repository"
)

type state int

const (
	stateUninitialized state = iota
	stateLoading
	stateReady
)

// Notifier receives committed mutations.
type Notifier interface {
	Publish(ev models.AlertEvent)
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock overrides the creation time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation. Generated ids that collide with
// an existing alert are discarded and regenerated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

type Store struct {
	persister repository.AlertPersister
	notifier  Notifier
	now       func() time.Time
	newID     func() string

	mu     sync.Mutex
	state  state
	alerts []models.Alert
}

func New(persister repository.AlertPersister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		now:       time.Now,
		newID:     func() string { return "alert-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of the collection, newest first.
func (s *Store) List(ctx context.Context) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return cloneAlerts(s.alerts), nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return models.Alert{}, err
	}
	if i := s.indexOf(id); i >= 0 {
		return s.alerts[i], nil
	}
	return models.Alert{}, fmt.Errorf("%w: %s", models.ErrAlertNotFound, id)
}

// Create assigns a fresh id and timestamp, prepends the alert and persists
// the collection. On a storage failure the collection is left untouched.
func (s *Store) Create(ctx context.Context, in models.AlertInput) (models.Alert, error) {
	if err := in.Validate(); err != nil {
		metrics.AlertMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return models.Alert{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return models.Alert{}, err
	}

	id := s.newID()
	for id == "" || s.indexOf(id) >= 0 {
		id = s.newID()
	}
	alert := in.ToAlert(id, s.now().UTC().Round(0))
	if err := models.ValidateTimestamp(alert.Timestamp); err != nil {
		metrics.AlertMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return models.Alert{}, err
	}

	next := make([]models.Alert, 0, len(s.alerts)+1)
	next = append(next, alert)
	next = append(next, s.alerts...)

	if err := s.save(ctx, next); err != nil {
		metrics.AlertMutationsTotal.WithLabelValues("create", "error").Inc()
		return models.Alert{}, err
	}
	s.alerts = next
	metrics.AlertMutationsTotal.WithLabelValues("create", "success").Inc()

	slog.Debug("alert created", "id", alert.ID, "severity", alert.Severity, "status", alert.Status)
	s.publish(models.AlertCreated, alert)
	return alert, nil
}

// Update replaces the alert with the same id in place. It never creates.
// A zero Timestamp keeps the stored creation time.
func (s *Store) Update(ctx context.Context, alert models.Alert) (models.Alert, error) {
	if err := alert.Validate(); err != nil {
		metrics.AlertMutationsTotal.WithLabelValues("update", "invalid").Inc()
		return models.Alert{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return models.Alert{}, err
	}

	i := s.indexOf(alert.ID)
	if i < 0 {
		metrics.AlertMutationsTotal.WithLabelValues("update", "not_found").Inc()
		return models.Alert{}, fmt.Errorf("%w: %s", models.ErrAlertNotFound, alert.ID)
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = s.alerts[i].Timestamp
	}

	next := cloneAlerts(s.alerts)
	next[i] = alert

	if err := s.save(ctx, next); err != nil {
		metrics.AlertMutationsTotal.WithLabelValues("update", "error").Inc()
		return models.Alert{}, err
	}
	s.alerts = next
	metrics.AlertMutationsTotal.WithLabelValues("update", "success").Inc()

	slog.Debug("alert updated", "id", alert.ID, "status", alert.Status)
	s.publish(models.AlertUpdated, alert)
	return alert, nil
}

// Reload discards the in-memory collection and reads it again.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = stateUninitialized
	s.alerts = nil
	return s.ensureLoaded(ctx)
}

// ensureLoaded must be called with mu held. A failed load leaves the
// store uninitialized so the next call tries again.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.state == stateReady {
		return nil
	}
	s.state = stateLoading

	start := time.Now()
	alerts, err := s.persister.Load(ctx)
	metrics.PersistenceLatency.WithLabelValues("load").Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		s.alerts = alerts
	case errors.Is(err, repository.ErrNotFound):
		seed := models.DefaultAlerts(s.now())
		if err := s.save(ctx, seed); err != nil {
			s.state = stateUninitialized
			return fmt.Errorf("error seeding default alerts: %w", err)
		}
		slog.Info("seeded default alerts", "count", len(seed))
		s.alerts = seed
	default:
		s.state = stateUninitialized
		slog.Error("failed to load alerts", "error", err)
		return fmt.Errorf("error loading alerts: %w", err)
	}

	s.state = stateReady
	return nil
}

func (s *Store) save(ctx context.Context, alerts []models.Alert) error {
	start := time.Now()
	err := s.persister.Save(ctx, alerts)
	metrics.PersistenceLatency.WithLabelValues("save").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("failed to persist alerts", "count", len(alerts), "error", err)
		return fmt.Errorf("error saving alerts: %w", err)
	}
	return nil
}

func (s *Store) publish(t models.AlertEventType, a models.Alert) {
	if s.notifier != nil {
		s.notifier.Publish(models.AlertEvent{Type: t, Alert: a})
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAlerts(alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, len(alerts))
	copy(out, alerts)
	return out
}
