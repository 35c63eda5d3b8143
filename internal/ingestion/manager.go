// Package ingestion polls public hazard feeds and records new events as alerts.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mr1hm/go-crisis-alerts/internal/config"
	"github.com/mr1hm/go-crisis-alerts/internal/metrics"
	"github.com/mr1hm/go-crisis-alerts/internal/models"
	"github.com/mr1hm/go-crisis-alerts/internal/worker"
)

const (
	sourceUSGS  = "usgs"
	sourceGDACS = "gdacs"
)

// AlertCreator is the subset of the alert store used by ingestion.
type AlertCreator interface {
	List(ctx context.Context) ([]models.Alert, error)
	Create(ctx context.Context, in models.AlertInput) (models.Alert, error)
}

// feedItem is one event pulled from a feed. Key identifies the event
// within its source.
type feedItem struct {
	Source string
	Key    string
	Input  models.AlertInput
}

type Manager struct {
	cfg    *config.Config
	alerts AlertCreator
	client *http.Client
	pool   *worker.Pool[feedItem]
	wg     sync.WaitGroup

	mu   sync.Mutex
	seen map[string]struct{}

	// createMu makes the title check and create a single step.
	createMu sync.Mutex
}

func NewManager(cfg *config.Config, alerts AlertCreator) *Manager {
	return &Manager{
		cfg:    cfg,
		alerts: alerts,
		client: &http.Client{Timeout: 15 * time.Second},
		seen:   make(map[string]struct{}),
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.pool = worker.NewPool("ingestion", m.cfg.Worker.Count, m.cfg.Worker.BufferSize, m.process)
	m.pool.Start(ctx)

	if m.cfg.Sources.USGSEnabled {
		m.wg.Add(1)
		go m.runPoller(ctx, sourceUSGS, m.cfg.Sources.USGSURL, m.cfg.Sources.USGSPollInterval)
	}

	if m.cfg.Sources.GDACSEnabled {
		m.wg.Add(1)
		go m.runPoller(ctx, sourceGDACS, m.cfg.Sources.GDACSURL, m.cfg.Sources.GDACSPollInterval)
	}
}

func (m *Manager) process(ctx context.Context, item feedItem) error {
	m.createMu.Lock()
	defer m.createMu.Unlock()

	existing, err := m.alerts.List(ctx)
	if err != nil {
		return fmt.Errorf("listing alerts: %w", err)
	}
	for _, a := range existing {
		if a.Title == item.Input.Title {
			slog.Debug("skipping known alert", "source", item.Source, "title", item.Input.Title)
			return nil
		}
	}

	alert, err := m.alerts.Create(ctx, item.Input)
	if err != nil {
		m.forget(item)
		return fmt.Errorf("creating alert from %s: %w", item.Source, err)
	}

	metrics.IngestedAlertsTotal.WithLabelValues(item.Source).Inc()
	slog.Info("added alert", "id", alert.ID, "type", alert.Type, "source", item.Source)
	return nil
}

func (m *Manager) runPoller(ctx context.Context, source, url string, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting poller", "source", source, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.poll(ctx, source, url)

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller shutting down", "source", source)
			return
		case <-ticker.C:
			m.poll(ctx, source, url)
		}
	}
}

func (m *Manager) poll(ctx context.Context, source, url string) {
	slog.Debug("polling", "source", source)

	var (
		items []feedItem
		err   error
	)

	switch source {
	case sourceUSGS:
		items, err = m.pollUSGS(ctx, url)
	case sourceGDACS:
		items, err = m.pollGDACS(ctx, url)
	}
	if err != nil {
		slog.Error("poll failed", "source", source, "error", err)
		return
	}

	submitted := 0
	for _, item := range items {
		if !m.markSeen(item) {
			continue
		}
		if !m.pool.Submit(ctx, item) {
			return
		}
		submitted++
	}

	slog.Debug("poll complete", "source", source, "count", len(items), "submitted", submitted)
}

// markSeen reports whether item has not been submitted before.
func (m *Manager) markSeen(item feedItem) bool {
	k := item.Source + ":" + item.Key
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[k]; ok {
		return false
	}
	m.seen[k] = struct{}{}
	return true
}

func (m *Manager) forget(item feedItem) {
	m.mu.Lock()
	delete(m.seen, item.Source+":"+item.Key)
	m.mu.Unlock()
}

// Stop waits for the pollers to exit and drains the pool. The context
// passed to Start must be cancelled first.
func (m *Manager) Stop() {
	m.wg.Wait()
	if m.pool != nil {
		m.pool.Stop()
	}
	m.client.CloseIdleConnections()
	slog.Info("ingestion manager stopped")
}

func (m *Manager) fetch(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}
	return resp, nil
}
