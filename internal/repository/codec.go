package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

// storedAlert is the persisted shape of an alert. Required fields are
// pointers so missing keys can be told apart from zero values.
type storedAlert struct {
	ID          *string  `json:"id"`
	Title       *string  `json:"title"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Affected    *int     `json:"affected"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Timestamp   *string  `json:"timestamp"`
	Severity    *string  `json:"severity"`
	Status      *string  `json:"status"`
}

// EncodeAlerts serializes the collection. Timestamps are written as
// RFC 3339 with nanoseconds so they decode to the same instant.
func EncodeAlerts(alerts []models.Alert) ([]byte, error) {
	out := make([]storedAlert, 0, len(alerts))
	for i := range alerts {
		a := alerts[i]
		if err := models.ValidateTimestamp(a.Timestamp); err != nil {
			return nil, fmt.Errorf("error encoding alert %q: %w", a.ID, err)
		}
		ts := a.Timestamp.UTC().Format(time.RFC3339Nano)
		sev := string(a.Severity)
		st := string(a.Status)
		out = append(out, storedAlert{
			ID:          &a.ID,
			Title:       &a.Title,
			Type:        &a.Type,
			Description: &a.Description,
			Location:    &a.Location,
			Affected:    &a.Affected,
			Lat:         &a.Lat,
			Lng:         &a.Lng,
			Timestamp:   &ts,
			Severity:    &sev,
			Status:      &st,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("error encoding alerts: %w", err)
	}
	return data, nil
}

// DecodeAlerts parses a stored collection and rejects anything that is not
// a well-formed alert with ErrCorruptData.
func DecodeAlerts(data []byte) ([]models.Alert, error) {
	var stored []storedAlert
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}

	alerts := make([]models.Alert, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, s := range stored {
		a, err := s.toAlert()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorruptData, i, err)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrCorruptData, a.ID)
		}
		seen[a.ID] = struct{}{}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func (s storedAlert) toAlert() (models.Alert, error) {
	if s.ID == nil || s.Title == nil || s.Type == nil || s.Description == nil ||
		s.Location == nil || s.Affected == nil || s.Lat == nil || s.Lng == nil ||
		s.Timestamp == nil || s.Severity == nil || s.Status == nil {
		return models.Alert{}, errors.New("missing field")
	}

	ts, err := time.Parse(time.RFC3339Nano, *s.Timestamp)
	if err != nil {
		return models.Alert{}, fmt.Errorf("bad timestamp: %w", err)
	}

	a := models.Alert{
		ID:          *s.ID,
		Title:       *s.Title,
		Type:        *s.Type,
		Description: *s.Description,
		Location:    *s.Location,
		Affected:    *s.Affected,
		Lat:         *s.Lat,
		Lng:         *s.Lng,
		Timestamp:   ts,
		Severity:    models.Severity(*s.Severity),
		Status:      models.Status(*s.Status),
	}
	if err := a.Validate(); err != nil {
		return models.Alert{}, err
	}
	return a, nil
}
