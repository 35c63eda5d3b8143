package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrInvalidAlert  = errors.New("invalid alert")
)

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists every valid severity.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ParseSeverity matches s exactly against the known severities.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, s)
	}
	return sev, nil
}

type Status string

const (
	StatusActive     Status = "Active"
	StatusMonitoring Status = "Monitoring"
	StatusResolved   Status = "Resolved"
	StatusUpdating   Status = "Updating"
)

var Statuses = []Status{StatusActive, StatusMonitoring, StatusResolved, StatusUpdating}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMonitoring, StatusResolved, StatusUpdating:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidAlert, s)
	}
	return st, nil
}

// Alert is a single emergency event tracked by the dashboard.
// ID and Timestamp are assigned by the store on creation.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Affected    int       `json:"affected"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Timestamp   time.Time `json:"timestamp"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
}

// AlertInput carries the caller-supplied fields of a new alert.
type AlertInput struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Affected    int      `json:"affected"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Severity    Severity `json:"severity"`
	Status      Status   `json:"status"`
}

func (in AlertInput) Validate() error {
	return validateFields(in.Severity, in.Status, in.Affected, in.Lat, in.Lng)
}

func (in AlertInput) ToAlert(id string, ts time.Time) Alert {
	return Alert{
		ID:          id,
		Title:       in.Title,
		Type:        in.Type,
		Description: in.Description,
		Location:    in.Location,
		Affected:    in.Affected,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Timestamp:   ts,
		Severity:    in.Severity,
		Status:      in.Status,
	}
}

func (a Alert) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAlert)
	}
	if err := ValidateTimestamp(a.Timestamp); err != nil {
		return err
	}
	return validateFields(a.Severity, a.Status, a.Affected, a.Lat, a.Lng)
}

// ValidateTimestamp rejects instants whose UTC year is outside 0-9999,
// which RFC 3339 cannot represent.
func ValidateTimestamp(ts time.Time) error {
	if y := ts.UTC().Year(); y < 0 || y > 9999 {
		return fmt.Errorf("%w: timestamp year %d out of range", ErrInvalidAlert, y)
	}
	return nil
}

func (a Alert) IsActive() bool {
	return a.Status == StatusActive
}

func validateFields(sev Severity, st Status, affected int, lat, lng float64) error {
	if !sev.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, sev)
	}
	if !st.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidAlert, st)
	}
	if affected < 0 {
		return fmt.Errorf("%w: affected must be non-negative, got %d", ErrInvalidAlert, affected)
	}
	if !finite(lat) || !finite(lng) {
		return fmt.Errorf("%w: coordinates must be finite, got %v, %v", ErrInvalidAlert, lat, lng)
	}
	return nil
}

type AlertEventType string

const (
	AlertCreated AlertEventType = "created"
	AlertUpdated AlertEventType = "updated"
)

// AlertEvent describes a committed mutation for live subscribers.
type AlertEvent struct {
	Type  AlertEventType `json:"type"`
	Alert Alert          `json:"alert"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
