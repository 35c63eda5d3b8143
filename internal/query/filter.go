// Package query derives read-only views over an alert snapshot. Nothing
// here mutates its input.
package query

import (
	"strings"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

// All disables the severity or status predicate.
const All = "All"

// Query combines its predicates with AND. Empty Severity or Status
// behave like All.
type Query struct {
	Text     string
	Severity string
	Status   string
}

// ActiveOnly keeps the alerts whose status is Active, in input order.
func ActiveOnly(alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Status == models.StatusActive {
			out = append(out, a)
		}
	}
	return out
}

func Filter(alerts []models.Alert, q Query) []models.Alert {
	text := strings.ToLower(q.Text)

	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !matchesText(a, text) {
			continue
		}
		if !isAll(q.Severity) && q.Severity != string(a.Severity) {
			continue
		}
		if !isAll(q.Status) && q.Status != string(a.Status) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// matchesText expects needle to be lower-cased already.
func matchesText(a models.Alert, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{a.Title, a.Description, a.Type, a.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func isAll(v string) bool {
	return v == "" || v == All
}
