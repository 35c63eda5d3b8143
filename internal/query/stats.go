package query

import "github.com/mr1hm/go-crisis-alerts/internal/models"

// Stats backs the dashboard's status overview cards.
type Stats struct {
	Total          int                     `json:"total"`
	Active         int                     `json:"active"`
	CriticalActive int                     `json:"critical_active"`
	PeopleAffected int                     `json:"people_affected"`
	BySeverity     map[models.Severity]int `json:"by_severity"`
	ByStatus       map[models.Status]int   `json:"by_status"`
}

// Summarize counts alerts by severity and status. PeopleAffected only
// includes active alerts.
func Summarize(alerts []models.Alert) Stats {
	st := Stats{
		Total:      len(alerts),
		BySeverity: make(map[models.Severity]int, len(models.Severities)),
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
	}
	for _, s := range models.Severities {
		st.BySeverity[s] = 0
	}
	for _, s := range models.Statuses {
		st.ByStatus[s] = 0
	}

	for _, a := range alerts {
		st.BySeverity[a.Severity]++
		st.ByStatus[a.Status]++
		if !a.IsActive() {
			continue
		}
		st.Active++
		st.PeopleAffected += a.Affected
		if a.Severity == models.SeverityCritical {
			st.CriticalActive++
		}
	}
	return st
}
