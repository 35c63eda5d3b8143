package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

func defaults() []models.Alert {
	return models.DefaultAlerts(time.Date(2024, 7, 21, 12, 0, 0, 0, time.UTC))
}

func ids(alerts []models.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.ID)
	}
	return out
}

func TestFilter_IdentityQuery(t *testing.T) {
	alerts := defaults()

	assert.Equal(t, alerts, Filter(alerts, Query{Text: "", Severity: All, Status: All}))
	assert.Equal(t, alerts, Filter(alerts, Query{}))
}

func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, Query{Text: "fire", Severity: "High", Status: "Active"}))
	assert.Empty(t, Filter([]models.Alert{}, Query{}))
}

func TestFilter_TextMatchesMumbai(t *testing.T) {
	got := Filter(defaults(), Query{Text: "mumbai", Severity: All, Status: All})
	assert.Equal(t, []string{"MUM-FLD-2024"}, ids(got))
}

func TestFilter_TextIsCaseInsensitiveAcrossFields(t *testing.T) {
	alerts := defaults()

	// type field
	assert.Equal(t, []string{"PUNE-LS-2024"}, ids(Filter(alerts, Query{Text: "LANDSLIDE"})))
	// description field
	assert.Equal(t, []string{"BNG-FIRE-2024"}, ids(Filter(alerts, Query{Text: "Bannerghatta"})))
	// location field
	assert.Equal(t, []string{"CHN-CYC-2024"}, ids(Filter(alerts, Query{Text: "chennai"})))
	// no field
	assert.Empty(t, Filter(alerts, Query{Text: "tornado"}))
}

func TestFilter_CriticalAndActive(t *testing.T) {
	got := Filter(defaults(), Query{Severity: "Critical", Status: "Active"})
	assert.ElementsMatch(t, []string{"BNG-FIRE-2024", "MUM-FLD-2024", "EQ72-2024"}, ids(got))
}

func TestFilter_EnumMatchIsExact(t *testing.T) {
	assert.Empty(t, Filter(defaults(), Query{Severity: "critical"}))
	assert.Empty(t, Filter(defaults(), Query{Status: "active"}))
}

func TestFilter_AndSemantics(t *testing.T) {
	alerts := defaults()
	queries := []Query{
		{Text: "fire", Severity: "High", Status: All},
		{Text: "fire", Severity: All, Status: "Active"},
		{Text: "a", Severity: "Critical", Status: "Monitoring"},
		{Text: "", Severity: "High", Status: "Active"},
	}

	for _, q := range queries {
		for _, a := range Filter(alerts, q) {
			require.True(t, matchesText(a, strings.ToLower(q.Text)), "text predicate failed for %s", a.ID)
			if q.Severity != All {
				require.Equal(t, q.Severity, string(a.Severity))
			}
			if q.Status != All {
				require.Equal(t, q.Status, string(a.Status))
			}
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	alerts := defaults()
	before := append([]models.Alert(nil), alerts...)

	got := Filter(alerts, Query{Text: "fire"})
	got[0].Title = "changed"

	assert.Equal(t, before, alerts)
}

func TestActiveOnly(t *testing.T) {
	alerts := defaults()

	active := ActiveOnly(alerts)
	assert.Equal(t, []string{"HYD-FIRE-2024", "PUNE-LS-2024", "BNG-FIRE-2024", "MUM-FLD-2024", "EQ72-2024"}, ids(active))
	for _, a := range active {
		assert.Equal(t, models.StatusActive, a.Status)
	}

	assert.Equal(t, active, ActiveOnly(active), "ActiveOnly is idempotent")
	assert.Empty(t, ActiveOnly(nil))
}

func TestSummarize(t *testing.T) {
	st := Summarize(defaults())

	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 5, st.Active)
	assert.Equal(t, 3, st.CriticalActive)
	assert.Equal(t, 300+1200+800+200000+15000, st.PeopleAffected)
	assert.Equal(t, 4, st.BySeverity[models.SeverityCritical])
	assert.Equal(t, 0, st.BySeverity[models.SeverityLow])
	assert.Equal(t, 1, st.ByStatus[models.StatusMonitoring])
}
