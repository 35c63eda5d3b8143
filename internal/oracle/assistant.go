package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

// RiskAssessment is the structured triage of a free-text incident report.
type RiskAssessment struct {
	Title        string          `json:"title"`
	Summary      string          `json:"summary"`
	DisasterType string          `json:"disasterType"`
	Severity     models.Severity `json:"severity"`
}

var riskSchema = &Schema{
	Properties: map[string]Property{
		"title":        {Type: "string", Description: "Short alert title, e.g. 'Structural Collapse Downtown'."},
		"summary":      {Type: "string", Description: "One sentence describing the event."},
		"disasterType": {Type: "string", Description: "Category such as Earthquake, Flood, Fire or Industrial Accident."},
		"severity":     {Type: "string", Description: "Exactly one of: Low, Medium, High, Critical."},
	},
	Required: []string{"title", "summary", "disasterType", "severity"},
}

// Assistant builds prompts for the dashboard's AI features and validates
// what comes back.
type Assistant struct {
	oracle Oracle
}

func NewAssistant(o Oracle) *Assistant {
	return &Assistant{oracle: o}
}

// AssessRisk categorizes a report. A severity outside the known set is an
// error, never coerced.
func (a *Assistant) AssessRisk(ctx context.Context, report string) (RiskAssessment, error) {
	prompt := fmt.Sprintf("Read this disaster report and classify it as a JSON object.\nReport: %q", report)

	raw, err := a.oracle.CompleteStructured(ctx, prompt, riskSchema)
	if err != nil {
		return RiskAssessment{}, err
	}

	var out RiskAssessment
	if err := json.Unmarshal(raw, &out); err != nil {
		return RiskAssessment{}, fmt.Errorf("%w: bad assessment: %w", ErrOracle, err)
	}
	if !out.Severity.Valid() {
		return RiskAssessment{}, fmt.Errorf("%w: invalid severity returned: %q", ErrOracle, out.Severity)
	}
	return out, nil
}

func (a *Assistant) ActionPlan(ctx context.Context, disasterType string, severity models.Severity) (string, error) {
	if !severity.Valid() {
		return "", fmt.Errorf("%w: unknown severity %q", models.ErrInvalidAlert, severity)
	}
	prompt := fmt.Sprintf(
		"Write an emergency action plan for first responders handling a %s of %s severity. "+
			"Give 3 to 5 numbered steps, one per line, in plain text with no markdown.",
		disasterType, severity)
	return a.oracle.CompleteText(ctx, prompt)
}

// Translate returns the text translated into each requested language,
// keyed by language name.
func (a *Assistant) Translate(ctx context.Context, text string, languages []string) (map[string]string, error) {
	if len(languages) == 0 {
		return map[string]string{}, nil
	}
	prompt := fmt.Sprintf(
		"Translate the alert below into: %s. Answer with a JSON object whose keys are the language names "+
			"exactly as listed and whose values are the translations.\nAlert: %q",
		strings.Join(languages, ", "), text)

	raw, err := a.oracle.CompleteStructured(ctx, prompt, &Schema{Required: languages})
	if err != nil {
		return nil, err
	}

	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: translations must be strings: %w", ErrOracle, err)
	}
	return out, nil
}

func (a *Assistant) DetailedAssessment(ctx context.Context, alert models.Alert) (string, error) {
	var b strings.Builder
	b.WriteString("Write a professional risk assessment for this emergency alert in plain text, ")
	b.WriteString("using simple headings and paragraphs and no markdown symbols.\n\n")
	fmt.Fprintf(&b, "Title: %s\nType: %s\nLocation: %s\nSeverity: %s\nDescription: %s\nPeople affected: %d\n\n",
		alert.Title, alert.Type, alert.Location, alert.Severity, alert.Description, alert.Affected)
	b.WriteString("Cover: 1. Risk analysis of the situation and how it may escalate. ")
	b.WriteString("2. Potential impact on people, infrastructure and environment. ")
	b.WriteString("3. Immediate recommended actions for response teams.")

	return a.oracle.CompleteText(ctx, b.String())
}

func (a *Assistant) Chat(ctx context.Context, history []Message, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: empty message", ErrInvalidRequest)
	}
	for _, m := range history {
		if m.Role != RoleUser && m.Role != RoleModel {
			return "", fmt.Errorf("%w: unknown chat role %q", ErrInvalidRequest, m.Role)
		}
	}
	return a.oracle.Chat(ctx, history, message)
}
