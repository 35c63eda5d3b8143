// Package oracle talks to the generative model used for risk assessments,
// action plans, translations and the assistant chat. Callers treat it as an
// unreliable collaborator: every failure, including a response with the
// wrong shape, is reported as ErrOracle.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrOracle = errors.New("oracle request failed")
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("oracle not configured")
	// ErrInvalidRequest rejects caller input before any request is made.
	ErrInvalidRequest = errors.New("invalid oracle request")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a chat transcript.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Schema describes the JSON object a structured completion must return.
// Properties is passed to the model verbatim; Required is checked on the
// response.
type Schema struct {
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type Oracle interface {
	CompleteText(ctx context.Context, prompt string) (string, error)
	// CompleteStructured returns a JSON object satisfying schema. A nil
	// schema only requires a JSON object.
	CompleteStructured(ctx context.Context, prompt string, schema *Schema) (json.RawMessage, error)
	Chat(ctx context.Context, history []Message, message string) (string, error)
}
