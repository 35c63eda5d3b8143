package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mr1hm/go-crisis-alerts/internal/metrics"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"

	chatInstruction = "You are a calm, empathetic health and disaster response expert. " +
		"Answer like a person, briefly and directly. Prefer short numbered or dashed lists. " +
		"Reply in plain text without markdown."
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	cfg    GeminiConfig
	client *http.Client
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &GeminiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) CompleteText(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents: []geminiContent{userContent(prompt)},
	}
	return g.generate(ctx, "text", req)
}

func (g *GeminiClient) CompleteStructured(ctx context.Context, prompt string, schema *Schema) (json.RawMessage, error) {
	gc := &generationConfig{ResponseMIMEType: "application/json"}
	if schema != nil && len(schema.Properties) > 0 {
		gc.ResponseSchema = schema.toGemini()
	}
	req := generateRequest{
		Contents:         []geminiContent{userContent(prompt)},
		GenerationConfig: gc,
	}

	text, err := g.generate(ctx, "structured", req)
	if err != nil {
		return nil, err
	}

	raw, err := checkShape(text, schema)
	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues("structured", "malformed").Inc()
		return nil, err
	}
	return raw, nil
}

func (g *GeminiClient) Chat(ctx context.Context, history []Message, message string) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, geminiContent{
			Role:  string(m.Role),
			Parts: []geminiPart{{Text: m.Text}},
		})
	}
	contents = append(contents, userContent(message))

	req := generateRequest{
		Contents:          contents,
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: chatInstruction}}},
	}
	return g.generate(ctx, "chat", req)
}

func (g *GeminiClient) generate(ctx context.Context, kind string, body generateRequest) (string, error) {
	start := time.Now()
	text, err := g.doGenerate(ctx, body)
	metrics.OracleLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.OracleRequestsTotal.WithLabelValues(kind, metrics.Result(err)).Inc()
	return text, err
}

func (g *GeminiClient) doGenerate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: error encoding request: %w", ErrOracle, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.cfg.BaseURL, g.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: error creating request: %w", ErrOracle, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: error while doing request: %w", ErrOracle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: unexpected status code: %d - %s", ErrOracle, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: error decoding resp.Body: %w", ErrOracle, err)
	}
	if len(data.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrOracle)
	}

	var sb strings.Builder
	for _, p := range data.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrOracle)
	}
	return text, nil
}

func userContent(text string) geminiContent {
	return geminiContent{Role: string(RoleUser), Parts: []geminiPart{{Text: text}}}
}

func (s *Schema) toGemini() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]any{"type": strings.ToUpper(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[name] = prop
	}
	out := map[string]any{
		"type":       "OBJECT",
		"properties": props,
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

// checkShape verifies text is a JSON object holding every required key.
func checkShape(text string, schema *Schema) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %w", ErrOracle, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: response is null", ErrOracle)
	}
	if schema != nil {
		for _, key := range schema.Required {
			v, ok := obj[key]
			if !ok || string(v) == "null" {
				return nil, fmt.Errorf("%w: response missing %q", ErrOracle, key)
			}
		}
	}
	return json.RawMessage(text), nil
}
