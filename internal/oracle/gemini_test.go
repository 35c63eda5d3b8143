package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini answers generateContent calls with a canned text or status.
func fakeGemini(t *testing.T, status int, text string, seen *generateRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"quota"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		})
	}))
}

func newTestClient(t *testing.T, url string) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient(GeminiConfig{APIKey: "secret", Model: "test-model", BaseURL: url + "/", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGeminiClient_CompleteText(t *testing.T) {
	var seen generateRequest
	srv := fakeGemini(t, http.StatusOK, "  1. Evacuate.\n2. Triage.  ", &seen)
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).CompleteText(context.Background(), "plan please")
	require.NoError(t, err)
	assert.Equal(t, "1. Evacuate.\n2. Triage.", got)

	require.Len(t, seen.Contents, 1)
	assert.Equal(t, "plan please", seen.Contents[0].Parts[0].Text)
	assert.Nil(t, seen.GenerationConfig)
}

func TestGeminiClient_ErrorStatus(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests, "", nil)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).CompleteText(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrOracle)
}

func TestGeminiClient_EmptyCandidate(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "   ", nil)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).CompleteText(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrOracle)
}

func TestGeminiClient_TransportFailure(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "x", nil)
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).CompleteText(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrOracle)
}

func TestGeminiClient_CompleteStructured(t *testing.T) {
	var seen generateRequest
	srv := fakeGemini(t, http.StatusOK, `{"title":"Collapse","summary":"s","disasterType":"Structural","severity":"High"}`, &seen)
	defer srv.Close()

	raw, err := newTestClient(t, srv.URL).CompleteStructured(context.Background(), "report", riskSchema)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Collapse")

	require.NotNil(t, seen.GenerationConfig)
	assert.Equal(t, "application/json", seen.GenerationConfig.ResponseMIMEType)
	assert.Equal(t, "OBJECT", seen.GenerationConfig.ResponseSchema["type"])
}

func TestGeminiClient_CompleteStructuredShapeMismatch(t *testing.T) {
	cases := map[string]string{
		"not json":      `Sure! Here is the JSON`,
		"array":         `["High"]`,
		"null":          `null`,
		"missing field": `{"title":"t","summary":"s","disasterType":"Flood"}`,
		"null field":    `{"title":"t","summary":"s","disasterType":"Flood","severity":null}`,
	}
	for name, text := range cases {
		srv := fakeGemini(t, http.StatusOK, text, nil)
		_, err := newTestClient(t, srv.URL).CompleteStructured(context.Background(), "report", riskSchema)
		srv.Close()
		assert.True(t, errors.Is(err, ErrOracle), "%s: expected ErrOracle, got %v", name, err)
	}
}

func TestGeminiClient_Chat(t *testing.T) {
	var seen generateRequest
	srv := fakeGemini(t, http.StatusOK, "Stay indoors.", &seen)
	defer srv.Close()

	history := []Message{
		{Role: RoleModel, Text: "Hello, how can I help?"},
		{Role: RoleUser, Text: "There is a storm"},
		{Role: RoleModel, Text: "Where are you?"},
	}
	got, err := newTestClient(t, srv.URL).Chat(context.Background(), history, "Chennai")
	require.NoError(t, err)
	assert.Equal(t, "Stay indoors.", got)

	require.Len(t, seen.Contents, 4)
	assert.Equal(t, "model", seen.Contents[0].Role)
	assert.Equal(t, "user", seen.Contents[3].Role)
	assert.Equal(t, "Chennai", seen.Contents[3].Parts[0].Text)
	require.NotNil(t, seen.SystemInstruction)
}
