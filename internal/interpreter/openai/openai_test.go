package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/supportdesk/internal/config"
	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/interpreter"
	openaiinterp "github.com/nadzzz/supportdesk/internal/interpreter/openai"
)

type chatRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeChat serves /chat/completions with a fixed reply and records requests.
type fakeChat struct {
	mu       sync.Mutex
	reply    string
	status   int
	calls    int
	requests []chatRequest
}

func (f *fakeChat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	var req chatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.requests = append(f.requests, req)

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   req.Model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": f.reply},
		}},
	})
}

func (f *fakeChat) recorded() []chatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chatRequest(nil), f.requests...)
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newInterpreter(t *testing.T, fake *fakeChat) *openaiinterp.Interpreter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return openaiinterp.New(config.LLMConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
	})
}

func TestClassifyAcceptsExactLabels(t *testing.T) {
	fake := &fakeChat{reply: "  restart_web_service\n"}
	interp := newInterpreter(t, fake)

	got, err := interp.Classify(context.Background(), "el sitio no carga")
	require.NoError(t, err)
	assert.Equal(t, intent.RestartWebService, got.Intent)
	assert.False(t, got.RequiresHuman)
	assert.Equal(t, openaiinterp.Explanation, got.Explanation)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.NotNil(t, req.Temperature)
	assert.Zero(t, *req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	for _, label := range intent.Labels() {
		assert.Contains(t, req.Messages[0].Content, label)
	}
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "el sitio no carga", req.Messages[1].Content)
}

func TestClassifyForcesUnknownRepliesToEscalation(t *testing.T) {
	replies := []string{"", "   ", "reboot_everything", "verify_port, restart_web_service", "Verify_Port"}

	for _, reply := range replies {
		interp := newInterpreter(t, &fakeChat{reply: reply})
		got, err := interp.Classify(context.Background(), "whatever")
		require.NoError(t, err)
		assert.Equal(t, intent.HumanEscalation, got.Intent, "reply %q", reply)
		assert.True(t, got.RequiresHuman, "reply %q", reply)
	}
}

func TestClassifyUpstreamErrorIsNotRetried(t *testing.T) {
	fake := &fakeChat{status: http.StatusInternalServerError}
	interp := newInterpreter(t, fake)

	_, err := interp.Classify(context.Background(), "no responde el puerto")
	require.Error(t, err)
	assert.Equal(t, 1, fake.callCount())
}

func TestComposeSendsContext(t *testing.T) {
	fake := &fakeChat{reply: "Listo. El puerto responde."}
	interp := newInterpreter(t, fake)

	got, err := interp.Compose(context.Background(), interpreter.ComposeInput{
		UserMessage:     "revisa el puerto 443",
		Intent:          intent.VerifyPort,
		TaskExecuted:    true,
		ExecutionOutput: "TcpTestSucceeded : True",
	})
	require.NoError(t, err)
	assert.Equal(t, "Listo. El puerto responde.", got)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	req := requests[0]
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.4, *req.Temperature, 1e-9)
	assert.Equal(t, config.DefaultSystemPrompt, req.Messages[0].Content)
	user := req.Messages[1].Content
	assert.Contains(t, user, "revisa el puerto 443")
	assert.Contains(t, user, "intent=verify_port; requires_human=false; task_executed=true; execution_output=TcpTestSucceeded : True")
	assert.Contains(t, user, "3 frases")
}

func TestComposeEmptyReplyFallsBack(t *testing.T) {
	interp := newInterpreter(t, &fakeChat{reply: "  "})

	got, err := interp.Compose(context.Background(), interpreter.ComposeInput{Intent: intent.VerifyPort})
	require.NoError(t, err)
	assert.Equal(t, openaiinterp.FallbackReply, got)
}
