// Package openai implements the interpreter interfaces using the OpenAI
// Chat Completions API (or any server compatible with it).
//
// Classification runs at temperature 0 and only accepts a reply that is
// exactly one intent label; everything else is escalated to a human.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nadzzz/supportdesk/internal/config"
	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/interpreter"
)

// Explanation is attached to every model classification.
const Explanation = "Clasificación realizada con modelo de IA."

// FallbackReply is returned when the model answers with an empty reply.
const FallbackReply = "Solicitud procesada."

const (
	classifyTemperature = 0
	composeTemperature  = 0.4
)

// Interpreter uses a chat model for classification and reply composition.
type Interpreter struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// New creates a new OpenAI interpreter from config. Client retries are
// disabled: a failed call is reported once.
func New(cfg config.LLMConfig) *Interpreter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = config.DefaultSystemPrompt
	}

	return &Interpreter{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		systemPrompt: prompt,
	}
}

// Name returns the backend identifier.
func (i *Interpreter) Name() string { return "openai" }

// Classify asks the model for exactly one intent label.
func (i *Interpreter) Classify(ctx context.Context, message string) (*interpreter.Classification, error) {
	reply, err := i.complete(ctx, classifyPrompt(), message, classifyTemperature)
	if err != nil {
		return nil, fmt.Errorf("classifying message: %w", err)
	}

	got := intent.FromReply(reply)
	if got == intent.HumanEscalation && strings.TrimSpace(reply) != intent.HumanEscalation.String() {
		slog.Warn("unrecognized classifier reply, escalating", "reply_length", len(reply))
	}

	slog.Debug("model classification complete", "intent", got)
	return interpreter.NewClassification(got, Explanation), nil
}

// Compose asks the model for a short reply describing the decision.
func (i *Interpreter) Compose(ctx context.Context, in interpreter.ComposeInput) (string, error) {
	reply, err := i.complete(ctx, i.systemPrompt, composePrompt(in), composeTemperature)
	if err != nil {
		return "", fmt.Errorf("composing reply: %w", err)
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

func (i *Interpreter) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	resp, err := i.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(i.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// --- Internal helpers ---

func classifyPrompt() string {
	quoted := make([]string, 0, len(intent.All))
	for _, l := range intent.Labels() {
		quoted = append(quoted, "'"+l+"'")
	}
	return "Clasifica la solicitud del usuario en una intención exacta de esta lista: [" +
		strings.Join(quoted, ", ") + "]. Responde solo con la intención."
}

func composePrompt(in interpreter.ComposeInput) string {
	var sb strings.Builder
	sb.WriteString("Solicitud del usuario: " + in.UserMessage + "\n")
	fmt.Fprintf(&sb, "Contexto técnico: intent=%s; requires_human=%t; task_executed=%t; execution_output=%s\n",
		in.Intent, in.RequiresHuman, in.TaskExecuted, in.ExecutionOutput)
	sb.WriteString("Responde en máximo 3 frases, tono humano y profesional.")
	return sb.String()
}
