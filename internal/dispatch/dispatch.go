// Package dispatch implements the request orchestrator.
//
// The dispatcher classifies a support message, then takes exactly one of
// three paths: escalate to a human, confirm the task without running it, or
// run the task through the execution gateway. Every path ends with a composed
// reply. There are no retries and no partial responses: a failure at any step
// ends the request with an error.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/interpreter"
	"github.com/nadzzz/supportdesk/internal/message"
)

// Executor runs the registry command for an intent.
type Executor interface {
	Execute(ctx context.Context, task intent.Intent) (string, error)
}

// UpstreamError wraps a failure of the classification or composition backend.
type UpstreamError struct {
	Stage string // "classify" or "compose"
	Err   error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s failed: %v", e.Stage, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// ExecutionError wraps a failure of the execution gateway.
type ExecutionError struct {
	Task intent.Intent
	Err  error
}

func (e *ExecutionError) Error() string { return e.Err.Error() }
func (e *ExecutionError) Unwrap() error { return e.Err }

// Dispatcher is the central request orchestrator.
type Dispatcher struct {
	classifier interpreter.Classifier
	composer   interpreter.Composer
	executor   Executor
}

// New creates a new Dispatcher.
func New(classifier interpreter.Classifier, composer interpreter.Composer, executor Executor) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		composer:   composer,
		executor:   executor,
	}
}

// Handle processes a single support request.
func (d *Dispatcher) Handle(ctx context.Context, req *message.SupportRequest) (*message.SupportResponse, error) {
	start := time.Now()
	logger := loggerFrom(ctx)

	// Step 1: Classify.
	cls, err := d.classifier.Classify(ctx, req.Message)
	if err != nil {
		logger.Error("classification failed", "backend", d.classifier.Name(), "error", err)
		return nil, &UpstreamError{Stage: "classify", Err: err}
	}
	logger = logger.With("intent", cls.Intent)
	logger.Info("classification complete", "backend", d.classifier.Name(),
		"requires_human", cls.RequiresHuman, "auto_execute", req.AutoExecute)

	in := interpreter.ComposeInput{
		UserMessage:   req.Message,
		Intent:        cls.Intent,
		RequiresHuman: cls.RequiresHuman,
	}

	// Step 2: Escalate.
	if cls.RequiresHuman {
		text, err := d.compose(ctx, in)
		if err != nil {
			return nil, err
		}
		logger.Info("request escalated", "duration", time.Since(start))
		return &message.SupportResponse{
			InterpretedIntent: cls.Intent,
			ResponseText:      text + " " + cls.Explanation,
			RequiresHuman:     true,
		}, nil
	}

	taskName := message.StringPtr(cls.Intent.String())

	// Step 3: Confirm only.
	if !req.AutoExecute {
		text, err := d.compose(ctx, in)
		if err != nil {
			return nil, err
		}
		logger.Info("task awaiting confirmation", "duration", time.Since(start))
		return &message.SupportResponse{
			InterpretedIntent: cls.Intent,
			ResponseText:      text,
			TaskName:          taskName,
		}, nil
	}

	// Step 4: Execute.
	output, err := d.executor.Execute(ctx, cls.Intent)
	if err != nil {
		logger.Error("task execution failed", "error", err)
		return nil, &ExecutionError{Task: cls.Intent, Err: err}
	}

	in.TaskExecuted = true
	in.ExecutionOutput = output
	text, err := d.compose(ctx, in)
	if err != nil {
		return nil, err
	}

	logger.Info("task executed", "output_length", len(output), "duration", time.Since(start))
	return &message.SupportResponse{
		InterpretedIntent: cls.Intent,
		ResponseText:      text,
		TaskExecuted:      true,
		TaskName:          taskName,
		ExecutionOutput:   message.StringPtr(output),
	}, nil
}

func (d *Dispatcher) compose(ctx context.Context, in interpreter.ComposeInput) (string, error) {
	text, err := d.composer.Compose(ctx, in)
	if err != nil {
		loggerFrom(ctx).Error("composition failed", "backend", d.composer.Name(), "error", err)
		return "", &UpstreamError{Stage: "compose", Err: err}
	}
	return text, nil
}

type loggerKey struct{}

// WithLogger returns a context carrying a request-scoped logger.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
