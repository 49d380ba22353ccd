// Package message defines the request and response types of the support API.
package message

import (
	"errors"
	"unicode/utf8"

	"github.com/nadzzz/supportdesk/internal/intent"
)

// MinMessageLength is the minimum number of characters in a support message.
const MinMessageLength = 2

// ErrMessageTooShort is returned by Validate for messages under MinMessageLength.
var ErrMessageTooShort = errors.New("message must be at least 2 characters")

// SupportRequest is an incoming support request.
type SupportRequest struct {
	// Message is the caller's free-text request (typed or transcribed).
	Message string `json:"message" example:"no responde el puerto 443"`

	// AutoExecute asks for the matching task to run immediately instead of
	// only being confirmed.
	AutoExecute bool `json:"auto_execute"`
}

// Validate checks the request constraints.
func (r *SupportRequest) Validate() error {
	if utf8.RuneCountInString(r.Message) < MinMessageLength {
		return ErrMessageTooShort
	}
	return nil
}

// SupportResponse is the outcome of a support request.
//
// RequiresHuman implies !TaskExecuted. TaskExecuted implies ExecutionOutput
// is set and RequiresHuman is false.
type SupportResponse struct {
	// InterpretedIntent is the classified intent label.
	InterpretedIntent intent.Intent `json:"interpreted_intent" swaggertype:"string" example:"verify_port"`

	// ResponseText is the reply to show the caller.
	ResponseText string `json:"response_text"`

	// RequiresHuman is true when the request was escalated.
	RequiresHuman bool `json:"requires_human"`

	// TaskExecuted is true when a remote command ran successfully.
	TaskExecuted bool `json:"task_executed"`

	// TaskName is the task that would run (or ran); null on escalation.
	TaskName *string `json:"task_name"`

	// ExecutionOutput is the remote command output; null unless TaskExecuted.
	ExecutionOutput *string `json:"execution_output"`
}

// TranscriptionResponse carries the text recognized in an uploaded recording.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
