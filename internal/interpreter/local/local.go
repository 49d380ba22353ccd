// Package local implements the interpreter interfaces without any external
// service: keyword matching for classification and fixed templates for
// replies.
package local

import (
	"context"
	"strings"

	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/interpreter"
)

// Explanation is attached to every keyword classification.
const Explanation = "Clasificación local por palabras clave."

// Reply templates, selected by precedence: escalation, completion, confirmation.
const (
	EscalationReply = "Te ayudo con gusto. Esta solicitud requiere revisión humana para evitar errores. " +
		"Puedo escalar tu caso con el detalle que ya me compartiste."
	CompletionReply   = "Listo, ya ejecuté la acción solicitada y te comparto el resultado técnico abajo."
	ConfirmationReply = "Entendí tu solicitud. Si confirmas, ejecuto la acción automáticamente."
)

type rule struct {
	intent   intent.Intent
	keywords []string
}

// rules are checked in order; the first rule with a keyword contained in the
// lower-cased message wins. Keywords are lower-case.
var rules = []rule{
	{intent.VerifyPort, []string{"puerto", "port", "tcp", "udp"}},
	{intent.RestartWebService, []string{"reiniciar", "servicio web", "iis", "w3svc", "restart", "web service"}},
	{intent.LineServerReview, []string{"revision", "revisión", "servidores", "linea de producción", "línea de producción", "server review", "production line"}},
}

// Interpreter classifies by keyword and replies from templates.
type Interpreter struct{}

// New creates a new local interpreter.
func New() *Interpreter { return &Interpreter{} }

// Name returns the backend identifier.
func (i *Interpreter) Name() string { return "local" }

// Classify matches the message against the keyword rules.
func (i *Interpreter) Classify(_ context.Context, message string) (*interpreter.Classification, error) {
	return interpreter.NewClassification(Match(message), Explanation), nil
}

// Match returns the first intent whose keywords appear in message, or
// HumanEscalation when none do.
func Match(message string) intent.Intent {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent
			}
		}
	}
	return intent.HumanEscalation
}

// Compose picks the template for the decision.
func (i *Interpreter) Compose(_ context.Context, in interpreter.ComposeInput) (string, error) {
	switch {
	case in.RequiresHuman:
		return EscalationReply, nil
	case in.TaskExecuted:
		return CompletionReply, nil
	default:
		return ConfirmationReply, nil
	}
}
