package local_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/interpreter"
	"github.com/nadzzz/supportdesk/internal/interpreter/local"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    intent.Intent
	}{
		{"no responde el puerto 443", intent.VerifyPort},
		{"El PUERTO 80 está caído", intent.VerifyPort},
		{"check TCP connectivity", intent.VerifyPort},
		{"udp 53 sin respuesta", intent.VerifyPort},
		{"hay que reiniciar el IIS", intent.RestartWebService},
		{"please restart the web service", intent.RestartWebService},
		{"el servicio web no carga", intent.RestartWebService},
		{"w3svc detenido", intent.RestartWebService},
		{"revision de servidores de la linea de producción", intent.LineServerReview},
		{"Revisión general", intent.LineServerReview},
		{"ayuda con algo raro", intent.HumanEscalation},
		{"hola", intent.HumanEscalation},
	}

	interp := local.New()
	for _, tt := range tests {
		got, err := interp.Classify(context.Background(), tt.message)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Intent, "message %q", tt.message)
		assert.Equal(t, tt.want == intent.HumanEscalation, got.RequiresHuman, "message %q", tt.message)
		assert.Equal(t, local.Explanation, got.Explanation)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Port keywords are checked before restart and review keywords.
	assert.Equal(t, intent.VerifyPort, local.Match("reiniciar iis y revisar puerto 443"))
	assert.Equal(t, intent.RestartWebService, local.Match("reiniciar los servidores"))
}

func TestCompose(t *testing.T) {
	interp := local.New()
	ctx := context.Background()

	tests := []struct {
		name string
		in   interpreter.ComposeInput
		want string
	}{
		{"escalation wins", interpreter.ComposeInput{RequiresHuman: true, TaskExecuted: true}, local.EscalationReply},
		{"completion", interpreter.ComposeInput{Intent: intent.VerifyPort, TaskExecuted: true}, local.CompletionReply},
		{"confirmation", interpreter.ComposeInput{Intent: intent.VerifyPort}, local.ConfirmationReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interp.Compose(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
