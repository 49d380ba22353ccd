// Package whisper implements the stt Transcriber against a self-hosted
// Whisper HTTP server.
//
// The server accepts a multipart upload with the audio under a configurable
// field name and answers with {"text": "..."}.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/nadzzz/supportdesk/internal/config"
	"github.com/nadzzz/supportdesk/internal/stt"
)

// ErrEmptyTranscript is returned when the server answers without text.
var ErrEmptyTranscript = errors.New("whisper returned no transcribed text")

const defaultTimeout = 2 * time.Minute

// Transcriber posts audio to a Whisper HTTP endpoint.
type Transcriber struct {
	endpoint string
	field    string
	language string
	timeout  time.Duration
	client   *http.Client
}

// New creates a new Whisper transcriber from config.
func New(cfg config.TranscriptionConfig) *Transcriber {
	field := cfg.Field
	if field == "" {
		field = "audio"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Transcriber{
		endpoint: cfg.Endpoint,
		field:    field,
		language: cfg.Language,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the audio and returns the trimmed transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audio stt.Audio) (string, error) {
	if len(audio.Data) == 0 {
		return "", errors.New("audio file is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(t.field, "audio"+extension(audio.Filename))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio.Data)); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	if t.language != "" {
		_ = writer.WriteField("language", t.language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("whisper HTTP error: %d - %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding whisper response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	slog.Debug("transcription complete", "text_length", len(text))
	return text, nil
}

// extension keeps the uploaded file's extension so the server can sniff the
// container format; ".wav" when there is none.
func extension(filename string) string {
	if ext := filepath.Ext(filename); ext != "" && len(ext) <= 6 {
		return strings.ToLower(ext)
	}
	return ".wav"
}
