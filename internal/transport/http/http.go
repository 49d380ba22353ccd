// Package http implements the HTTP transport for supportdesk.
//
// This transport exposes the JSON support API consumed by the web client:
// transcription of recorded audio, support requests, health probes and the
// Swagger UI.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/supportdesk/docs" // registers the OpenAPI document
	"github.com/nadzzz/supportdesk/internal/dispatch"
	"github.com/nadzzz/supportdesk/internal/health"
	"github.com/nadzzz/supportdesk/internal/message"
	"github.com/nadzzz/supportdesk/internal/stt"
)

const (
	maxAudioBytes   = 25 << 20 // 25 MB
	maxRequestBytes = 1 << 20

	requestIDHeader = "X-Request-ID"
)

// Dispatcher handles a validated support request.
type Dispatcher interface {
	Handle(ctx context.Context, req *message.SupportRequest) (*message.SupportResponse, error)
}

// Config holds the listener settings.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// Transport implements transport.Transport over HTTP.
type Transport struct {
	cfg         Config
	dispatcher  Dispatcher
	transcriber stt.Transcriber
	health      *health.Checker
	server      *http.Server
}

// New creates a new HTTP transport.
func New(cfg Config, dispatcher Dispatcher, transcriber stt.Transcriber, checker *health.Checker) *Transport {
	t := &Transport{
		cfg:         cfg,
		dispatcher:  dispatcher,
		transcriber: transcriber,
		health:      checker,
	}
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return t
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler returns the fully wrapped HTTP handler.
func (t *Transport) Handler() http.Handler {
	mux := http.NewServeMux()

	t.health.Register(mux)
	mux.HandleFunc("POST /api/transcribe", t.handleTranscribe)
	mux.HandleFunc("POST /api/support/request", t.handleSupportRequest)

	// Swagger UI over the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	c := cors.New(cors.Options{
		AllowedOrigins:   t.cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})

	return requestLogger(c.Handler(mux))
}

// Listen starts the HTTP server. It blocks until the context is cancelled.
func (t *Transport) Listen(ctx context.Context) error {
	slog.Info("http transport listening", "port", t.cfg.Port, "origins", t.cfg.AllowedOrigins)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.server.Shutdown(ctx)
}

// handleTranscribe processes a POST /api/transcribe request.
//
// @Summary     Transcribe a recorded support request
// @Description Forwards the uploaded recording to the speech-to-text service and returns the transcript.
// @Description The transcript is not classified; submit it to /api/support/request.
// @Tags        support
// @Accept      multipart/form-data
// @Produce     json
// @Param       file  formData  file  true  "Audio recording"
// @Success     200  {object}  message.TranscriptionResponse
// @Failure     400  {object}  message.ErrorResponse  "Missing file or transcription failure"
// @Router      /api/transcribe [post]
func (t *Transport) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading audio: "+err.Error())
		return
	}

	text, err := t.transcriber.Transcribe(r.Context(), stt.Audio{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		loggerFrom(r).Warn("transcription failed", "error", err, "bytes", len(data))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, message.TranscriptionResponse{Text: text})
}

// handleSupportRequest processes a POST /api/support/request request.
//
// @Summary     Submit a support request
// @Description Classifies the message and either escalates it, asks for confirmation, or runs the
// @Description matching allow-listed task on the remote server when auto_execute is true.
// @Tags        support
// @Accept      json
// @Produce     json
// @Param       request  body      message.SupportRequest  true  "Support request"
// @Success     200  {object}  message.SupportResponse
// @Failure     422  {object}  message.ErrorResponse  "Invalid request body"
// @Failure     500  {object}  message.ErrorResponse  "Task execution failed"
// @Failure     502  {object}  message.ErrorResponse  "Language model unavailable"
// @Router      /api/support/request [post]
func (t *Transport) handleSupportRequest(w http.ResponseWriter, r *http.Request) {
	var req message.SupportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid json: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := t.dispatcher.Handle(r.Context(), &req)
	if err != nil {
		var upErr *dispatch.UpstreamError
		if errors.As(err, &upErr) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, message.ErrorResponse{Detail: detail})
}

// statusRecorder captures the response code for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

type loggerKey struct{}

// requestLogger tags every request with an ID and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := slog.With("request_id", id)
		ctx := dispatch.WithLogger(r.Context(), logger)
		ctx = context.WithValue(ctx, loggerKey{}, logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func loggerFrom(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
