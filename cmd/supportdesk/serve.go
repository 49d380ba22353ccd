package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/supportdesk/internal/dispatch"
	"github.com/nadzzz/supportdesk/internal/gateway"
	"github.com/nadzzz/supportdesk/internal/health"
	"github.com/nadzzz/supportdesk/internal/registry"
	"github.com/nadzzz/supportdesk/internal/remote/winrm"
	"github.com/nadzzz/supportdesk/internal/stt/whisper"
	"github.com/nadzzz/supportdesk/internal/transport"
	grpctransport "github.com/nadzzz/supportdesk/internal/transport/grpc"
	httptransport "github.com/nadzzz/supportdesk/internal/transport/http"
)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the support API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			slog.Info("supportdesk starting", "version", version)

			// Create root context with signal handling for graceful shutdown.
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			interp := newBackend(cfg)
			slog.Info("interpreter selected", "backend", interp.Name(), "model", cfg.LLM.Model)

			// A broken registry is reported but not fatal: it is re-read on
			// every execution and may be fixed without a restart.
			if reg, err := registry.Load(cfg.Registry.Path); err != nil {
				slog.Warn("command registry unavailable", "path", cfg.Registry.Path, "error", err)
			} else {
				slog.Info("command registry loaded", "path", reg.Path(), "tasks", reg.Names())
			}
			if err := winrm.CheckCredentials(cfg.Remote); err != nil {
				slog.Warn("remote execution disabled until configured", "error", err)
			}

			gw, err := gateway.New(winrm.New(cfg.Remote), gateway.Options{
				RegistryPath:   cfg.Registry.Path,
				Timeout:        cfg.Remote.Timeout,
				OutputEncoding: cfg.Remote.OutputEncoding,
			})
			if err != nil {
				return fmt.Errorf("creating execution gateway: %w", err)
			}

			dispatcher := dispatch.New(interp, interp, gw)
			checker := health.New()

			transports := []transport.Transport{
				httptransport.New(httptransport.Config{
					Port:           cfg.Server.HTTPPort,
					AllowedOrigins: cfg.CORS.AllowedOrigins,
				}, dispatcher, whisper.New(cfg.Transcription), checker),
			}
			if cfg.Server.GRPCEnabled {
				transports = append(transports, grpctransport.New(cfg.Server.GRPCPort, checker))
			}

			// Start all transports. The first one to fail stops the rest.
			var (
				wg      sync.WaitGroup
				errOnce sync.Once
				runErr  error
			)
			for _, t := range transports {
				wg.Add(1)
				go func(t transport.Transport) {
					defer wg.Done()
					slog.Info("starting transport", "name", t.Name())
					if err := t.Listen(ctx); err != nil {
						slog.Error("transport failed", "name", t.Name(), "error", err)
						errOnce.Do(func() { runErr = err })
						cancel()
					}
				}(t)
			}

			checker.SetReady(true)
			slog.Info("supportdesk ready",
				"transports", len(transports),
				"http_port", cfg.Server.HTTPPort)

			// Block until shutdown signal.
			<-ctx.Done()
			slog.Info("shutdown signal received, draining...")
			checker.Shutdown()

			var closeErr error
			for _, t := range transports {
				if err := t.Close(); err != nil {
					slog.Error("transport close error", "name", t.Name(), "error", err)
					closeErr = errors.Join(closeErr, err)
				}
			}

			wg.Wait()
			slog.Info("supportdesk stopped")
			if runErr != nil {
				return runErr
			}
			return closeErr
		},
	}
}
