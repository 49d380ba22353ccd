package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadzzz/supportdesk/internal/config"
	"github.com/nadzzz/supportdesk/internal/interpreter"
	localinterp "github.com/nadzzz/supportdesk/internal/interpreter/local"
	openaiinterp "github.com/nadzzz/supportdesk/internal/interpreter/openai"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "supportdesk",
		Short: "Supportdesk - support request router",
		Long: `Supportdesk classifies support requests (typed or transcribed from audio),
answers in a human tone, and runs allow-listed maintenance tasks on a Windows
server over WinRM. Anything it cannot classify confidently is escalated to a
human.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/supportdesk.yaml)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		config.SetupLogging(cfg.Logging)
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newClassifyCmd(load),
		newRegistryCmd(load),
		newVersionCmd(),
	)
	return root
}

type loader func() (*config.Config, error)

// backend is a strategy that both classifies and composes.
type backend interface {
	interpreter.Classifier
	interpreter.Composer
}

// newBackend picks the classification strategy once, at startup.
func newBackend(cfg *config.Config) backend {
	if cfg.UseModel() {
		return openaiinterp.New(cfg.LLM)
	}
	return localinterp.New()
}
