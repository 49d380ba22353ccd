package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadzzz/supportdesk/internal/interpreter"
	localinterp "github.com/nadzzz/supportdesk/internal/interpreter/local"
)

func newClassifyCmd(load loader) *cobra.Command {
	var forceLocal bool

	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Classify a support message without running anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var classifier interpreter.Classifier = localinterp.New()
			if !forceLocal {
				cfg, err := load()
				if err != nil {
					return err
				}
				classifier = newBackend(cfg)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			cls, err := classifier.Classify(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "intent:         %s\n", cls.Intent)
			fmt.Fprintf(out, "requires_human: %t\n", cls.RequiresHuman)
			fmt.Fprintf(out, "backend:        %s\n", classifier.Name())
			fmt.Fprintf(out, "explanation:    %s\n", cls.Explanation)
			return nil
		},
	}
	cmd.Flags().BoolVar(&forceLocal, "local", false, "use keyword classification regardless of configuration")
	return cmd
}
