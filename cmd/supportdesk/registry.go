package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/registry"
)

func newRegistryCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the allow-listed command registry",
	}

	var file string
	check := &cobra.Command{
		Use:   "check",
		Short: "Validate the registry file and report which tasks can run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := file
			if path == "" {
				cfg, err := load()
				if err != nil {
					return err
				}
				path = cfg.Registry.Path
			}

			reg, err := registry.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registry: %s\n\n", reg.Path())

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TASK\tSHELL\tSTATUS")
			for _, task := range intent.All {
				if !task.Executable() {
					continue
				}
				e, ok := reg.Lookup(task.String())
				switch {
				case !ok:
					fmt.Fprintf(tw, "%s\t-\tnot allowed\n", task)
				case e.Command() == "":
					fmt.Fprintf(tw, "%s\t%s\tno command configured\n", task, e.ShellOrDefault())
				default:
					fmt.Fprintf(tw, "%s\t%s\tok\n", task, e.ShellOrDefault())
				}
			}
			for _, name := range reg.Names() {
				if t, ok := intent.Parse(name); !ok || !t.Executable() {
					fmt.Fprintf(tw, "%s\t-\tignored (not an executable intent)\n", name)
				}
			}
			return tw.Flush()
		},
	}
	check.Flags().StringVar(&file, "file", "", "registry file to check (default: registry.path from config)")

	cmd.AddCommand(check)
	return cmd
}
