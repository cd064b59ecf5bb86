package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/calmmind/internal/ui"
)

const version = "0.1.0"

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "calmmind",
		Short:         "Task stress scoring and wellness dashboards",
		Long:          "calmmind scores student tasks for stress, aggregates them over time and serves the results to assistants over MCP.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides CALMMIND_CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(),
		newSummaryCmd(),
		newReportCmd(),
		newCalendarCmd(),
		newKeyCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
