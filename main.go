package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "insighthub",
	Short: "Task list, usage stats and text heuristics for the InsightHub dashboard",
	Long: `insighthub serves the InsightHub JSON API: a task list, usage counters,
a minimal user registry and a handful of keyword heuristics over text.

Run without a subcommand to start the server.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all tasks and stats, keeping registered users",
	Long: `Clear all tasks and zero every counter in the configured store.
Registered users are kept. A corrupt document is replaced with an empty one.`,
	RunE: runReset,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
}
