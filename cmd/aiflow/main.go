package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "aiflow",
	Short: "Review feedback collector and training data builder",
	Long: `aiflow runs a local daemon that captures code review comments from a
review page, turns them into (problem, fix) training pairs, tracks AI coding
metrics and keeps markdown documents and templates.

Run "aiflow serve" to start the daemon; the other commands talk to it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the aiflow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aiflow version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(diagramCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
