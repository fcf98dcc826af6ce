// Package main provides the entry point for the sitecheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// behaves like "analyze".
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecheck [url]",
		Short: "Phishing triage for websites",
		Long: `Sitecheck analyzes a website for phishing indicators.

It fetches the page (headless Chrome by default), extracts forms, links and
text, classifies security flags and asks an AI model for a risk assessment.
Without an OPENAI_API_KEY the assessment falls back to rule-based scoring.`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		RunE:          runAnalyzeCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Verbose output is the default; --no-verbose turns it off.
	cmd.PersistentFlags().Bool("no-verbose", false, "Disable verbose output")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .sitecheck.yaml in current or home directory)")

	addAnalyzeFlags(cmd)

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
