package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/sitecheck/internal/analyzer"
	"github.com/raysh454/sitecheck/internal/config"
	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/model"
	"github.com/raysh454/sitecheck/internal/report"
	"github.com/raysh454/sitecheck/internal/urlx"
)

// defaultTarget is analyzed when no URL is given.
const defaultTarget = "rora.it.com"

// NewAnalyzeCmd creates the analyze command. The root command shares its
// flags and behavior, so "sitecheck example.com" and
// "sitecheck analyze example.com" are equivalent.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Analyze a website for phishing indicators",
		Long: `Analyze fetches one or more websites and reports phishing risk.

Examples:
  # Analyze the default target
  sitecheck analyze

  # Analyze a site (https:// is assumed)
  sitecheck analyze example.com

  # Several sites concurrently
  sitecheck analyze site1.com site2.com site3.com

  # JSON report written to a file
  sitecheck analyze --json -o report.json example.com

  # Plain HTTP fetch instead of headless Chrome
  sitecheck analyze --backend nethttp example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	addAnalyzeFlags(cmd)
	return cmd
}

// addAnalyzeFlags registers the analyze flags. Also used by the root
// command so it can act as an implicit analyze.
func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("url", "u", "", "URL to analyze (alternative to the positional argument)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout, "Fetch timeout per site")
	cmd.Flags().StringP("backend", "b", "", "Fetch backend: nethttp or chromedp (default from config)")
	cmd.Flags().Bool("no-history", false, "Do not record results in the history database")
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	markdownOut, _ := cmd.Flags().GetBool("markdown")
	if jsonOut && markdownOut {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	verbose := !getNoVerboseFlag(cmd)

	var logger logging.Logger = logging.Nop{}
	if verbose {
		logger = logging.NewWriterLogger("sitecheck", cmd.ErrOrStderr())
	}

	urls, err := resolveTargets(cmd, args)
	if err != nil {
		return err
	}

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	if cfg.OpenAIKey() == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: OPENAI_API_KEY is not set; using rule-based analysis without AI")
	}

	a, err := analyzer.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %s...\n", strings.Join(urls, ", "))
	}

	start := time.Now()
	var reports []*model.Report
	if len(urls) == 1 {
		reports = []*model.Report{a.Analyze(ctx, urls[0])}
	} else {
		reports = a.AnalyzeAll(ctx, urls)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Completed in %s\n\n", time.Since(start).Round(time.Millisecond))
	}

	return outputReports(cmd, reports, verbose)
}

// resolveTargets determines the final URL list. The --url flag wins over
// positional arguments, and a missing target falls back to the default.
func resolveTargets(cmd *cobra.Command, args []string) ([]string, error) {
	flagURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}

	var raw []string
	switch {
	case flagURL != "":
		raw = []string{flagURL}
	case len(args) > 0:
		raw = args
	default:
		raw = []string{defaultTarget}
	}

	urls := make([]string, 0, len(raw))
	for _, r := range raw {
		url, err := urlx.Normalize(r, urlx.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("invalid url %q: %w", r, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// getNoVerboseFlag reads --no-verbose from the command or its root.
func getNoVerboseFlag(cmd *cobra.Command) bool {
	noVerbose, err := cmd.Flags().GetBool("no-verbose")
	if err != nil {
		noVerbose, err = cmd.Root().PersistentFlags().GetBool("no-verbose")
		if err != nil {
			return false
		}
	}
	return noVerbose
}

// loadConfig loads the configuration file. An explicitly specified file
// that does not exist is an error; otherwise missing files mean defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		explicit, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return nil, err
		}
	}

	path := config.FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return nil, fmt.Errorf("configuration file not found: %s", explicit)
		}
		return config.Default(), nil
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyAnalyzeFlags overrides config fields from analyze flags.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("timeout") {
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.FetchTimeout = timeout
	}

	backend, err := cmd.Flags().GetString("backend")
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Backend = backend
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return err
	}
	if noHistory {
		cfg.HistoryPath = "-"
	}

	return nil
}

// outputReports renders all reports in the requested format.
func outputReports(cmd *cobra.Command, reports []*model.Report, verbose bool) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	output := cmd.OutOrStdout()
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer := newWriter(output, jsonOut, markdownOut, verbose)
	for i, r := range reports {
		if i > 0 && !jsonOut {
			fmt.Fprintln(output, strings.Repeat("-", 70))
		}
		if _, err := writer.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func newWriter(output io.Writer, jsonOut, markdownOut, verbose bool) report.Writer {
	switch {
	case jsonOut:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case markdownOut:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output, report.WithVerbose(verbose))
	}
}
