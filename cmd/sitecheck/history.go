package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/sitecheck/internal/history"
	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/report"
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored analysis reports",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDiffCmd())
	return cmd
}

// openStore opens the history database from configuration.
func openStore(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path := cfg.HistoryDBPath()
	if path == "" {
		return nil, fmt.Errorf("history is disabled (history_path: \"-\")")
	}
	return history.Open(path, logging.Nop{})
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored reports.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-40s  risk %.1f  %s  %s\n",
					e.CreatedAt.Format("2006-01-02 15:04"), e.URL, e.RiskScore, e.Recommendation, e.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of reports to list")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			writer := report.NewTextWriter(cmd.OutOrStdout(), report.WithVerbose(true))
			_, err = writer.Write(entry.Report)
			return err
		},
	}
}

func newHistoryDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <id> <id>",
		Short: "Diff the page text of two stored reports",
		Long: `Diff compares the extracted page text of two stored reports.

Useful for seeing how a suspected phishing page changed between scans.
Inserted text is prefixed with +, deleted text with -.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			before, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			after, err := store.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			chunks := history.DiffContent(before.TextContent, after.TextContent)
			if !history.Changed(chunks) {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, ch := range chunks {
				switch ch.Type {
				case "insert":
					fmt.Fprintf(out, "+%s\n", ch.Text)
				case "delete":
					fmt.Fprintf(out, "-%s\n", ch.Text)
				}
			}
			return nil
		},
	}
}
