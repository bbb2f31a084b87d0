// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/inout-renumber/internal/journal"
	"github.com/pdiddy/inout-renumber/pkg/types"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the run journal (list, export)",
	Long: `Journal reads the SQLite run journal written when --journal (or
journal.path in the config file) is set. Each row is one processed source
with its marker counts and outcome.`,
}

// --- list subcommand ---

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

func runJournalList(cmd *cobra.Command, args []string) error {
	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), journalQueryFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatJournalOutput(cmd.OutOrStdout(), records, jsonOutput)
}

func formatJournalOutput(w io.Writer, records []types.RunRecord, jsonOutput bool) error {
	if jsonOutput {
		if records == nil {
			records = []types.RunRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-6s  %-30s  %4s  %4s  %6s  %5s\n",
		"Started", "Status", "Mode", "Source", "In", "Out", "Resets", "Final")
	fmt.Fprintln(w, strings.Repeat("-", 98))

	for _, r := range records {
		source := r.Source
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-6s  %-30s  %4d  %4d  %6d  %5d\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Status, r.Mode, source,
			r.InMarkers, r.OutMarkers, r.Resets, r.FinalNumber)
	}

	fmt.Fprintf(w, "\n%d runs\n", len(records))
	return nil
}

// --- export subcommand ---

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run journal to YAML or JSON",
	Long: `Export writes every recorded run (or those matching --source and
--status) to standard output.`,
	Args: cobra.NoArgs,
	RunE: runJournalExport,
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := journalQueryFromFlags(cmd)

	switch format {
	case "yaml", "":
		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout(), opts)
	case "json":
		return store.ExportJSON(cmd.Context(), cmd.OutOrStdout(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

func openJournal() (*journal.Store, error) {
	cfg := journalConfig()
	if cfg.Path == "" {
		return nil, fmt.Errorf("no journal configured: pass --journal or set journal.path")
	}
	return journal.Open(cfg)
}

func journalQueryFromFlags(cmd *cobra.Command) journal.QueryOptions {
	source, _ := cmd.Flags().GetString("source")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	return journal.QueryOptions{
		Source:     source,
		Status:     types.RunStatus(status),
		MaxResults: limit,
	}
}

func init() {
	for _, c := range []*cobra.Command{journalListCmd, journalExportCmd} {
		c.Flags().String("source", "", "filter by source path")
		c.Flags().String("status", "", "filter by status: changed, unchanged, failed")
	}

	journalListCmd.Flags().Int("limit", 0, "maximum runs to show (0 = journal.max_results)")
	journalListCmd.Flags().Bool("json", false, "output runs as JSON")

	journalExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalExportCmd)

	rootCmd.AddCommand(journalCmd)
}
