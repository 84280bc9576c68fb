package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
	kafgov "github.com/limhaneul12/kafka-gov-console/sdk"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the governance audit trail",
}

var auditRecentCmd = &cobra.Command{
	Use:     "recent",
	Short:   "Show the most recent audit entries",
	Example: `  kafgov audit recent --limit 50`,
	RunE:    runAuditRecent,
}

var auditHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Page through the audit trail",
	Example: `  # Everything an actor did in the last day
  kafgov audit history --actor admin --since 24h

  # Batch applies on one cluster
  kafgov audit history --cluster kc-main --action apply --page 2`,
	RunE: runAuditHistory,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditRecentCmd.Flags().Int("limit", 20, "Number of entries")
	auditRecentCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	auditCmd.AddCommand(auditRecentCmd)

	auditHistoryCmd.Flags().String("since", "", "Start of the window (RFC3339 or a duration like 24h)")
	auditHistoryCmd.Flags().String("until", "", "End of the window (RFC3339 or a duration like 1h)")
	auditHistoryCmd.Flags().String("actor", "", "Filter by actor")
	auditHistoryCmd.Flags().String("action", "", "Filter by action")
	auditHistoryCmd.Flags().Int("page", 1, "Page number")
	auditHistoryCmd.Flags().Int("page-size", 20, "Entries per page")
	auditHistoryCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	auditCmd.AddCommand(auditHistoryCmd)
}

var auditTableFields = []string{"timestamp", "actor", "action", "resource_type", "resource", "outcome"}

func runAuditRecent(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := client.Audit.Recent(ctx, limit)
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	var formatter output.Formatter
	if format == output.FormatTable {
		formatter = output.NewTableFormatterWithLabels(auditTableFields, map[string]string{"resource_type": "TYPE"})
	} else {
		formatter = output.NewFormatter(format)
	}

	return formatter.Write(cmd.OutOrStdout(), entries)
}

func runAuditHistory(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	query := &kafgov.AuditHistoryQuery{ClusterID: getCluster()}
	query.Actor, _ = cmd.Flags().GetString("actor")
	query.Action, _ = cmd.Flags().GetString("action")
	query.Page, _ = cmd.Flags().GetInt("page")
	query.PageSize, _ = cmd.Flags().GetInt("page-size")

	since, _ := cmd.Flags().GetString("since")
	if since != "" {
		t, err := parseTimeFlag(since)
		if err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
		query.Since = t
	}
	until, _ := cmd.Flags().GetString("until")
	if until != "" {
		t, err := parseTimeFlag(until)
		if err != nil {
			return fmt.Errorf("invalid --until: %w", err)
		}
		query.Until = t
	}

	page, err := client.Audit.History(ctx, query)
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), page)
	}

	formatter := output.NewTableFormatterWithLabels(auditTableFields, map[string]string{"resource_type": "TYPE"})
	if err := formatter.Write(cmd.OutOrStdout(), page.Items); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d (%d entries total)\n", page.Page, page.Total)
	return nil
}

// parseTimeFlag accepts an RFC3339 timestamp or a duration relative to now
// (e.g. "24h" means 24 hours ago).
func parseTimeFlag(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("expected RFC3339 timestamp or duration, got %q", s)
}
