package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
	"github.com/limhaneul12/kafka-gov-console/pkg/model"
	kafgov "github.com/limhaneul12/kafka-gov-console/sdk"
)

var outputFormat string

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage governed topics",
	Long:  `List, inspect, delete, and declaratively apply Kafka topics.`,
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List governed topics",
	Example: `  # List topics of a cluster
  kafgov topics list --cluster kc-main

  # List with JSON output
  kafgov topics list --cluster kc-main --output json`,
	RunE: runTopicsList,
}

var topicsGetCmd = &cobra.Command{
	Use:     "get <name>",
	Short:   "Get topic details",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov topics get orders.created --cluster kc-main`,
	RunE:    runTopicsGet,
}

var topicsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a topic",
	Args:  cobra.ExactArgs(1),
	Example: `  # Delete with confirmation
  kafgov topics delete orders.retired --cluster kc-main

  # Force delete without confirmation
  kafgov topics delete orders.retired --cluster kc-main --force`,
	RunE: runTopicsDelete,
}

var (
	applyFileFlag   string
	applyDryRunFlag bool
	applyForceFlag  bool
	applyEnvFlag    string
)

var topicsApplyCmd = &cobra.Command{
	Use:   "apply -f <file>",
	Short: "Apply topic batch documents",
	Long: `Apply one or more declarative topic batch documents.

The input may contain multiple YAML documents separated by "---" lines.
Every document is submitted independently: a document that fails policy
validation or transport does not stop the documents after it. The report
shows one section per document.`,
	Example: `  # Validate without committing
  kafgov topics apply -f topics.yaml --dry-run

  # Apply, defaulting documents without an environment to dev
  kafgov topics apply -f topics.yaml --env dev

  # Apply from stdin, overriding policy warnings
  cat topics.yaml | kafgov topics apply -f - --force`,
	RunE: runTopicsApply,
}

func init() {
	rootCmd.AddCommand(topicsCmd)

	// List command
	topicsListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	topicsCmd.AddCommand(topicsListCmd)

	// Get command
	topicsGetCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	topicsCmd.AddCommand(topicsGetCmd)

	// Delete command
	forceFlag := false
	topicsDeleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Skip confirmation")
	topicsCmd.AddCommand(topicsDeleteCmd)

	// Apply command
	topicsApplyCmd.Flags().StringVarP(&applyFileFlag, "file", "f", "", "Batch document file, or - for stdin (required)")
	topicsApplyCmd.Flags().BoolVar(&applyDryRunFlag, "dry-run", false, "Validate against policy without committing")
	topicsApplyCmd.Flags().BoolVar(&applyForceFlag, "force", false, "Commit even when policy violations are reported")
	topicsApplyCmd.Flags().StringVar(&applyEnvFlag, "env", "", "Environment for documents that do not declare one")
	topicsApplyCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	topicsApplyCmd.MarkFlagRequired("file")
	topicsCmd.AddCommand(topicsApplyCmd)
}

func runTopicsList(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	topics, err := client.Topics.List(ctx, getCluster())
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	var formatter output.Formatter
	if format == output.FormatTable {
		formatter = output.NewTableFormatterWithLabels(
			[]string{"name", "partitions", "replication_factor", "total_messages", "size_bytes", "owner"},
			map[string]string{"replication_factor": "RF", "total_messages": "MESSAGES", "size_bytes": "BYTES"},
		)
	} else {
		formatter = output.NewFormatter(format)
	}

	return formatter.Write(cmd.OutOrStdout(), topics)
}

func runTopicsGet(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	topic, err := client.Topics.Get(ctx, getCluster(), args[0])
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), topic)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Name:        %s\n", topic.Name)
	fmt.Fprintf(w, "Cluster:     %s\n", topic.ClusterID)
	fmt.Fprintf(w, "Partitions:  %d (replication factor %d)\n", topic.Partitions, topic.ReplicationFactor)
	if topic.Owner != "" {
		fmt.Fprintf(w, "Owner:       %s\n", topic.Owner)
	}
	fmt.Fprintf(w, "Messages:    %d\n", topic.TotalMessages)
	fmt.Fprintf(w, "Size:        %d bytes\n", topic.SizeBytes)
	if len(topic.Configs) > 0 {
		fmt.Fprintln(w, "Configs:")
		for k, v := range topic.Configs {
			fmt.Fprintf(w, "  %s = %s\n", k, v)
		}
	}
	if len(topic.PartitionInfos) > 0 {
		fmt.Fprintln(w, "Partitions:")
		formatter := output.NewTableFormatterWithLabels(
			[]string{"id", "leader", "replicas", "isr", "offline"},
			map[string]string{"isr": "ISR"},
		)
		if err := formatter.Write(w, topic.PartitionInfos); err != nil {
			return err
		}
	}
	return nil
}

func runTopicsDelete(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	name := args[0]

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Printf("Delete topic %s? [y/N]: ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	resp, err := client.Topics.Delete(ctx, getCluster(), name)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted topic: %s\n", resp.Name)
	if resp.ChangeID != "" {
		fmt.Printf("  Change ID: %s\n", resp.ChangeID)
	}
	return nil
}

func runTopicsApply(cmd *cobra.Command, args []string) error {
	input, err := readApplyInput(applyFileFlag)
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	results, err := client.Applier().Run(ctx, string(input), kafgov.BatchApplyOptions{
		DryRun:      applyDryRunFlag,
		Force:       applyForceFlag,
		Environment: applyEnvFlag,
		ClusterID:   getCluster(),
	})
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		if err := output.NewFormatter(format).Write(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		renderBatchReport(cmd.OutOrStdout(), results, applyDryRunFlag)
	}

	failed := 0
	blocked := false
	for _, result := range results {
		if !result.Success {
			failed++
		}
		if result.HasViolations() {
			blocked = true
		}
	}
	if failed > 0 {
		if blocked && !applyForceFlag && !applyDryRunFlag {
			fmt.Fprintln(cmd.OutOrStdout(), "Rerun with --force to commit despite policy violations.")
		}
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func readApplyInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// renderBatchReport prints one section per document result, in input order.
func renderBatchReport(w io.Writer, results []model.BatchApplyResult, dryRun bool) {
	verb := "Applied"
	if dryRun {
		verb = "Validated"
	}

	for i, result := range results {
		status := "OK"
		if !result.Success {
			status = "FAILED"
		}
		fmt.Fprintf(w, "Document %d [%s] %s", i+1, result.Environment, status)
		if result.ChangeID != "" {
			fmt.Fprintf(w, "  change: %s", result.ChangeID)
		}
		fmt.Fprintln(w)

		if len(result.Applied) > 0 {
			fmt.Fprintf(w, "  applied (%d): %s\n", len(result.Applied), strings.Join(result.Applied, ", "))
		}
		if len(result.Skipped) > 0 {
			fmt.Fprintf(w, "  skipped (%d): %s\n", len(result.Skipped), strings.Join(result.Skipped, ", "))
		}
		for _, failed := range result.Failed {
			fmt.Fprintf(w, "  failed: %s (%s): %s\n", failed.Name, failed.FailureType, failed.ErrorMessage)
			for _, violation := range failed.Violations {
				fmt.Fprintf(w, "    violation [%s] %s: %s\n", violation.Rule, violation.Field, violation.Message)
			}
			for _, suggestion := range failed.Suggestions {
				fmt.Fprintf(w, "    suggestion: %s\n", suggestion)
			}
		}
	}

	total := len(results)
	ok := 0
	for _, result := range results {
		if result.Success {
			ok++
		}
	}
	fmt.Fprintf(w, "\n%s %d of %d documents\n", verb, ok, total)
}
