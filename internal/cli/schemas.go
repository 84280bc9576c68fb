package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Manage schema subjects",
	Long:  `List and inspect schema registry subjects, and reconcile them into the governance catalog.`,
}

var schemasListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List schema subjects",
	Example: `  kafgov schemas list --cluster kc-main`,
	RunE:    runSchemasList,
}

var schemasGetCmd = &cobra.Command{
	Use:   "get <subject>",
	Short: "Get a schema version",
	Args:  cobra.ExactArgs(1),
	Example: `  # Latest version
  kafgov schemas get orders.created-value

  # Specific version
  kafgov schemas get orders.created-value --schema-version 3`,
	RunE: runSchemasGet,
}

var schemasSyncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "Reconcile registry subjects into the catalog",
	Example: `  kafgov schemas sync --cluster kc-main`,
	RunE:    runSchemasSync,
}

func init() {
	rootCmd.AddCommand(schemasCmd)

	schemasListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	schemasCmd.AddCommand(schemasListCmd)

	schemasGetCmd.Flags().Int("schema-version", 0, "Schema version (default latest)")
	schemasGetCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	schemasCmd.AddCommand(schemasGetCmd)

	schemasCmd.AddCommand(schemasSyncCmd)
}

func runSchemasList(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	resp, err := client.Schemas.List(ctx, getCluster())
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	var formatter output.Formatter
	if format == output.FormatTable {
		formatter = output.NewTableFormatterWithLabels(
			[]string{"subject", "version", "schema_type", "compatibility", "updated_at"},
			map[string]string{"schema_type": "TYPE", "updated_at": "UPDATED"},
		)
	} else {
		formatter = output.NewFormatter(format)
	}

	return formatter.Write(cmd.OutOrStdout(), resp.Items)
}

func runSchemasGet(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	version, _ := cmd.Flags().GetInt("schema-version")

	schema, err := client.Schemas.Get(ctx, args[0], version)
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), schema)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Subject:        %s\n", schema.Subject)
	fmt.Fprintf(w, "Version:        %d (id %d)\n", schema.Version, schema.ID)
	fmt.Fprintf(w, "Type:           %s\n", schema.SchemaType)
	if schema.Compatibility != "" {
		fmt.Fprintf(w, "Compatibility:  %s\n", schema.Compatibility)
	}
	if len(schema.References) > 0 {
		refs := make([]string, 0, len(schema.References))
		for _, r := range schema.References {
			refs = append(refs, fmt.Sprintf("%s@v%d", r.Subject, r.Version))
		}
		fmt.Fprintf(w, "References:     %s\n", strings.Join(refs, ", "))
	}
	if schema.Definition != "" {
		fmt.Fprintf(w, "Definition:\n%s\n", schema.Definition)
	}
	return nil
}

func runSchemasSync(cmd *cobra.Command, args []string) error {
	cluster, err := requireCluster()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	report, err := client.Schemas.Sync(ctx, cluster)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d subjects on %s in %dms (%d skipped, %d failed)\n",
		len(report.Synced), report.ClusterID, report.DurationMS, len(report.Skipped), len(report.Failed))
	if len(report.Failed) > 0 {
		fmt.Printf("  failed: %s\n", strings.Join(report.Failed, ", "))
	}
	return nil
}
