package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
	"github.com/limhaneul12/kafka-gov-console/pkg/model"
	kafgov "github.com/limhaneul12/kafka-gov-console/sdk"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Manage governance policies",
	Long:  `List, author, and toggle the policies that validate topic batches.`,
}

var policiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List policies",
	Example: `  # All policies
  kafgov policies list

  # Policies scoped to one environment
  kafgov policies list --env prod`,
	RunE: runPoliciesList,
}

var policiesGetCmd = &cobra.Command{
	Use:     "get <name>",
	Short:   "Get policy details",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov policies get prod-partition-limits`,
	RunE:    runPoliciesGet,
}

var policiesApplyCmd = &cobra.Command{
	Use:     "apply -f <file>",
	Short:   "Create or update a policy from a YAML document",
	Example: `  kafgov policies apply -f prod-limits.yaml`,
	RunE:    runPoliciesApply,
}

var policiesEnableCmd = &cobra.Command{
	Use:     "enable <name>",
	Short:   "Enable enforcement of a policy",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov policies enable prod-partition-limits`,
	RunE:    runPoliciesEnable,
}

var policiesDisableCmd = &cobra.Command{
	Use:     "disable <name>",
	Short:   "Disable enforcement of a policy",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov policies disable prod-partition-limits`,
	RunE:    runPoliciesDisable,
}

var policiesDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a policy",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov policies delete legacy-naming`,
	RunE:    runPoliciesDelete,
}

func init() {
	rootCmd.AddCommand(policiesCmd)

	policiesListCmd.Flags().String("env", "", "Filter by environment")
	policiesListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	policiesCmd.AddCommand(policiesListCmd)

	policiesGetCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	policiesCmd.AddCommand(policiesGetCmd)

	policiesApplyCmd.Flags().StringP("file", "f", "", "Policy YAML file (required)")
	policiesApplyCmd.MarkFlagRequired("file")
	policiesCmd.AddCommand(policiesApplyCmd)

	policiesCmd.AddCommand(policiesEnableCmd)
	policiesCmd.AddCommand(policiesDisableCmd)

	forceFlag := false
	policiesDeleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Skip confirmation")
	policiesCmd.AddCommand(policiesDeleteCmd)
}

func runPoliciesList(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	environment, _ := cmd.Flags().GetString("env")

	resp, err := client.Policies.List(ctx, environment)
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	var formatter output.Formatter
	if format == output.FormatTable {
		formatter = output.NewTableFormatterWithLabels(
			[]string{"name", "environment", "enabled", "updated_at"},
			map[string]string{"updated_at": "UPDATED"},
		)
	} else {
		formatter = output.NewFormatter(format)
	}

	return formatter.Write(cmd.OutOrStdout(), resp.Items)
}

func runPoliciesGet(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	policy, err := client.Policies.Get(ctx, args[0])
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), policy)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Name:         %s\n", policy.Name)
	if policy.Description != "" {
		fmt.Fprintf(w, "Description:  %s\n", policy.Description)
	}
	fmt.Fprintf(w, "Environment:  %s\n", policy.Environment)
	fmt.Fprintf(w, "Enabled:      %t\n", policy.Enabled)
	if len(policy.Rules) > 0 {
		fmt.Fprintln(w, "Rules:")
		formatter := output.NewTableFormatter([]string{"field", "constraint", "value", "severity"})
		if err := formatter.Write(w, policy.Rules); err != nil {
			return err
		}
	}
	return nil
}

func runPoliciesApply(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var doc model.PolicyYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse policy document: %w", err)
	}
	if doc.Kind != "" && doc.Kind != "Policy" {
		return fmt.Errorf("unexpected document kind %q", doc.Kind)
	}
	if doc.Policy.Name == "" {
		return fmt.Errorf("policy document must declare a name")
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	existing, err := client.Policies.Get(ctx, doc.Policy.Name)
	if err != nil && !kafgov.IsNotFound(err) {
		return err
	}

	if existing == nil {
		created, err := client.Policies.Create(ctx, &doc.Policy)
		if err != nil {
			return err
		}
		fmt.Printf("Created policy: %s (%s)\n", created.Name, created.Environment)
		return nil
	}

	updated, err := client.Policies.Update(ctx, doc.Policy.Name, &doc.Policy)
	if err != nil {
		return err
	}
	fmt.Printf("Updated policy: %s (%s)\n", updated.Name, updated.Environment)
	return nil
}

func runPoliciesEnable(cmd *cobra.Command, args []string) error {
	return setPolicyEnabled(args[0], true)
}

func runPoliciesDisable(cmd *cobra.Command, args []string) error {
	return setPolicyEnabled(args[0], false)
}

func setPolicyEnabled(name string, enabled bool) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	policy, err := client.Policies.SetEnabled(ctx, name, enabled)
	if err != nil {
		return err
	}

	if policy.Enabled {
		fmt.Printf("Enabled policy: %s\n", policy.Name)
	} else {
		fmt.Printf("Disabled policy: %s\n", policy.Name)
	}
	return nil
}

func runPoliciesDelete(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	name := args[0]

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Printf("Delete policy %s? [y/N]: ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := client.Policies.Delete(ctx, name); err != nil {
		return err
	}

	fmt.Printf("Deleted policy: %s\n", name)
	return nil
}
