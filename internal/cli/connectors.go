package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
)

var connectorsCmd = &cobra.Command{
	Use:   "connectors",
	Short: "Manage Kafka Connect connectors",
	Long:  `List, inspect, and control connectors on a Connect cluster.`,
}

var connectorsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List connectors",
	Example: `  kafgov connectors list --connect cdc-main`,
	RunE:    runConnectorsList,
}

var connectorsGetCmd = &cobra.Command{
	Use:     "get <name>",
	Short:   "Get connector details",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov connectors get orders-sink --connect cdc-main`,
	RunE:    runConnectorsGet,
}

var connectorsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a connector",
	Args:  cobra.ExactArgs(1),
	Example: `  # Delete with confirmation
  kafgov connectors delete orders-sink --connect cdc-main

  # Force delete without confirmation
  kafgov connectors delete orders-sink --connect cdc-main --force`,
	RunE: runConnectorsDelete,
}

var connectorsPauseCmd = &cobra.Command{
	Use:     "pause <name>",
	Short:   "Pause a connector",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov connectors pause orders-sink --connect cdc-main`,
	RunE:    runConnectorsPause,
}

var connectorsResumeCmd = &cobra.Command{
	Use:     "resume <name>",
	Short:   "Resume a paused connector",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov connectors resume orders-sink --connect cdc-main`,
	RunE:    runConnectorsResume,
}

var connectorsRestartCmd = &cobra.Command{
	Use:   "restart <name>",
	Short: "Restart a connector",
	Args:  cobra.ExactArgs(1),
	Example: `  # Restart the connector instance only
  kafgov connectors restart orders-sink --connect cdc-main

  # Restart the connector and all of its tasks
  kafgov connectors restart orders-sink --connect cdc-main --tasks`,
	RunE: runConnectorsRestart,
}

func init() {
	rootCmd.AddCommand(connectorsCmd)

	connectorsCmd.PersistentFlags().String("connect", "", "Connect cluster ID")
	viper.BindPFlag("connect", connectorsCmd.PersistentFlags().Lookup("connect"))

	connectorsListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	connectorsCmd.AddCommand(connectorsListCmd)

	connectorsGetCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	connectorsCmd.AddCommand(connectorsGetCmd)

	forceFlag := false
	connectorsDeleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Skip confirmation")
	connectorsCmd.AddCommand(connectorsDeleteCmd)

	connectorsCmd.AddCommand(connectorsPauseCmd)
	connectorsCmd.AddCommand(connectorsResumeCmd)

	connectorsRestartCmd.Flags().Bool("tasks", false, "Also restart the connector's tasks")
	connectorsCmd.AddCommand(connectorsRestartCmd)
}

// requireConnect returns the Connect cluster ID or an error telling the
// user how to set one.
func requireConnect() (string, error) {
	connectID := viper.GetString("connect")
	if connectID == "" {
		return "", fmt.Errorf("connect cluster ID is required (use --connect or KAFGOV_CONNECT)")
	}
	return connectID, nil
}

func runConnectorsList(cmd *cobra.Command, args []string) error {
	connectID, err := requireConnect()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	resp, err := client.Connect.List(ctx, connectID)
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	var formatter output.Formatter
	if format == output.FormatTable {
		formatter = output.NewTableFormatterWithLabels(
			[]string{"name", "class", "type", "state", "worker_id"},
			map[string]string{"worker_id": "WORKER"},
		)
	} else {
		formatter = output.NewFormatter(format)
	}

	return formatter.Write(cmd.OutOrStdout(), resp.Items)
}

func runConnectorsGet(cmd *cobra.Command, args []string) error {
	connectID, err := requireConnect()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	connector, err := client.Connect.Get(ctx, connectID, args[0])
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), connector)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Name:    %s\n", connector.Name)
	fmt.Fprintf(w, "Class:   %s\n", connector.Class)
	fmt.Fprintf(w, "Type:    %s\n", connector.Type)
	fmt.Fprintf(w, "State:   %s\n", connector.State)
	if connector.WorkerID != "" {
		fmt.Fprintf(w, "Worker:  %s\n", connector.WorkerID)
	}
	if connector.Trace != "" {
		fmt.Fprintf(w, "Trace:\n%s\n", connector.Trace)
	}
	if len(connector.Tasks) > 0 {
		fmt.Fprintln(w, "Tasks:")
		formatter := output.NewTableFormatterWithLabels(
			[]string{"id", "state", "worker_id"},
			map[string]string{"worker_id": "WORKER"},
		)
		if err := formatter.Write(w, connector.Tasks); err != nil {
			return err
		}
	}
	return nil
}

func runConnectorsDelete(cmd *cobra.Command, args []string) error {
	connectID, err := requireConnect()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	name := args[0]

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Printf("Delete connector %s? [y/N]: ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := client.Connect.Delete(ctx, connectID, name); err != nil {
		return err
	}

	fmt.Printf("Deleted connector: %s\n", name)
	return nil
}

func runConnectorsPause(cmd *cobra.Command, args []string) error {
	connectID, err := requireConnect()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	if err := client.Connect.Pause(ctx, connectID, args[0]); err != nil {
		return err
	}

	fmt.Printf("Paused connector: %s\n", args[0])
	return nil
}

func runConnectorsResume(cmd *cobra.Command, args []string) error {
	connectID, err := requireConnect()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	if err := client.Connect.Resume(ctx, connectID, args[0]); err != nil {
		return err
	}

	fmt.Printf("Resumed connector: %s\n", args[0])
	return nil
}

func runConnectorsRestart(cmd *cobra.Command, args []string) error {
	connectID, err := requireConnect()
	if err != nil {
		return err
	}

	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	includeTasks, _ := cmd.Flags().GetBool("tasks")

	if err := client.Connect.Restart(ctx, connectID, args[0], includeTasks); err != nil {
		return err
	}

	if includeTasks {
		fmt.Printf("Restarted connector and tasks: %s\n", args[0])
	} else {
		fmt.Printf("Restarted connector: %s\n", args[0])
	}
	return nil
}
