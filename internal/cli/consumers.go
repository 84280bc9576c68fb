package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/limhaneul12/kafka-gov-console/internal/cli/output"
	"github.com/limhaneul12/kafka-gov-console/pkg/model"
	kafgov "github.com/limhaneul12/kafka-gov-console/sdk"
)

var consumersCmd = &cobra.Command{
	Use:   "consumers",
	Short: "Inspect consumer groups",
	Long:  `List consumer groups, inspect their lag, and watch a group's live lag feed.`,
}

var consumersListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List consumer groups",
	Example: `  kafgov consumers list --cluster kc-main`,
	RunE:    runConsumersList,
}

var consumersGetCmd = &cobra.Command{
	Use:     "get <group-id>",
	Short:   "Get consumer group details",
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov consumers get settlement-loader --cluster kc-main`,
	RunE:    runConsumersGet,
}

var consumersWatchCmd = &cobra.Command{
	Use:   "watch <group-id>",
	Short: "Watch a group's live lag feed",
	Long: `Watch subscribes to the group's live snapshot stream and redraws a
lag summary every time a snapshot arrives. The stream is push-driven;
there is no polling interval to tune. Press Ctrl-C to stop.`,
	Args:    cobra.ExactArgs(1),
	Example: `  kafgov consumers watch settlement-loader --cluster kc-main`,
	RunE:    runConsumersWatch,
}

func init() {
	rootCmd.AddCommand(consumersCmd)

	consumersListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	consumersCmd.AddCommand(consumersListCmd)

	consumersGetCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	consumersCmd.AddCommand(consumersGetCmd)

	consumersWatchCmd.Flags().Int("partitions", 10, "Number of top-lag partitions to show")
	consumersCmd.AddCommand(consumersWatchCmd)
}

func runConsumersList(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	resp, err := client.Consumers.List(ctx, getCluster())
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	var formatter output.Formatter
	if format == output.FormatTable {
		formatter = output.NewTableFormatterWithLabels(
			[]string{"group_id", "state", "members", "topics", "total_lag"},
			map[string]string{"group_id": "GROUP", "total_lag": "LAG"},
		)
	} else {
		formatter = output.NewFormatter(format)
	}

	return formatter.Write(cmd.OutOrStdout(), resp.Items)
}

func runConsumersGet(cmd *cobra.Command, args []string) error {
	client := getAPIClient()
	ctx, cancel := getContext()
	defer cancel()

	detail, err := client.Consumers.Get(ctx, getCluster(), args[0])
	if err != nil {
		return err
	}

	format := output.ParseFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), detail)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Group:       %s\n", detail.GroupID)
	fmt.Fprintf(w, "Cluster:     %s\n", detail.ClusterID)
	fmt.Fprintf(w, "State:       %s\n", detail.State)
	fmt.Fprintf(w, "Members:     %d (coordinator broker %d)\n", detail.Members, detail.Coordinator)
	if len(detail.Topics) > 0 {
		fmt.Fprintf(w, "Topics:      %s\n", strings.Join(detail.Topics, ", "))
	}
	fmt.Fprintf(w, "Total lag:   %s\n", humanize.Comma(detail.LagStats.Total))
	fmt.Fprintf(w, "Lag p50/p95/max:  %s / %s / %s\n",
		humanize.Comma(detail.LagStats.P50),
		humanize.Comma(detail.LagStats.P95),
		humanize.Comma(detail.LagStats.Max))
	fmt.Fprintf(w, "Fairness:    %.3f (gini)\n", detail.FairnessGini)
	if !detail.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:     %s\n", humanize.Time(detail.UpdatedAt))
	}
	if len(detail.Partitions) > 0 {
		fmt.Fprintln(w, "Partitions:")
		if err := writePartitionLagTable(w, detail.Partitions, len(detail.Partitions)); err != nil {
			return err
		}
	}
	return nil
}

func runConsumersWatch(cmd *cobra.Command, args []string) error {
	cluster, err := requireCluster()
	if err != nil {
		return err
	}
	groupID := args[0]
	topN, _ := cmd.Flags().GetInt("partitions")

	client := getAPIClient()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	var monitor *kafgov.LiveMonitor
	monitor = client.Live.NewLiveMonitor(cluster, groupID, func(snapshot model.LiveSnapshot) {
		if interactive {
			renderWatchFrame(w, cluster, groupID, snapshot, monitor.History(), topN)
		} else {
			renderWatchLine(w, snapshot)
		}
	})

	if err := monitor.Start(ctx); err != nil {
		return err
	}
	defer monitor.Stop()

	if interactive {
		fmt.Fprintf(w, "Watching %s on %s, waiting for the first snapshot...\n", groupID, cluster)
	}

	<-ctx.Done()
	monitor.Stop()

	fmt.Fprintf(w, "\nStopped watching %s\n", groupID)
	return nil
}

// renderWatchFrame redraws the whole terminal summary for one snapshot.
func renderWatchFrame(w io.Writer, cluster, groupID string, snapshot model.LiveSnapshot, history *kafgov.LagHistory, topN int) {
	points := history.Points()

	fmt.Fprint(w, "\033[2J\033[H")
	fmt.Fprintf(w, "Watching %s on %s  -  %s  (%s)\n\n",
		groupID, cluster, snapshot.Timestamp.Format("15:04:05"), snapshot.State)

	fmt.Fprintf(w, "  total lag:  %s\n", humanize.Comma(snapshot.LagStats.Total))
	fmt.Fprintf(w, "  p50: %s   p95: %s   max: %s\n",
		humanize.Comma(snapshot.LagStats.P50),
		humanize.Comma(snapshot.LagStats.P95),
		humanize.Comma(snapshot.LagStats.Max))
	fmt.Fprintf(w, "  fairness:   %.3f (gini)\n\n", snapshot.FairnessGini)

	if len(points) > 1 {
		lo, hi := points[0].TotalLag, points[0].TotalLag
		for _, p := range points {
			if p.TotalLag < lo {
				lo = p.TotalLag
			}
			if p.TotalLag > hi {
				hi = p.TotalLag
			}
		}
		fmt.Fprintf(w, "  trend (%d pts): %s  low %s  high %s\n\n",
			len(points), sparkline(points), humanize.Comma(lo), humanize.Comma(hi))
	}

	if len(snapshot.Partitions) > 0 {
		writePartitionLagTable(w, snapshot.Partitions, topN)
	}

	fmt.Fprintln(w, "\nPress Ctrl-C to stop.")
}

// renderWatchLine prints one summary line per snapshot for piped output.
func renderWatchLine(w io.Writer, snapshot model.LiveSnapshot) {
	fmt.Fprintf(w, "%s state=%s total=%s p95=%s max=%s gini=%.3f\n",
		snapshot.Timestamp.Format("15:04:05"),
		snapshot.State,
		humanize.Comma(snapshot.LagStats.Total),
		humanize.Comma(snapshot.LagStats.P95),
		humanize.Comma(snapshot.LagStats.Max),
		snapshot.FairnessGini)
}

// writePartitionLagTable prints up to topN partitions, worst lag first.
func writePartitionLagTable(w io.Writer, partitions []model.PartitionLag, topN int) error {
	sorted := make([]model.PartitionLag, len(partitions))
	copy(sorted, partitions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Lag > sorted[j].Lag
	})

	hidden := 0
	if topN > 0 && len(sorted) > topN {
		hidden = len(sorted) - topN
		sorted = sorted[:topN]
	}

	formatter := output.NewTableFormatter([]string{"topic", "partition", "lag"})
	if err := formatter.Write(w, sorted); err != nil {
		return err
	}
	if hidden > 0 {
		fmt.Fprintf(w, "  (+%d more partitions)\n", hidden)
	}
	return nil
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the history's total lag as one block character per point.
func sparkline(points []model.LagPoint) string {
	if len(points) == 0 {
		return ""
	}

	lo, hi := points[0].TotalLag, points[0].TotalLag
	for _, p := range points {
		if p.TotalLag < lo {
			lo = p.TotalLag
		}
		if p.TotalLag > hi {
			hi = p.TotalLag
		}
	}

	var b strings.Builder
	for _, p := range points {
		idx := 0
		if hi > lo {
			idx = int((p.TotalLag - lo) * int64(len(sparkRunes)-1) / (hi - lo))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
