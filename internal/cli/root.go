package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	kafgov "github.com/limhaneul12/kafka-gov-console/sdk"
)

var (
	cfgFile     string
	apiURL      string
	clusterFlag string
	timeout     time.Duration
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "kafgov",
	Short: "kafgov CLI - Govern Kafka topics, schemas, and consumers",
	Long: `kafgov is the command-line client for the Kafka governance console.

It manages governed topics, schema subjects, connectors, policies, and
consumer groups through the console API, including declarative batch
apply of topic documents and a live consumer-group lag watch.`,
	Version: "dev",
}

// Execute runs the root command
func Execute(version, commit, date string) error {
	cliVersion, cliCommit, cliDate = version, commit, date
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: ~/.config/kafgov/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-server", "s", "http://localhost:8090", "Console server address")
	rootCmd.PersistentFlags().StringVar(&clusterFlag, "cluster", "", "Target Kafka cluster ID")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Bind to viper
	viper.BindPFlag("api-server", rootCmd.PersistentFlags().Lookup("api-server"))
	viper.BindPFlag("cluster", rootCmd.PersistentFlags().Lookup("cluster"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home + "/.config/kafgov")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read environment variables
	viper.SetEnvPrefix("KAFGOV")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// getBaseURL returns the console server address without a trailing slash.
// Auth endpoints live at its root; resource endpoints under /api/v1.
func getBaseURL() string {
	url := viper.GetString("api-server")
	if url == "" {
		url = "http://localhost:8090"
	}
	return strings.TrimRight(url, "/")
}

// getAPIClient creates and returns an API client
func getAPIClient() *kafgov.Client {
	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	opts := []kafgov.Option{kafgov.WithTimeout(timeout)}
	if token := viper.GetString("token"); token != "" {
		opts = append(opts, kafgov.WithAuthToken(token))
	}

	return kafgov.NewClient(getBaseURL()+"/api/v1", opts...)
}

// getContext returns a context with timeout
func getContext() (context.Context, context.CancelFunc) {
	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// getCluster returns the target cluster ID from flag, env, or config.
func getCluster() string {
	return viper.GetString("cluster")
}

// requireCluster returns the target cluster ID or an error telling the user
// how to set one.
func requireCluster() (string, error) {
	cluster := getCluster()
	if cluster == "" {
		return "", fmt.Errorf("cluster ID is required (use --cluster, KAFGOV_CLUSTER, or the config file)")
	}
	return cluster, nil
}
