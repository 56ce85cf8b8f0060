package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	prodLog bool
)

// rootCmd is the single package-level *cobra.Command; subcommands register
// themselves onto it from their own init().
var rootCmd = &cobra.Command{
	Use: "holidayfinder",
	Short: "Holiday offer search engine",
	Long: `holidayfinder ingests a hotel catalog and a travel-offer stream into an
in-memory columnar index and serves best-per-hotel and hotel-detail
search queries with sub-second latency.`,
	Version: "0.1.0",
}

// Execute runs the root command; main() is the only caller.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file overlaying the defaults")
	rootCmd.PersistentFlags().BoolVar(&prodLog, "prod-log", false, "use the production JSON log encoder instead of the development console encoder")
}
