package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrapbird/holidayfinder/internal/config"
	"github.com/scrapbird/holidayfinder/internal/ingest"
	"github.com/scrapbird/holidayfinder/internal/obs"
)

var ingestCmd = &cobra.Command{
	Use: "ingest",
	Short: "Run a single ingest pass and report stats",
	Long: `ingest loads the configured hotel and offer sources into a Snapshot and
reports the resulting row counts, error counts, and timings, then exits
without starting the HTTP surface. Useful for validating a dataset before
running serve.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := obs.NewZap(prodLog)
	if err != nil {
		return err
	}

	in := ingest.New(cfg, logger, func(ev ingest.ProgressEvent) {
		fmt.Printf("[%s] %d%% %s\n", ev.Stage, ev.Percentage, ev.Message)
	})

	snap, err := in.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("hotels ingested: %d (errors: %d)\n", snap.Stats.HotelsIngested, snap.Stats.HotelRowErrors)
	fmt.Printf("offers ingested: %d (errors: %d)\n", snap.Stats.OffersIngested, snap.Stats.OfferRowErrors)
	fmt.Printf("index memory bytes: %d\n", snap.Stats.IndexBytes)
	fmt.Printf("ingest duration: %s\n", snap.Stats.IngestDuration)
	return nil
}
