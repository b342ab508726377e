package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qgriffith/fit-connect/internal/config"
	"github.com/qgriffith/fit-connect/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded weight syncs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		s, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer s.Close()

		syncs, err := s.Recent(historyLimit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if len(syncs) == 0 {
			fmt.Println("No syncs recorded yet")
			return nil
		}

		for _, sy := range syncs {
			status := "fetched"
			if sy.Pushed {
				status = "pushed to Strava"
			}
			fmt.Printf("%s | %s kg | %s\n",
				sy.TakenAt.Format("2006-01-02 15:04:05"), formatKg(sy.WeightKG), status)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
