package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/qgriffith/fit-connect/internal/config"
	"github.com/qgriffith/fit-connect/internal/store"
	"github.com/qgriffith/fit-connect/withings"
)

var (
	withingsDays int
	withingsSync bool
)

var withingsCmd = &cobra.Command{
	Use:   "withings",
	Short: "Get the latest weight from Withings",
	Long: `Fetches the most recent weight measurement from Withings. The day
offset controls how far back to look: 1 is the current day, 2 the day
prior, and so on. With --strava the weight is pushed to Strava as the
athlete's weight.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if withingsDays < 1 {
			return fmt.Errorf("--days must be at least 1 (1 = current day)")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.RequireWithings(); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := withings.NewClient(cfg.Withings.ClientID, cfg.Withings.ClientSecret, cfg.Withings.ConfigFile)
		if err != nil {
			return err
		}

		token, err := client.EnsureToken(ctx)
		if err != nil {
			return err
		}

		logger.Debug().Int("days", withingsDays).Msg("fetching latest weight")
		reading, err := client.LatestWeight(ctx, token, withings.DayOffsetUnix(withingsDays))
		if err != nil {
			return fmt.Errorf("get weight for the polling period: %w", err)
		}

		kg := reading.Measure.Kilograms()
		fmt.Printf("Weight: %s kg\n", formatKg(kg))

		pushed := false
		if withingsSync {
			if err := cfg.RequireStrava(); err != nil {
				return err
			}
			sc, err := newStravaClient(cfg)
			if err != nil {
				return err
			}
			stravaToken, err := sc.EnsureToken(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Syncing to Strava...")
			status, err := sc.UpdateWeight(ctx, stravaToken, kg)
			if err != nil {
				return fmt.Errorf("sync weight with Strava: %w", err)
			}
			logger.Debug().Str("status", status).Msg("strava weight update")
			fmt.Printf("Weight updated in Strava to %s kg\n", formatKg(kg))
			pushed = true
		}

		recordSync(cfg, reading, kg, pushed)
		return nil
	},
}

// recordSync appends the fetch to the local history database. History is
// best effort and never fails the run.
func recordSync(cfg *config.Config, reading *withings.WeightReading, kg float64, pushed bool) {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("open history database")
		return
	}
	defer s.Close()

	if _, err := s.Record(reading.TakenAt, kg, pushed); err != nil {
		logger.Warn().Err(err).Msg("record sync history")
	}
}

// formatKg renders a weight the way the measurement came in, without
// trailing zeros.
func formatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}

func init() {
	withingsCmd.Flags().IntVar(&withingsDays, "days", 1, "day to fetch weight for: 1 is the current day, 2 the day prior, ...")
	withingsCmd.Flags().BoolVar(&withingsSync, "strava", false, "push the fetched weight to Strava")
	rootCmd.AddCommand(withingsCmd)
}
