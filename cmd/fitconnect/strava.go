package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/qgriffith/fit-connect/cache"
	"github.com/qgriffith/fit-connect/internal/config"
	"github.com/qgriffith/fit-connect/strava"
)

var (
	stravaRegister bool
	stravaAthlete  bool
	stravaStats    bool
)

var stravaCmd = &cobra.Command{
	Use:   "strava",
	Short: "Register with Strava or read athlete data",
	Long: `Interact with the Strava API:
- register runs the OAuth2 authorization flow and saves the token file
- athlete prints the authenticated athlete's profile
- stats prints the athlete's activity statistics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.RequireStrava(); err != nil {
			return err
		}

		client, err := newStravaClient(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		switch {
		case stravaRegister:
			if _, err := client.Register(ctx); err != nil {
				return err
			}
			fmt.Printf("Strava authorization complete, token saved to %s\n", cfg.Strava.ConfigFile)

		case stravaAthlete:
			token, err := client.EnsureToken(ctx)
			if err != nil {
				return err
			}
			athlete, err := client.GetAthlete(ctx, token)
			if err != nil {
				return fmt.Errorf("get athlete: %w", err)
			}
			spew.Dump(athlete)

		case stravaStats:
			token, err := client.EnsureToken(ctx)
			if err != nil {
				return err
			}
			athlete, err := client.GetAthlete(ctx, token)
			if err != nil {
				return fmt.Errorf("get athlete: %w", err)
			}
			stats, err := client.GetAthleteStats(ctx, token, athlete.ID)
			if err != nil {
				return fmt.Errorf("get athlete stats: %w", err)
			}
			spew.Dump(stats)
		}

		return nil
	},
}

// newStravaClient builds a Strava client with the response cache attached.
// The cache is best effort, a client without one still works.
func newStravaClient(cfg *config.Config) (*strava.Client, error) {
	opts := []strava.Option{}
	if fc, err := cache.NewStravaCache(); err == nil {
		opts = append(opts, strava.WithCache(fc, strava.DefaultCacheTTL))
	} else {
		logger.Warn().Err(err).Msg("response cache unavailable")
	}
	return strava.NewClient(cfg.Strava.ClientID, cfg.Strava.ClientSecret, cfg.Strava.ConfigFile, opts...)
}

func init() {
	stravaCmd.Flags().BoolVar(&stravaRegister, "register", false, "run the OAuth2 authorization flow")
	stravaCmd.Flags().BoolVar(&stravaAthlete, "athlete", false, "print the authenticated athlete")
	stravaCmd.Flags().BoolVar(&stravaStats, "stats", false, "print the athlete's activity statistics")
	stravaCmd.MarkFlagsMutuallyExclusive("register", "athlete", "stats")
	stravaCmd.MarkFlagsOneRequired("register", "athlete", "stats")
	rootCmd.AddCommand(stravaCmd)
}
