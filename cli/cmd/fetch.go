package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/malusev998/currency-converter/services"
)

func handleRateSave(ctx context.Context, config *Config) error {
	service := services.Service{
		Fetcher: config.Fetcher,
		Storage: config.Storages,
		Logger:  config.logger(),
	}

	saved, err := service.Save(ctx)
	if err != nil {
		return err
	}

	for storage, currencies := range saved {
		for i, c := range currencies {
			config.logger().Debug().
				Int("index", i).
				Str("pair", c.Pair()).
				Str("storage", storage).
				Float64("rate", c.Rate).
				Msg("rate saved")
		}
	}

	return nil
}

func fetchCobraCommand(ctx context.Context, standalone *bool, after *time.Duration, config *Config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer config.close()

		if *standalone && *after <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidInterval, *after)
		}

		if len(config.Storages) == 0 {
			return services.ErrNoStorageProvided
		}

		if err := handleRateSave(ctx, config); err != nil {
			if !*standalone {
				return err
			}

			config.logger().Error().Err(err).Msg("saving rate snapshot")
		}

		if !*standalone {
			return nil
		}

		ticker := time.NewTicker(*after)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := handleRateSave(ctx, config); err != nil {
					config.logger().Error().Err(err).Msg("saving rate snapshot")
				}
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func fetch(ctx context.Context, config *Config) *cobra.Command {
	var (
		standalone bool
		after      time.Duration
	)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the rate table and save a snapshot to the configured storages",
	}

	fetchCmd.RunE = fetchCobraCommand(ctx, &standalone, &after, config)
	fetchCmd.Flags().BoolVar(&standalone, "standalone", false, "Start up a long running fetching service")
	fetchCmd.Flags().DurationVar(&after, "after", time.Hour, "Fetching interval for standalone process")

	return fetchCmd
}
