package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/logger"
	"github.com/malusev998/currency-converter/services"
)

var (
	ErrFetchFailed     = errors.New("exchange rates could not be fetched")
	ErrInvalidInterval = errors.New("fetching interval must be positive")
)

type (
	Config struct {
		Fetcher  currency.Fetcher
		Provider currency.Provider
		Storages []currency.Storage
		Logger   *logger.Logger
		Server   ServerConfig
	}

	ServerConfig struct {
		Addr    string
		Origins []string
	}

	Options struct {
		ConfigFile string
		Debug      bool
	}

	// Loader builds the command configuration once flags are parsed.
	Loader func(ctx context.Context, opts Options) (*Config, error)
)

func (c *Config) logger() *logger.Logger {
	if c.Logger == nil {
		return logger.Nop()
	}

	return c.Logger
}

func (c *Config) offlineFetcher() currency.Fetcher {
	return services.StoredFetcher{
		Conversion: services.ConversionService{Storages: c.Storages},
		Provider:   c.Provider,
	}
}

func (c *Config) close() {
	for _, st := range c.Storages {
		if err := st.Close(); err != nil {
			c.logger().Warn().Err(err).Str("storage", st.GetStorageProviderName()).Msg("closing storage")
		}
	}
}

func NewRootCommand(ctx context.Context, load Loader) *cobra.Command {
	var (
		opts   Options
		config = &Config{}
	)

	rootCmd := &cobra.Command{
		Use:           "currency-converter",
		Short:         "Convert amounts between currencies using live USD rates",
		Version:       "v2.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := load(ctx, opts)
			if err != nil {
				return err
			}

			*config = *loaded

			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "./config.yml", "Path to config file")

	rootCmd.AddCommand(
		convert(ctx, config),
		rates(ctx, config),
		fetch(ctx, config),
		serve(ctx, config),
	)

	return rootCmd
}

func Execute(ctx context.Context, load Loader) error {
	return NewRootCommand(ctx, load).Execute()
}
