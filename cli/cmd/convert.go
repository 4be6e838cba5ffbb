package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/session"
)

func parseAmount(value string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.NullDecimal{}, nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("amount %q is not a number", value)
	}

	return decimal.NullDecimal{Decimal: amount, Valid: true}, nil
}

// loadSession mounts a session and waits for its single fetch.
func loadSession(ctx context.Context, config *Config, offline bool, cmd *cobra.Command) (*session.Session, error) {
	fetcher := config.Fetcher
	if offline {
		fetcher = config.offlineFetcher()
	}

	s := session.New(fetcher, config.logger())
	s.Mount(ctx)

	state, err := s.Wait(ctx)
	if err != nil {
		return nil, err
	}

	if state.Error != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), state.Error)
		return nil, ErrFetchFailed
	}

	return s, nil
}

func convert(ctx context.Context, config *Config) *cobra.Command {
	var (
		amount, from, to string
		offline          bool
	)

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Fetch the rate table once and convert an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer config.close()

			value, err := parseAmount(amount)
			if err != nil {
				return err
			}

			source, err := currency.ConvertToCodeFromString(from)
			if err != nil {
				return err
			}

			target, err := currency.ConvertToCodeFromString(to)
			if err != nil {
				return err
			}

			s, err := loadSession(ctx, config, offline, cmd)
			if err != nil {
				return err
			}
			defer s.Unmount()

			s.SetAmount(value)
			s.SetSource(source)
			s.SetTarget(target)

			state, err := s.Convert()
			if err != nil {
				config.logger().Warn().Err(err).Msg("nothing to convert, keeping previous result")
			}

			fmt.Fprintln(cmd.OutOrStdout(), state.Result)

			return nil
		},
	}

	convertCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount to convert")
	convertCmd.Flags().StringVarP(&from, "from", "f", currency.USD.String(), "Source currency")
	convertCmd.Flags().StringVarP(&to, "to", "t", currency.PKR.String(), "Target currency")
	convertCmd.Flags().BoolVar(&offline, "offline", false, "Use the newest stored snapshot instead of the rate API")

	return convertCmd
}
