package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
)

func rates(ctx context.Context, config *Config) *cobra.Command {
	var offline bool

	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the supported currencies' rates against the base currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer config.close()

			s, err := loadSession(ctx, config, offline, cmd)
			if err != nil {
				return err
			}
			defer s.Unmount()

			table := s.Snapshot().Rates
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintf(w, "%s\tRATE\n", table.Base)

			for _, code := range currency.Codes() {
				if rate, ok := table.Rate(code); ok {
					fmt.Fprintf(w, "%s\t%v\n", code, rate)
				}
			}

			return w.Flush()
		},
	}

	ratesCmd.Flags().BoolVar(&offline, "offline", false, "Use the newest stored snapshot instead of the rate API")

	return ratesCmd
}
