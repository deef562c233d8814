package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSampleDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample-data",
		Short: "Check or create demo orders and invoices",
	}

	cmd.AddCommand(newSampleDataCheckCmd())
	cmd.AddCommand(newSampleDataPopulateCmd())
	return cmd
}

func newSampleDataCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether demo data exists for your user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			user, err := requireUser(cfg)
			if err != nil {
				return err
			}

			has, err := newClient(cfg).CheckSampleData(cmd.Context(), user)
			if err != nil {
				return err
			}
			if has {
				fmt.Fprintln(cmd.OutOrStdout(), "Sample data is loaded.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No sample data. Run: relay sample-data populate")
			}
			return nil
		},
	}
}

func newSampleDataPopulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Create demo orders and invoices for your user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			user, err := requireUser(cfg)
			if err != nil {
				return err
			}

			res, err := newClient(cfg).PopulateSampleData(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d orders and %d invoices.\n", res.Orders, res.Invoices)
			return nil
		},
	}
}
