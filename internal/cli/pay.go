package cli

import (
	"fmt"

	"caseflow-cli/internal/payment"
	"caseflow-cli/internal/profile"

	"github.com/spf13/cobra"
)

func newPayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Billing tools (development only)",
	}
	cmd.AddCommand(newPaySimulateCmd(app))
	return cmd
}

func newPaySimulateCmd(app *App) *cobra.Command {
	var amount int64
	var dev bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the simulated payment sequence against the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dev {
				return fmt.Errorf("payment simulation is a development tool; pass --dev to confirm")
			}

			_, cfg, err := resolveConfig(app)
			if err != nil {
				return err
			}
			client := profile.NewClient(cfg.ServiceURL, cfg.AccessToken)
			userID, err := client.CurrentUserID(cmd.Context())
			if err != nil {
				return err
			}

			sim := payment.NewSimulator(client, newLogger())
			res, err := sim.Run(cmd.Context(), userID, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payment %s simulated; balance is now %d\n", res.Payment.ID, res.Balance)
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 500, "Amount to credit")
	cmd.Flags().BoolVar(&dev, "dev", false, "Confirm this is a development environment")

	return cmd
}
