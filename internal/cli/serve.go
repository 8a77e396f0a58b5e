package cli

import (
	"fmt"
	"net/http"

	"caseflow-cli/internal/profile"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var token string
	var user string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory stand-in for the caseflow service (development)",
		Long: "Serves the profile/theme-settings and billing endpoints against in-memory\n" +
			"state. Nothing is persisted; restarting the server loses all rows.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			h := profile.NewHandler(profile.HandlerOptions{
				Tokens: map[string]string{token: user},
				Logger: logger,
			})
			logger.Info("dev service listening", "addr", addr, "token", token, "user", user)
			fmt.Fprintf(cmd.OutOrStdout(), "login with: caseflow login --service http://localhost%s --token %s\n", addr, token)
			return http.ListenAndServe(addr, h.Router())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8787", "Listen address")
	cmd.Flags().StringVar(&token, "dev-token", "dev-token", "Token accepted by the dev server")
	cmd.Flags().StringVar(&user, "dev-user", "dev-user", "User id the dev token maps to")

	return cmd
}
