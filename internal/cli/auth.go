package cli

import (
	"fmt"
	"strings"

	"caseflow-cli/internal/profile"
	"caseflow-cli/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var service string
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the service URL and access token for this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := store.ResolveDir(app.Dir)
			if err != nil {
				return err
			}
			cfg, err := store.LoadConfigIn(dir)
			if err != nil {
				return err
			}

			if strings.TrimSpace(service) != "" {
				cfg.ServiceURL = strings.TrimSpace(service)
			}
			if strings.TrimSpace(token) != "" {
				cfg.AccessToken = strings.TrimSpace(token)
			}
			if cfg.ServiceURL == "" {
				return fmt.Errorf("no service URL (pass --service or set one previously)")
			}
			if cfg.AccessToken == "" {
				return fmt.Errorf("no access token (pass --token)")
			}
			if cfg.DeviceID == "" {
				cfg.DeviceID = uuid.NewString()
			}

			// Verify the token before persisting it.
			client := profile.NewClient(cfg.ServiceURL, cfg.AccessToken)
			userID, err := client.CurrentUserID(cmd.Context())
			if err != nil {
				return fmt.Errorf("verify session: %w", err)
			}
			if userID == "" {
				return fmt.Errorf("service rejected the token")
			}

			if err := store.SaveConfigIn(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service base URL")
	cmd.Flags().StringVar(&token, "token", "", "Access token")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token (keeps service URL and device id)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := store.ResolveDir(app.Dir)
			if err != nil {
				return err
			}
			cfg, err := store.LoadConfigIn(dir)
			if err != nil {
				return err
			}
			cfg.AccessToken = ""
			if err := store.SaveConfigIn(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
