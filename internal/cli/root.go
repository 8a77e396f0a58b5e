package cli

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type App struct {
	// Dir overrides the config dir (default: CASEFLOW_CONFIG_DIR or
	// ~/.caseflow). Mostly for fixtures/tests.
	Dir string

	// Service/Token override the stored service URL and access token for a
	// single invocation.
	Service string
	Token   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "caseflow",
		Short:        "Caseflow terminal client (boards, theming, dev tools)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Interactive theme preview
  caseflow

  # Scriptable theming
  caseflow theme show
  caseflow theme set header-color '#1e293b'

  # Local development service
  caseflow serve --addr :8787
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive preview TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runPreview(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Optional .env in the working dir; absence is the common case.
		_ = godotenv.Load()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CASEFLOW_CONFIG_DIR", ""), "Config dir (advanced; default ~/.caseflow)")
	cmd.PersistentFlags().StringVar(&app.Service, "service", envOr("CASEFLOW_SERVICE", ""), "Service base URL (overrides stored config)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("CASEFLOW_TOKEN", ""), "Access token (overrides stored config)")

	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newPayCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}
