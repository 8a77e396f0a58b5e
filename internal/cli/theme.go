package cli

import (
	"encoding/json"
	"fmt"

	"caseflow-cli/internal/statusutil"

	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show and change your board colors",
	}
	cmd.AddCommand(newThemeShowCmd(app))
	cmd.AddCommand(newThemeSetCmd(app))
	cmd.AddCommand(newThemeSetStatusCmd(app))
	cmd.AddCommand(newThemeViewCmd(app))
	cmd.AddCommand(newThemePreviewCmd(app))
	return cmd
}

func newThemeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective theme settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closer, err := openManager(app)
			if err != nil {
				return err
			}
			defer closer()
			m.Initialize(cmd.Context())

			s := m.Snapshot()
			out := map[string]any{
				"headerColor":          s.HeaderColor,
				"avatarColor":          s.AvatarColor,
				"textColor":            s.TextColor,
				"mainColor":            s.MainColor,
				"buttonColor":          s.ButtonColor,
				"caseStatusColors":     s.CaseStatusColors,
				"taskStatusColors":     s.TaskStatusColors,
				"caseStatusTextColors": s.CaseStatusTextColors,
				"currentStatusView":    s.CurrentStatusView,
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

func newThemeSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <color>",
		Short: "Set a top-level color (header-color|avatar-color|text-color|main-color|button-color)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, color := args[0], args[1]

			m, closer, err := openManager(app)
			if err != nil {
				return err
			}
			defer closer()
			m.Initialize(cmd.Context())

			switch field {
			case "header-color":
				m.SetHeaderColor(color)
				// Surface the derived token so scripts can pick it up.
				fmt.Fprintf(cmd.OutOrStdout(), "headerColor=%s textColor=%s\n", color, m.TextColor())
				return nil
			case "avatar-color":
				m.SetAvatarColor(color)
			case "text-color":
				m.SetTextColor(color)
			case "main-color":
				m.SetMainColor(color)
			case "button-color":
				m.SetButtonColor(color)
			default:
				return fmt.Errorf("unknown field %q (want header-color|avatar-color|text-color|main-color|button-color)", field)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", field, color)
			return nil
		},
	}
}

func newThemeSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <cases|tasks|case-text> <status-key> <color>",
		Short: "Set one status color on a board",
		Long:  "Status keys: completed, in-progress, delayed, analysis.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, color := args[0], args[2]
			key, err := statusutil.NormalizeStatusKey(args[1])
			if err != nil {
				return err
			}

			m, closer, err := openManager(app)
			if err != nil {
				return err
			}
			defer closer()
			m.Initialize(cmd.Context())

			switch board {
			case "cases":
				m.SetCaseStatusColor(key, color)
			case "tasks":
				m.SetTaskStatusColor(key, color)
			case "case-text":
				m.SetCaseStatusTextColor(key, color)
			default:
				return fmt.Errorf("unknown board %q (want cases|tasks|case-text)", board)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s=%s\n", board, key, color)
			return nil
		},
	}
}

func newThemeViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <cases|tasks>",
		Short: "Switch which board the status widgets show (device-local)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := statusutil.NormalizeStatusView(args[0])
			if err != nil {
				return err
			}

			m, closer, err := openManager(app)
			if err != nil {
				return err
			}
			defer closer()
			m.Initialize(cmd.Context())

			m.SetCurrentStatusView(view)
			fmt.Fprintf(cmd.OutOrStdout(), "currentStatusView=%s\n", view)
			return nil
		},
	}
}

func newThemePreviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Interactive theme preview (same as running caseflow with no arguments)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(app)
		},
	}
}
