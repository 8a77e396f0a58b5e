package cli

import (
	"context"

	"caseflow-cli/internal/tui"
)

func runPreview(app *App) error {
	m, closer, err := openManager(app)
	if err != nil {
		return err
	}
	defer closer()
	m.Initialize(context.Background())
	return tui.Run(m)
}
