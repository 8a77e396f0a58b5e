package cli

import (
	"os"

	"caseflow-cli/internal/profile"
	"caseflow-cli/internal/store"
	"caseflow-cli/internal/theme"

	"github.com/charmbracelet/log"
)

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
}

// resolveConfig loads the on-disk config and applies per-invocation
// overrides from flags/env.
func resolveConfig(app *App) (dir string, cfg *store.GlobalConfig, err error) {
	dir, err = store.ResolveDir(app.Dir)
	if err != nil {
		return "", nil, err
	}
	cfg, err = store.LoadConfigIn(dir)
	if err != nil {
		return "", nil, err
	}
	if app.Service != "" {
		cfg.ServiceURL = app.Service
	}
	if app.Token != "" {
		cfg.AccessToken = app.Token
	}
	return dir, cfg, nil
}

// openManager builds a wired theme manager. The returned closer drains any
// pending remote write and closes the cache; call it before exiting.
func openManager(app *App) (*theme.Manager, func(), error) {
	dir, cfg, err := resolveConfig(app)
	if err != nil {
		return nil, nil, err
	}
	cache, err := store.OpenCache(store.CachePathIn(dir))
	if err != nil {
		return nil, nil, err
	}
	client := profile.NewClient(cfg.ServiceURL, cfg.AccessToken)
	m := theme.NewManager(theme.Options{
		Cache:   cache,
		Remote:  client,
		Session: client,
		Logger:  newLogger(),
	})
	closer := func() {
		m.Close()
		_ = cache.Close()
	}
	return m, closer, nil
}
