package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig is the device-level configuration stored under the caseflow
// config dir. It carries connection details, not theme preferences (those
// live in the settings cache and the remote profile).
type GlobalConfig struct {
	// ServiceURL is the base URL of the hosted caseflow service.
	ServiceURL string `json:"serviceUrl,omitempty"`

	// AccessToken authenticates the device against the service. Empty means
	// no session: theme settings then load from the local cache only.
	AccessToken string `json:"accessToken,omitempty"`

	// DeviceID is a stable per-machine identifier, assigned on first login.
	DeviceID string `json:"deviceId,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.caseflow).
	if v := strings.TrimSpace(os.Getenv("CASEFLOW_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".caseflow"), nil
}

// ResolveDir picks the config dir: an explicit override (e.g. a --dir
// flag) wins, otherwise ConfigDir's env/home resolution applies.
func ResolveDir(override string) (string, error) {
	if v := strings.TrimSpace(override); v != "" {
		return v, nil
	}
	return ConfigDir()
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return configPathIn(dir), nil
}

func configPathIn(dir string) string {
	return filepath.Join(dir, "config.json")
}

// CachePathIn is the location of the settings cache database under dir.
func CachePathIn(dir string) string {
	return filepath.Join(dir, "settings-cache.sqlite")
}

func LoadConfig() (*GlobalConfig, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigIn(dir)
}

func LoadConfigIn(dir string) (*GlobalConfig, error) {
	path := configPathIn(dir)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigIn(dir, cfg)
}

func SaveConfigIn(dir string, cfg *GlobalConfig) error {
	path := configPathIn(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep a copy of the previous config so recovery
	// from an accidental overwrite is easy. Ignore errors to avoid blocking
	// normal usage.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp file name + rename so concurrent caseflow processes can't
	// clobber each other's writes. The token lives here, hence 0600.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
