package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultServer  = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	// Server is the base URL of the task API (scheme + host, optional path prefix).
	Server string `json:"server,omitempty"`

	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`

	// LenientReorder restores the legacy behavior of treating any reorder response
	// that arrives (regardless of HTTP status) as persisted.
	LenientReorder bool `json:"lenientReorder,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Profile is the appearance profile id ("default", "mono").
	Profile string `json:"profile,omitempty"`
	// Mouse enables mouse drag-and-drop; defaults to on when unset.
	Mouse *bool `json:"mouse,omitempty"`
}

func (c *Config) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) MouseEnabled() bool {
	if c == nil || c.TUI == nil || c.TUI.Mouse == nil {
		return true
	}
	return *c.TUI.Mouse
}

func (c *Config) Profile() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.TrimSpace(c.TUI.Profile)
}

// ResolveServer picks the server URL by precedence: flag, TASKDECK_SERVER, config, default.
func (c *Config) ResolveServer(flag string) (string, error) {
	candidates := []string{flag, os.Getenv("TASKDECK_SERVER")}
	if c != nil {
		candidates = append(candidates, c.Server)
	}
	candidates = append(candidates, DefaultServer)
	for _, s := range candidates {
		if strings.TrimSpace(s) == "" {
			continue
		}
		return NormalizeServer(s)
	}
	return DefaultServer, nil
}

// NormalizeServer validates an http(s) base URL and strips any trailing slash.
func NormalizeServer(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("server url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskdeck).
	if v := strings.TrimSpace(os.Getenv("TASKDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// The CLI and a running TUI may both write config; unique temp names keep renames atomic.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
