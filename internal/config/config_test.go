package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLoad_MissingFile_ReturnsZeroConfig(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "" || cfg.LenientReorder || cfg.TUI != nil {
		t.Fatalf("expected zero config; got %+v", cfg)
	}
	if cfg.Timeout() != DefaultTimeout {
		t.Fatalf("expected default timeout; got %v", cfg.Timeout())
	}
	if !cfg.MouseEnabled() {
		t.Fatalf("expected mouse enabled by default")
	}
}

func TestSave_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG_DIR", t.TempDir())

	if err := Save(&Config{Server: "http://seed:1"}); err != nil {
		t.Fatalf("Save(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := Load()
			if err != nil {
				errCh <- err
				return
			}
			cfg.Server = fmt.Sprintf("http://host-%d:5000", i)
			cfg.TimeoutSeconds = i + 1
			if err := Save(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent Save: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load after concurrent writes: %v", err)
	}
	if cfg.Server == "" || cfg.TimeoutSeconds == 0 {
		t.Fatalf("expected a complete config from one writer; got %+v", cfg)
	}
	if cfg.Timeout() != time.Duration(cfg.TimeoutSeconds)*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout())
	}
}

func TestResolveServer_Precedence(t *testing.T) {
	cfg := &Config{Server: "http://from-config:1/"}

	t.Setenv("TASKDECK_SERVER", "")
	if got, _ := cfg.ResolveServer(""); got != "http://from-config:1" {
		t.Fatalf("config: got %q", got)
	}

	t.Setenv("TASKDECK_SERVER", "http://from-env:2")
	if got, _ := cfg.ResolveServer(""); got != "http://from-env:2" {
		t.Fatalf("env: got %q", got)
	}
	if got, _ := cfg.ResolveServer("https://from-flag:3/api/"); got != "https://from-flag:3/api" {
		t.Fatalf("flag: got %q", got)
	}

	t.Setenv("TASKDECK_SERVER", "")
	if got, _ := (&Config{}).ResolveServer(""); got != DefaultServer {
		t.Fatalf("default: got %q", got)
	}
}

func TestNormalizeServer_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "localhost:5000", "ftp://x", "http://"} {
		if _, err := NormalizeServer(in); err == nil {
			t.Fatalf("NormalizeServer(%q): expected error", in)
		}
	}
}

func TestTUIState_RoundTrip_AndCorruptIsMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)

	if err := SaveTUIState(&TUIState{View: "tasks", CategoryFilter: "Work", StatusFilter: "pending"}); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	st, err := LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st.Version != 1 || st.View != "tasks" || st.CategoryFilter != "Work" || st.StatusFilter != "pending" {
		t.Fatalf("unexpected state: %+v", st)
	}

	if err := os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}
	st, err = LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState(corrupt): %v", err)
	}
	if st.View != "" || st.Version != 1 {
		t.Fatalf("expected corrupt state treated as missing; got %+v", st)
	}
}
