package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := []byte("lockers:\n  count: 12\nadmins:\n  - warden@hostel.edu\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}

	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if seed.Lockers.Count != 12 {
		t.Errorf("expected count 12, got %d", seed.Lockers.Count)
	}
	if len(seed.Admins) != 1 || seed.Admins[0] != "warden@hostel.edu" {
		t.Errorf("unexpected admins: %v", seed.Admins)
	}
}

func TestLoadSeedMissingFile(t *testing.T) {
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing seed file")
	}
}

func TestLockerNumbersFromCount(t *testing.T) {
	var seed Seed
	seed.Lockers.Count = 3

	got := seed.LockerNumbers()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLockerNumbersExplicitWins(t *testing.T) {
	var seed Seed
	seed.Lockers.Count = 100
	seed.Lockers.Numbers = []int{7, 3, 7, -1, 12}

	got := seed.LockerNumbers()
	want := []int{3, 7, 12}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvDBPath, "/tmp/env.sqlite3")

	defaults := Config{Addr: ":8080", DBPath: "lockers.sqlite3"}

	// Addr was left at its default, DBPath was set by flag.
	cfg := Config{Addr: ":8080", DBPath: "/var/lib/lockers.sqlite3"}
	LoadEnv(&cfg, defaults)

	if cfg.Addr != ":9999" {
		t.Errorf("expected env to fill default addr, got %q", cfg.Addr)
	}
	if cfg.DBPath != "/var/lib/lockers.sqlite3" {
		t.Errorf("expected flag value to win, got %q", cfg.DBPath)
	}
}
