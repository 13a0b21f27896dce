// Package config wires the three configuration sources together: command
// line flags, environment variables (optionally from a .env file), and the
// YAML seed file used for first-run provisioning.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names. Flags win over the environment.
const (
	EnvDBPath         = "LOCKER_DB"
	EnvAddr           = "LOCKER_ADDR"
	EnvJWTSecret      = "LOCKER_JWT_SECRET"
	EnvDirectoryURL   = "LOCKER_DIRECTORY_URL"
	EnvDirectoryToken = "LOCKER_DIRECTORY_TOKEN"
	EnvSeedPath       = "LOCKER_SEED"
	EnvLogPath        = "LOCKER_LOG"
)

// Config holds the resolved server configuration.
type Config struct {
	DBPath         string
	Addr           string
	JWTSecret      string
	DirectoryURL   string
	DirectoryToken string
	SeedPath       string
	LogPath        string
}

// LoadEnv loads a .env file if one exists, then overlays environment values
// onto any cfg fields still holding their zero/default value. defaults maps
// field defaults so flag-set values are left alone.
func LoadEnv(cfg *Config, defaults Config) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	overlay(&cfg.DBPath, defaults.DBPath, EnvDBPath)
	overlay(&cfg.Addr, defaults.Addr, EnvAddr)
	overlay(&cfg.JWTSecret, defaults.JWTSecret, EnvJWTSecret)
	overlay(&cfg.DirectoryURL, defaults.DirectoryURL, EnvDirectoryURL)
	overlay(&cfg.DirectoryToken, defaults.DirectoryToken, EnvDirectoryToken)
	overlay(&cfg.SeedPath, defaults.SeedPath, EnvSeedPath)
	overlay(&cfg.LogPath, defaults.LogPath, EnvLogPath)
}

func overlay(field *string, defaultValue, envName string) {
	if *field != defaultValue {
		return // explicitly set by flag
	}
	if v := os.Getenv(envName); v != "" {
		*field = v
	}
}

// Seed describes first-run provisioning: which lockers exist and who the
// initial admins are.
type Seed struct {
	Lockers struct {
		Count   int   `yaml:"count"`
		Numbers []int `yaml:"numbers"`
	} `yaml:"lockers"`
	Admins []string `yaml:"admins"`
}

// LoadSeed parses a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &seed, nil
}

// LockerNumbers returns the locker numbers to provision: the explicit list
// when given, otherwise 1..count. The result is sorted and de-duplicated.
func (s *Seed) LockerNumbers() []int {
	var numbers []int
	if len(s.Lockers.Numbers) > 0 {
		seen := make(map[int]bool)
		for _, n := range s.Lockers.Numbers {
			if n > 0 && !seen[n] {
				seen[n] = true
				numbers = append(numbers, n)
			}
		}
		sort.Ints(numbers)
		return numbers
	}

	for n := 1; n <= s.Lockers.Count; n++ {
		numbers = append(numbers, n)
	}
	return numbers
}
