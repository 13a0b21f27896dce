package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/api"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/config"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/db"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/identity"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR
// goes to stderr. If logPath is non-empty, all levels are also written to
// that file. Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

const defaultDBPath = "lockers.sqlite3"
const defaultAddr = ":8080"

func main() {
	fs := flag.NewFlagSet("locker-server", flag.ContinueOnError)

	cfg := config.Config{}
	fs.StringVar(&cfg.DBPath, "db", defaultDBPath, "")
	fs.StringVar(&cfg.Addr, "addr", defaultAddr, "")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "")
	fs.StringVar(&cfg.DirectoryURL, "directory-url", "", "")
	fs.StringVar(&cfg.DirectoryToken, "directory-token", "", "")
	fs.StringVar(&cfg.SeedPath, "seed", "", "")
	fs.StringVar(&cfg.LogPath, "log", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: locker-server [flags]

Flags:
  -db <path>               SQLite database path (default: lockers.sqlite3)
  -addr <host:port>        listen address (default: :8080)
  -jwt-secret <secret>     shared secret for verifying identity-provider tokens
  -directory-url <url>     identity directory base URL for admin name lookups
  -directory-token <tok>   bearer token for the identity directory
  -seed <path>             YAML seed file (lockers and admin emails)
  -log <path>              log file path (default: no file, stdout/stderr only)
  -h, -help                show this help and exit

Each flag can also be set through the environment (LOCKER_DB, LOCKER_ADDR,
LOCKER_JWT_SECRET, LOCKER_DIRECTORY_URL, LOCKER_DIRECTORY_TOKEN, LOCKER_SEED,
LOCKER_LOG), optionally from a .env file in the working directory.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	config.LoadEnv(&cfg, config.Config{DBPath: defaultDBPath, Addr: defaultAddr})

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Without the identity provider's shared secret no inbound token can
	// verify. Generate one for local development so the server still comes
	// up and test tokens can be minted against it.
	if cfg.JWTSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			slog.Error("failed to generate development secret", "error", err)
			os.Exit(1)
		}
		cfg.JWTSecret = hex.EncodeToString(buf)
		slog.Warn("no JWT secret configured; generated a development secret",
			"secret", cfg.JWTSecret)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// Seed provisioning is idempotent, so it runs on every start.
	if cfg.SeedPath != "" {
		if err := applySeed(database, cfg.SeedPath); err != nil {
			slog.Error("failed to apply seed file", "error", err)
			os.Exit(1)
		}
	}

	var dir identity.Directory
	if cfg.DirectoryURL != "" {
		dir = identity.NewHTTPDirectory(cfg.DirectoryURL, cfg.DirectoryToken)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, cfg.JWTSecret, dir))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// applySeed provisions lockers and admin emails from the seed file. Existing
// lockers and allow-list entries are left untouched.
func applySeed(database *sql.DB, path string) error {
	seed, err := config.LoadSeed(path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	numbers := seed.LockerNumbers()
	for _, n := range numbers {
		if err := store.EnsureLocker(ctx, database, n); err != nil {
			return err
		}
	}
	for _, email := range seed.Admins {
		if err := store.AddAdminEmail(ctx, database, email); err != nil {
			return err
		}
	}

	slog.Info("seed applied", "lockers", len(numbers), "admins", len(seed.Admins))
	return nil
}
