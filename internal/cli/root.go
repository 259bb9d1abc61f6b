// Package cli implements the coachkit CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coachkit/coachkit/internal/config"
	"github.com/coachkit/coachkit/internal/store"
)

var (
	dbPath   string
	userFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "coachkit",
	Short: "Personal life-coach insight engine",
	Long:  "Tracks daily-life events, detects behavioral patterns, promotes durable ones into personal knowledge, and surfaces ranked coaching cards. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $COACHKIT_DB or ~/.coachkit/coach.db)")
	RootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User id (default: $COACHKIT_USER)")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func getUser() string {
	if userFlag != "" {
		return userFlag
	}
	if env := os.Getenv("COACHKIT_USER"); env != "" {
		return env
	}
	return "default"
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
