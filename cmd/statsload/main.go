// Command statsload upserts archetype stat rows from YAML into PostgreSQL.
//
// Usage:
//
//	go run ./cmd/statsload -config config/arena.yaml -stats config/stats.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/roboquest/internal/config"
	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/db"
)

func main() {
	configPath := flag.String("config", config.ResolvePath("config/arena.yaml"), "arena config with database settings")
	statsPath := flag.String("stats", "", "stats YAML file (built-in rows when empty)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := run(ctx, *configPath, *statsPath); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, statsPath string) error {
	cfg, err := config.LoadArena(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rows := data.DefaultStatRows()
	if statsPath != "" {
		table, err := data.LoadStatTable(statsPath)
		if err != nil {
			return fmt.Errorf("loading stats: %w", err)
		}
		rows = table.Rows()
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	repo := db.NewArchetypeRepository(database.Pool())
	if err := repo.Upsert(ctx, rows); err != nil {
		return fmt.Errorf("saving stats: %w", err)
	}

	all, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("verifying stats: %w", err)
	}
	for _, s := range all {
		slog.Info("archetype stats",
			"archetype", s.ArchetypeID,
			"base_health", s.BaseHealth,
			"base_damage", s.BaseDamage,
			"exp_reward", s.ExpReward)
	}
	return nil
}
