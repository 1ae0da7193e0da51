// Command arena runs the headless combat simulation: enemies from templates,
// combat zones, healing cells and a scripted player walking the arena.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/ai"
	"github.com/udisondev/roboquest/internal/combat"
	"github.com/udisondev/roboquest/internal/config"
	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/db"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/geo"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/pickup"
	"github.com/udisondev/roboquest/internal/schedule"
	"github.com/udisondev/roboquest/internal/spawn"
	"github.com/udisondev/roboquest/internal/world"
)

const ConfigPath = "config/arena.yaml"

const (
	playerDetectRange = 2500
	playerEyeHeight   = 60
	playerFireRange   = 3000
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadArena(config.ResolvePath(ConfigPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)
	combat.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("roboquest arena starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"stats_source", cfg.StatsSource)

	if d := cfg.RunDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var (
		stats      data.StatProvider
		encounters *db.EncounterRepository
	)
	switch cfg.StatsSource {
	case config.StatsSourcePostgres:
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		stats = db.NewArchetypeRepository(database.Pool())
		encounters = db.NewEncounterRepository(database.Pool())
	default:
		table, err := loadStats(cfg.StatsFile)
		if err != nil {
			return err
		}
		stats = table
		slog.Info("archetype stats loaded", "rows", table.Len())
	}

	templates := data.DefaultTemplateTable()
	if cfg.TemplatesFile != "" {
		templates, err = data.LoadTemplateTable(cfg.TemplatesFile)
		if err != nil {
			return fmt.Errorf("loading templates: %w", err)
		}
	}
	slog.Info("agent templates loaded", "count", templates.Len(), "names", templates.Names())

	engine := geo.NewEngine(0)
	if cfg.ObstaclesFile != "" {
		if err := engine.LoadObstacles(cfg.ObstaclesFile); err != nil {
			return fmt.Errorf("loading obstacles: %w", err)
		}
	}
	slog.Info("geo engine ready", "obstacles", engine.Count())

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5bd1e995))
	w := world.New()
	sched := schedule.New()
	queue := event.NewQueue()
	aiManager := ai.NewTickManager(sched, queue, cfg.TickInterval())
	lifecycle := ai.NewLifecycle(w, aiManager, queue, cfg.DeathGraceDuration())

	cells := pickup.NewField(cfg.Healing, w, queue, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	lifecycle.SetDropFunc(cells.Drop)

	resolver := combat.NewHitResolver(w.Victim)
	spawner := combat.NewHitscanSpawner(w.ScanBodies, engine, resolver)
	cues := combat.NewCueTable(cfg.Cues)

	spawnMgr := spawn.NewManager(w, aiManager, lifecycle, templates, agent.EnemyDeps{
		Registry:     w,
		LOS:          engine,
		Stats:        stats,
		StatusConfig: cfg.Status,
		Scheduler:    sched,
		Cues:         cues,
		Spawner:      spawner,
		Tracer:       engine,
		Navigator:    engine,
		Surroundings: engine,
		Sink:         queue,
	}, rng)

	n, err := spawnMgr.SpawnAll(ctx, cfg.Spawns)
	if err != nil {
		slog.Warn("some spawns failed", "spawned", n, "err", err)
	}
	for _, zc := range cfg.Zones {
		z, err := spawn.NewZone(zc)
		if err != nil {
			return fmt.Errorf("building combat zone: %w", err)
		}
		spawnMgr.AddZone(z)
	}
	slog.Info("spawns placed", "enemies", n, "zones", len(cfg.Zones))

	player := agent.NewPlayer(w.IDs().NextPlayerID(), cfg.Player.Name,
		model.NewTransform(cfg.Player.Start, model.Rotator{}),
		cfg.Player.MoveSpeed, cfg.Status, queue)
	player.AttachPerception(w, engine, playerDetectRange, playerEyeHeight)
	if err := w.Add(player); err != nil {
		return fmt.Errorf("adding player: %w", err)
	}
	lifecycle.Attach(player)
	playerAI := ai.NewPlayerAI(player, sched, ai.PlayerOptions{
		Path:     cfg.Player.Path,
		Spawner:  spawner,
		Damage:   cfg.Player.Damage,
		FireRate: cfg.Player.FireRate,
		Range:    playerFireRange,
	})
	aiManager.Register(playerAI)

	aiManager.AddHook(spawnMgr.Hook(ctx))
	aiManager.AddHook(cells.Tick)

	records := make(chan db.EncounterRow, 16)
	queue.Subscribe(logEvent)
	if encounters != nil {
		queue.Subscribe(func(e event.Event) {
			za, ok := e.(event.ZoneActivated)
			if !ok {
				return
			}
			row, err := encounterRow(za)
			if err != nil {
				slog.Warn("bad encounter id", "zone", za.Zone, "err", err)
				return
			}
			select {
			case records <- row:
			default:
				slog.Warn("encounter log full, dropping record", "zone", za.Zone)
			}
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := aiManager.Start(gctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})

	if encounters != nil {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case row := <-records:
					if err := encounters.Record(gctx, row); err != nil {
						slog.Error("recording encounter", "zone", row.Zone, "err", err)
					}
				}
			}
		})
	}

	err = g.Wait()

	fired, landed := spawner.Stats()
	slog.Info("arena stopped",
		"ticks", aiManager.Ticks(),
		"agents", w.Count(),
		"hostiles_alive", w.CountAlive(model.FactionHostile),
		"player_alive", player.IsAlive(),
		"player_level", player.Status().Level(),
		"projectiles", fired,
		"hits", landed,
		"healing_cells", cells.Healed())

	return err
}

func loadStats(path string) (*data.StatTable, error) {
	if path == "" {
		return data.DefaultStatTable(), nil
	}
	table, err := data.LoadStatTable(path)
	if err != nil {
		return nil, fmt.Errorf("loading archetype stats: %w", err)
	}
	return table, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
