// Package config loads the arena server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/pickup"
	"github.com/udisondev/roboquest/internal/spawn"
	"github.com/udisondev/roboquest/internal/status"
)

// EnvConfigPath overrides the config path given on the command line.
const EnvConfigPath = "ROBOQUEST_CONFIG"

// Stats sources.
const (
	StatsSourceYAML     = "yaml"
	StatsSourcePostgres = "postgres"
)

// Arena holds all configuration for the arena server.
type Arena struct {
	LogLevel string `yaml:"log_level"`

	// Simulation
	TickRate   int     `yaml:"tick_rate"`   // frames per second
	DeathGrace float64 `yaml:"death_grace"` // seconds
	Seed       uint64  `yaml:"seed"`
	// Duration limits the run; zero runs until interrupted.
	Duration float64 `yaml:"duration"` // seconds

	// Data
	StatsSource   string         `yaml:"stats_source"`
	StatsFile     string         `yaml:"stats_file"`
	TemplatesFile string         `yaml:"templates_file"`
	ObstaclesFile string         `yaml:"obstacles_file"`
	Database      DatabaseConfig `yaml:"database"`

	Status  status.Config      `yaml:"status"`
	Healing pickup.Config      `yaml:"healing"`
	Cues    map[string]float64 `yaml:"cues"` // cue name → seconds

	Spawns []spawn.Point      `yaml:"spawns"`
	Zones  []spawn.ZoneConfig `yaml:"zones"`
	Player PlayerConfig       `yaml:"player"`
}

// PlayerConfig describes the scripted player walking the arena.
type PlayerConfig struct {
	Name      string       `yaml:"name"`
	Start     model.Vec3   `yaml:"start"`
	MoveSpeed float64      `yaml:"move_speed"`
	Path      []model.Vec3 `yaml:"path"`
	// Damage and FireRate drive the player's return fire; zero disables it.
	Damage   float64 `yaml:"damage"`
	FireRate float64 `yaml:"fire_rate"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TickInterval returns the frame length.
func (a Arena) TickInterval() time.Duration {
	if a.TickRate <= 0 {
		return 50 * time.Millisecond
	}
	return time.Second / time.Duration(a.TickRate)
}

// DeathGraceDuration returns the grace period as a Duration.
func (a Arena) DeathGraceDuration() time.Duration {
	return time.Duration(a.DeathGrace * float64(time.Second))
}

// RunDuration returns the run limit, zero for unlimited.
func (a Arena) RunDuration() time.Duration {
	return time.Duration(a.Duration * float64(time.Second))
}

// DefaultArena returns Arena config with sensible defaults.
func DefaultArena() Arena {
	return Arena{
		LogLevel:    "info",
		TickRate:    20,
		DeathGrace:  5,
		Seed:        1,
		StatsSource: StatsSourceYAML,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "roboquest",
			Password: "roboquest",
			DBName:   "roboquest",
			SSLMode:  "disable",
		},
		Status:  status.DefaultConfig(),
		Healing: pickup.DefaultConfig(),
		Cues: map[string]float64{
			"bot_windup": 0.8,
			"bot_hit":    0.3,
			"pawn_aim":   0.6,
			"pawn_hit":   0.3,
			"fly_charge": 0.5,
			"fly_hit":    0.2,
		},
		Spawns: []spawn.Point{
			{Name: "pod-north", Template: "SmallPod", Position: model.Vec3{X: 1200, Y: 400}},
			{Name: "bot-east", Template: "SmallBot", Position: model.Vec3{X: 1800, Y: -300}, Yaw: 180},
		},
		Zones: []spawn.ZoneConfig{
			{
				Name:    "hangar",
				Polygon: [][2]float64{{2000, -1000}, {4000, -1000}, {4000, 1000}, {2000, 1000}},
				Points: []spawn.Point{
					{Name: "pawn-1", Template: "GunPawn", Position: model.Vec3{X: 3500, Y: 500}, Yaw: 180},
					{Name: "pawn-2", Template: "GunPawn", Position: model.Vec3{X: 3500, Y: -500}, Yaw: 180},
					{Name: "fly-1", Template: "LightFly", Position: model.Vec3{X: 3200, Z: 300}, Yaw: 180},
				},
			},
		},
		Player: PlayerConfig{
			Name:      "player",
			MoveSpeed: 600,
			Path: []model.Vec3{
				{X: 1000},
				{X: 2500},
				{X: 3000, Y: 300},
			},
			Damage:   25,
			FireRate: 2,
		},
	}
}

// LoadArena loads arena config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadArena(path string) (Arena, error) {
	cfg := DefaultArena()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath returns the path from EnvConfigPath if set, else fallback.
func ResolvePath(fallback string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return fallback
}

// Validate checks values that cannot be defaulted.
func (a Arena) Validate() error {
	switch a.StatsSource {
	case StatsSourceYAML, StatsSourcePostgres:
	default:
		return fmt.Errorf("unknown stats_source %q", a.StatsSource)
	}
	if a.TickRate < 0 {
		return fmt.Errorf("tick_rate must not be negative, got %d", a.TickRate)
	}
	if a.Status.MaxDefense < 0 || a.Status.MaxDefense >= 1 {
		return fmt.Errorf("status.max_defense must be in [0, 1), got %g", a.Status.MaxDefense)
	}
	if a.Status.InitialMaxExp <= 0 {
		return fmt.Errorf("status.initial_max_exp must be positive, got %g", a.Status.InitialMaxExp)
	}
	if a.Status.ExpIncreaseFactor <= 0 {
		return fmt.Errorf("status.exp_increase_factor must be positive, got %g", a.Status.ExpIncreaseFactor)
	}
	return nil
}
