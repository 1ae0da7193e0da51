package status

// Config holds the coefficients of the status model.
type Config struct {
	InitialMaxHealth         float64 `yaml:"initial_max_health"`
	InitialMaxExp            float64 `yaml:"initial_max_exp"`
	MaxDefense               float64 `yaml:"max_defense"`
	MinSpeed                 float64 `yaml:"min_speed"`
	ScratchDamageFactor      float64 `yaml:"scratch_damage_factor"`
	OverhealEfficiency       float64 `yaml:"overheal_efficiency"`
	DamageMultiplierPerLevel float64 `yaml:"damage_multiplier_per_level"`
	ExpIncreaseFactor        float64 `yaml:"exp_increase_factor"`
	LevelScalingFactor       float64 `yaml:"level_scaling_factor"`
	HealthPerLevel           float64 `yaml:"health_per_level"`
}

// DefaultConfig returns Config with the stock coefficients.
func DefaultConfig() Config {
	return Config{
		InitialMaxHealth:         100,
		InitialMaxExp:            100,
		MaxDefense:               0.6,
		MinSpeed:                 0.1,
		ScratchDamageFactor:      0.5,
		OverhealEfficiency:       0.1,
		DamageMultiplierPerLevel: 0.1,
		ExpIncreaseFactor:        1.2,
		LevelScalingFactor:       1.1,
		HealthPerLevel:           20,
	}
}
