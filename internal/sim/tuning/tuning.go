package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	StartingCoins int64 `yaml:"starting_coins"`
	FarmWidth     int   `yaml:"farm_width"`
	FarmHeight    int   `yaml:"farm_height"`

	XPPerLevel int64 `yaml:"xp_per_level"`

	AutosaveSeconds      int `yaml:"autosave_seconds"`
	GrowthRefreshSeconds int `yaml:"growth_refresh_seconds"`

	Offline Offline `yaml:"offline"`

	BackupKeep int `yaml:"backup_keep"`
}

// Offline controls the reconciliation pass that runs once per load.
type Offline struct {
	// RewardPermille scales auto-harvest coin credit (700 = 70%).
	RewardPermille int `yaml:"reward_permille"`
	// MaxSeconds caps the reported offline window.
	MaxSeconds int64 `yaml:"max_seconds"`
	// MinSeconds below which the pass is skipped entirely.
	MinSeconds int64 `yaml:"min_seconds"`
}

func Defaults() Tuning {
	return Tuning{
		StartingCoins:        100,
		FarmWidth:            4,
		FarmHeight:           4,
		XPPerLevel:           100,
		AutosaveSeconds:      30,
		GrowthRefreshSeconds: 1,
		Offline: Offline{
			RewardPermille: 700,
			MaxSeconds:     86400,
			MinSeconds:     10,
		},
		BackupKeep: 5,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.StartingCoins < 0:
		return fmt.Errorf("starting_coins must be >= 0")
	case t.FarmWidth <= 0 || t.FarmHeight <= 0:
		return fmt.Errorf("farm dimensions must be > 0")
	case t.XPPerLevel <= 0:
		return fmt.Errorf("xp_per_level must be > 0")
	case t.AutosaveSeconds <= 0:
		return fmt.Errorf("autosave_seconds must be > 0")
	case t.GrowthRefreshSeconds <= 0:
		return fmt.Errorf("growth_refresh_seconds must be > 0")
	case t.Offline.RewardPermille < 0 || t.Offline.RewardPermille > 1000:
		return fmt.Errorf("offline.reward_permille must be in [0,1000]")
	case t.Offline.MaxSeconds <= 0:
		return fmt.Errorf("offline.max_seconds must be > 0")
	case t.Offline.MinSeconds < 0:
		return fmt.Errorf("offline.min_seconds must be >= 0")
	case t.BackupKeep < 0:
		return fmt.Errorf("backup_keep must be >= 0")
	}
	return nil
}
