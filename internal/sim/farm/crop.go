package farm

import "farmstead.gg/internal/sim/crops"

// Stage is the coarse visual phase derived from progress. Display-only; no
// game rule depends on it.
type Stage string

const (
	StagePlanted   Stage = "PLANTED"
	StageSprouting Stage = "SPROUTING"
	StageGrowing   Stage = "GROWING"
	StageFlowering Stage = "FLOWERING"
	StageReady     Stage = "READY"
)

// Crop is one planted seed. The only stored state is the type and the plant
// time; everything else is recomputed from `now` on demand, so growth never
// needs ticking or fast-forwarding.
type Crop struct {
	def       crops.Def
	plantedAt int64
}

// newCrop validates the plant-time invariants: now >= 0 and plantedAt <= now.
func newCrop(def crops.Def, now int64) (*Crop, error) {
	if now < 0 {
		return nil, ErrInvalidTimestamp
	}
	return &Crop{def: def, plantedAt: now}, nil
}

// restoreCrop rebuilds a crop from a save. A plantedAt in the future (clock
// went backwards between sessions) is tolerated; progress just reads zero
// until the clock catches up.
func restoreCrop(def crops.Def, plantedAt int64) (*Crop, error) {
	if plantedAt < 0 {
		return nil, ErrInvalidTimestamp
	}
	return &Crop{def: def, plantedAt: plantedAt}, nil
}

func (c *Crop) Type() string     { return c.def.ID }
func (c *Crop) Def() crops.Def   { return c.def }
func (c *Crop) PlantedAt() int64 { return c.plantedAt }

// Progress is in [0,1] and non-decreasing in now for a fixed plant time.
func (c *Crop) Progress(now int64) float64 {
	elapsed := now - c.plantedAt
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(c.def.GrowthSeconds)
	if p > 1 {
		return 1
	}
	return p
}

// Ready is monotonic: once true for some now, true for every later now.
func (c *Crop) Ready(now int64) bool {
	return now-c.plantedAt >= c.def.GrowthSeconds
}

func (c *Crop) RemainingSeconds(now int64) int64 {
	rem := c.def.GrowthSeconds - (now - c.plantedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

func (c *Crop) Stage(now int64) Stage {
	if c.Ready(now) {
		return StageReady
	}
	p := c.Progress(now)
	switch {
	case p < 0.2:
		return StagePlanted
	case p < 0.4:
		return StageSprouting
	case p < 0.6:
		return StageGrowing
	default:
		return StageFlowering
	}
}
