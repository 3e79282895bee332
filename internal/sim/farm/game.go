package farm

import (
	"farmstead.gg/internal/protocol"
	"farmstead.gg/internal/sim/crops"
	"farmstead.gg/internal/sim/tuning"
)

// Event kinds reported through the event sink.
const (
	EventPlant       = "PLANT"
	EventHarvest     = "HARVEST"
	EventAutoHarvest = "AUTO_HARVEST"
	EventLevelUp     = "LEVEL_UP"
)

// Event is one game-state change worth recording. Events are emitted
// synchronously from inside a mutation, so sinks observe them in order.
type Event struct {
	Kind  string `json:"kind"`
	At    int64  `json:"at"`
	Crop  string `json:"crop,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Coins int64  `json:"coins,omitempty"`
	XP    int64  `json:"xp,omitempty"`
	Level int    `json:"level,omitempty"`
}

// HarvestResult is what one successful harvest paid out.
type HarvestResult struct {
	Crop  crops.Def
	Coins int64
	XP    int64
}

// Game aggregates the farm grid, the player ledger and the static config, and
// is the single owner of all game-state mutation. It is not safe for
// concurrent use; the Run loop serializes access to it.
type Game struct {
	catalog *crops.Catalog
	tune    tuning.Tuning
	farm    *Farm
	player  *Player

	events func(Event)
	inbox  chan Request
}

func New(catalog *crops.Catalog, tune tuning.Tuning) *Game {
	return &Game{
		catalog: catalog,
		tune:    tune,
		farm:    NewFarm(tune.FarmWidth, tune.FarmHeight),
		player:  &Player{Coins: tune.StartingCoins},
		inbox:   make(chan Request, 32),
	}
}

func (g *Game) Farm() *Farm             { return g.farm }
func (g *Game) Player() *Player         { return g.player }
func (g *Game) Catalog() *crops.Catalog { return g.catalog }
func (g *Game) Tuning() tuning.Tuning   { return g.tune }

// SetEvents installs the event sink. Must be called before the run loop
// starts; the sink runs on the loop goroutine.
func (g *Game) SetEvents(fn func(Event)) { g.events = fn }

func (g *Game) emit(ev Event) {
	if g.events != nil {
		g.events(ev)
	}
}

// Level returns the player's derived level.
func (g *Game) Level() int {
	return LevelForXP(g.player.Experience, g.tune.XPPerLevel)
}

// Plant buys a seed and places it at (x,y). Checks run strictly before any
// mutation: a refused plant leaves both the slot and the coin balance intact.
func (g *Game) Plant(x, y int, cropType string, now int64) (*Crop, error) {
	def, ok := g.catalog.Defs[cropType]
	if !ok {
		return nil, ErrUnknownCrop
	}
	if now < 0 {
		return nil, ErrInvalidTimestamp
	}
	if err := g.farm.canPlant(x, y); err != nil {
		return nil, err
	}
	if def.UnlockLevel > g.Level() {
		return nil, ErrCropLocked
	}
	if err := g.player.Spend(def.SeedCost); err != nil {
		return nil, err
	}
	c, err := g.farm.Plant(x, y, def, now)
	if err != nil {
		// canPlant passed, so only the timestamp check can trip here; refund.
		g.player.Coins += def.SeedCost
		return nil, err
	}
	g.player.TotalPlanted++
	g.emit(Event{Kind: EventPlant, At: now, Crop: def.ID, X: x, Y: y, Coins: -def.SeedCost})
	return c, nil
}

// Harvest removes a ready crop and credits the full sell price and XP.
func (g *Game) Harvest(x, y int, now int64) (HarvestResult, error) {
	c, err := g.farm.Harvest(x, y, now)
	if err != nil {
		return HarvestResult{}, err
	}
	def := c.Def()
	g.credit(def.SellPrice, def.XPReward, now)
	g.player.TotalHarvested++
	g.emit(Event{Kind: EventHarvest, At: now, Crop: def.ID, X: x, Y: y, Coins: def.SellPrice, XP: def.XPReward})
	return HarvestResult{Crop: def, Coins: def.SellPrice, XP: def.XPReward}, nil
}

// credit applies earnings and emits a LEVEL_UP event per level gained.
func (g *Game) credit(coins, xp, now int64) {
	before := g.Level()
	g.player.Earn(coins, xp)
	after := g.Level()
	for lvl := before + 1; lvl <= after; lvl++ {
		g.emit(Event{Kind: EventLevelUp, At: now, Level: lvl})
	}
}

// Unlocked returns the crop types plantable at the current derived level.
func (g *Game) Unlocked() []crops.Def {
	return g.catalog.UnlockedAt(g.Level())
}

// State builds the pull-based read model the UI consumes. Pure read: it
// recomputes every derived value from timestamps and mutates nothing.
func (g *Game) State(now int64) protocol.StateMsg {
	level, into, need := LevelProgress(g.player.Experience, g.tune.XPPerLevel)

	st := protocol.StateMsg{
		Type: protocol.TypeState,
		Now:  now,
		Player: protocol.PlayerState{
			Coins:          g.player.Coins,
			Experience:     g.player.Experience,
			Level:          level,
			XPIntoLevel:    into,
			XPForNext:      need,
			TotalPlanted:   g.player.TotalPlanted,
			TotalHarvested: g.player.TotalHarvested,
		},
		Farm: protocol.FarmState{
			Width:  g.farm.Width(),
			Height: g.farm.Height(),
		},
	}
	for _, pc := range g.farm.Crops() {
		c := pc.Crop
		st.Farm.Plots = append(st.Farm.Plots, protocol.PlotState{
			X:                pc.X,
			Y:                pc.Y,
			Crop:             c.Type(),
			Glyph:            c.Def().Glyph,
			PlantedAt:        c.PlantedAt(),
			Progress:         c.Progress(now),
			Ready:            c.Ready(now),
			RemainingSeconds: c.RemainingSeconds(now),
			Stage:            string(c.Stage(now)),
		})
	}
	return st
}
