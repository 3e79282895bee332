package farm

import (
	"farmstead.gg/internal/sim/crops"
	"farmstead.gg/internal/sim/tuning"
)

// testCatalog mirrors the shipped balance closely enough for every scenario:
// a fast crop, a slower one, and one gated behind level 3.
func testCatalog() *crops.Catalog {
	defs := map[string]crops.Def{
		"RADISH": {ID: "RADISH", Name: "Radish", GrowthSeconds: 30, SeedCost: 10, SellPrice: 15, XPReward: 10, UnlockLevel: 1},
		"CARROT": {ID: "CARROT", Name: "Carrot", GrowthSeconds: 60, SeedCost: 20, SellPrice: 35, XPReward: 10, UnlockLevel: 1},
		"TOMATO": {ID: "TOMATO", Name: "Tomato", GrowthSeconds: 180, SeedCost: 50, SellPrice: 100, XPReward: 10, UnlockLevel: 3},
	}
	return &crops.Catalog{
		Defs:    defs,
		Palette: []string{"CARROT", "RADISH", "TOMATO"},
		Digest:  "test",
	}
}

func testGame() *Game {
	return New(testCatalog(), tuning.Defaults())
}
