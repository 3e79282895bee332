package farm

// AutoHarvest is one crop the reconciliation pass force-harvested.
type AutoHarvest struct {
	Crop  string `json:"crop"`
	Name  string `json:"name"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Coins int64  `json:"coins"`
	XP    int64  `json:"xp"`
}

// Summary reports what one reconciliation pass did. A zero Summary means the
// pass was a no-op.
type Summary struct {
	OfflineSeconds int64         `json:"offline_seconds"`
	Harvested      []AutoHarvest `json:"harvested,omitempty"`
	Coins          int64         `json:"coins"`
	XP             int64         `json:"xp"`
	LevelsGained   int           `json:"levels_gained"`
}

// Reconcile resolves elapsed real time against every plot, exactly once per
// load and before any interactive input. Crops that became ready at any point
// while the game was closed are force-harvested at the offline rate (coins
// floored, XP in full); still-growing crops are left alone, since their
// progress is always recomputed live from plantedAt. Running the pass again
// with no elapsed time is a no-op, so repeated quick restarts credit nothing
// twice.
func (g *Game) Reconcile(now, lastSave int64) Summary {
	elapsed := now - lastSave
	if elapsed <= 0 {
		// Clock went backwards (or did not move); touch nothing.
		return Summary{}
	}
	if elapsed < g.tune.Offline.MinSeconds {
		return Summary{}
	}

	sum := Summary{OfflineSeconds: elapsed}
	if sum.OfflineSeconds > g.tune.Offline.MaxSeconds {
		sum.OfflineSeconds = g.tune.Offline.MaxSeconds
	}

	levelBefore := g.Level()
	for _, pc := range g.farm.Crops() {
		c := pc.Crop
		if !c.Ready(now) {
			continue
		}
		def := c.Def()
		// Flat multiplier regardless of how far past ready the crop is; the
		// cap bounds the reported window, never the per-crop reward.
		coins := def.SellPrice * int64(g.tune.Offline.RewardPermille) / 1000
		g.credit(coins, def.XPReward, now)
		g.player.TotalHarvested++
		g.farm.clear(pc.X, pc.Y)

		sum.Harvested = append(sum.Harvested, AutoHarvest{
			Crop:  def.ID,
			Name:  def.Name,
			X:     pc.X,
			Y:     pc.Y,
			Coins: coins,
			XP:    def.XPReward,
		})
		sum.Coins += coins
		sum.XP += def.XPReward
		g.emit(Event{Kind: EventAutoHarvest, At: now, Crop: def.ID, X: pc.X, Y: pc.Y, Coins: coins, XP: def.XPReward})
	}
	sum.LevelsGained = g.Level() - levelBefore
	return sum
}
