package farm

import "testing"

// Restart after the radish matured: the offline pass force-harvests it at the
// reduced rate. 15 * 700 / 1000 floors to 10 coins; XP is paid in full.
func TestReconcile_AutoHarvestAtOfflineRate(t *testing.T) {
	g := testGame()
	if _, err := g.Plant(0, 0, "RADISH", 0); err != nil {
		t.Fatalf("plant: %v", err)
	}

	sum := g.Reconcile(100, 0)
	if sum.OfflineSeconds != 100 {
		t.Fatalf("offline=%d want 100", sum.OfflineSeconds)
	}
	if len(sum.Harvested) != 1 {
		t.Fatalf("harvested=%d want 1", len(sum.Harvested))
	}
	if sum.Coins != 10 || sum.XP != 10 {
		t.Fatalf("summary coins=%d xp=%d want 10/10", sum.Coins, sum.XP)
	}
	if g.Player().Coins != 100 { // 100 - 10 seed + 10 offline payout
		t.Fatalf("coins=%d want 100", g.Player().Coins)
	}
	if g.Player().Experience != 10 {
		t.Fatalf("xp=%d want 10", g.Player().Experience)
	}
	if g.Farm().At(0, 0) != nil {
		t.Fatalf("slot not cleared")
	}
	if g.Player().TotalHarvested != 1 {
		t.Fatalf("total harvested=%d want 1", g.Player().TotalHarvested)
	}
}

func TestReconcile_GrowingCropsLeftAlone(t *testing.T) {
	g := testGame()
	if _, err := g.Plant(0, 0, "CARROT", 0); err != nil { // 60s growth
		t.Fatalf("plant: %v", err)
	}

	sum := g.Reconcile(30, 0)
	if len(sum.Harvested) != 0 || sum.Coins != 0 {
		t.Fatalf("credited a growing crop: %+v", sum)
	}
	c := g.Farm().At(0, 0)
	if c == nil {
		t.Fatalf("growing crop removed")
	}
	if c.Progress(30) != 0.5 {
		t.Fatalf("progress=%v want 0.5", c.Progress(30))
	}
}

// Two passes over the same window must not pay twice.
func TestReconcile_Idempotent(t *testing.T) {
	g := testGame()
	if _, err := g.Plant(0, 0, "RADISH", 0); err != nil {
		t.Fatalf("plant: %v", err)
	}

	first := g.Reconcile(100, 0)
	second := g.Reconcile(100, 100)
	if first.Coins != 10 {
		t.Fatalf("first pass coins=%d want 10", first.Coins)
	}
	if second.Coins != 0 || len(second.Harvested) != 0 {
		t.Fatalf("second pass credited again: %+v", second)
	}
	if g.Player().Coins != 100 {
		t.Fatalf("coins=%d want 100", g.Player().Coins)
	}
}

// The cap bounds the reported window, never the per-crop reward.
func TestReconcile_WindowCappedRewardIsNot(t *testing.T) {
	g := testGame()
	if _, err := g.Plant(0, 0, "RADISH", 0); err != nil {
		t.Fatalf("plant: %v", err)
	}

	sum := g.Reconcile(1_000_000, 0)
	if sum.OfflineSeconds != g.Tuning().Offline.MaxSeconds {
		t.Fatalf("offline=%d want cap %d", sum.OfflineSeconds, g.Tuning().Offline.MaxSeconds)
	}
	if sum.Coins != 10 || sum.XP != 10 {
		t.Fatalf("coins=%d xp=%d want 10/10", sum.Coins, sum.XP)
	}
}

func TestReconcile_ClockRollbackIsNoOp(t *testing.T) {
	g := testGame()
	if _, err := g.Plant(0, 0, "RADISH", 100); err != nil {
		t.Fatalf("plant: %v", err)
	}

	sum := g.Reconcile(50, 100)
	if sum.OfflineSeconds != 0 || len(sum.Harvested) != 0 {
		t.Fatalf("rollback pass did work: %+v", sum)
	}
	if g.Farm().At(0, 0) == nil {
		t.Fatalf("crop removed on rollback")
	}
	if g.Player().Coins != 90 {
		t.Fatalf("coins=%d want 90", g.Player().Coins)
	}
}

// Quick restarts under the minimum window never trigger the pass, even if a
// crop happens to be ready; the player harvests it live at full price instead.
func TestReconcile_MinimumWindow(t *testing.T) {
	g := testGame()
	if _, err := g.Plant(0, 0, "RADISH", 0); err != nil {
		t.Fatalf("plant: %v", err)
	}

	sum := g.Reconcile(35, 30) // 5s offline, min is 10
	if sum.OfflineSeconds != 0 || len(sum.Harvested) != 0 {
		t.Fatalf("sub-minimum pass did work: %+v", sum)
	}
	if g.Farm().At(0, 0) == nil {
		t.Fatalf("crop removed")
	}
}

func TestReconcile_ReportsLevelsGained(t *testing.T) {
	g := testGame()
	g.Player().Coins = 1000
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if _, err := g.Plant(x, y, "RADISH", 0); err != nil {
				t.Fatalf("plant %d,%d: %v", x, y, err)
			}
		}
	}

	// 16 auto-harvests at 10 xp each crosses the 100 xp threshold once.
	sum := g.Reconcile(3600, 0)
	if len(sum.Harvested) != 16 {
		t.Fatalf("harvested=%d want 16", len(sum.Harvested))
	}
	if sum.XP != 160 {
		t.Fatalf("xp=%d want 160", sum.XP)
	}
	if sum.LevelsGained != 1 {
		t.Fatalf("levels gained=%d want 1", sum.LevelsGained)
	}
	if g.Level() != 2 {
		t.Fatalf("level=%d want 2", g.Level())
	}
}
