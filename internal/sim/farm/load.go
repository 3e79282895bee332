package farm

import (
	"os"

	"farmstead.gg/internal/persistence/savefile"
	"farmstead.gg/internal/sim/crops"
	"farmstead.gg/internal/sim/tuning"
)

// LoadInfo describes how startup state was obtained.
type LoadInfo struct {
	Fresh   bool     // no usable save; started from defaults
	Corrupt bool     // a save existed but was unusable
	Dropped []string // plots discarded during import
}

// LoadGame builds the game from the save at path and runs the one-time
// reconciliation pass. It never fails: a missing save starts a fresh game, a
// corrupt one is reported through LoadInfo and replaced by a fresh game. The
// events sink (may be nil) is installed before reconciliation so offline
// auto-harvests are observed like any other mutation. The caller shows the
// summary and then hands the game to the run loop.
func LoadGame(catalog *crops.Catalog, tune tuning.Tuning, path string, now int64, events func(Event)) (*Game, Summary, LoadInfo) {
	g := New(catalog, tune)
	g.SetEvents(events)

	s, err := savefile.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return g, Summary{}, LoadInfo{Fresh: true}
		}
		return g, Summary{}, LoadInfo{Fresh: true, Corrupt: true}
	}

	dropped, err := g.ImportSave(s)
	if err != nil {
		// Unusable player ledger; the farm half is not worth keeping either.
		g = New(catalog, tune)
		g.SetEvents(events)
		return g, Summary{}, LoadInfo{Fresh: true, Corrupt: true, Dropped: dropped}
	}

	sum := g.Reconcile(now, int64(s.LastSave))
	return g, sum, LoadInfo{Dropped: dropped}
}
