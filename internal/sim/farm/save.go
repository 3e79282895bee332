package farm

import (
	"fmt"

	"farmstead.gg/internal/persistence/savefile"
)

// ExportSave captures the full game state as a save envelope. planted_at and
// last_save are integral seconds, so the float fields round-trip exactly.
func (g *Game) ExportSave(now int64) savefile.SaveV1 {
	s := savefile.SaveV1{
		Version:  savefile.Version,
		LastSave: float64(now),
		Farm: savefile.FarmV1{
			Width:  g.farm.Width(),
			Height: g.farm.Height(),
		},
		Player: savefile.PlayerV1{
			Coins:          g.player.Coins,
			Experience:     g.player.Experience,
			Level:          g.Level(),
			TotalPlanted:   g.player.TotalPlanted,
			TotalHarvested: g.player.TotalHarvested,
		},
	}
	for _, pc := range g.farm.Crops() {
		s.Farm.Plots = append(s.Farm.Plots, savefile.PlotV1{
			X:         pc.X,
			Y:         pc.Y,
			CropType:  pc.Crop.Type(),
			PlantedAt: float64(pc.Crop.PlantedAt()),
		})
	}
	return s
}

// ImportSave rebuilds game state from a save envelope. Missing fields keep
// their fresh-game defaults; plots whose crop type is no longer in the
// catalog (or whose timestamp is unusable) are dropped and reported, never
// fatal. The stored level is deliberately ignored: level is re-derived from
// total experience.
func (g *Game) ImportSave(s savefile.SaveV1) (dropped []string, err error) {
	w, h := s.Farm.Width, s.Farm.Height
	if w <= 0 || h <= 0 {
		w, h = g.tune.FarmWidth, g.tune.FarmHeight
	}
	g.farm = NewFarm(w, h)

	for _, p := range s.Farm.Plots {
		def, ok := g.catalog.Defs[p.CropType]
		if !ok {
			dropped = append(dropped, fmt.Sprintf("(%d,%d): unknown crop %q", p.X, p.Y, p.CropType))
			continue
		}
		c, cerr := restoreCrop(def, int64(p.PlantedAt))
		if cerr != nil {
			dropped = append(dropped, fmt.Sprintf("(%d,%d): %v", p.X, p.Y, cerr))
			continue
		}
		if rerr := g.farm.restore(p.X, p.Y, c); rerr != nil {
			dropped = append(dropped, fmt.Sprintf("(%d,%d): %v", p.X, p.Y, rerr))
		}
	}

	g.player = &Player{
		Coins:          s.Player.Coins,
		Experience:     s.Player.Experience,
		TotalPlanted:   s.Player.TotalPlanted,
		TotalHarvested: s.Player.TotalHarvested,
	}
	if g.player.Coins < 0 {
		return dropped, fmt.Errorf("%w: negative coins", savefile.ErrCorrupt)
	}
	if g.player.Experience < 0 {
		return dropped, fmt.Errorf("%w: negative experience", savefile.ErrCorrupt)
	}
	return dropped, nil
}
