package farm

// Player is the economic ledger. Level is never stored as a counter; it is
// derived from total accumulated experience every time it is read, so it can
// never desync from the XP that produced it.
type Player struct {
	Coins          int64
	Experience     int64
	TotalPlanted   int64
	TotalHarvested int64
}

func (p *Player) Spend(amount int64) error {
	if p.Coins < amount {
		return ErrInsufficientFunds
	}
	p.Coins -= amount
	return nil
}

func (p *Player) Earn(coins, xp int64) {
	p.Coins += coins
	p.Experience += xp
}

// LevelForXP derives the level from total XP. Advancing from level L costs
// L*xpPerLevel, so thresholds escalate: 100, then 200 more, then 300 more.
func LevelForXP(xp, xpPerLevel int64) int {
	level := 1
	need := xpPerLevel
	for xp >= need {
		xp -= need
		level++
		need = int64(level) * xpPerLevel
	}
	return level
}

// LevelProgress reports the derived level plus XP already inside it and the
// XP required to finish it.
func LevelProgress(xp, xpPerLevel int64) (level int, into, need int64) {
	level = 1
	need = xpPerLevel
	for xp >= need {
		xp -= need
		level++
		need = int64(level) * xpPerLevel
	}
	return level, xp, need
}
