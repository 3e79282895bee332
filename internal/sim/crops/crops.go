package crops

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Def is the static balance entry for one crop type. Runtime state never
// lives here; a planted crop only stores the id and its planting time.
type Def struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Glyph         string `json:"glyph,omitempty"`
	GrowthSeconds int64  `json:"growth_seconds"`
	SeedCost      int64  `json:"seed_cost"`
	SellPrice     int64  `json:"sell_price"`
	XPReward      int64  `json:"xp_reward"`
	UnlockLevel   int    `json:"unlock_level"`
}

type Catalog struct {
	Defs    map[string]Def
	Palette []string
	Digest  string
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Load reads and validates crops.json. Any rule violation is fatal for the
// caller: a game must not start with a broken balance table.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var defs []Def
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("crops.json: %w", err)
	}

	c := &Catalog{
		Defs:   make(map[string]Def, len(defs)),
		Digest: sha256Hex(raw),
	}
	for _, d := range defs {
		if err := validate(d); err != nil {
			return nil, fmt.Errorf("crops.json: %w", err)
		}
		if _, dup := c.Defs[d.ID]; dup {
			return nil, fmt.Errorf("crops.json: duplicate id %q", d.ID)
		}
		c.Defs[d.ID] = d
	}
	if len(c.Defs) == 0 {
		return nil, fmt.Errorf("crops.json: no crop definitions")
	}

	ids := make([]string, 0, len(c.Defs))
	for id := range c.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.Palette = ids
	return c, nil
}

func validate(d Def) error {
	switch {
	case d.ID == "":
		return fmt.Errorf("empty id")
	case d.GrowthSeconds <= 0:
		return fmt.Errorf("%s: growth_seconds must be > 0", d.ID)
	case d.SeedCost <= 0:
		return fmt.Errorf("%s: seed_cost must be > 0", d.ID)
	case d.SellPrice <= 0:
		return fmt.Errorf("%s: sell_price must be > 0", d.ID)
	case d.XPReward < 0:
		return fmt.Errorf("%s: xp_reward must be >= 0", d.ID)
	case d.UnlockLevel < 1:
		return fmt.Errorf("%s: unlock_level must be >= 1", d.ID)
	}
	return nil
}

// Warnings reports soft balance issues that do not block startup.
func (c *Catalog) Warnings() []string {
	var out []string
	for _, id := range c.Palette {
		d := c.Defs[id]
		if d.SellPrice < d.SeedCost {
			out = append(out, fmt.Sprintf("%s: sell_price %d below seed_cost %d", d.ID, d.SellPrice, d.SeedCost))
		}
	}
	return out
}

// UnlockedAt returns the defs plantable at the given player level, ordered by
// unlock level then id. Recomputed on every call; nothing here can go stale.
func (c *Catalog) UnlockedAt(level int) []Def {
	var out []Def
	for _, id := range c.Palette {
		if d := c.Defs[id]; d.UnlockLevel <= level {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnlockLevel != out[j].UnlockLevel {
			return out[i].UnlockLevel < out[j].UnlockLevel
		}
		return out[i].ID < out[j].ID
	})
	return out
}
