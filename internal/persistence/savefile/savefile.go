// Package savefile reads and writes the versioned JSON save envelope. Writes
// are atomic (temp file + rename) so a crash mid-save leaves the previous
// file intact.
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const Version = 1

// FileName is the save file's name inside the data directory.
const FileName = "savegame.json"

// ErrCorrupt marks a save file that exists but cannot be used. Callers
// recover by starting from a fresh default state; it never aborts startup.
var ErrCorrupt = errors.New("save file corrupt")

type SaveV1 struct {
	Version  int      `json:"version"`
	LastSave float64  `json:"last_save"`
	Farm     FarmV1   `json:"farm"`
	Player   PlayerV1 `json:"player"`
}

type FarmV1 struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Plots  []PlotV1 `json:"plots"`
}

type PlotV1 struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	CropType  string  `json:"crop_type"`
	PlantedAt float64 `json:"planted_at"`
}

type PlayerV1 struct {
	Coins          int64 `json:"coins"`
	Experience     int64 `json:"experience"`
	Level          int   `json:"level"`
	TotalPlanted   int64 `json:"total_planted,omitempty"`
	TotalHarvested int64 `json:"total_harvested,omitempty"`
}

func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Read loads a save. A missing file comes back as the bare os error so the
// caller can distinguish first-run from corruption; anything else unreadable
// is wrapped in ErrCorrupt.
func Read(path string) (SaveV1, error) {
	var s SaveV1
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, err
		}
		return s, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.Version <= 0 {
		// Pre-versioned or truncated envelope; fields that parsed still count.
		s.Version = Version
	}
	if s.Farm.Width < 0 || s.Farm.Height < 0 {
		return s, fmt.Errorf("%w: negative farm dimensions", ErrCorrupt)
	}
	return s, nil
}

// Write persists the envelope atomically: marshal, write a temp file in the
// same directory, fsync, rename over the old file.
func Write(path string, s SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), FileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
