// savetool inspects farmstead save files: pretty-prints the envelope with
// derived per-plot status, and verifies it against the JSON Schema and the
// crop catalog.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"farmstead.gg/internal/persistence/savefile"
	"farmstead.gg/internal/sim/crops"
)

func main() {
	var (
		savePath   = flag.String("save", "", "path to savegame.json (or a .json.zst backup)")
		cropsPath  = flag.String("crops", "./configs/crops.json", "path to crops.json")
		schemaPath = flag.String("schema", "./schemas/save.schema.json", "path to save schema")
		verify     = flag.Bool("verify", false, "verify schema + catalog consistency and exit")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[savetool] ", 0)

	if *savePath == "" {
		logger.Fatalf("-save is required")
	}

	var (
		s   savefile.SaveV1
		err error
	)
	if strings.HasSuffix(*savePath, ".zst") {
		s, err = savefile.ReadBackup(*savePath)
	} else {
		s, err = savefile.Read(*savePath)
	}
	if err != nil {
		logger.Fatalf("read save: %v", err)
	}

	if *verify {
		if err := verifySave(*savePath, *schemaPath, *cropsPath, s); err != nil {
			logger.Fatalf("verify: %v", err)
		}
		fmt.Println("ok")
		return
	}

	dump(s, *cropsPath)
}

func verifySave(savePath, schemaPath, cropsPath string, s savefile.SaveV1) error {
	if !strings.HasSuffix(savePath, ".zst") {
		sch, err := jsonschema.Compile(schemaPath)
		if err != nil {
			return fmt.Errorf("compile schema: %w", err)
		}
		raw, err := os.ReadFile(savePath)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		if err := sch.Validate(doc); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}

	catalog, err := crops.Load(cropsPath)
	if err != nil {
		return fmt.Errorf("load crops: %w", err)
	}
	for _, p := range s.Farm.Plots {
		if _, ok := catalog.Defs[p.CropType]; !ok {
			return fmt.Errorf("plot (%d,%d): unknown crop %q", p.X, p.Y, p.CropType)
		}
		if p.X < 0 || p.X >= s.Farm.Width || p.Y < 0 || p.Y >= s.Farm.Height {
			return fmt.Errorf("plot (%d,%d): outside %dx%d grid", p.X, p.Y, s.Farm.Width, s.Farm.Height)
		}
		if p.PlantedAt < 0 {
			return fmt.Errorf("plot (%d,%d): negative planted_at", p.X, p.Y)
		}
	}
	if s.Player.Coins < 0 || s.Player.Experience < 0 {
		return fmt.Errorf("player: negative ledger values")
	}
	return nil
}

func dump(s savefile.SaveV1, cropsPath string) {
	catalog, _ := crops.Load(cropsPath)
	now := time.Now().Unix()

	fmt.Printf("version:    %d\n", s.Version)
	fmt.Printf("last_save:  %s (%ds ago)\n",
		time.Unix(int64(s.LastSave), 0).UTC().Format(time.RFC3339),
		now-int64(s.LastSave))
	fmt.Printf("player:     coins=%d xp=%d level=%d planted=%d harvested=%d\n",
		s.Player.Coins, s.Player.Experience, s.Player.Level,
		s.Player.TotalPlanted, s.Player.TotalHarvested)
	fmt.Printf("farm:       %dx%d, %d occupied\n", s.Farm.Width, s.Farm.Height, len(s.Farm.Plots))

	for _, p := range s.Farm.Plots {
		status := "unknown crop"
		if catalog != nil {
			if def, ok := catalog.Defs[p.CropType]; ok {
				elapsed := now - int64(p.PlantedAt)
				if elapsed >= def.GrowthSeconds {
					status = "ready"
				} else {
					status = fmt.Sprintf("%ds left", def.GrowthSeconds-elapsed)
				}
			}
		}
		fmt.Printf("  (%d,%d) %-10s planted=%s %s\n",
			p.X, p.Y, p.CropType,
			time.Unix(int64(p.PlantedAt), 0).UTC().Format(time.RFC3339),
			status)
	}
}
