package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"farmstead.gg/internal/persistence/ledger"
	persistlog "farmstead.gg/internal/persistence/log"
	"farmstead.gg/internal/persistence/savefile"
	"farmstead.gg/internal/sim/crops"
	"farmstead.gg/internal/sim/farm"
	"farmstead.gg/internal/sim/tuning"
	"farmstead.gg/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:8090", "http listen address for the ui client")
		dataDir    = flag.String("data", defaultDataDir(), "runtime data directory")
		configDir  = flag.String("configs", "./configs", "config directory")
		cropsPath  = flag.String("crops", "", "path to crops.json (default: <configs>/crops.json)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		saveEvery  = flag.Duration("save_interval", 0, "autosave interval override (default: tuning)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite history ledger")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[farmd] ", log.LstdFlags)

	cp := *cropsPath
	if cp == "" {
		cp = filepath.Join(*configDir, "crops.json")
	}
	catalog, err := crops.Load(cp)
	if err != nil {
		logger.Fatalf("load crops: %v", err)
	}
	for _, w := range catalog.Warnings() {
		logger.Printf("crops: warning: %s", w)
	}

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	eventLog := persistlog.NewEventLogger(*dataDir)
	defer eventLog.Close()

	var ldg *ledger.Ledger
	if !*disableDB {
		ldg, err = ledger.Open(filepath.Join(*dataDir, "ledger.db"))
		if err != nil {
			logger.Fatalf("open ledger: %v", err)
		}
		defer ldg.Close()
	}

	// The ws broadcaster joins the sink after the game exists; reconciliation
	// events only reach the durable sinks, which is what we want anyway.
	var broadcast func(farm.Event)
	sink := func(ev farm.Event) {
		if err := eventLog.Write(ev); err != nil {
			logger.Printf("event log: %v", err)
		}
		ldg.RecordEvent(ev)
		if broadcast != nil {
			broadcast(ev)
		}
	}

	savePath := savefile.Path(*dataDir)
	now := time.Now().Unix()
	g, sum, info := farm.LoadGame(catalog, tune, savePath, now, sink)

	switch {
	case info.Corrupt:
		logger.Printf("save unreadable; starting fresh (previous file left for inspection)")
	case info.Fresh:
		logger.Printf("no save found; starting fresh farm %dx%d with %d coins",
			tune.FarmWidth, tune.FarmHeight, tune.StartingCoins)
	default:
		logger.Printf("resumed save=%s offline=%ds", filepath.Base(savePath), sum.OfflineSeconds)
	}
	for _, d := range info.Dropped {
		logger.Printf("save: dropped plot %s", d)
	}
	if len(sum.Harvested) > 0 {
		logger.Printf("while you were away: %d crops auto-harvested for %d coins, %d xp",
			len(sum.Harvested), sum.Coins, sum.XP)
		for _, h := range sum.Harvested {
			logger.Printf("  %s at (%d,%d): +%d coins +%d xp", h.Name, h.X, h.Y, h.Coins, h.XP)
		}
		if sum.LevelsGained > 0 {
			logger.Printf("  reached level %d", g.Level())
		}
	}

	save := func(at int64) error {
		s := g.ExportSave(at)
		if err := savefile.Store(savePath, s, tune.BackupKeep); err != nil {
			return err
		}
		ldg.RecordSave(ledger.SaveMeta{
			LastSave: at,
			Path:     savePath,
			Plots:    len(s.Farm.Plots),
			Coins:    s.Player.Coins,
			Level:    s.Player.Level,
		})
		return nil
	}

	srv := ws.NewServer(g, logger)
	broadcast = srv.Broadcast

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Single goroutine of game-state mutation; returns only after the final
	// shutdown save has completed.
	if err := g.Run(ctx, farm.LoopConfig{
		AutosaveEvery: *saveEvery,
		Save:          save,
		Logger:        logger,
	}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("run loop: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	logger.Printf("bye")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".farmstead"
	}
	return filepath.Join(home, ".farmstead")
}
