package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/caolo-go/sim/internal/compiler"
	"github.com/caolo-go/sim/internal/config"
	"github.com/caolo-go/sim/internal/core/event"
	"github.com/caolo-go/sim/internal/formula"
	"github.com/caolo-go/sim/internal/persist"
	"github.com/caolo-go/sim/internal/sim"
	"github.com/caolo-go/sim/internal/telemetry"
	"github.com/caolo-go/sim/internal/world"
	"github.com/caolo-go/sim/internal/worldgen"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	fmt.Printf("\n  \033[33m── %s\033[0m\n", title)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("CAOLO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("\n  caolo-sim %q (server #%d)\n", cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("connected to postgres")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")

	scriptRepo := persist.NewScriptRepo(db)
	snapshotRepo := persist.NewWorldSnapshotRepo(db)

	// 4. Build or restore the world
	printSection("world")

	w, err := loadOrGenerateWorld(ctx, cfg, snapshotRepo, log)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	printOK(fmt.Sprintf("world ready at tick %d", w.Time.Tick))

	// 5. Formula engine
	formulaEngine, err := formula.NewEngine("scripts/formula", log)
	if err != nil {
		return fmt.Errorf("formula engine: %w", err)
	}
	defer formulaEngine.Close()
	printOK("formula scripts loaded")

	// 6. Scheduler, warmed with every bot's compiled script
	bus := event.NewBus()
	event.Subscribe(bus, func(ev event.EntityDied) {
		log.Info("entity died", zap.Uint64("entity", uint64(ev.EntityID)))
	})
	event.Subscribe(bus, func(ev event.ScriptExecutionFailed) {
		log.Warn("script execution failed", zap.Uint64("bot", uint64(ev.Bot)), zap.String("error", ev.Err))
	})

	scheduler := sim.New(w, cfg.Sim.ScriptStepBudget, cfg.Pathfinding.NodeExpansionBudget, log).
		WithFormula(formulaEngine).
		WithEventBus(bus)

	loaded, err := warmScriptCache(ctx, w, scheduler, scriptRepo, log)
	if err != nil {
		return fmt.Errorf("warm script cache: %w", err)
	}
	printOK(fmt.Sprintf("loaded %d scripts", loaded))

	// 7. Start the tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	autosave := time.NewTicker(1 * time.Minute)
	defer autosave.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("tick rate %s", cfg.Sim.TickRate))

	for {
		select {
		case <-ticker.C:
			scheduler.Tick(cfg.Sim.TickRate)
		case <-autosave.C:
			if err := saveSnapshot(ctx, w, cfg.Server.ID, snapshotRepo); err != nil {
				log.Warn("autosave failed", zap.Error(err))
			}
		case sig := <-shutdownCh:
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
			if err := saveSnapshot(ctx, w, cfg.Server.ID, snapshotRepo); err != nil {
				log.Error("final save failed", zap.Error(err))
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// loadOrGenerateWorld restores the most recent snapshot for this server if
// one exists, otherwise lays out a brand new overworld from config.
func loadOrGenerateWorld(ctx context.Context, cfg *config.Config, snapshotRepo *persist.WorldSnapshotRepo, log *zap.Logger) (*world.World, error) {
	snap, found, err := snapshotRepo.Load(ctx, cfg.Server.ID)
	if err != nil {
		return nil, fmt.Errorf("load world snapshot: %w", err)
	}

	w := world.NewWorld(cfg.World.RoomRadius)
	w.Config = world.GameConfig{
		PathFindingLimit:     uint32(cfg.Pathfinding.NodeExpansionBudget),
		TickRateHint:         uint32(cfg.Sim.TickRate.Milliseconds()),
		ResourceRespawnTicks: cfg.Sim.ResourceRespawnTicks,
		ResourceRespawnRange: cfg.Sim.ResourceRespawnRange,
		SpawnTicks:           cfg.Sim.SpawnTicks,
	}

	if found {
		snap.Restore(w)
		log.Info("restored world from snapshot", zap.Uint64("tick", w.Time.Tick))
		return w, nil
	}

	params := worldgen.Params{
		Radius:       cfg.World.WorldRadius,
		RoomRadius:   cfg.World.RoomRadius,
		MinBridgeLen: cfg.World.MinBridgeLen,
		MaxBridgeLen: cfg.World.MaxBridgeLen,
		Seed:         cfg.World.Seed,
	}
	if err := worldgen.Generate(w, params); err != nil {
		return nil, fmt.Errorf("generate overworld: %w", err)
	}
	log.Info("generated new overworld", zap.Int32("radius", params.Radius))
	return w, nil
}

func saveSnapshot(ctx context.Context, w *world.World, serverID int, repo *persist.WorldSnapshotRepo) error {
	dump := persist.DumpWorld(w)
	return repo.Save(ctx, serverID, dump)
}

// warmScriptCache loads and compiles every distinct script referenced by a
// bot currently in the world, so the scheduler never has to compile on the
// tick path.
func warmScriptCache(ctx context.Context, w *world.World, scheduler *sim.Scheduler, repo *persist.ScriptRepo, log *zap.Logger) (int, error) {
	seen := make(map[world.ScriptID]bool)
	loaded := 0
	var loadErr error

	w.Scripts.Each(func(_ world.EntityID, es *world.EntityScript) {
		if loadErr != nil || seen[es.ScriptID] {
			return
		}
		seen[es.ScriptID] = true

		script, err := repo.Load(ctx, es.ScriptID)
		if err != nil {
			loadErr = fmt.Errorf("load script %s: %w", es.ScriptID, err)
			return
		}
		if script == nil {
			log.Warn("bot references unknown script", zap.String("script", es.ScriptID.String()))
			return
		}

		prog := script.Compiled
		if prog == nil {
			prog, err = compiler.Compile(&script.Unit)
			if err != nil {
				log.Warn("recompile failed, skipping script",
					zap.String("script", es.ScriptID.String()), zap.Error(err))
				return
			}
		}
		scheduler.LoadScript(es.ScriptID, prog)
		loaded++
	})

	return loaded, loadErr
}
