package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mindurka/overdrive/config"
	"github.com/mindurka/overdrive/game"
	"github.com/mindurka/overdrive/server"
	"github.com/mindurka/overdrive/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "Map file (empty = config sim.map, then the built-in map)")
	headless := flag.Bool("headless", false, "Run without graphics")
	serve := flag.Bool("serve", false, "Serve the HTTP status API and websocket feed")
	addr := flag.String("addr", "", "Listen address for -serve (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite run store (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := sim.New(sim.Options{
		MapPath:        *mapPath,
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		DBPath:         *dbPath,
		StepsPerUpdate: *stepsPerUpdate,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close simulation", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		listen := cfg.Server.Addr
		if *addr != "" {
			listen = *addr
		}
		interval := time.Duration(cfg.Server.BroadcastInterval * float64(time.Second))
		b := server.NewBroadcaster(s, interval)
		go b.Run(ctx)

		httpServer := &http.Server{
			Addr:              listen,
			Handler:           server.New(s, s.Store(), b).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("serving status api", "addr", listen)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("status server failed", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("status server shutdown", "error", err)
			}
		}()
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed. With -serve
		// ticks are paced so clients see the game rate.
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
			"run_id", s.RunID(),
		)
		if err := s.Run(ctx, int32(*maxTicks), !*serve); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("simulation stopped", "error", err)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Overdrive")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.New(s)
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
