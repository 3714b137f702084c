package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	rand "math/rand/v2"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"setgame/internal/display"
	"setgame/internal/game"
	"setgame/internal/randutil"
	"setgame/internal/server"
	"setgame/internal/tui"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"setgame.hcl" type:"path" help:"Path to HCL config file"`
	Seed     *int64           `help:"Deterministic RNG seed (overrides config)"`
	Debug    bool             `help:"Enable debug logging"`
	Headless bool             `help:"Run without the TUI, printing events to stdout"`
	Listen   string           `help:"Serve a spectator WebSocket feed on this address (e.g. ':8080')"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("setgame"),
		kong.Description("Concurrent Set: a dealer, a shared board and racing players"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)
	ctx.FatalIfErrorf(run(&cli))
}

func run(cli *CLI) error {
	cfg, err := game.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Seed != nil {
		cfg.Game.Seed = *cli.Seed
	}
	if cli.Debug {
		cfg.Game.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, !cli.Headless)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting game", "seed", seed, "players", len(cfg.Players),
		"table_size", cfg.Game.TableSize, "deck", cfg.DeckSize())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	sinks := []display.Sink{display.NewLogSink(logger)}
	if cli.Headless {
		sinks = append(sinks, display.NewConsole(os.Stdout))
	}

	var srv *server.Server
	if cli.Listen != "" {
		srv = server.NewServer(cli.Listen, logger)
		sinks = append(sinks, srv)
	}

	var tuiSink *tui.Sink
	if !cli.Headless {
		tuiSink = tui.NewSink(logger)
		sinks = append(sinks, tuiSink)
	}

	sink := display.Fanout(sinks...)
	clock := quartz.NewReal()
	rng := randutil.New(seed)

	oracle := game.NewFeatureOracle(cfg.Game.Features, cfg.Game.Options)
	deck := game.NewDeck(cfg.DeckSize(), rng)
	board := game.NewBoard(cfg.Game.TableSize, cfg.DeckSize(), len(cfg.Players), sink, clock)
	board.SetDelay(cfg.TableDelay())
	claims := game.NewClaimQueue()

	humanID := -1
	players := make([]*game.Player, len(cfg.Players))
	for i, pc := range cfg.Players {
		var prng *rand.Rand
		if !pc.Human {
			prng = randutil.Fork(rng)
		} else {
			humanID = i
		}
		players[i] = game.NewPlayer(i, pc, cfg, board, claims, sink, clock, logger, prng)
	}

	dealer := game.NewDealer(cfg, board, deck, oracle, claims, players, sink, clock, logger)

	var g errgroup.Group
	g.Go(func() error {
		return dealer.Run(ctx)
	})

	if srv != nil {
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("Spectator server stopped", "error", err)
			}
		}()
		defer func() { _ = srv.Stop() }()
	}

	if cli.Headless {
		return g.Wait()
	}

	model := tui.New(tuiConfig(cfg, humanID, players, board, oracle), tuiSink, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		// A natural game end leaves the winners on screen for the user to
		// dismiss; only a signal tears the TUI down.
		<-sigCtx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		_ = g.Wait()
		return fmt.Errorf("tui failed: %w", err)
	}
	cancel()
	return g.Wait()
}

func tuiConfig(cfg *game.Config, humanID int, players []*game.Player, board *game.Board, oracle game.Oracle) tui.Config {
	names := make([]string, len(cfg.Players))
	for i, pc := range cfg.Players {
		names[i] = pc.Name
	}

	tc := tui.Config{
		TableSize: cfg.Game.TableSize,
		Features:  cfg.Game.Features,
		Options:   cfg.Game.Options,
		Players:   names,
		Human:     humanID,
		Hints: func() [][]int {
			return board.Hints(oracle, 1)
		},
	}
	if humanID >= 0 {
		human := players[humanID]
		tc.OnSelect = human.Select
	}
	return tc
}

// setupLogger builds the root logger. When the TUI owns the terminal, logs
// go to a file so they do not fight with the alternate screen.
func setupLogger(cfg *game.Config, tuiActive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Game.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Game.LogLevel, err)
	}

	out := os.Stderr
	closeLog := func() {}
	if tuiActive || cfg.Game.LogFile != "" {
		path := cfg.Game.LogFile
		if path == "" {
			path = "setgame.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	return logger, closeLog, nil
}
