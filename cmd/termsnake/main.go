// Command termsnake plays a round of snake in the terminal.
//
// Move with w/a/s/d, quit with q. Eating food grows the snake; hitting the
// wall or your own body ends the round.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/termsnake/config"
	"github.com/brensch/termsnake/input"
	"github.com/brensch/termsnake/logging"
	"github.com/brensch/termsnake/plain"
	"github.com/brensch/termsnake/screen"
	"github.com/brensch/termsnake/session"
	"github.com/brensch/termsnake/spectate"
	"github.com/brensch/termsnake/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(".env", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogFormat, level)
	if err != nil {
		log.Printf("logging: %v", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(session.Config{
		Seed:      cfg.Seed,
		FoodCount: cfg.FoodCount,
		MaxLength: cfg.MaxLength,
	}, logger)

	var spectators *spectate.Server
	if cfg.SpectateAddr != "" {
		spectators = spectate.New(logger)
		srvCtx, cancel := context.WithCancel(context.Background())
		served := make(chan struct{})
		go func() {
			defer close(served)
			if err := spectators.ListenAndServe(srvCtx, cfg.SpectateAddr); err != nil {
				logger.Error("spectator server failed", "err", err)
			}
		}()
		defer func() {
			if spectators.Watchers() > 0 && cfg.SpectateLinger > 0 {
				time.Sleep(cfg.SpectateLinger)
			}
			cancel()
			<-served
		}()
	}

	res, err := play(ctx, cfg.Frontend, s, spectatorRenderer(spectators))
	res, err = endOnSignal(ctx, s, res, err)
	if err != nil {
		logger.Error("round aborted", "err", err, "score", res.Score, "turns", res.Turns)
		fmt.Fprintf(os.Stderr, "termsnake: %v\n", err)
		return 1
	}

	logger.Info("round finished",
		slog.String("cause", string(res.Cause)),
		slog.Int("score", res.Score),
		slog.Int("turns", res.Turns),
		slog.Int64("seed", res.Seed),
	)
	fmt.Println(session.FinalLine(res.Score))
	return 0
}

// spectatorRenderer avoids handing a typed nil to the front ends.
func spectatorRenderer(s *spectate.Server) session.Renderer {
	if s == nil {
		return nil
	}
	return s
}

// endOnSignal turns a front end stopped by a cancelled ctx into a quit so the
// final score is still reported. Other errors pass through.
func endOnSignal(ctx context.Context, s *session.Session, res session.Result, err error) (session.Result, error) {
	if err == nil || ctx.Err() == nil {
		return res, err
	}
	if !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, ctx.Err()) {
		return res, err
	}
	s.Apply(input.Quit)
	return s.Result(), nil
}

func play(ctx context.Context, frontend string, s *session.Session, spectators session.Renderer) (session.Result, error) {
	switch frontend {
	case config.FrontendTUI:
		p := tea.NewProgram(tui.New(s, spectators), tea.WithContext(ctx))
		final, err := p.Run()
		if err != nil {
			return s.Result(), fmt.Errorf("tui: %w", err)
		}
		m, ok := final.(tui.Model)
		if !ok {
			return s.Result(), fmt.Errorf("tui: unexpected model %T", final)
		}
		return m.Result(), m.Err()

	case config.FrontendScreen:
		sc, err := screen.New()
		if err != nil {
			return s.Result(), fmt.Errorf("screen: %w", err)
		}
		defer sc.Close()
		return session.NewLoop(s, sc, session.MultiRenderer(sc, spectators)).Run(ctx)

	case config.FrontendPlain:
		t, err := plain.Open(os.Stdin, os.Stdout)
		if err != nil {
			return s.Result(), fmt.Errorf("plain: %w", err)
		}
		defer t.Close()
		return session.NewLoop(s, t, session.MultiRenderer(t, spectators)).Run(ctx)
	}
	return s.Result(), fmt.Errorf("unknown frontend %q", frontend)
}
