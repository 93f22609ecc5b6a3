// Command sokoban-solve is the interactive host for the solver core:
// a thin driver that loads a level, repeatedly calls Solver.Search
// with a bounded time slice, and reports the result. All search logic
// lives in internal/solver; this package only wires it to a
// filesystem, a config file and a logger.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/ShenMian/sokoban-go/internal/action"
	"github.com/ShenMian/sokoban-go/internal/board"
	"github.com/ShenMian/sokoban-go/internal/config"
	"github.com/ShenMian/sokoban-go/internal/level"
	"github.com/ShenMian/sokoban-go/internal/logging"
	"github.com/ShenMian/sokoban-go/internal/solver"
	"github.com/ShenMian/sokoban-go/internal/store"
	"github.com/ShenMian/sokoban-go/internal/xsb"
)

func main() {
	cmd := &cli.Command{
		Name:  "sokoban-solve",
		Usage: "solve and replay Sokoban levels in XSB format",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a sokoban.yaml config file"},
			&cli.StringFlag{Name: "strategy", Usage: "fast, mixed, optimal-move-push, optimal-push-move"},
			&cli.StringFlag{Name: "lower-bound", Usage: "manhattan, minimum-move, minimum-push"},
			&cli.StringFlag{Name: "store", Usage: "path to the solution store JSON file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error"},
			&cli.StringFlag{Name: "log-file", Usage: "optional rotating log file path"},
			&cli.DurationFlag{Name: "time-slice", Usage: "search budget per Search() call"},
			&cli.DurationFlag{Name: "total-budget", Usage: "total search budget before giving up"},
		},
		Commands: []*cli.Command{
			solveCommand(),
			replayCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return config.Load(cmd.String("config"), func(c *config.Config) {
		if v := cmd.String("strategy"); v != "" {
			c.Search.Strategy = v
		}
		if v := cmd.String("lower-bound"); v != "" {
			c.Search.LowerBoundMethod = v
		}
		if v := cmd.String("store"); v != "" {
			c.Store.Path = v
		}
		if v := cmd.String("log-level"); v != "" {
			c.Logging.Level = v
		}
		if v := cmd.String("log-file"); v != "" {
			c.Logging.LogFile = v
		}
		if v := cmd.Duration("time-slice"); v != 0 {
			c.Search.TimeSlice = v
		}
		if v := cmd.Duration("total-budget"); v != 0 {
			c.Search.TotalBudget = v
		}
	})
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "solve a level and print its LURD solution",
		ArgsUsage: "<file.xsb>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("solve: missing <file.xsb> argument")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.LogFile)
			if err != nil {
				return fmt.Errorf("solve: building logger: %w", err)
			}
			defer logger.Sync()

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("solve: %w", err)
			}
			defer f.Close()

			m, err := xsb.Parse(f)
			if err != nil {
				return fmt.Errorf("solve: %w", err)
			}

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("solve: opening store: %w", err)
			}
			levelHash := m.NormalizedHash()
			st.PutLevel(levelHash, xsb.Format(m))

			logger.Info("solving",
				zap.String("path", path),
				zap.String("strategy", cfg.Search.Strategy),
				zap.String("lower_bound", cfg.Search.LowerBoundMethod))

			s := solver.New(m, cfg.Strategy(), cfg.LowerBoundMethod())

			start := time.Now()
			var acts action.Actions
			var solveErr error
			for {
				acts, solveErr = s.Search(cfg.Search.TimeSlice)
				if solveErr != solver.ErrTimeout {
					break
				}
				if time.Since(start) > cfg.Search.TotalBudget {
					solveErr = solver.ErrTimeout
					break
				}
				best := s.BestState()
				logger.Info("still searching",
					zap.Duration("elapsed", time.Since(start)),
					zap.Int("moves_so_far", best.Actions().Moves()),
					zap.Int("pushes_so_far", best.Actions().Pushes()),
					zap.Int("lower_bound", best.LowerBound()))
			}

			if solveErr != nil {
				logger.Warn("search did not find a solution",
					zap.Error(solveErr), zap.Duration("elapsed", time.Since(start)))
				return solveErr
			}

			logger.Info("solved",
				zap.Duration("elapsed", time.Since(start)),
				zap.Int("moves", acts.Moves()),
				zap.Int("pushes", acts.Pushes()))

			if err := st.Put(levelHash, acts, store.ByMoves); err != nil {
				logger.Warn("recording best-by-moves solution failed", zap.Error(err))
			}
			if err := st.Put(levelHash, acts, store.ByPushes); err != nil {
				logger.Warn("recording best-by-pushes solution failed", zap.Error(err))
			}
			if err := st.Save(); err != nil {
				logger.Warn("saving store failed", zap.Error(err))
			}

			fmt.Println(acts.LURD())
			return nil
		},
	}
}

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "replay a LURD string against a level and report whether it solves it",
		ArgsUsage: "<file.xsb> <lurd>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("replay: expected <file.xsb> <lurd>")
			}
			path := cmd.Args().Get(0)
			lurd := cmd.Args().Get(1)

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			defer f.Close()

			var m *level.Map
			m, err = xsb.Parse(f)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			acts, err := action.ParseLURD(lurd)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			solved, err := board.Replay(m, acts)
			if err != nil {
				fmt.Printf("not solved: %v\n", err)
				return nil
			}
			if solved {
				fmt.Println("solved")
			} else {
				fmt.Println("not solved")
			}
			return nil
		},
	}
}
