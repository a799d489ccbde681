package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/argo-strategy/internal/backtest"
	"github.com/rxtech-lab/argo-strategy/internal/decision"
	"github.com/rxtech-lab/argo-strategy/internal/graph"
	"github.com/rxtech-lab/argo-strategy/internal/logger"
	"github.com/rxtech-lab/argo-strategy/internal/testhelper"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// compileGraph loads and compiles the strategy graph file shared by both
// subcommands.
func compileGraph(path string) (types.Strategy, error) {
	strategyGraph, err := graph.LoadGraphFile(path)
	if err != nil {
		return types.Strategy{}, err
	}

	result := graph.Compile(strategyGraph)
	if !result.Valid {
		return types.Strategy{}, fmt.Errorf("invalid strategy graph: %s", result.Message)
	}

	return result.Strategy.Unwrap(), nil
}

// evaluateAction runs a single live evaluation and prints the decision.
func evaluateAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync() //nolint:errcheck // stdout sync errors are harmless

	strategy, err := compileGraph(cmd.String("graph"))
	if err != nil {
		return err
	}

	provider, err := marketdata.NewProvider(
		marketdata.ProviderType(cmd.String("provider")),
		os.Getenv("POLYGON_API_KEY"),
	)
	if err != nil {
		return err
	}

	// Retry transient provider failures, then cache fresh responses.
	wrapped := marketdata.NewCachedProvider(marketdata.NewRetryProvider(provider), marketdata.DefaultCacheTTL)

	engine := decision.NewEngineWithConfig(wrapped, appLogger, decision.EngineConfig{
		Interval:    marketdata.Interval(cmd.String("interval")),
		CandleLimit: int(cmd.Int("limit")),
	})

	d := engine.Evaluate(ctx, strategy, cmd.String("symbol"))

	fmt.Printf("%s: %s\n", d.Kind, d.Message)

	if d.Diagnostics.Error != "" {
		fmt.Printf("diagnostics: %s\n", d.Diagnostics.Error)
	}

	return nil
}

// backtestAction replays a strategy over historical or generated candles and
// writes the result stats to a YAML file.
func backtestAction(_ context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync() //nolint:errcheck // stdout sync errors are harmless

	strategy, err := compileGraph(cmd.String("graph"))
	if err != nil {
		return err
	}

	var candles []types.MarketData

	if dataPath := cmd.String("data"); dataPath != "" {
		candles, err = backtest.ReadCandlesCSV(dataPath)
		if err != nil {
			return err
		}
	} else {
		generator := testhelper.NewMockDataGenerator(testhelper.MockDataConfig{
			Symbol:        cmd.String("symbol"),
			NumDataPoints: int(cmd.Int("bars")),
			Pattern:       testhelper.SimulationPattern(cmd.String("pattern")),
			Seed:          cmd.Int("seed"),
		})
		candles = generator.Generate()
	}

	simulator := backtest.NewSimulator(appLogger)

	if configPath := cmd.String("config"); configPath != "" {
		configData, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read simulator config: %w", err)
		}

		if err := simulator.Initialize(string(configData)); err != nil {
			return fmt.Errorf("failed to initialize simulator: %w", err)
		}
	}

	bar := progressbar.Default(int64(len(candles)))
	bar.Describe(fmt.Sprintf("Backtesting %s over %d bars", cmd.String("symbol"), len(candles)))

	simulator.OnProgress = func(_, _ int) {
		bar.Add(1) //nolint:errcheck // progress display only
	}

	result := simulator.Run(strategy, candles)

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("backtest_%s.yaml", result.ID)
	}

	if err := types.WriteBacktestStats(outputPath, result); err != nil {
		return err
	}

	fmt.Printf("\nrun %s: %d trades, net profit %.2f%%, win rate %.2f%%, max drawdown %.2f%%\n",
		result.ID, result.Stats.TotalTrades, result.Stats.NetProfitPct,
		result.Stats.WinRatePct, result.Stats.MaxDrawdownPct)
	fmt.Printf("stats written to %s\n", outputPath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "strategy",
		Usage: "Compile, evaluate, and backtest visual strategy graphs",
		Commands: []*cli.Command{
			{
				Name:   "evaluate",
				Usage:  "Evaluate a strategy graph against live market data",
				Action: evaluateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "graph",
						Aliases:  []string{"g"},
						Usage:    "Path to the strategy graph YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "symbol",
						Aliases:  []string{"s"},
						Usage:    "Trading symbol (e.g. BTCUSDT)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Market data provider (%s, %s)", marketdata.ProviderBinance, marketdata.ProviderPolygon),
						Value:   string(marketdata.ProviderBinance),
					},
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Candle interval (1m, 5m, 15m, 30m, 1h, 4h, 1d)",
						Value:   string(marketdata.Interval1h),
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of recent candles to fetch",
						Value: 100,
					},
				},
			},
			{
				Name:   "backtest",
				Usage:  "Replay a strategy graph over historical candles",
				Action: backtestAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "graph",
						Aliases:  []string{"g"},
						Usage:    "Path to the strategy graph YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "Symbol label for generated data and reports",
						Value:   "BTCUSDT",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Path to a candles CSV file (time,open,high,low,close,volume)",
					},
					&cli.StringFlag{
						Name:  "pattern",
						Usage: "Synthetic data pattern when --data is omitted (increasing, decreasing, volatile)",
						Value: string(testhelper.PatternVolatile),
					},
					&cli.IntFlag{
						Name:  "bars",
						Usage: "Number of synthetic bars to generate when --data is omitted",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed for synthetic data (0 means time-based)",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a simulator config YAML file",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for the run stats YAML (defaults to backtest_<run id>.yaml)",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
