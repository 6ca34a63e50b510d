package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/barista/internal/config"
	"github.com/roach88/barista/internal/game"
	"github.com/roach88/barista/internal/leaderboard"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	ConfigDir   string
	Database    string
	SLOName     string
	Player      string
	SuccessRate float64
	TimeScale   int
	Seed        uint64
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a full session headlessly",
		Long: `Run one complete game session with a bot barista.

The bot completes each spawned order after a random reaction delay with
the configured success probability. The session runs on real timers;
use --time-scale to compress the multi-minute level plan into seconds.

Example:
  barista simulate --slo 99.9% --success-rate 0.9 --time-scale 20
  barista simulate --db barista.db --player bot --seed 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigDir, "config", "", "config directory (default: embedded config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite leaderboard (optional)")
	cmd.Flags().StringVar(&opts.SLOName, "slo", "99.9%", "SLO target to play")
	cmd.Flags().StringVar(&opts.Player, "player", "", "player name for the leaderboard")
	cmd.Flags().Float64Var(&opts.SuccessRate, "success-rate", 0.9, "probability the bot completes an order")
	cmd.Flags().IntVar(&opts.TimeScale, "time-scale", 10, "divide all durations by this factor")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 = nondeterministic)")

	return cmd
}

// simulateReport is the JSON payload for a finished simulation.
type simulateReport struct {
	Summary     game.Summary      `json:"summary"`
	Leaderboard []game.ScoreEntry `json:"leaderboard,omitempty"`
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions)
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	rules, err := loadRules(opts.ConfigDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	rules = rules.Scale(opts.TimeScale)

	target, ok := rules.TargetByName(opts.SLOName)
	if !ok {
		names := make([]string, len(rules.Targets))
		for i, t := range rules.Targets {
			names[i] = t.Name
		}
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown SLO target %q: available %v", opts.SLOName, names))
	}

	engineOpts := []game.Option{game.WithLogger(logger)}
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, game.WithSeed(opts.Seed))
	}

	if opts.Database != "" {
		board, err := leaderboard.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening leaderboard", err)
		}
		defer board.Close()
		engineOpts = append(engineOpts, game.WithScoreboard(board))
	}

	bot := newBotPresenter(logger, opts.SuccessRate, opts.Seed)
	eng := game.New(rules, bot, game.RealScheduler{}, engineOpts...)
	bot.engine = eng

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng.Start(target)

	var summary game.Summary
	select {
	case summary = <-bot.done:
	case <-ctx.Done():
		eng.Reset()
		return NewExitError(ExitCommandError, "simulation interrupted")
	}

	if opts.Database != "" {
		eng.SubmitScore(ctx, opts.Player)
	}

	report := simulateReport{Summary: summary, Leaderboard: bot.leaderboard()}
	return formatter.Success(report, func(w io.Writer) {
		printSummary(w, summary)
		if len(report.Leaderboard) > 0 {
			fmt.Fprintln(w)
			printLeaderboard(w, report.Leaderboard)
		}
	})
}

// loadRules resolves the config surface: an explicit directory or the
// embedded defaults.
func loadRules(dir string) (*game.Rules, error) {
	if dir == "" {
		return config.Default()
	}
	return config.Load(dir)
}

func printSummary(w io.Writer, sum game.Summary) {
	fmt.Fprintf(w, "Outcome: %s (%s)\n", sum.OutcomeName, sum.Message)
	fmt.Fprintf(w, "Final Score: %d\n", sum.Score)
	fmt.Fprintf(w, "SLO Target: %s\n", sum.TargetName)
	fmt.Fprintf(w, "Final SLO: %.2f%%\n", sum.MeasuredSLO*100)
	fmt.Fprintf(w, "Orders Completed: %d/%d\n", sum.SuccessfulOrders, sum.TotalOrders)
	fmt.Fprintf(w, "Success Rate: %.1f%%\n", sum.SuccessRate)
}

// botPresenter is a headless host: it reacts to rendered orders by
// scheduling a completion attempt, and signals session end on done.
//
// Presenter methods are called with the engine mutex held, so the bot
// never calls back into the engine synchronously; completions and
// countdown refreshes go through time.AfterFunc.
type botPresenter struct {
	log         *slog.Logger
	successRate float64

	mu      sync.Mutex
	rng     *rand.Rand
	board   []game.ScoreEntry
	engine  *game.Engine
	done    chan game.Summary
}

func newBotPresenter(log *slog.Logger, successRate float64, seed uint64) *botPresenter {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &botPresenter{
		log:         log,
		successRate: successRate,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		done:        make(chan game.Summary, 1),
	}
}

func (b *botPresenter) leaderboard() []game.ScoreEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.board
}

func (b *botPresenter) RenderOrder(o game.Order) {
	b.mu.Lock()
	attempt := b.rng.Float64() < b.successRate
	// React somewhere between 20% and 90% of the order's lifetime.
	reaction := time.Duration(float64(o.Lifetime) * (0.2 + 0.7*b.rng.Float64()))
	b.mu.Unlock()

	b.log.Debug("order up", "order", o.ID, "type", o.Type.Name, "attempting", attempt)
	if !attempt {
		return
	}

	id := o.ID
	time.AfterFunc(reaction, func() {
		if points, ok := b.engine.CompleteOrder(id); ok {
			b.log.Debug("order served", "order", id, "points", points)
		}
	})

	// Midlife countdown refresh, display-only.
	time.AfterFunc(o.Lifetime/2, func() {
		if frac, ok := b.engine.RemainingFraction(id); ok {
			b.UpdateOrderTimer(id, frac)
		}
	})
}

func (b *botPresenter) UpdateOrderTimer(orderID string, remaining float64) {
	b.log.Debug("countdown", "order", orderID, "remaining", remaining)
}

func (b *botPresenter) RemoveOrder(orderID string) {}

func (b *botPresenter) ShowFeedback(orderID, text string, kind game.FeedbackKind) {
	b.log.Debug("feedback", "order", orderID, "text", text, "kind", kind.String())
}

func (b *botPresenter) ShowLevelBanner(level game.Level) {
	b.log.Info("level", "number", level.Number, "name", level.Name)
}

func (b *botPresenter) UpdateHUD(s game.Snapshot) {
	b.log.Debug("hud",
		"score", s.Score,
		"orders", s.TotalOrders,
		"budget", s.BudgetRemaining,
		"slo", s.MeasuredSLO)
}

func (b *botPresenter) ShowGameOver(sum game.Summary) {
	select {
	case b.done <- sum:
	default:
	}
}

func (b *botPresenter) ShowLeaderboard(entries []game.ScoreEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.board = entries
}
