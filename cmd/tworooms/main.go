// Two Rooms: a scripted side-by-side transcript player contrasting an AI
// companion with a human therapist.
//
// Usage:
//
//	tworooms [--screen visualizer|divergence] [--layout single|compare] [--script ai|therapist] [--chime] [--verbose] [--quiet]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/tworooms/internal/chime"
	"github.com/hammamikhairi/tworooms/internal/compose"
	"github.com/hammamikhairi/tworooms/internal/config"
	"github.com/hammamikhairi/tworooms/internal/display"
	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/engine"
	"github.com/hammamikhairi/tworooms/internal/logger"
	"github.com/hammamikhairi/tworooms/internal/notify"
	"github.com/hammamikhairi/tworooms/internal/script"
	"github.com/hammamikhairi/tworooms/internal/storage"
	"github.com/hammamikhairi/tworooms/internal/timer"
)

var (
	cfg     config.Config
	verbose bool
	quiet   bool
	noIntro bool
)

var rootCmd = &cobra.Command{
	Use:   "tworooms",
	Short: "Play the Two Rooms transcripts in the terminal",
	Long: `Two Rooms plays two scripted conversations that open with the same
disclosure: one with an AI companion, one with a human therapist.

Step through them by hand or let autoplay reveal one exchange at a time.
Settings come from TWOROOMS_* environment variables (a .env file is read
if present); flags override them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	_ = godotenv.Load()
	cfg = config.Load()

	f := rootCmd.Flags()
	f.StringVar(&cfg.Screen, "screen", cfg.Screen, "starting screen: visualizer or divergence")
	f.StringVar(&cfg.Layout, "layout", cfg.Layout, "visualizer layout: single or compare")
	f.StringVar(&cfg.Script, "script", cfg.Script, "transcript for the single layout: ai or therapist")
	f.StringVar(&cfg.ScriptFile, "script-file", cfg.ScriptFile, "YAML deck to play instead of the built-in one")
	f.BoolVar(&cfg.Chime, "chime", cfg.Chime, "ring a short tone as each line is revealed")
	f.IntVar(&cfg.ChimeQueue, "chime-queue", cfg.ChimeQueue, "tones that may wait to play before new ones are dropped")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "file to write logs to (use \"stderr\" to log to console)")
	f.DurationVar(&cfg.IntervalSingle, "interval-single", cfg.IntervalSingle, "autoplay period in the single layout")
	f.DurationVar(&cfg.IntervalCompare, "interval-compare", cfg.IntervalCompare, "autoplay period in the compare layout")
	f.DurationVar(&cfg.IntervalPaired, "interval-paired", cfg.IntervalPaired, "autoplay period on the divergence screen")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug logging")
	f.BoolVarP(&quiet, "quiet", "q", false, "disable all logging")
	f.BoolVar(&noIntro, "no-intro", false, "skip the intro screen")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(parent context.Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	view, err := cfg.View()
	if err != nil {
		return err
	}

	logLevel := logger.LevelNormal
	if verbose {
		logLevel = logger.LevelVerbose
	}
	if quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default; the terminal belongs to the UI.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	log := logger.New(logLevel, logOut)
	defer log.Sync()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Wire dependencies.
	var src *script.MemorySource
	if cfg.ScriptFile != "" {
		src, err = script.NewFileSource(cfg.ScriptFile, log)
	} else {
		src, err = script.NewMemorySource(log)
	}
	if err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}
	deck, err := src.Deck(ctx)
	if err != nil {
		return err
	}

	panels := storage.NewMemoryStore(log)
	views := &viewHolder{v: view}

	var cue domain.Cue = chime.NewNoOp(log)
	if cfg.Chime {
		player, err := chime.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, chime disabled: %v", err)
		} else {
			c := chime.New(player, log, chime.WithQueueSize(cfg.ChimeQueue))
			c.Start(ctx)
			defer c.Stop()
			cue = c
			log.Info("chime enabled (queue=%d)", cfg.ChimeQueue)
		}
	}

	steps := notify.NewChanNotifier()
	ctrl := engine.New(log,
		engine.WithNotifier(notify.Multi{
			steps,
			notify.NewLogNotifier(log),
			notify.NewCueNotifier(cue, speakerAt(deck, views), log),
		}),
	)
	log.Info("viewing session %s started", ctrl.ID())

	auto := timer.New(ctrl, log, timer.WithInterval(cfg.IntervalFor(view.Layout)))
	defer auto.Stop()

	opts := []display.Option{
		display.WithView(view),
		display.WithSteps(steps.C()),
		display.WithIntervals(cfg.IntervalFor),
		display.WithViewObserver(views.set),
	}
	if noIntro {
		opts = append(opts, display.WithoutIntro())
	}

	// Bubble Tea owns the terminal; blocks until quit.
	m := display.New(ctx, deck, ctrl, auto, panels, log, opts...)
	if err := display.Run(ctx, m); err != nil {
		log.Error("display: %v", err)
		return err
	}
	return nil
}

// viewHolder shares the current view between the UI goroutine and the
// autoplay loop, which rings cues from its own goroutine.
type viewHolder struct {
	mu sync.Mutex
	v  domain.View
}

func (h *viewHolder) set(v domain.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.v = v
}

func (h *viewHolder) get() domain.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.v
}

// speakerAt reports who speaks the lines a step reveals in the view on
// screen.
func speakerAt(deck *domain.Deck, views *viewHolder) notify.SpeakerFunc {
	return func(step int) []domain.Speaker {
		return compose.Revealed(deck, views.get(), step)
	}
}
