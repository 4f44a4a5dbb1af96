package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/archipelago/pkg/actor"
	"github.com/taigrr/archipelago/pkg/config"
	"github.com/taigrr/archipelago/pkg/game"
	"github.com/taigrr/archipelago/pkg/logging"
)

type playOptions struct {
	fps     int
	logFile string
	noWatch bool
}

func newPlayCmd(root *rootOptions) *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Sail the archipelago",
		Long: `Sail the archipelago in the terminal.

Controls:
  W/S or Up/Down     forward / back
  A/D or Left/Right  turn
  R                  new islands
  M                  toggle map
  B                  toggle debug overlay
  ?                  toggle HUD
  Esc, Ctrl+C        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fps") {
				cfg.Play.FPS = opts.fps
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			watch := ""
			if !opts.noWatch {
				watch = root.configPath
			}
			return play(cmd.Context(), cfg, watch, opts.logFile)
		},
	}
	cmd.Flags().IntVar(&opts.fps, "fps", 30, "target frames per second")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs here while playing (default: discard)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the config file when it changes")
	return cmd
}

// keyHold is how long a key press keeps steering when the terminal does
// not report releases.
const keyHold = 250 * time.Millisecond

// controls turns key events into per-frame steering.
type controls struct {
	held map[string]time.Time
}

func newControls() *controls {
	return &controls{held: make(map[string]time.Time)}
}

func (c *controls) press(key string, now time.Time) {
	c.held[key] = now.Add(keyHold)
}

func (c *controls) release(key string) {
	delete(c.held, key)
}

func (c *controls) input(now time.Time) actor.Input {
	down := func(key string) bool {
		until, ok := c.held[key]
		return ok && now.Before(until)
	}
	return actor.Input{
		Forward: down("forward"),
		Back:    down("back"),
		Left:    down("left"),
		Right:   down("right"),
	}
}

// steering maps a key event to a control name.
func steering(ev interface{ MatchString(...string) bool }) string {
	switch {
	case ev.MatchString("w", "up"):
		return "forward"
	case ev.MatchString("s", "down"):
		return "back"
	case ev.MatchString("a", "left"):
		return "left"
	case ev.MatchString("d", "right"):
		return "right"
	}
	return ""
}

func play(ctx context.Context, cfg config.Config, watchPath, logFile string) error {
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetOutput(logOut)
	defer logging.SetOutput(os.Stderr)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	world := game.NewWorld(cfg)
	scene := game.NewScene(width, height*2, cfg.Play.FPS)
	scene.MapSize = cfg.Play.MapSize
	scene.Debug = cfg.Play.Debug
	scene.Snap(world)
	hud := newHUD()

	// The frame loop owns the world; the pumps below only hand it events.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	reloads := make(chan config.Config, 1)
	if watchPath != "" {
		go func() {
			err := config.Watch(ctx, watchPath, func(c config.Config, err error) {
				if err != nil {
					logging.Warn("config reload rejected", "err", err)
					return
				}
				select {
				case reloads <- c:
				default:
				}
			})
			if err != nil && ctx.Err() == nil {
				logging.Warn("config watcher stopped", "err", err)
			}
		}()
	}

	keys := newControls()
	frame := frameTime(cfg.Play.FPS)
	var blocked bool

	for {
		now := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case c := <-reloads:
				if err := logging.SetLevel(c.Log.Level); err != nil {
					logging.Warn("bad log level", "err", err)
				}
				world.Apply(c)
				frame = frameTime(c.Play.FPS)
				scene.Follow.SetFPS(c.Play.FPS)
				scene.MapSize = c.Play.MapSize
				scene.Debug = c.Play.Debug
				scene.Snap(world)
				hud.notice("config reloaded", now)
			case ev := <-events:
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					scene.Resize(width, height*2)
				case uv.KeyPressEvent:
					switch {
					case ev.MatchString("escape", "ctrl+c"):
						return nil
					case ev.MatchString("r"):
						world.Regenerate()
						scene.Snap(world)
						hud.notice(fmt.Sprintf("generation %d", world.Generation), now)
					case ev.MatchString("m"):
						if scene.MapSize > 0 {
							scene.MapSize = 0
						} else {
							scene.MapSize = max(world.Config.Play.MapSize, 16)
						}
					case ev.MatchString("b"):
						scene.Debug = !scene.Debug
					case ev.MatchString("?"), ev.MatchString("shift+/"):
						hud.show = !hud.show
					default:
						if k := steering(ev); k != "" {
							keys.press(k, now)
						}
					}
				case uv.KeyReleaseEvent:
					if k := steering(ev); k != "" {
						keys.release(k)
					}
				}
			default:
				break drain
			}
		}

		blocked = world.Step(keys.input(now))
		scene.Track(world)
		scene.Draw(world)

		area := uv.Rect(0, 0, width, height)
		scene.FB.Draw(term, area)
		hud.tick(now)
		hud.draw(term, area, world, scene, blocked)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}

// frameTime is the frame budget at fps frames per second.
func frameTime(fps int) time.Duration {
	return time.Second / time.Duration(max(fps, 1))
}
