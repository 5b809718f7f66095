package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play in the terminal",
	Long: `Start playing in the terminal. The mode defaults to flappy.

Controls:
  Space/Up/W/click - Start, flap, restart after game over
  P                - Pause
  R                - Restart (after game over)
  Enter            - Restore after a crash
  M                - Mute
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at the first level, progresses to max
  normal - Start at the second level
  hard   - Start at the third level
  fixed  - No progression, stays at the start level

Examples:
  flappy play
  flappy play flappy_smooth
  flappy play --difficulty hard
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID, err := modeArg(args)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	s.logger.Info("playing", "mode", gameID)
	if _, err := tui.Run(game, runtimeConfig(), s.tuiOptions()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// tuiOptions wires the session's services into the terminal host.
func (s *session) tuiOptions() tui.Options {
	return tui.Options{
		Store:   s.store,
		Sound:   s.newSound(),
		Haptics: tui.BellHaptics{W: os.Stdout},
		Logger:  s.logger,
	}
}
