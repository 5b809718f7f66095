package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/gui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

var flagScale float64

var windowCmd = &cobra.Command{
	Use:   "window [mode]",
	Short: "Play in a desktop window",
	Long: `Open a desktop window and play there. Same controls as 'play';
Escape or Q closes the window. Losing focus pauses the game.

Examples:
  flappy window
  flappy window flappy_smooth --scale 1.5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().Float64Var(&flagScale, "scale", 1, "Window pixels per world unit")
}

func runWindow(_ *cobra.Command, args []string) error {
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

	cfg := runtimeConfig()
	s.logger.Info("opening window", "mode", gameID, "scale", flagScale)
	return gui.Run(game, cfg, gui.Options{
		Store:  s.store,
		Sound:  s.newSound(),
		Logger: s.logger,
		Scale:  flagScale,
	})
}
