package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens ~/.flappy/flappy.log for appending. The terminal
// belongs to the game while it runs, so logs go to a file.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".flappy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "flappy.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// session holds what every local command shares: logger, store and the
// terminal size.
type session struct {
	logger  *log.Logger
	store   *storage.Store
	logFile *os.File
}

// openSession sets up logging to the log file (or discards it when the
// file cannot be opened) and opens the score database. A missing database
// is not fatal; games keep their state in memory.
func openSession() (*session, error) {
	var w io.Writer = io.Discard
	f, err := openLogFile()
	if err == nil {
		w = f
	} else {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}

	logger, err := newLogger(w, "flappy")
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, err
	}

	s := &session{logger: logger, logFile: f}
	s.store, err = storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		s.store = nil
	}
	return s, nil
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
}

// newSound returns a fresh audio trigger for one game session, or a silent
// one when the config disables audio or no device is available.
func (s *session) newSound() core.SoundPlayer {
	cfg, err := flappy.LoadConfig()
	if err != nil || !cfg.Audio.Enabled {
		return core.NopSound{}
	}
	sm := audio.NewSoundManager(cfg.Audio.Volume)
	if err := sm.Initialize(); err != nil {
		s.logger.Warn("audio disabled", "err", err)
		return core.NopSound{}
	}
	return sm
}

// runtimeConfig sizes the session to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// modeArg resolves the optional [mode] argument.
func modeArg(args []string) (string, error) {
	id := "flappy"
	if len(args) > 0 {
		id = args[0]
	}
	if !registry.Exists(id) {
		return "", fmt.Errorf("unknown mode %q (run 'flappy list' to see modes)", id)
	}
	return id, nil
}
