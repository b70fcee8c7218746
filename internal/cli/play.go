package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/segue/internal/audio"
	"github.com/tessro/segue/internal/config"
	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
	"github.com/tessro/segue/internal/library"
	"github.com/tessro/segue/internal/player"
	"github.com/tessro/segue/internal/sequencer"
	"github.com/tessro/segue/internal/session"
	"github.com/tessro/segue/internal/tail"
	"github.com/tessro/segue/internal/tui"
)

var (
	playMode      string
	playVolume    int
	playHeadless  bool
	playNoWatch   bool
	playRefresh   int
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
	playInterval  time.Duration
)

var playCmd = &cobra.Command{
	Use:     "play [dir|file...]",
	Aliases: []string{"ui", "tui"},
	Short:   "Play a music library",
	Long: `Load the audio files in one or more directories, or individual files,
and start the player.

Without arguments, plays library.dirs from the config file, or the
directory played last time.

On a terminal this opens the interactive player:
  q, Ctrl+C    Quit
  ?            Help
  /            Find in library
  Space        Play/Pause
  Enter        Play selected row
  ←/→          Seek 10s
  x            Mark track for the queue
  a            Queue marked tracks
  n / p        Next / previous track
  m            Cycle order, single and shuffle
  +/-          Volume up/down
  M            Mute
  C            Clear library
  Tab          Switch panel

With --headless, or when stdout is not a terminal, playback starts
immediately and changes are printed one per line until interrupted.

Examples:
  segue play ~/Music
  segue play "~/Music/Kind of Blue/So What.flac"
  segue play --mode shuffle ~/Music/Jazz ~/Music/Blues
  segue play --headless --timestamp > listening.log`,
	Annotations: map[string]string{annotationOwnLogging: ""},
	RunE:        runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playMode, "mode", "m", "", "playback mode (order, single, shuffle)")
	playCmd.Flags().IntVar(&playVolume, "volume", 0, "starting volume (0-100)")
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "play without the interactive UI")
	playCmd.Flags().BoolVar(&playNoWatch, "no-watch", false, "do not watch library directories for changes")
	playCmd.Flags().IntVar(&playRefresh, "refresh", 0, "UI refresh interval in milliseconds (default from config)")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji in headless output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps in headless output")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom headless output template")
	playCmd.Flags().DurationVarP(&playInterval, "interval", "i", time.Second, "headless poll interval")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	headless := playHeadless || !isTerminal(os.Stdout)

	// The full-screen UI owns the terminal, so logs only go to a file there.
	var logOut io.Writer
	if headless {
		logOut = os.Stderr
	}
	if err := setupLogging(logOut); err != nil {
		return err
	}
	logger := slog.Default()

	store, err := session.NewStore("")
	if err != nil {
		return err
	}
	state, err := store.Load()
	if err != nil {
		logger.Warn("ignoring saved session", "path", store.Path(), "error", err)
	}
	if !store.Exists() {
		state.Volume = cfg.Defaults.Volume
		state.Mode, _ = core.ParseMode(cfg.Defaults.Mode)
	}
	if cmd.Flags().Changed("mode") {
		if state.Mode, err = core.ParseMode(playMode); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("volume") {
		state.Volume = playVolume
	}

	paths, err := resolveDirs(args, cfg.Library.Dirs, state.LastDir)
	if err != nil {
		return err
	}
	dirs, files := splitFiles(paths)
	if len(dirs) == 0 && len(files) == 0 {
		return serrors.WithSuggestion(serrors.ErrNoTracks,
			"Pass a music directory, e.g. 'segue play ~/Music', or set library.dirs in the config file")
	}

	spk, err := audio.NewSpeaker(audio.SpeakerOptions{
		SampleRate: cfg.Audio.SampleRate,
		Buffer:     time.Duration(cfg.Audio.BufferMS) * time.Millisecond,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = spk.Close() }()

	scan := scanOptions(cfg.Library)
	p := player.New(library.New(), spk, player.Options{
		Sequencer: sequencerOptions(cfg.Sequencer),
		Scan:      scan,
		Mode:      state.Mode,
		Volume:    state.Volume,
		Logger:    logger,
	})
	defer p.Close()

	if err := importLibrary(p, dirs, files, logger); err != nil {
		return err
	}

	if cfg.Library.Watch && !playNoWatch && len(dirs) > 0 {
		w, err := library.Watch(dirs, library.WatchOptions{
			ScanOptions: scan,
			Debounce:    time.Duration(cfg.Library.WatchDebounce) * time.Millisecond,
			Logger:      logger,
		}, func() {
			result := p.Sync(dirs...)
			for _, err := range result.Errors {
				logger.Warn("library sync", "error", err)
			}
		})
		if err != nil {
			logger.Warn("not watching library", "error", err)
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	if headless {
		err = runHeadless(cmd.Context(), p)
	} else {
		refresh := cfg.TUI.RefreshInterval
		if playRefresh > 0 {
			refresh = playRefresh
		}
		err = tui.Run(p, time.Duration(refresh)*time.Millisecond, cfg.TUI.Theme)
	}

	state.LastDir = dirOf(paths[0], files)
	if len(args) > 0 {
		state.ImportDir = dirOf(paths[len(paths)-1], files)
	}
	state.Volume = p.Volume()
	state.Mode = p.Mode()
	if saveErr := store.Save(state); saveErr != nil {
		logger.Warn("failed to save session", "error", saveErr)
	}

	return err
}

// importLibrary loads dirs and files into the player. Unreadable entries
// are logged; an empty result is an error.
func importLibrary(p *player.Player, dirs, files []string, logger *slog.Logger) error {
	result := p.Import(dirs...)
	fileResult := p.ImportFiles(files...)
	errs := append(result.Errors, fileResult.Errors...)
	for _, err := range errs {
		logger.Warn("library import", "error", err)
	}
	logger.Info("library loaded", "tracks", p.Library().Len(), "dirs", len(dirs), "files", len(files))

	if p.Library().Len() > 0 {
		return nil
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return fmt.Errorf("%w in %s", serrors.ErrNoTracks, strings.Join(append(dirs, files...), ", "))
}

// splitFiles separates regular files from directories. Paths that do not
// exist are kept as directories so the scan reports them.
func splitFiles(paths []string) (dirs, files []string) {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files = append(files, path)
			continue
		}
		dirs = append(dirs, path)
	}
	return dirs, files
}

// dirOf returns path itself, or its parent when path is one of files.
func dirOf(path string, files []string) string {
	if slices.Contains(files, path) {
		return filepath.Dir(path)
	}
	return path
}

// runHeadless plays until interrupted, printing playback changes.
func runHeadless(ctx context.Context, p *player.Player) error {
	formatter := tail.NewFormatter(
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamp),
		tail.WithTemplate(playFormat),
	)

	// Handle Ctrl+C gracefully
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	n := p.Library().Len()
	fmt.Printf("Loaded %d %s (%s)\n", n, plural(n, "track", "tracks"), p.Mode())

	if err := p.Play(); err != nil {
		return err
	}

	watcher := tail.NewWatcher(p, playInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Run(ctx)
	}()

	for event := range watcher.Events() {
		fmt.Println(formatter.Format(event))
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveDirs picks the directories to play: args first, then the
// configured library dirs, then the last session's directory.
func resolveDirs(args, configured []string, last string) ([]string, error) {
	dirs := args
	if len(dirs) == 0 {
		dirs = configured
	}
	if len(dirs) == 0 && last != "" {
		dirs = []string{last}
	}

	resolved := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(expandHome(d))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", d, err)
		}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func scanOptions(c config.LibraryConfig) library.ScanOptions {
	return library.ScanOptions{
		Extensions: c.Extensions,
		Recursive:  c.Recursive,
	}
}

func sequencerOptions(c config.SequencerConfig) sequencer.Options {
	return sequencer.Options{
		LookaheadCapacity: c.LookaheadCapacity,
		LookaheadBatch:    c.LookaheadBatch,
		PriorityCapacity:  c.PriorityCapacity,
		HistoryCapacity:   c.HistoryCapacity,
		HistoryBatch:      c.HistoryBatch,
		ShuffleWindow:     c.ShuffleWindow,
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
