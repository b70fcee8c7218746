package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/segue/internal/config"
	serrors "github.com/tessro/segue/internal/errors"
	"github.com/tessro/segue/internal/logging"
)

// annotationOwnLogging marks commands that set up logging themselves.
const annotationOwnLogging = "segue/own-logging"

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "segue",
	Short: "Play local music from the terminal",
	Long: `Segue is a terminal music player for local directories of FLAC, MP3 and WAV files.

It plays through a library in order, repeats a single track, or shuffles
while avoiding recently heard tracks, with a queue for what you want next.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		if _, ok := cmd.Annotations[annotationOwnLogging]; ok {
			return nil
		}
		return setupLogging(os.Stderr)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.seguerc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrInvalidConfig, err)
	}

	return nil
}

// setupLogging installs the default logger. Logs go to the configured file,
// or to fallback when none is set; a nil fallback discards them.
func setupLogging(fallback io.Writer) error {
	_, closeFn, err := logging.Setup(cfg.Log, verbose, fallback)
	if err != nil {
		return err
	}
	closeLog = closeFn
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, serrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
