package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/segue/internal/config"
	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
)

var configInitDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing segue configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file.

On a terminal you are asked for a music directory, playback mode and
volume. Use --defaults to skip the questions.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  library.dirs                 Music directories (separated by ` + string(os.PathListSeparator) + `)
  library.recursive            Scan subdirectories (true/false)
  library.watch                Pick up new files while playing (true/false)
  sequencer.shuffle_window     Recent tracks shuffle avoids
  defaults.volume              Starting volume (0-100)
  defaults.mode                Starting mode (order/single/shuffle)
  tui.theme                    Color theme (auto/dark/light)
  log.level                    Log level (debug/info/warn/error)
  log.file                     Log file path

Examples:
  segue config set library.dirs ~/Music
  segue config set defaults.mode shuffle`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write defaults without prompting")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(os.Stdout, cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return printJSON(os.Stdout, map[string]any{"path": path, "exists": exists})
	}
	fmt.Println(path)
	if !exists && Verbose() {
		fmt.Println("(not created yet; run 'segue config init')")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if !configInitDefaults && !JSONOutput() && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		if err := promptConfig(newCfg); err != nil {
			return err
		}
	}

	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrInvalidConfig, err)
	}
	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(os.Stdout, map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	if len(newCfg.Library.Dirs) == 0 {
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Set your music directory: segue config set library.dirs ~/Music")
		fmt.Println("  2. Run 'segue play'")
	} else {
		fmt.Println("\nRun 'segue play' to start listening.")
	}
	return nil
}

// promptConfig asks for the handful of settings most people change.
func promptConfig(c *config.Config) error {
	dir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, "Music")
	}
	mode := c.Defaults.Mode
	volume := strconv.Itoa(c.Defaults.Volume)
	recursive := c.Library.Recursive

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Music directory").
				Description("Where your FLAC, MP3 and WAV files live").
				Value(&dir),
			huh.NewConfirm().
				Title("Include subdirectories?").
				Value(&recursive),
			huh.NewSelect[string]().
				Title("Playback mode").
				Options(
					huh.NewOption("In order", core.ModeOrder.String()),
					huh.NewOption("Repeat one track", core.ModeSingle.String()),
					huh.NewOption("Shuffle", core.ModeShuffle.String()),
				).
				Value(&mode),
			huh.NewInput().
				Title("Starting volume").
				Description("0-100").
				Value(&volume).
				Validate(func(s string) error {
					v, err := strconv.Atoi(s)
					if err != nil || v < 0 || v > 100 {
						return fmt.Errorf("volume must be a number between 0 and 100")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if dir = strings.TrimSpace(dir); dir != "" {
		c.Library.Dirs = []string{dir}
	}
	c.Library.Recursive = recursive
	c.Defaults.Mode = mode
	c.Defaults.Volume, _ = strconv.Atoi(volume)
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// configKeys maps settable keys to how their values are parsed.
var configKeys = map[string]func(string) (any, error){
	"library.dirs":             parseList,
	"library.recursive":        parseBool,
	"library.watch":            parseBool,
	"sequencer.shuffle_window": parseInt,
	"defaults.volume":          parseInt,
	"defaults.mode": func(s string) (any, error) {
		m, err := core.ParseMode(s)
		if err != nil {
			return nil, err
		}
		return m.String(), nil
	},
	"tui.theme": parseString,
	"log.level": parseString,
	"log.file":  parseString,
}

func parseList(s string) (any, error)   { return filepath.SplitList(s), nil }
func parseString(s string) (any, error) { return s, nil }

func parseBool(s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("value must be true or false")
	}
	return b, nil
}

func parseInt(s string) (any, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("value must be an integer")
	}
	return i, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", serrors.ErrConfigNotFound, configPath)
	}

	if err := setConfigValue(configPath, key, value); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(os.Stdout, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue rewrites the config file at path with key set to value.
// Keys the file does not mention stay unset so defaults keep applying.
func setConfigValue(path, key, value string) error {
	parse, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown key %q (run 'segue config set --help' for the list)", key)
	}
	typed, err := parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	// Read the current config file as raw TOML
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	// Validate the result before touching the file
	var updated config.Config
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if _, err := toml.Decode(buf.String(), &updated); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	updated.ApplyDefaults()
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrInvalidConfig, err)
	}

	return writeConfigFile(path, raw)
}

// writeConfigFile encodes v as TOML under the standard header.
func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(config.FileHeader)
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
