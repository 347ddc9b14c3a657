package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigBoardSize          = "board-size"
	ConfigClock              = "clock"
	ConfigMoveTimeCap        = "move-time-cap"
	ConfigSafetyMargin       = "safety-margin"
	ConfigMaxDepth           = "max-depth"
	ConfigEndgameEmpties     = "endgame-empties"
	ConfigMaxProbes          = "max-probes"
	ConfigTTFractionOfMemory = "tt-fraction-of-memory"
	ConfigTTMinPow           = "tt-min-pow"
	ConfigTTMaxPow           = "tt-max-pow"
	ConfigWeightsFile        = "weights-file"
	ConfigMobilityOrdering   = "mobility-ordering"
	ConfigResultsDB          = "results-db"
	ConfigShellHistoryFile   = "shell-history-file"
	ConfigConfigFile         = "config-file"
	ConfigGames              = "games"
	ConfigThreads            = "threads"
	ConfigOutput             = "output"
	ConfigAnalyze            = "analyze"
)

// Config wraps a viper instance. Settings come from, in increasing order of
// precedence: defaults, an optional config file, REVERSI_ environment
// variables, and command-line flags.
type Config struct {
	viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigBoardSize, 8)
	v.SetDefault(ConfigClock, 60*time.Second)
	v.SetDefault(ConfigMoveTimeCap, 2*time.Second)
	v.SetDefault(ConfigSafetyMargin, 50*time.Millisecond)
	v.SetDefault(ConfigMaxDepth, 0)
	v.SetDefault(ConfigEndgameEmpties, 12)
	v.SetDefault(ConfigMaxProbes, 64)
	v.SetDefault(ConfigTTFractionOfMemory, 0.01)
	v.SetDefault(ConfigTTMinPow, 16)
	v.SetDefault(ConfigTTMaxPow, 22)
	v.SetDefault(ConfigWeightsFile, "")
	v.SetDefault(ConfigMobilityOrdering, true)
	v.SetDefault(ConfigResultsDB, "")
	v.SetDefault(ConfigShellHistoryFile, "/tmp/reversi_shell_history")
	v.SetDefault(ConfigGames, 100)
	v.SetDefault(ConfigThreads, 1)
	v.SetDefault(ConfigOutput, "/tmp/reversi_games.txt")
	v.SetDefault(ConfigAnalyze, "")
}

func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := pflag.NewFlagSet("reversi", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigBoardSize, 8, "board dimension (even, 4 to 26)")
	fs.Duration(ConfigClock, 60*time.Second, "total thinking time per player")
	fs.Duration(ConfigMoveTimeCap, 2*time.Second, "most time spent on a single move")
	fs.Duration(ConfigSafetyMargin, 50*time.Millisecond, "time held back from every move budget")
	fs.Int(ConfigMaxDepth, 0, "search depth cap; 0 picks one from the board size")
	fs.Int(ConfigEndgameEmpties, 12, "empty squares at which the search may go to the end of the game")
	fs.Int(ConfigMaxProbes, 64, "most MTD(f) probes per depth")
	fs.Float64(ConfigTTFractionOfMemory, 0.01, "fraction of system memory for each transposition table")
	fs.Int(ConfigTTMinPow, 16, "transposition table holds at least 2^n entries")
	fs.Int(ConfigTTMaxPow, 22, "transposition table holds at most 2^n entries")
	fs.String(ConfigWeightsFile, "", "YAML file with extra evaluator weight sets")
	fs.Bool(ConfigMobilityOrdering, true, "order root moves by opponent mobility")
	fs.String(ConfigResultsDB, "", "SQLite file for match results")
	fs.String(ConfigShellHistoryFile, "/tmp/reversi_shell_history", "shell history file")
	fs.String(ConfigConfigFile, "", "optional YAML/TOML/JSON config file")
	fs.Int(ConfigGames, 100, "number of games in a match")
	fs.Int(ConfigThreads, 1, "games played at once in a match")
	fs.String(ConfigOutput, "/tmp/reversi_games.txt", "CSV file for match results")
	fs.String(ConfigAnalyze, "", "print statistics for this match CSV file and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("REVERSI")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %v: %w", path, err)
		}
	}
	return nil
}

// Args are the command-line arguments left over after the flags.
func (c *Config) Args() []string {
	return c.args
}

// DefaultConfig returns a config with only the defaults set.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

// SanitizedSettings is every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
