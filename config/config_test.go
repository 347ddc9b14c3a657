package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigBoardSize), 8)
	is.Equal(cfg.GetDuration(ConfigClock), 60*time.Second)
	is.Equal(cfg.GetDuration(ConfigMoveTimeCap), 2*time.Second)
	is.Equal(cfg.GetDuration(ConfigSafetyMargin), 50*time.Millisecond)
	is.Equal(cfg.GetInt(ConfigMaxDepth), 0)
	is.Equal(cfg.GetInt(ConfigMaxProbes), 64)
	is.Equal(cfg.GetFloat64(ConfigTTFractionOfMemory), 0.01)
	is.True(cfg.GetBool(ConfigMobilityOrdering))
	is.Equal(cfg.GetString(ConfigResultsDB), "")
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--board-size", "10", "--move-time-cap", "500ms", "--debug", "new", "6"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigBoardSize), 10)
	is.Equal(cfg.GetDuration(ConfigMoveTimeCap), 500*time.Millisecond)
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.Args(), []string{"new", "6"})
	// untouched flags keep their defaults
	is.Equal(cfg.GetInt(ConfigTTMaxPow), 22)
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("REVERSI_MAX_DEPTH", "7")
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.GetInt(ConfigMaxDepth), 7)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "reversi.yaml")
	is.NoErr(os.WriteFile(path, []byte("endgame-empties: 14\nweights-file: /tmp/w.yaml\n"), 0o644))
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config-file", path}))
	is.Equal(cfg.GetInt(ConfigEndgameEmpties), 14)
	is.Equal(cfg.GetString(ConfigWeightsFile), "/tmp/w.yaml")

	cfg = &Config{}
	is.True(cfg.Load([]string{"--config-file", filepath.Join(t.TempDir(), "missing.yaml")}) != nil)
	is.True(cfg.Load([]string{"--no-such-flag"}) != nil)
}
