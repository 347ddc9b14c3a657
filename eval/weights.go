package eval

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	StyleRaw        = "raw"
	StyleNormalized = "normalized"

	DefaultWeightSet = "standard"
)

var ErrUnknownWeightSet = errors.New("unknown weight set")

//go:embed weights.yaml
var presetYAML []byte

// Positional holds per-disc square values.
type Positional struct {
	Corner     int `yaml:"corner"`
	NearCorner int `yaml:"near-corner"`
	Edge       int `yaml:"edge"`
}

// Weights parameterizes an Evaluator. A zero weight turns its term off.
type Weights struct {
	DiscStyle     string     `yaml:"disc-style"`
	Discs         int        `yaml:"discs"`
	MobilityStyle string     `yaml:"mobility-style"`
	MobilityEarly int        `yaml:"mobility-early"`
	MobilityLate  int        `yaml:"mobility-late"`
	Corner        int        `yaml:"corner"`
	XSquare       int        `yaml:"x-square"`
	Stability     int        `yaml:"stability"`
	Frontier      int        `yaml:"frontier"`
	Quadrant      int        `yaml:"quadrant"`
	Potential     int        `yaml:"potential"`
	Positional    Positional `yaml:"positional"`
}

func (w Weights) validate() error {
	for _, s := range []string{w.DiscStyle, w.MobilityStyle} {
		if s != "" && s != StyleRaw && s != StyleNormalized {
			return fmt.Errorf("style must be %q or %q, got %q", StyleRaw, StyleNormalized, s)
		}
	}
	return nil
}

func parseWeightSets(data []byte) (map[string]Weights, error) {
	sets := map[string]Weights{}
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, err
	}
	for name, w := range sets {
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("weight set %v: %w", name, err)
		}
	}
	return sets, nil
}

// Presets returns the built-in weight sets.
func Presets() map[string]Weights {
	sets, err := parseWeightSets(presetYAML)
	if err != nil {
		panic(err)
	}
	return sets
}

// LoadWeightSets returns the built-in weight sets, overridden and extended
// by the sets in the YAML file at path. An empty path means presets only.
func LoadWeightSets(path string) (map[string]Weights, error) {
	sets := Presets()
	if path == "" {
		return sets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	extra, err := parseWeightSets(data)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", path, err)
	}
	for name, w := range extra {
		sets[name] = w
	}
	return sets, nil
}

// WeightSetNames returns the sorted names in sets.
func WeightSetNames(sets map[string]Weights) []string {
	names := lo.Keys(sets)
	slices.Sort(names)
	return names
}

// Lookup finds a named weight set.
func Lookup(sets map[string]Weights, name string) (Weights, error) {
	w, ok := sets[name]
	if !ok {
		return Weights{}, fmt.Errorf("%w: %v", ErrUnknownWeightSet, name)
	}
	return w, nil
}
