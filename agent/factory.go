package agent

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/domino14/reversi/cache"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/search"
)

const (
	NameAlphaBeta = "alphabeta"
	NameMTDF      = "mtdf"
	NameMinimax   = "minimax"
	NameGreedy    = "greedy"
	NameRandom    = "random"
)

var ErrUnknownAgent = errors.New("unknown agent")

// defaultWeightSets maps each agent kind to the weight set it plays with
// unless told otherwise.
var defaultWeightSets = map[string]string{
	NameAlphaBeta: "standard",
	NameMTDF:      "standard",
	NameMinimax:   "classic",
	NameGreedy:    "greedy",
}

// Names lists the agent kinds New knows about.
func Names() []string {
	return []string{NameAlphaBeta, NameMTDF, NameMinimax, NameGreedy, NameRandom}
}

// Evaluator makes an evaluator from the named weight set. Weight files are
// read once and cached.
func Evaluator(cfg *config.Config, weightSet string) (*eval.Evaluator, error) {
	if weightSet == "" {
		weightSet = eval.DefaultWeightSet
	}
	path := cfg.GetString(config.ConfigWeightsFile)
	sets, err := cache.Load("weights:"+path, func(string) (map[string]eval.Weights, error) {
		return eval.LoadWeightSets(path)
	})
	if err != nil {
		return nil, err
	}
	w, err := eval.Lookup(sets, weightSet)
	if err != nil {
		return nil, err
	}
	return eval.NewEvaluator(w), nil
}

// New builds an agent by kind. The kind may carry a weight set after a
// colon, e.g. "alphabeta:discs". Every agent gets its own solver and
// transposition table.
func New(name string, cfg *config.Config) (Agent, error) {
	kind, weightSet, _ := strings.Cut(name, ":")
	if !slices.Contains(Names(), kind) {
		return nil, fmt.Errorf("%w: %v (choose from %v)", ErrUnknownAgent, kind, strings.Join(Names(), ", "))
	}
	if weightSet == "" {
		weightSet = defaultWeightSets[kind]
	}
	var ev *eval.Evaluator
	if kind != NameRandom {
		var err error
		ev, err = Evaluator(cfg, weightSet)
		if err != nil {
			return nil, err
		}
	}
	budget := BudgetFromConfig(cfg)

	switch kind {
	case NameAlphaBeta, NameMTDF:
		opts := search.DefaultOptions()
		opts.MobilityOrdering = cfg.GetBool(config.ConfigMobilityOrdering)
		opts.MaxProbes = cfg.GetInt(config.ConfigMaxProbes)
		tt := &search.TranspositionTable{}
		tt.Reset(cfg.GetFloat64(config.ConfigTTFractionOfMemory),
			cfg.GetInt(config.ConfigTTMinPow), cfg.GetInt(config.ConfigTTMaxPow))
		if kind == NameMTDF {
			return NewMTDFAgent(name, ev, tt, opts, budget), nil
		}
		return NewAlphaBetaAgent(name, ev, tt, opts, budget), nil
	case NameMinimax:
		return NewMinimaxAgent(name, ev, budget), nil
	case NameGreedy:
		return NewGreedyAgent(name, ev), nil
	case NameRandom:
		return NewRandomAgent(name), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAgent, kind)
}
