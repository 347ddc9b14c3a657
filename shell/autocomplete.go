package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/reversi/agent"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // e.g. "-depth"
	Args    []string // values for non-option arguments
}

var commandMetadata = map[string]CommandMetadata{
	"gen": {
		Options: []string{"-weights"},
	},
	"think": {
		Options: []string{"-algo", "-depth", "-time", "-weights"},
	},
	"bot": {
		Args: []string{"black", "white"},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-file"},
		Args:    append([]string{"stop"}, agent.Names()...),
	},
	"standings": {
		Options: []string{"-db"},
	},
	"set": {
		Args: []string{"board", "clock", "movetime", "depth", "weights"},
	},
	"setconfig": {
		Args: []string{
			"board-size", "clock", "move-time-cap", "safety-margin", "max-depth",
			"endgame-empties", "max-probes", "tt-fraction-of-memory", "weights-file",
			"mobility-ordering", "results-db",
		},
	},
	"help": {
		Args: []string{"think", "bot", "autoplay", "script", "set"},
	},
}

var commandNames = []string{
	"help", "new", "show", "gen", "play", "think", "bot", "autoplay", "analyze",
	"standings", "set", "setconfig", "script", "exit",
}

var weightSetNames = []string{"classic", "discs", "greedy", "standard"}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unbalanced quotes while typing
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-algo":
			completions = []string{agent.NameAlphaBeta, agent.NameMTDF}
		case lastCompleteField == "-weights":
			completions = weightSetNames
		case cmdName == "bot" && (lastCompleteField == "black" || lastCompleteField == "white"):
			completions = append([]string{"human"}, agent.Names()...)
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// only the part still to be typed
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
