// Copyright © 2018 The ELPS authors

package repl

import (
	"strings"
)

// commandCompleter implements readline.AutoCompleter by completing
// command names at the start of the line.
type commandCompleter struct{}

func (commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Only the first word names a command.
	prefix := string(line[:pos])
	if strings.ContainsAny(prefix, " \t") {
		return nil, 0
	}

	var result [][]rune
	for _, name := range commandNames() {
		if strings.HasPrefix(name, prefix) {
			// Each entry is the suffix to append.
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len([]rune(prefix))
}
