// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"
)

// Intent is a parsed command.
type Intent struct {
	Verb   string
	Object string
	Target string
}

// Verbs produced by Parse.
const (
	VerbGo     = "go"
	VerbUse    = "use"
	VerbFlee   = "flee"
	VerbPotion = "potion"
	VerbSwitch = "switch"
	VerbAction = "action" // raw action id in Object
)

var directionExpansions = map[string]string{
	"n":     "up",
	"north": "up",
	"u":     "up",
	"up":    "up",
	"s":     "down",
	"south": "down",
	"d":     "down",
	"down":  "down",
	"w":     "left",
	"west":  "left",
	"left":  "left",
	"e":     "right",
	"east":  "right",
	"right": "right",
}

var verbAliases = map[string]string{
	// Movement
	"walk": "go",
	"move": "go",
	"head": "go",
	"step": "go",

	// Moves
	"attack": "use",
	"fight":  "use",
	"hit":    "use",
	"cast":   "use",

	// Escape
	"run":     "flee",
	"escape":  "flee",
	"retreat": "flee",

	// Items
	"heal":  "potion",
	"drink": "potion",

	// Roster
	"swap":   "switch",
	"change": "switch",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "against": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Bare action id: "3" → action 3
	if len(words) == 1 {
		if _, err := strconv.Atoi(words[0]); err == nil {
			return Intent{Verb: VerbAction, Object: words[0]}
		}
	}

	// Direction shortcut: bare "n", "left", etc. → go <direction>
	if len(words) == 1 {
		if dir, ok := directionExpansions[words[0]]; ok {
			return Intent{Verb: VerbGo, Object: dir}
		}
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)
	if len(words) == 0 {
		return Intent{}
	}

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	if verb == VerbGo {
		if dir, ok := directionExpansions[object]; ok {
			object = dir
		}
	}

	return Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "run away", "use potion", "switch out" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "run", "get":
		if words[1] == "away" {
			return append([]string{VerbFlee}, words[2:]...)
		}
	case "use", "drink":
		if words[1] == "potion" {
			return append([]string{VerbPotion}, words[2:]...)
		}
	case "switch", "swap":
		if words[1] == "out" || words[1] == "in" {
			return append([]string{VerbSwitch}, words[2:]...)
		}
	case "go", "walk", "move":
		if words[1] == "to" && len(words) > 2 {
			return append([]string{VerbGo}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
