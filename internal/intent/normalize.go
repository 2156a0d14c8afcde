package intent

import (
	"regexp"
	"strings"
)

var (
	quotedPattern = regexp.MustCompile("`[^`]*`")
	symbolPattern = regexp.MustCompile(`[^\w\s-]`)
)

// TextNormalizer reduces instruction text to keywords and an intent
type TextNormalizer struct {
	stopWords map[string]bool
	verbMap   map[string]string
}

// NewTextNormalizer creates a new text normalizer
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		stopWords: buildStopWords(),
		verbMap:   buildVerbIntentMap(),
	}
}

// Normalize transforms a step into canonical keywords. Backtick-quoted
// arguments are dropped since they never carry the verb.
func (n *TextNormalizer) Normalize(input string) (keywords []string, intent string) {
	text := quotedPattern.ReplaceAllString(input, " ")
	text = strings.ToLower(text)
	text = symbolPattern.ReplaceAllString(text, " ")
	tokens := strings.Fields(text)

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !n.stopWords[token] && len(token) > 1 {
			filtered = append(filtered, token)
		}
	}
	keywords = n.lemmatizeVerbs(filtered)

	// Lemmas first so "running" reads as "run"
	intent = n.extractIntent(keywords)
	if intent == "" {
		intent = n.extractIntent(tokens)
	}
	return keywords, intent
}

// Intent returns the intent of a single verb, or an empty string
func (n *TextNormalizer) Intent(verb string) string {
	return n.verbMap[strings.ToLower(verb)]
}

// extractIntent identifies the primary intent from tokens
func (n *TextNormalizer) extractIntent(tokens []string) string {
	for _, token := range tokens {
		if intent, exists := n.verbMap[token]; exists {
			return intent
		}
	}
	return ""
}

// lemmatizeVerbs applies simple verb normalization rules
func (n *TextNormalizer) lemmatizeVerbs(tokens []string) []string {
	result := make([]string, len(tokens))
	for i, token := range tokens {
		if strings.HasSuffix(token, "ing") && len(token) > 5 {
			token = strings.TrimSuffix(token, "ing")
			// running -> run
			if len(token) > 2 && token[len(token)-1] == token[len(token)-2] {
				token = token[:len(token)-1]
			}
		} else if strings.HasSuffix(token, "ed") && len(token) > 4 {
			token = strings.TrimSuffix(token, "ed")
		} else if strings.HasSuffix(token, "s") && len(token) > 3 && !strings.HasSuffix(token, "ss") {
			token = strings.TrimSuffix(token, "s")
		}
		result[i] = token
	}
	return result
}

// buildStopWords returns common English stop words
func buildStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "will", "with", "then", "now",
		"please", "can", "could", "would", "should", "must", "i",
		"me", "my", "you", "your", "we", "our", "do", "this", "following",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// buildVerbIntentMap maps verbs to canonical intents
func buildVerbIntentMap() map[string]string {
	return map[string]string{
		// Navigate intent
		"go":    "navigate",
		"cd":    "navigate",
		"enter": "navigate",
		"move":  "move",
		"mv":    "move",

		// Create intent
		"create": "create",
		"make":   "create",
		"mkdir":  "create",
		"new":    "create",
		"link":   "create",

		// Copy intent
		"copy":      "copy",
		"cp":        "copy",
		"duplicate": "copy",
		"rename":    "move",

		// Remove intent
		"remove": "remove",
		"delete": "remove",
		"rm":     "remove",
		"erase":  "remove",
		"clean":  "remove",

		// Write intent
		"write":  "write",
		"append": "write",
		"save":   "write",
		"put":    "write",

		// Start intent
		"run":     "run",
		"execute": "run",
		"exec":    "run",
		"call":    "run",
		"invoke":  "run",
		"start":   "start",
		"launch":  "start",
		"enable":  "start",

		// Kill intent
		"kill":      "kill",
		"stop":      "kill",
		"terminate": "kill",
		"shutdown":  "kill",

		// Install intent
		"install": "install",
		"setup":   "install",
		"add":     "install",

		// Configure intent
		"chmod":  "configure",
		"chown":  "configure",
		"set":    "configure",
		"change": "configure",

		// Open intent
		"open":   "open",
		"browse": "open",
		"visit":  "open",
		"search": "open",
		"wiki":   "open",
	}
}
