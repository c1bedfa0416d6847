package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

type WatchEntry struct {
	Symbol  string   `yaml:"symbol"`
	Company string   `yaml:"company"`
	Aliases []string `yaml:"aliases"`
}

// Lexicon is the keyword configuration behind the heuristic classifier.
type Lexicon struct {
	Sentiment struct {
		Positive []string `yaml:"positive"`
		Negative []string `yaml:"negative"`
	} `yaml:"sentiment"`
	Regional  []string     `yaml:"regional"`
	Finance   []string     `yaml:"finance"`
	Watchlist []WatchEntry `yaml:"watchlist"`
}

// LoadLexicon reads a lexicon from path, or the built-in one when path is
// empty.
func LoadLexicon(path string) (*Lexicon, error) {
	data := defaultLexicon
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read lexicon: %w", err)
		}
		data = b
	}
	return ParseLexicon(data)
}

func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	if len(lex.Sentiment.Positive) == 0 || len(lex.Sentiment.Negative) == 0 {
		return nil, fmt.Errorf("parse lexicon: sentiment keyword lists must not be empty")
	}

	lex.Sentiment.Positive = lowerAll(lex.Sentiment.Positive)
	lex.Sentiment.Negative = lowerAll(lex.Sentiment.Negative)
	lex.Regional = lowerAll(lex.Regional)
	lex.Finance = lowerAll(lex.Finance)

	return &lex, nil
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
