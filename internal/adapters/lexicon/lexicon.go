package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Lexicon holds weighted sentiment words
type Lexicon struct {
	PositiveWords map[string]float64 `json:"positive_words"`
	NegativeWords map[string]float64 `json:"negative_words"`
	Negators      []string           `json:"negators"`
	Intensifiers  map[string]float64 `json:"intensifiers"`
}

// LoadLexicon reads a lexicon from a JSON file
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}

	if len(lex.PositiveWords) == 0 && len(lex.NegativeWords) == 0 {
		return nil, fmt.Errorf("lexicon %s contains no sentiment words", path)
	}

	lex.normalize()
	return &lex, nil
}

// normalize lower-cases every entry so lookups can use lower-cased tokens
func (l *Lexicon) normalize() {
	l.PositiveWords = lowerKeys(l.PositiveWords)
	l.NegativeWords = lowerKeys(l.NegativeWords)
	l.Intensifiers = lowerKeys(l.Intensifiers)
	for i, negator := range l.Negators {
		l.Negators[i] = strings.ToLower(negator)
	}
}

func (l *Lexicon) isNegator(word string) bool {
	for _, negator := range l.Negators {
		if negator == word {
			return true
		}
	}
	return false
}

func lowerKeys(words map[string]float64) map[string]float64 {
	lowered := make(map[string]float64, len(words))
	for word, score := range words {
		lowered[strings.ToLower(strings.TrimSpace(word))] = score
	}
	return lowered
}

// DefaultLexicon returns the built-in English lexicon
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		PositiveWords: map[string]float64{
			"good": 0.8, "great": 0.9, "excellent": 1.0, "thanks": 0.7, "thank": 0.7,
			"appreciate": 0.8, "happy": 0.8, "glad": 0.7, "pleased": 0.7, "welcome": 0.6,
			"love": 0.9, "wonderful": 0.9, "nice": 0.6, "best": 0.7, "regards": 0.5,
			"enjoy": 0.7, "helpful": 0.7, "success": 0.7, "successful": 0.7, "congratulations": 0.6,
			"meeting": 0.3, "team": 0.3, "agenda": 0.3, "follow": 0.2, "looking": 0.2,
			"forward": 0.3, "kind": 0.5, "hope": 0.5, "well": 0.4, "cheers": 0.5,
		},
		NegativeWords: map[string]float64{
			"urgent": 0.9, "immediately": 0.8, "suspended": 1.0, "suspend": 0.9, "locked": 0.8,
			"expired": 0.7, "expire": 0.7, "verify": 0.6, "confirm": 0.4, "warning": 0.8,
			"alert": 0.7, "security": 0.5, "unauthorized": 0.9, "fraud": 1.0, "problem": 0.6,
			"failed": 0.7, "failure": 0.7, "terminated": 0.9, "penalty": 0.8, "risk": 0.6,
			"lose": 0.7, "loss": 0.7, "bad": 0.7, "terrible": 0.9, "unfortunately": 0.6,
			"error": 0.6, "violation": 0.9, "restricted": 0.8, "limited": 0.5, "act": 0.4,
			"now": 0.3, "winner": 0.7, "prize": 0.6, "lottery": 0.8, "free": 0.5,
			"password": 0.6, "click": 0.5, "deadline": 0.5, "final": 0.5, "notice": 0.4,
		},
		Negators: []string{"not", "no", "never", "don't", "didn't", "isn't", "wasn't", "won't", "cannot"},
		Intensifiers: map[string]float64{
			"very": 1.5, "extremely": 2.0, "really": 1.3, "highly": 1.5, "most": 1.3,
		},
	}
	lex.normalize()
	return lex
}
