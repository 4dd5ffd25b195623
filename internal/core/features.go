package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Patterns used by the feature extractor
var (
	urlPattern   = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	moneyPattern = regexp.MustCompile(`(?i)\$[\d,]+|\d+\s*(?:dollars?|euros?|pounds?)`)
)

// UrgentVocabulary is the word list counted by the urgent_words feature
var UrgentVocabulary = []string{
	"urgent", "immediate", "action", "required", "account", "suspended",
	"verify", "confirm", "password", "login", "security",
}

var urgentPattern = wordListPattern(UrgentVocabulary)

// wordListPattern compiles a case-insensitive whole-word alternation
func wordListPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ExtractFeatures derives the feature vector of text. It never fails.
func ExtractFeatures(text string) FeatureVector {
	length := utf8.RuneCountInString(text)
	if length == 0 {
		return FeatureVector{}
	}

	uppercase := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			uppercase++
		}
	}

	return FeatureVector{
		Length:           length,
		WordCount:        len(strings.Fields(text)),
		UppercaseRatio:   float64(uppercase) / float64(length),
		ExclamationCount: strings.Count(text, "!"),
		QuestionCount:    strings.Count(text, "?"),
		URLCount:         len(urlPattern.FindAllStringIndex(text, -1)),
		EmailCount:       len(emailPattern.FindAllStringIndex(text, -1)),
		MoneyMentions:    len(moneyPattern.FindAllStringIndex(text, -1)),
		UrgentWords:      len(urgentPattern.FindAllStringIndex(text, -1)),
	}
}
