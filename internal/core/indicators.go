package core

import "regexp"

// IndicatorRule is one entry of the phishing pattern catalogue
type IndicatorRule struct {
	Name    Indicator
	Pattern *regexp.Regexp
}

// IndicatorCatalogue lists the phishing indicators in evaluation order.
// Every pattern is case-insensitive; generic_greeting only matches at the start of the text.
var IndicatorCatalogue = []IndicatorRule{
	{IndicatorUrgentAction, regexp.MustCompile(`(?i)\b(?:urgent|immediate|action required|account suspended|verify now)\b`)},
	{IndicatorPersonalInfo, regexp.MustCompile(`(?i)\b(?:password|login|account|verify|confirm|personal information)\b`)},
	{IndicatorFinancial, regexp.MustCompile(`(?i)\b(?:bank|credit card|account|payment|transfer|money)\b`)},
	{IndicatorSuspiciousLinks, regexp.MustCompile(`(?i)\b(?:click here|login here|verify here|secure link)\b`)},
	{IndicatorGrammarErrors, regexp.MustCompile(`(?i)\b(?:dear sir|madam|kindly|please find|attached herewith)\b`)},
	{IndicatorGenericGreeting, regexp.MustCompile(`(?i)^(?:dear user|dear customer|dear sir|dear madam)`)},
}

// DetectIndicators returns the catalogue entries that match text at least once
func DetectIndicators(text string) IndicatorSet {
	indicators := make(IndicatorSet, 0, len(IndicatorCatalogue))
	for _, rule := range IndicatorCatalogue {
		if rule.Pattern.MatchString(text) {
			indicators = append(indicators, rule.Name)
		}
	}
	return indicators
}
