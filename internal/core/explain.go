package core

import (
	"fmt"
	"strings"
)

const (
	invalidExplanation = "Empty or invalid email content provided."
	unknownExplanation = "Unable to classify email."
)

// Explain renders a human-readable explanation for a classification
func Explain(classification Classification, features FeatureVector, indicators IndicatorSet, confidence float64) string {
	var b strings.Builder

	switch classification {
	case ClassificationLegitimate:
		fmt.Fprintf(&b, "This email appears to be legitimate (confidence: %.2f%%).", confidence*100)
	case ClassificationSuspicious:
		fmt.Fprintf(&b, "This email shows suspicious characteristics (confidence: %.2f%%).", confidence*100)
	case ClassificationSpam:
		b.WriteString("This email appears to be spam based on multiple indicators.")
	case ClassificationPhishing:
		b.WriteString("This email shows strong phishing indicators and should be avoided.")
	case ClassificationInvalid:
		b.WriteString("Invalid or empty email content provided.")
	default:
		b.WriteString(unknownExplanation)
	}

	if len(indicators) > 0 {
		fmt.Fprintf(&b, " Detected indicators: %s.", indicators.String())
	}

	if features.UrgentWords > 0 {
		fmt.Fprintf(&b, " Contains %d urgent/suspicious words.", features.UrgentWords)
	}

	return b.String()
}
