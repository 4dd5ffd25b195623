package core

// Decision thresholds of the classification cascade
const (
	highConfidenceThreshold  = 0.8
	phishingIndicatorCount   = 3
	spamScoreThreshold       = 3
	suspiciousScoreThreshold = 1
)

// Decide combines the proxy result, features and indicators into a final
// classification. Rules are evaluated in priority order and the first match wins.
func Decide(proxy ProxyResult, features FeatureVector, indicators IndicatorSet) Classification {
	if proxy.Confidence > highConfidenceThreshold {
		if proxy.Label == ProxyLegitimate {
			return ClassificationLegitimate
		}
		return ClassificationSuspicious
	}

	if len(indicators) >= phishingIndicatorCount {
		return ClassificationPhishing
	}

	score := SuspiciousScore(features)
	switch {
	case score >= spamScoreThreshold:
		return ClassificationSpam
	case score >= suspiciousScoreThreshold:
		return ClassificationSuspicious
	default:
		return ClassificationLegitimate
	}
}

// SuspiciousScore sums the weighted feature conditions used by the cascade
func SuspiciousScore(features FeatureVector) int {
	score := 0
	if features.UrgentWords > 2 {
		score += 2
	}
	if features.MoneyMentions > 0 {
		score++
	}
	if features.URLCount > 2 {
		score++
	}
	if features.UppercaseRatio > 0.3 {
		score++
	}
	return score
}
