package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	threeIndicators := IndicatorSet{IndicatorUrgentAction, IndicatorPersonalInfo, IndicatorFinancial}
	twoIndicators := IndicatorSet{IndicatorUrgentAction, IndicatorFinancial}
	allFeatures := FeatureVector{UrgentWords: 3, MoneyMentions: 1, URLCount: 3, UppercaseRatio: 0.5}

	tests := []struct {
		name       string
		proxy      ProxyResult
		features   FeatureVector
		indicators IndicatorSet
		expected   Classification
	}{
		{"confident legitimate beats indicators", ProxyResult{ProxyLegitimate, 0.95}, allFeatures, threeIndicators, ClassificationLegitimate},
		{"confident suspicious", ProxyResult{ProxySuspicious, 0.81}, FeatureVector{}, nil, ClassificationSuspicious},
		{"threshold is exclusive", ProxyResult{ProxyLegitimate, 0.8}, FeatureVector{}, threeIndicators, ClassificationPhishing},
		{"indicators beat spam score", ProxyResult{ProxySuspicious, 0.5}, allFeatures, threeIndicators, ClassificationPhishing},
		{"unknown proxy falls through to indicators", UnknownProxy, FeatureVector{}, threeIndicators, ClassificationPhishing},
		{"spam from urgent and money", ProxyResult{ProxySuspicious, 0.5}, FeatureVector{UrgentWords: 3, MoneyMentions: 1}, twoIndicators, ClassificationSpam},
		{"spam from all conditions", UnknownProxy, allFeatures, nil, ClassificationSpam},
		{"spam from three single-weight conditions", UnknownProxy, FeatureVector{MoneyMentions: 2, URLCount: 3, UppercaseRatio: 0.31}, nil, ClassificationSpam},
		{"suspicious from urgent words only", ProxyResult{ProxyLegitimate, 0.6}, FeatureVector{UrgentWords: 3}, nil, ClassificationSuspicious},
		{"suspicious from money only", ProxyResult{ProxyLegitimate, 0.6}, FeatureVector{MoneyMentions: 1}, nil, ClassificationSuspicious},
		{"suspicious from links and caps", UnknownProxy, FeatureVector{URLCount: 3, UppercaseRatio: 0.4}, nil, ClassificationSuspicious},
		{"two urgent words do not count", ProxyResult{ProxySuspicious, 0.6}, FeatureVector{UrgentWords: 2, URLCount: 2, UppercaseRatio: 0.3}, twoIndicators, ClassificationLegitimate},
		{"nothing suspicious", UnknownProxy, FeatureVector{}, IndicatorSet{}, ClassificationLegitimate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(tt.proxy, tt.features, tt.indicators))
		})
	}
}

func TestDecide_IsDeterministic(t *testing.T) {
	proxy := ProxyResult{ProxySuspicious, 0.42}
	features := FeatureVector{UrgentWords: 4, URLCount: 1}
	first := Decide(proxy, features, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(proxy, features, nil))
	}
}

func TestSuspiciousScore(t *testing.T) {
	assert.Equal(t, 0, SuspiciousScore(FeatureVector{}))
	assert.Equal(t, 2, SuspiciousScore(FeatureVector{UrgentWords: 3}))
	assert.Equal(t, 5, SuspiciousScore(FeatureVector{UrgentWords: 3, MoneyMentions: 1, URLCount: 3, UppercaseRatio: 0.31}))
}
