package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFeatures_Empty(t *testing.T) {
	features := ExtractFeatures("")

	assert.Equal(t, FeatureVector{}, features)
	assert.Equal(t, 0.0, features.UppercaseRatio)
}

func TestExtractFeatures_Counts(t *testing.T) {
	text := "Hello WORLD! Are you there? Really?"
	features := ExtractFeatures(text)

	assert.Equal(t, 35, features.Length)
	assert.Equal(t, 6, features.WordCount)
	assert.Equal(t, 1, features.ExclamationCount)
	assert.Equal(t, 2, features.QuestionCount)
	// H, W, O, R, L, D, A, R
	assert.InDelta(t, 8.0/35.0, features.UppercaseRatio, 1e-9)
}

func TestExtractFeatures_WordCountUsesAnyWhitespace(t *testing.T) {
	assert.Equal(t, 3, ExtractFeatures("  a  b\tc\n").WordCount)
}

func TestExtractFeatures_URLs(t *testing.T) {
	features := ExtractFeatures("Visit http://a.com and https://b.org/x?y=1 now, not ftp://c.net")
	assert.Equal(t, 2, features.URLCount)
}

func TestExtractFeatures_EmailAddresses(t *testing.T) {
	features := ExtractFeatures("Write to bob@example.com or alice.smith@corp.co.uk, not bob@localhost")
	assert.Equal(t, 2, features.EmailCount)
}

func TestExtractFeatures_MoneyMentions(t *testing.T) {
	features := ExtractFeatures("$1,000 and 50 dollars and 20euros and 3 POUNDS but not 7 yen")
	assert.Equal(t, 4, features.MoneyMentions)
}

func TestExtractFeatures_UrgentWordsAreWholeWordsAndCaseInsensitive(t *testing.T) {
	features := ExtractFeatures("URGENT: verify your Account. Security action required!")
	assert.Equal(t, 6, features.UrgentWords)

	features = ExtractFeatures("passwords are not a password")
	assert.Equal(t, 1, features.UrgentWords)
}

func TestExtractFeatures_UppercaseRatioBounds(t *testing.T) {
	for _, text := range []string{"ABC", "ÄÖÜ", "abc", "123 !!!", "MiXeD CaSe"} {
		ratio := ExtractFeatures(text).UppercaseRatio
		assert.GreaterOrEqual(t, ratio, 0.0, text)
		assert.LessOrEqual(t, ratio, 1.0, text)
	}
	assert.Equal(t, 1.0, ExtractFeatures("ÄÖÜ").UppercaseRatio)
	assert.Equal(t, 3, ExtractFeatures("ÄÖÜ").Length)
}

func TestExtractFeatures_IsPure(t *testing.T) {
	text := "Dear user, click http://x.io to VERIFY your $100 refund!"
	assert.Equal(t, ExtractFeatures(text), ExtractFeatures(text))
}
