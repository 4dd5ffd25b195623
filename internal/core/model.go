package core

import (
	"encoding/json"
	"strings"
	"time"
)

// Email represents an email message
type Email struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
	Body    string
	Headers map[string][]string
}

// Text returns the content the engine analyzes for this email
func (e *Email) Text() string {
	if e.Subject == "" {
		return e.Body
	}
	return e.Subject + "\n\n" + e.Body
}

// Classification is the final verdict of the decision cascade
type Classification string

const (
	ClassificationLegitimate Classification = "legitimate"
	ClassificationSuspicious Classification = "suspicious"
	ClassificationSpam       Classification = "spam"
	ClassificationPhishing   Classification = "phishing"
	ClassificationInvalid    Classification = "invalid"
)

// Classifications lists every final classification value
var Classifications = []Classification{
	ClassificationLegitimate,
	ClassificationSuspicious,
	ClassificationSpam,
	ClassificationPhishing,
	ClassificationInvalid,
}

// IsThreat reports whether the classification should be treated as unwanted mail
func (c Classification) IsThreat() bool {
	return c == ClassificationSpam || c == ClassificationPhishing
}

// ProxyLabel is the engine's two-class view of the sentiment model output
type ProxyLabel string

const (
	ProxyLegitimate ProxyLabel = "legitimate"
	ProxySuspicious ProxyLabel = "suspicious"
	ProxyUnknown    ProxyLabel = "unknown"
)

// ProxyResult is the mapped output of the sentiment model
type ProxyResult struct {
	Label      ProxyLabel
	Confidence float64
}

// UnknownProxy is returned whenever the sentiment model could not produce a result
var UnknownProxy = ProxyResult{Label: ProxyUnknown, Confidence: 0.0}

// Sentiment is the native output of a pretrained sentiment model
type Sentiment struct {
	Label string
	Score float64
}

// FeatureVector holds the lexical and structural features of a text
type FeatureVector struct {
	Length           int     `json:"length"`
	WordCount        int     `json:"word_count"`
	UppercaseRatio   float64 `json:"uppercase_ratio"`
	ExclamationCount int     `json:"exclamation_count"`
	QuestionCount    int     `json:"question_count"`
	URLCount         int     `json:"url_count"`
	EmailCount       int     `json:"email_count"`
	MoneyMentions    int     `json:"money_mentions"`
	UrgentWords      int     `json:"urgent_words"`
}

// Indicator names a phishing pattern category
type Indicator string

const (
	IndicatorUrgentAction    Indicator = "urgent_action"
	IndicatorPersonalInfo    Indicator = "personal_info"
	IndicatorFinancial       Indicator = "financial"
	IndicatorSuspiciousLinks Indicator = "suspicious_links"
	IndicatorGrammarErrors   Indicator = "grammar_errors"
	IndicatorGenericGreeting Indicator = "generic_greeting"
)

// IndicatorSet is the set of indicators matched in a text, kept in catalogue order
type IndicatorSet []Indicator

// Names returns the indicator names as plain strings
func (s IndicatorSet) Names() []string {
	names := make([]string, len(s))
	for i, indicator := range s {
		names[i] = string(indicator)
	}
	return names
}

// String joins the indicator names with commas
func (s IndicatorSet) String() string {
	return strings.Join(s.Names(), ", ")
}

// MarshalJSON encodes the set as a list, never null
func (s IndicatorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// AnalysisResult is the record returned by the engine for one text
type AnalysisResult struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Explanation    string         `json:"explanation"`
	Features       FeatureVector  `json:"features"`
	Indicators     IndicatorSet   `json:"indicators"`
	TextLength     int            `json:"raw_text_length"`
}

// ScanRequest is a request from a hosting collaborator to scan some content
type ScanRequest struct {
	Content string
	UserID  string
}

// ScanRecord is a stored scan, as kept in the history
type ScanRecord struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Explanation    string         `json:"explanation"`
	Features       FeatureVector  `json:"features"`
	Indicators     IndicatorSet   `json:"indicators"`
	UserID         string         `json:"user_id,omitempty"`
}

// HistoryPage is a window over the scan history
type HistoryPage struct {
	Scans      []*ScanRecord `json:"scans"`
	TotalCount int           `json:"total_count"`
}

// RecentActivity summarises the last 24 hours of scans
type RecentActivity struct {
	Last24Hours       int     `json:"last_24_hours"`
	AverageConfidence float64 `json:"average_confidence"`
}

// ScanStats aggregates the scan history
type ScanStats struct {
	TotalScans      int                    `json:"total_scans"`
	Classifications map[Classification]int `json:"classifications"`
	RecentActivity  RecentActivity         `json:"recent_activity"`
}
