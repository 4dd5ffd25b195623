package filter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mikey/email-guardian/internal/core"
)

// Output formats supported by the CLI filter
const (
	FormatJSON  = "json"
	FormatText  = "text"
	FormatTable = "table"
)

// FormatResult writes an analysis result to w in the requested format.
// Unknown formats fall back to JSON.
func FormatResult(w io.Writer, result *core.AnalysisResult, format string) error {
	switch format {
	case FormatText:
		_, err := io.WriteString(w, formatText(result))
		return err
	case FormatTable:
		_, err := fmt.Fprintf(w, "%s\t%.2f%%\t%s\n", result.Classification, result.Confidence*100, result.Explanation)
		return err
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
}

func formatText(result *core.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("Email Analysis Results\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Classification: %s\n", strings.ToUpper(string(result.Classification)))
	fmt.Fprintf(&b, "Confidence: %.2f%%\n", result.Confidence*100)
	fmt.Fprintf(&b, "Explanation: %s\n", result.Explanation)
	b.WriteString("\nFeatures:\n")
	fmt.Fprintf(&b, "  - Text length: %d characters\n", result.Features.Length)
	fmt.Fprintf(&b, "  - Word count: %d\n", result.Features.WordCount)
	fmt.Fprintf(&b, "  - URLs found: %d\n", result.Features.URLCount)
	fmt.Fprintf(&b, "  - Emails found: %d\n", result.Features.EmailCount)
	fmt.Fprintf(&b, "  - Urgent words: %d\n", result.Features.UrgentWords)

	if len(result.Indicators) > 0 {
		b.WriteString("\nDetected Indicators:\n")
		for _, indicator := range result.Indicators {
			fmt.Fprintf(&b, "  - %s\n", indicator)
		}
	}

	return b.String()
}
