package yields

import "strings"

// Classification splits a run's errors into display buckets. An error may
// appear in both buckets, or neither, when it arrives without a severity tag
// and only the message text can be consulted.
type Classification struct {
	Critical []FetchError `json:"critical"`
	Warnings []FetchError `json:"warnings"`
}

// Classify buckets errors for display. The severity tag set at creation is
// authoritative; errors from older payloads that carry no tag fall back to
// message-text matching.
func Classify(errors []FetchError) Classification {
	var c Classification
	for _, fe := range errors {
		switch fe.Severity {
		case SeverityCritical:
			c.Critical = append(c.Critical, fe)
		case SeverityWarning:
			c.Warnings = append(c.Warnings, fe)
		case SeverityInfo:
			// informational only, not displayed
		default:
			msg := strings.ToLower(fe.Message)
			if strings.Contains(msg, "failed") || strings.Contains(msg, "critical") {
				c.Critical = append(c.Critical, fe)
			}
			if strings.Contains(msg, "unavailable") || strings.Contains(msg, "estimate") {
				c.Warnings = append(c.Warnings, fe)
			}
		}
	}
	return c
}

// HasCritical reports whether any error landed in the critical bucket.
func (c Classification) HasCritical() bool { return len(c.Critical) > 0 }
