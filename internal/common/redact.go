package common

import (
	"regexp"
	"strings"
)

// RedactedMarker replaces non-empty header values in dry-run views.
const RedactedMarker = "REDACTED"

// maskedMarker replaces sensitive values in log output.
const maskedMarker = "***MASKED***"

// RedactHeaders returns a copy of headers safe for display: every non-empty
// value is replaced with RedactedMarker, empty values stay empty so the
// header set remains inspectable.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if v == "" {
			out[k] = ""
			continue
		}
		out[k] = RedactedMarker
	}
	return out
}

// sensitiveKeys are attribute names whose values are always masked in logs.
var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"authorization": {},
	"auth":          {},
	"secret":        {},
	"password":      {},
}

var schemeTokenRe = regexp.MustCompile(`(?i)\b(Bearer|Basic)\s+[A-Za-z0-9\-._~+/]+=*`)

// Masker hides token-like values in log attributes.
type Masker struct {
	enabled bool
}

func NewMasker() *Masker {
	return &Masker{enabled: true}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

// MaskValue masks a log attribute value based on its key and content.
func (m *Masker) MaskValue(key, value string) string {
	if !m.enabled || value == "" {
		return value
	}
	if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
		return maskedMarker
	}
	return schemeTokenRe.ReplaceAllString(value, "$1 "+maskedMarker)
}

// Global masker shared by the log handlers.
var globalMasker = NewMasker()

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// EnableMasking enables/disables global masking
func EnableMasking(enabled bool) {
	globalMasker.SetEnabled(enabled)
}
