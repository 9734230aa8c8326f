package fanlog

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// severityTags holds the colored level tags, rendered once at init.
var severityTags = func() [len(severityNames)]string {
	var tags [len(severityNames)]string
	for i, name := range severityNames {
		c := color.New(severityPalette[i])
		c.EnableColor()
		tags[i] = c.Sprint(name)
	}
	return tags
}()

// ShouldLog reports whether a record at candidate passes the given threshold.
func ShouldLog(candidate, threshold Severity) bool {
	return candidate >= threshold
}

// Severities returns every severity in rank order.
func Severities() []Severity {
	out := make([]Severity, len(severityNames))
	for i := range severityNames {
		out[i] = Severity(i)
	}
	return out
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return int(s) < len(severityNames)
}

// String returns the display name of the severity, e.g. "Warning".
func (s Severity) String() string {
	if !s.Valid() {
		return "Severity(" + strconv.FormatUint(uint64(s), 10) + ")"
	}
	return severityNames[s]
}

// Color returns the ANSI escape sequence that opens the severity's color.
// Unknown severities use the reset sequence.
func (s Severity) Color() string {
	if !s.Valid() {
		return resetColor
	}
	return "\x1b[" + strconv.Itoa(int(severityPalette[s])) + "m"
}

// tag renders the level tag of a record.
func (s Severity) tag(colored bool) string {
	if !s.Valid() {
		return s.String()
	}
	if colored {
		return severityTags[s]
	}
	return severityNames[s]
}

// ParseSeverity looks a severity up by name. Matching is case-insensitive and "warn"
// is accepted for WarningIssuer. Unknown names report false.
func ParseSeverity(name string) (Severity, bool) {
	trimmed := strings.TrimSpace(name)
	if strings.EqualFold(trimmed, "warn") {
		return WarningIssuer, true
	}
	for i, candidate := range severityNames {
		if strings.EqualFold(trimmed, candidate) {
			return Severity(i), true
		}
	}
	return NoneIssuer, false
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Errorf("fanlog: invalid severity %d", uint32(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so severities can be named in
// configuration files.
func (s *Severity) UnmarshalText(text []byte) error {
	level, ok := ParseSeverity(string(text))
	if !ok {
		return errors.Errorf("fanlog: unknown severity %q", string(text))
	}
	*s = level
	return nil
}
