// Package mask implements named, reusable filters over S3 object keys.
package mask

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned when a mask is compiled without a pattern.
var ErrEmptyPattern = errors.New("mask pattern cannot be empty")

// Kind is the matching mode of a mask.
type Kind string

const (
	KindPrefix   Kind = "prefix"
	KindSuffix   Kind = "suffix"
	KindContains Kind = "contains"
	KindRegex    Kind = "regex"
)

// kinds in editor cycle order
var kinds = []Kind{KindPrefix, KindSuffix, KindContains, KindRegex}

// Next returns the kind following k in the editor cycle.
func (k Kind) Next() Kind {
	for i, kind := range kinds {
		if kind == k {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return KindPrefix
}

// Prev returns the kind preceding k in the editor cycle.
func (k Kind) Prev() Kind {
	for i, kind := range kinds {
		if kind == k {
			return kinds[(i+len(kinds)-1)%len(kinds)]
		}
	}
	return KindPrefix
}

func (k Kind) String() string { return string(k) }

// Mask is a compiled predicate over object keys. Build it with Compile,
// a zero Mask matches nothing useful.
type Mask struct {
	Name          string `json:"name"`
	Pattern       string `json:"pattern"`
	Kind          Kind   `json:"kind"`
	CaseSensitive bool   `json:"caseSensitive"`

	re *regexp.Regexp
}

// Compile validates the pattern and returns a usable mask. Regex
// patterns must compile; the returned mask is the only way a regex
// becomes active.
func Compile(name, pattern string, kind Kind, caseSensitive bool) (*Mask, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	m := &Mask{
		Name:          name,
		Pattern:       pattern,
		Kind:          kind,
		CaseSensitive: caseSensitive,
	}
	if kind == KindRegex {
		expr := pattern
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("Compile: invalid regex %q: %w", pattern, err)
		}
		m.re = re
	}
	return m, nil
}

// Matches reports whether key is selected by the mask. The regex kind
// searches anywhere in the key, it is not anchored.
func (m *Mask) Matches(key string) bool {
	if m.Kind == KindRegex {
		return m.re != nil && m.re.MatchString(key)
	}
	pattern := m.Pattern
	if !m.CaseSensitive {
		key = strings.ToLower(key)
		pattern = strings.ToLower(pattern)
	}
	switch m.Kind {
	case KindPrefix:
		return strings.HasPrefix(key, pattern)
	case KindSuffix:
		return strings.HasSuffix(key, pattern)
	case KindContains:
		return strings.Contains(key, pattern)
	default:
		return false
	}
}

// Summary is the one-line description used in status messages and the
// mask pane.
func (m *Mask) Summary() string {
	caseMark := ""
	if m.CaseSensitive {
		caseMark = " (case-sensitive)"
	}
	return fmt.Sprintf("%s [%s] %q%s", m.Name, m.Kind, m.Pattern, caseMark)
}
