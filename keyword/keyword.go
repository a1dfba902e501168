package keyword

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoKeywords is returned when the keyword list is empty. An empty list
	// would select every sample.
	ErrNoKeywords = errors.New("at least one keyword is required")

	// ErrEmptyKeyword is returned when one of the keywords is the empty string,
	// which is a substring of every category.
	ErrEmptyKeyword = errors.New("keywords may not be empty strings")
)

// Matcher tests a category label against a set of keywords. A label matches
// if it contains at least one keyword.
type Matcher struct {
	keywords   []string
	ignoreCase bool
	re         *regexp.Regexp // nil unless keywords are regular expressions
}

// NewMatcher builds a Matcher for keywords. Matching is case-sensitive
// substring matching unless ignoreCase is set. If regex is set the keywords
// are joined into a single alternation and matched as a regular expression.
func NewMatcher(keywords []string, ignoreCase, regex bool) (*Matcher, error) {
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	m := &Matcher{
		keywords:   make([]string, len(keywords)),
		ignoreCase: ignoreCase,
	}
	for i := range keywords {
		if keywords[i] == "" {
			return nil, ErrEmptyKeyword
		}
		m.keywords[i] = keywords[i]
		if ignoreCase {
			m.keywords[i] = strings.ToLower(keywords[i])
		}
	}

	if regex {
		pattern := m.Pattern()
		if ignoreCase {
			pattern = "(?i)" + strings.Join(keywords, "|")
		}
		var err error
		m.re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid keyword pattern %q: %w", pattern, err)
		}
	}
	return m, nil
}

// Match returns true if s contains any of the keywords.
func (m *Matcher) Match(s string) bool {
	if m.re != nil {
		return m.re.MatchString(s)
	}
	if m.ignoreCase {
		s = strings.ToLower(s)
	}
	for i := range m.keywords {
		if strings.Contains(s, m.keywords[i]) {
			return true
		}
	}
	return false
}

// Pattern returns the keywords joined as an alternation, e.g. "Breast|Lung".
func (m *Matcher) Pattern() string {
	return strings.Join(m.keywords, "|")
}
