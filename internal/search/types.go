package search

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kamusis/esearch/internal/search/index"
)

// ErrConflictingScope is returned when full-name and description search are
// both requested.
var ErrConflictingScope = errors.New("please use either --fullname or --searchdesc")

// PatternError reports a search term that is not a valid regular expression.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Scope selects which record field a pattern is tested against.
type Scope int

const (
	// ScopeName tests the package name only.
	ScopeName Scope = iota
	// ScopeFullName tests category/name.
	ScopeFullName
)

// Options are the per-run matching settings.
type Options struct {
	Scope         Scope
	Description   bool // also test the description
	InstalledOnly bool
}

// Validate rejects option combinations that cannot be matched.
func (o Options) Validate() error {
	if o.Scope == ScopeFullName && o.Description {
		return ErrConflictingScope
	}
	return nil
}

// Pattern is one compiled search term.
type Pattern struct {
	Raw string
	re  *regexp.Regexp
}

// MatchString reports whether s matches the pattern.
func (p Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// Result is the outcome of matching one pattern against the store.
type Result struct {
	Pattern Pattern
	Records []index.Record
}

// Count is the number of matched records.
func (r Result) Count() int { return len(r.Records) }
