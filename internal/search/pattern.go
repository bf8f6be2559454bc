package search

import (
	"regexp"
	"strings"
)

// Compile turns a raw search term into a case-insensitive matcher.
//
// A bare "*" matches everything and "++" is taken literally, so terms like
// "g++" work without regular expression knowledge. Anything else is compiled
// as given.
func Compile(raw string) (Pattern, error) {
	expr := raw
	if raw == "*" {
		expr = ".*"
	} else {
		expr = strings.ReplaceAll(expr, `++`, `\+\+`)
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Pattern{}, &PatternError{Pattern: raw, Err: err}
	}
	return Pattern{Raw: raw, re: re}, nil
}

// CompileAll compiles every term, failing on the first malformed one.
func CompileAll(raws []string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(raws))
	for _, raw := range raws {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
