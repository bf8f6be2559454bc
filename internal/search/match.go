package search

import "github.com/kamusis/esearch/internal/search/index"

// Match returns the records matching p in store order.
func Match(p Pattern, opts Options, records []index.Record) Result {
	var out []index.Record
	for _, r := range records {
		if matches(p, opts, r) {
			out = append(out, r)
		}
	}
	return Result{Pattern: p, Records: out}
}

// MatchAll validates opts and matches each pattern independently.
func MatchAll(patterns []Pattern, opts Options, records []index.Record) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, Match(p, opts, records))
	}
	return out, nil
}

func matches(p Pattern, opts Options, r index.Record) bool {
	if opts.InstalledOnly && !r.Installed() {
		return false
	}
	field := r.Name
	if opts.Scope == ScopeFullName {
		field = r.FullName
	}
	if p.MatchString(field) {
		return true
	}
	return opts.Description && p.MatchString(r.Description)
}
