package recipe

// Catalog numbers ebuilds across a whole run. Numbers start at 1 and are
// never reset between records or patterns.
type Catalog struct {
	entries []Entry
}

// Add numbers entries continuing from the last added one and returns the
// numbered copies.
func (c *Catalog) Add(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Number = len(c.entries) + 1
		c.entries = append(c.entries, e)
		out[i] = e
	}
	return out
}

// Len is the number of ebuilds listed so far.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns every numbered ebuild in listing order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the ebuild listed as number n.
func (c *Catalog) Get(n int) (Entry, bool) {
	if n < 1 || n > len(c.entries) {
		return Entry{}, false
	}
	return c.entries[n-1], true
}

// FindDefault returns the last entry in entries whose name-version equals
// nameVersion; an overlay copy listed after the tree's wins.
func FindDefault(entries []Entry, nameVersion string) (Entry, bool) {
	var (
		found Entry
		ok    bool
	)
	for _, e := range entries {
		if e.Atom.NameVersion() == nameVersion {
			found, ok = e, true
		}
	}
	return found, ok
}
