// Package atom splits and compares Gentoo package atoms of the form
// name-version[-rN], following the Gentoo PMS version rules.
package atom

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidAtom is returned when a string is not name-version[-rN].
var ErrInvalidAtom = errors.New("invalid atom")

var (
	versionRe  = regexp.MustCompile(`^(\d+)((?:\.\d+)*)([a-z]?)((?:_(?:alpha|beta|pre|rc|p)\d*)*)$`)
	suffixRe   = regexp.MustCompile(`_(alpha|beta|pre|rc|p)(\d*)`)
	revisionRe = regexp.MustCompile(`^r\d+$`)
)

// suffix order: alpha < beta < pre < rc < (none) < p
var suffixRank = map[string]int{"alpha": 0, "beta": 1, "pre": 2, "rc": 3, "p": 5}

const noSuffixRank = 4

// Atom is a parsed name-version-revision triple. Revision is always set,
// "r0" when absent from the input.
type Atom struct {
	Name     string
	Version  string
	Revision string
}

// NameVersion returns name-version without the revision.
func (a Atom) NameVersion() string {
	return a.Name + "-" + a.Version
}

// String renders the atom, hiding an r0 revision.
func (a Atom) String() string {
	if a.Revision == "" || a.Revision == "r0" {
		return a.NameVersion()
	}
	return a.NameVersion() + "-" + a.Revision
}

// Split parses s ("foo-1.2_rc3-r1") into its name, version and revision.
func Split(s string) (Atom, error) {
	parts := strings.Split(s, "-")
	rev := "r0"
	if len(parts) > 2 && revisionRe.MatchString(parts[len(parts)-1]) {
		rev = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 2 {
		return Atom{}, fmt.Errorf("%w: %q has no version", ErrInvalidAtom, s)
	}
	ver := parts[len(parts)-1]
	if !versionRe.MatchString(ver) {
		return Atom{}, fmt.Errorf("%w: %q has malformed version %q", ErrInvalidAtom, s, ver)
	}
	name := strings.Join(parts[:len(parts)-1], "-")
	if name == "" {
		return Atom{}, fmt.Errorf("%w: %q has no name", ErrInvalidAtom, s)
	}
	return Atom{Name: name, Version: ver, Revision: rev}, nil
}

// Compare orders a and b by version, then revision. Atoms that compare equal
// under version rules fall back to name and raw text so the order is total.
func Compare(a, b Atom) int {
	if c := CompareVersions(a.Version, b.Version); c != 0 {
		return c
	}
	if c := compareInts(strings.TrimPrefix(a.Revision, "r"), strings.TrimPrefix(b.Revision, "r")); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.String(), b.String())
}

// CompareVersions compares two version strings without revisions. Malformed
// versions sort before well-formed ones and are compared as plain text.
func CompareVersions(va, vb string) int {
	ma := versionRe.FindStringSubmatch(va)
	mb := versionRe.FindStringSubmatch(vb)
	switch {
	case ma == nil && mb == nil:
		return strings.Compare(va, vb)
	case ma == nil:
		return -1
	case mb == nil:
		return 1
	}

	if c := compareInts(ma[1], mb[1]); c != 0 {
		return c
	}

	ca := splitComponents(ma[2])
	cb := splitComponents(mb[2])
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := compareComponent(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	if c := cmpInt(len(ca), len(cb)); c != 0 {
		return c
	}

	if c := strings.Compare(ma[3], mb[3]); c != 0 {
		return c
	}

	sa := suffixRe.FindAllStringSubmatch(ma[4], -1)
	sb := suffixRe.FindAllStringSubmatch(mb[4], -1)
	for i := 0; i < len(sa) || i < len(sb); i++ {
		switch {
		case i >= len(sa):
			return -suffixTail(sb[i][1])
		case i >= len(sb):
			return suffixTail(sa[i][1])
		}
		if c := cmpInt(suffixRank[sa[i][1]], suffixRank[sb[i][1]]); c != 0 {
			return c
		}
		if c := compareInts(sa[i][2], sb[i][2]); c != 0 {
			return c
		}
	}
	return 0
}

// suffixTail is the sign of an extra suffix against no suffix at all.
func suffixTail(name string) int {
	return cmpInt(suffixRank[name], noSuffixRank)
}

func splitComponents(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(s, "."), ".")
}

// compareComponent applies the leading-zero rule: a component starting with 0
// compares as a decimal fraction rather than as an integer.
func compareComponent(a, b string) int {
	if strings.HasPrefix(a, "0") || strings.HasPrefix(b, "0") {
		return strings.Compare(strings.TrimRight(a, "0"), strings.TrimRight(b, "0"))
	}
	return compareInts(a, b)
}

// compareInts compares decimal digit strings of any length; empty reads as 0.
func compareInts(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmpInt(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Versioner is the split/compare capability the recipe and render packages
// depend on. Default is backed by this package.
type Versioner interface {
	Split(s string) (Atom, error)
	Compare(a, b Atom) int
}

type pms struct{}

func (pms) Split(s string) (Atom, error) { return Split(s) }
func (pms) Compare(a, b Atom) int       { return Compare(a, b) }

// Default implements Versioner with the rules of this package.
var Default Versioner = pms{}
