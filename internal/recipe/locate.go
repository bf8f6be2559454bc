// Package recipe finds the ebuilds of a package in the repository and its
// overlays, and numbers them for interactive selection.
package recipe

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/kamusis/esearch/internal/atom"
)

// Suffix is the file extension of a build recipe.
const Suffix = ".ebuild"

// Entry is one ebuild found on disk.
type Entry struct {
	Atom    atom.Atom
	Path    string
	Overlay bool
	Number  int // 1-based position in the run's Catalog, 0 until added
}

// Source names the tree the entry came from.
func (e Entry) Source() string {
	if e.Overlay {
		return "Overlay"
	}
	return "Portage"
}

// Locator scans a primary tree and optional overlays for ebuilds.
type Locator struct {
	RepoRoot  string
	Overlays  []string
	Versioner atom.Versioner
	Logger    *slog.Logger
}

// NewLocator returns a Locator using the default version rules.
func NewLocator(repoRoot string, overlays []string, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{RepoRoot: repoRoot, Overlays: overlays, Versioner: atom.Default, Logger: logger}
}

// Find returns the ebuilds of fullName: the primary tree first, then each
// overlay in order, each directory sorted ascending by version.
func (l *Locator) Find(fullName string) ([]Entry, error) {
	out, err := l.scanDir(filepath.Join(l.RepoRoot, fullName), false)
	if err != nil {
		return nil, err
	}
	for _, ov := range l.Overlays {
		if ov == "" {
			continue
		}
		entries, err := l.scanDir(filepath.Join(ov, fullName), true)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func (l *Locator) scanDir(dir string, overlay bool) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot list %s: %w", dir, err)
	}

	var out []Entry
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, Suffix) {
			continue
		}
		a, err := l.versioner().Split(strings.TrimSuffix(name, Suffix))
		if err != nil {
			l.Logger.Debug("skipping unparsable ebuild", "path", filepath.Join(dir, name), "err", err)
			continue
		}
		out = append(out, Entry{Atom: a, Path: filepath.Join(dir, name), Overlay: overlay})
	}
	l.Sort(out)
	return out, nil
}

// Sort orders entries ascending by version, then revision.
func (l *Locator) Sort(entries []Entry) {
	v := l.versioner()
	sort.SliceStable(entries, func(i, j int) bool {
		return v.Compare(entries[i].Atom, entries[j].Atom) < 0
	})
}

func (l *Locator) versioner() atom.Versioner {
	if l.Versioner == nil {
		return atom.Default
	}
	return l.Versioner
}
