package recipe

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/kamusis/esearch/internal/search/index"
)

// ErrNotInTree is returned when a package from the index no longer has an
// ebuild in any tree.
var ErrNotInTree = errors.New("package is no longer in the portage tree")

// Details is the extra information shown in verbose mode.
type Details struct {
	Unstable string   // best version in the tree, keyworded or not
	IUSE     []string // USE flags of the latest available ebuild, sorted
}

// Repository answers verbose-mode lookups from the ebuild tree.
type Repository struct {
	Locator *Locator
}

// Details looks up rec in the tree. It fails with ErrNotInTree when the
// package or its latest available ebuild has been removed since the index was
// built.
func (r *Repository) Details(rec index.Record) (Details, error) {
	entries, err := r.Locator.Find(rec.FullName)
	if err != nil {
		return Details{}, err
	}
	if len(entries) == 0 {
		return Details{}, fmt.Errorf("%w: %s", ErrNotInTree, rec.FullName)
	}

	all := make([]Entry, len(entries))
	copy(all, entries)
	r.Locator.Sort(all)
	best := all[len(all)-1].Atom

	latest, ok := FindDefault(all, rec.Name+"-"+rec.LatestAvailable)
	if !ok {
		return Details{}, fmt.Errorf("%w: %s-%s", ErrNotInTree, rec.FullName, rec.LatestAvailable)
	}
	iuse, err := ReadIUSE(latest.Path)
	if err != nil {
		return Details{}, err
	}

	unstable := best.Version
	if best.Revision != "r0" {
		unstable += "-" + best.Revision
	}
	return Details{Unstable: unstable, IUSE: iuse}, nil
}

// ReadIUSE collects the IUSE assignments of an ebuild. Default markers (+/-)
// are stripped, variable references are dropped, and the result is sorted
// and de-duplicated.
func ReadIUSE(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotInTree, path)
		}
		return nil, fmt.Errorf("cannot open ebuild %s: %w", path, err)
	}
	defer f.Close()

	seen := map[string]bool{}
	var pending strings.Builder
	inValue := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !inValue {
			trimmed := strings.TrimSpace(line)
			rest, ok := cutAssignment(trimmed)
			if !ok {
				continue
			}
			pending.Reset()
			line = rest
			inValue = true
		}
		pending.WriteString(line)
		pending.WriteByte('\n')
		if strings.Count(pending.String(), `"`)%2 == 1 {
			continue
		}
		inValue = false
		words, err := shlex.Split(pending.String())
		if err != nil {
			continue
		}
		for _, w := range words {
			for _, flag := range strings.Fields(w) {
				flag = strings.TrimLeft(flag, "+-")
				if flag == "" || strings.ContainsAny(flag, "${}") {
					continue
				}
				seen[flag] = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ebuild %s: %w", path, err)
	}

	out := make([]string, 0, len(seen))
	for flag := range seen {
		out = append(out, flag)
	}
	sort.Strings(out)
	return out, nil
}

func cutAssignment(line string) (string, bool) {
	for _, prefix := range []string{"IUSE+=", "IUSE="} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return rest, true
		}
	}
	return "", false
}
