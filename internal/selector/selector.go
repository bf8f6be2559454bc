// Package selector asks the user which listed ebuild to open.
package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kamusis/esearch/internal/recipe"
	"github.com/kamusis/esearch/internal/render"
)

var (
	// ErrNothingToSelect is returned when no ebuild was listed.
	ErrNothingToSelect = errors.New("no ebuilds found")
	// ErrInvalidNumber is returned for non-numeric input without a default.
	ErrInvalidNumber = errors.New("please enter a valid number")
	// ErrNoSuchEbuild is returned for a number outside the listing.
	ErrNoSuchEbuild = errors.New("no such ebuild")
	// ErrInterrupted is returned when the prompt is cancelled.
	ErrInterrupted = errors.New("selection interrupted")
)

// Selector prompts on Out and reads one line from In.
type Selector struct {
	In      io.Reader
	Out     io.Writer
	Palette render.Palette
}

// Select picks an ebuild from catalog. A single listed ebuild is chosen
// without prompting. def, when non-nil, is used for blank or non-numeric
// input. Cancelling ctx during the read yields ErrInterrupted.
func (s *Selector) Select(ctx context.Context, catalog *recipe.Catalog, def *recipe.Entry) (recipe.Entry, error) {
	if catalog == nil || catalog.Len() == 0 {
		return recipe.Entry{}, ErrNothingToSelect
	}
	if catalog.Len() == 1 {
		e, _ := catalog.Get(1)
		return e, nil
	}

	p := s.palette()
	if def != nil {
		fmt.Fprintf(s.Out, "%s (%s): ", p.Bold("Show Ebuild"), p.DarkGreen(def.Atom.String()))
	} else {
		fmt.Fprintf(s.Out, "%s ", p.Bold("Show Ebuild:"))
	}

	line, err := readLine(ctx, s.In)
	if err != nil {
		return recipe.Entry{}, err
	}
	return Choose(line, catalog, def)
}

// Choose resolves one line of user input against catalog.
func Choose(input string, catalog *recipe.Catalog, def *recipe.Entry) (recipe.Entry, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		if def != nil {
			return *def, nil
		}
		return recipe.Entry{}, ErrInvalidNumber
	}
	e, ok := catalog.Get(n)
	if !ok {
		return recipe.Entry{}, fmt.Errorf("%w: %d", ErrNoSuchEbuild, n)
	}
	return e, nil
}

// readLine blocks for one line. End of input counts as a (possibly blank)
// line; only cancellation is an error.
func readLine(ctx context.Context, in io.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("cannot read selection: %w", r.err)
		}
		return r.line, nil
	}
}

func (s *Selector) palette() render.Palette {
	if s.Palette.Bold == nil {
		return render.PlainPalette()
	}
	return s.Palette
}
