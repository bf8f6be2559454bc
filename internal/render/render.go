// Package render formats matched records in one of the five report styles.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kamusis/esearch/internal/recipe"
	"github.com/kamusis/esearch/internal/search"
	"github.com/kamusis/esearch/internal/search/index"
)

// Section is the rendered output of one pattern.
type Section struct {
	Pattern string
	Text    string
	Count   int
}

// Report is the rendered output of a whole run.
type Report struct {
	Mode     Mode
	Sections []Section
	// Catalog holds every listed ebuild in RecipeList mode, numbered across
	// the run.
	Catalog *recipe.Catalog
	// Default is the ebuild chosen on blank input, set only when the run had
	// exactly one pattern with exactly one match.
	Default *recipe.Entry
	// Skipped lists records dropped because a lookup failed.
	Skipped []error
}

// Renderer turns match results into a Report.
type Renderer struct {
	Mode    Mode
	Palette Palette
	// Repository serves Verbose lookups; Locator serves RecipeList listings.
	Repository *recipe.Repository
	Locator    *recipe.Locator
	// USE is the set of enabled USE flags.
	USE    map[string]bool
	Logger *slog.Logger
}

// strategy renders records for one output mode. begin is called before the
// first record of each pattern.
type strategy interface {
	begin(p search.Pattern)
	write(b *strings.Builder, rec index.Record) error
}

// Render formats results in order. Records whose lookup fails are skipped and
// reported in Report.Skipped; they do not count as matches.
func (r *Renderer) Render(results []search.Result) *Report {
	rep := &Report{Mode: r.Mode}
	s, recipes := r.strategy()
	if recipes != nil {
		rep.Catalog = &recipes.catalog
	}

	for _, res := range results {
		s.begin(res.Pattern)
		var b strings.Builder
		count := 0
		for _, rec := range res.Records {
			if err := s.write(&b, rec); err != nil {
				r.logger().Debug("skipping record", "package", rec.FullName, "err", err)
				rep.Skipped = append(rep.Skipped, err)
				continue
			}
			count++
		}
		rep.Sections = append(rep.Sections, Section{Pattern: res.Pattern.Raw, Text: b.String(), Count: count})
	}

	if recipes != nil && len(rep.Sections) == 1 && rep.Sections[0].Count == 1 && len(recipes.defaults) == 1 {
		d := recipes.defaults[0]
		rep.Default = &d
	}
	return rep
}

// Write prints the report. Normal mode frames each pattern's output with a
// header and a trailing blank line.
func (r *Renderer) Write(w io.Writer, rep *Report) error {
	p := r.palette()
	for _, sec := range rep.Sections {
		if rep.Mode.Kind == Normal {
			if _, err := fmt.Fprintf(w, "[ Results for search key : %s ]\n[ Applications found : %s ]\n\n",
				p.Bold(sec.Pattern), p.Bold(fmt.Sprint(sec.Count))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, sec.Text); err != nil {
			return err
		}
		if rep.Mode.Kind == Normal {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) strategy() (strategy, *recipeStrategy) {
	p := r.palette()
	switch r.Mode.Kind {
	case Compact:
		return compactStrategy{p: p}, nil
	case Verbose:
		return &normalStrategy{p: p, repo: r.Repository, use: r.USE}, nil
	case RecipeList:
		rs := &recipeStrategy{p: p, locator: r.Locator}
		return rs, rs
	case CustomTemplate:
		return templateStrategy{format: r.Mode.Template}, nil
	default:
		return &normalStrategy{p: p}, nil
	}
}

func (r *Renderer) palette() Palette {
	if r.Palette.Bold == nil {
		return PlainPalette()
	}
	return r.Palette
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// normalStrategy renders the multi-line block; with a repository it adds the
// verbose unstable version and USE flag lines.
type normalStrategy struct {
	p    Palette
	repo *recipe.Repository
	use  map[string]bool
}

func (s *normalStrategy) begin(search.Pattern) {}

func (s *normalStrategy) write(b *strings.Builder, rec index.Record) error {
	var details recipe.Details
	if s.repo != nil {
		d, err := s.repo.Details(rec)
		if err != nil {
			return err
		}
		details = d
	}

	p := s.p
	installed := rec.LatestInstalled
	if installed == "" {
		installed = "[ Not Installed ]"
	}
	masked := ""
	if rec.Masked {
		masked = p.Red(" [ Masked ]")
	}
	fmt.Fprintf(b, "%s  %s%s\n      %s %s\n      %s %s\n",
		p.Green("*"), p.Bold(rec.FullName), masked,
		p.DarkGreen("Latest version available:"), rec.LatestAvailable,
		p.DarkGreen("Latest version installed:"), installed)

	if s.repo != nil {
		fmt.Fprintf(b, "      %s         %s\n      %s       %s\n",
			p.DarkGreen("Unstable version:"), details.Unstable,
			p.DarkGreen("Use Flags (stable):"), s.flags(details.IUSE))
	}

	fmt.Fprintf(b, "      %s %s\n      %s    %s\n      %s %s\n      %s     %s\n\n",
		p.DarkGreen("Size of downloaded files:"), rec.DownloadSize,
		p.DarkGreen("Homepage:"), rec.Homepage,
		p.DarkGreen("Description:"), rec.Description,
		p.DarkGreen("License:"), rec.License)
	return nil
}

// flags marks each IUSE flag as enabled (+) or disabled (-) against the
// active USE set. iuse is already sorted.
func (s *normalStrategy) flags(iuse []string) string {
	if len(iuse) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, f := range iuse {
		if s.use[f] {
			b.WriteString(s.p.Red("+" + f))
		} else {
			b.WriteString(s.p.Blue("-" + f))
		}
		b.WriteByte(' ')
	}
	return b.String()
}

type compactStrategy struct {
	p Palette
}

func (compactStrategy) begin(search.Pattern) {}

func (s compactStrategy) write(b *strings.Builder, rec index.Record) error {
	writeCompact(b, s.p, rec)
	return nil
}

// Status returns the two-character compact prefix: M or space for masked,
// then I (latest installed), U (older installed) or N (not installed).
func Status(rec index.Record) string {
	masked := " "
	if rec.Masked {
		masked = "M"
	}
	return masked + installState(rec)
}

func installState(rec index.Record) string {
	switch {
	case rec.LatestInstalled == rec.LatestAvailable:
		return "I"
	case rec.LatestInstalled == "":
		return "N"
	default:
		return "U"
	}
}

func writeCompact(b *strings.Builder, p Palette, rec index.Record) {
	st := Status(rec)
	masked, state := st[:1], st[1:]
	color := p.DarkGreen
	if state == "U" {
		color = p.Turquoise
	}
	fmt.Fprintf(b, "[%s%s] %s (%s): %s\n",
		p.Red(masked), color(state), p.Bold(rec.Name), color(rec.LatestAvailable), rec.Description)
}

// recipeStrategy lists each record's ebuilds after its compact line and
// remembers, per pattern, the ebuild of the first record's latest version.
type recipeStrategy struct {
	p        Palette
	locator  *recipe.Locator
	catalog  recipe.Catalog
	first    bool
	defaults []recipe.Entry
}

func (s *recipeStrategy) begin(search.Pattern) {
	s.first = true
}

func (s *recipeStrategy) write(b *strings.Builder, rec index.Record) error {
	entries, err := s.locator.Find(rec.FullName)
	if err != nil {
		return err
	}
	writeCompact(b, s.p, rec)

	numbered := s.catalog.Add(entries)
	if s.first {
		s.first = false
		if d, ok := recipe.FindDefault(numbered, rec.Name+"-"+rec.LatestAvailable); ok {
			s.defaults = append(s.defaults, d)
		}
	}
	for _, e := range numbered {
		src := s.p.DarkGreen(e.Source())
		if e.Overlay {
			src = s.p.Red(e.Source())
		}
		fmt.Fprintf(b, " %s [%s] %s\n", src, s.p.Bold(fmt.Sprint(e.Number)), e.Atom.String())
	}
	b.WriteString("\n")
	return nil
}

type templateStrategy struct {
	format string
}

func (templateStrategy) begin(search.Pattern) {}

func (s templateStrategy) write(b *strings.Builder, rec index.Record) error {
	b.WriteString(Expand(s.format, rec))
	return nil
}
