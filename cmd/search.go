package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kamusis/esearch/internal/config"
	"github.com/kamusis/esearch/internal/editor"
	"github.com/kamusis/esearch/internal/recipe"
	"github.com/kamusis/esearch/internal/render"
	"github.com/kamusis/esearch/internal/search"
	searchindex "github.com/kamusis/esearch/internal/search/index"
	"github.com/kamusis/esearch/internal/selector"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	flagSearchDesc bool
	flagFullName   bool
	flagInstOnly   bool
	flagCompact    bool
	flagVerbose    bool
	flagEbuild     bool
	flagOwn        string
	flagMode       string
	flagDirectory  string
	flagNoColor    bool
	flagDebug      bool
)

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&flagSearchDesc, "searchdesc", "S", false, "Search package descriptions as well")
	f.BoolVarP(&flagFullName, "fullname", "F", false, "Search packages full name (includes category)")
	f.BoolVarP(&flagInstOnly, "instonly", "I", false, "Find only packages which are installed")
	f.BoolVarP(&flagCompact, "compact", "c", false, "More compact output format")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "Give a lot of additional information (slow!)")
	f.BoolVarP(&flagEbuild, "ebuild", "e", false, "View ebuilds of found packages")
	f.StringVarP(&flagOwn, "own", "o", "", "Use your own output format (%c %n %p %m %va %vi %s %h %d %l, \\n, \\t)")
	f.StringVar(&flagMode, "mode", "", "Output mode: normal, compact, verbose, recipes or custom:<format>")
	f.StringVarP(&flagDirectory, "directory", "d", "", "Use dir as directory to load esearch index from")
	f.BoolVarP(&flagNoColor, "nocolor", "n", false, "Don't use ANSI codes for colored output")
	f.BoolVar(&flagDebug, "debug", false, "Print debug information")
	rootCmd.MarkFlagsMutuallyExclusive("compact", "verbose", "ebuild", "own", "mode")
}

// runOptions is everything a search run needs, resolved from flags and config.
type runOptions struct {
	Patterns []string
	Search   search.Options
	Mode     render.Mode
	IndexDir string
	Color    bool
}

// session wires a run to its streams and collaborators.
type session struct {
	Out     io.Writer
	In      io.Reader
	Logger  *slog.Logger
	Portage *config.Portage
	// Open hands the chosen ebuild to the editor.
	Open func(path string) error
	// Notify scopes SIGINT handling to the prompt. Nil means
	// signal.NotifyContext on os.Interrupt.
	Notify func(ctx context.Context) (context.Context, context.CancelFunc)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	opts, err := resolveRunOptions(cfg, args)
	if err != nil {
		return err
	}
	stderrPalette = render.NewPalette(os.Stderr, opts.Color && isTerminal(os.Stderr))

	pc, err := cfg.Portage()
	if err != nil {
		return fmt.Errorf("cannot read portage settings: %w", err)
	}

	logger := newLogger(flagDebug)
	s := &session{
		Out:     cmd.OutOrStdout(),
		In:      os.Stdin,
		Logger:  logger,
		Portage: pc,
		Open:    editor.New(pc.Editor).Open,
	}
	return s.run(cmd.Context(), opts)
}

// resolveRunOptions merges flags over cfg. Mode and scope conflicts are
// reported here, before the index is touched.
func resolveRunOptions(cfg *config.Config, args []string) (runOptions, error) {
	opts := runOptions{
		Patterns: args,
		Search: search.Options{
			Description:   flagSearchDesc,
			InstalledOnly: flagInstOnly,
		},
		IndexDir: cfg.IndexDir,
		Color:    cfg.Color && !flagNoColor && os.Getenv("NO_COLOR") == "" && isTerminal(os.Stdout),
	}
	if flagFullName {
		opts.Search.Scope = search.ScopeFullName
	}
	if err := opts.Search.Validate(); err != nil {
		return opts, err
	}

	switch {
	case flagMode != "":
		m, err := render.ParseMode(flagMode)
		if err != nil {
			return opts, err
		}
		opts.Mode = m
	case flagCompact:
		opts.Mode = render.Mode{Kind: render.Compact}
	case flagVerbose:
		opts.Mode = render.Mode{Kind: render.Verbose}
	case flagEbuild:
		opts.Mode = render.Mode{Kind: render.RecipeList}
	case flagOwn != "":
		opts.Mode = render.Mode{Kind: render.CustomTemplate, Template: flagOwn}
	}

	if flagDirectory != "" {
		if _, err := os.Stat(flagDirectory); err != nil {
			return opts, fmt.Errorf("directory '%s' does not exist", flagDirectory)
		}
		opts.IndexDir = flagDirectory
	}
	return opts, nil
}

// run compiles, loads, matches, renders and, in recipe mode, lets the user
// pick an ebuild. Every fatal error returns before any report output.
func (s *session) run(ctx context.Context, opts runOptions) error {
	if err := opts.Search.Validate(); err != nil {
		return err
	}
	patterns, err := search.CompileAll(opts.Patterns)
	if err != nil {
		return err
	}

	idx, err := searchindex.Load(opts.IndexDir)
	if err != nil {
		return err
	}
	s.Logger.Debug("index loaded", "dir", opts.IndexDir, "packages", len(idx.Records), "db_version", idx.Manifest.DBVersion)

	results, err := search.MatchAll(patterns, opts.Search, idx.Records)
	if err != nil {
		return err
	}

	locator := recipe.NewLocator(s.Portage.PortDir, s.Portage.Overlays, s.Logger)
	r := &render.Renderer{
		Mode:       opts.Mode,
		Palette:    render.NewPalette(s.Out, opts.Color),
		Repository: &recipe.Repository{Locator: locator},
		Locator:    locator,
		USE:        s.Portage.USE,
		Logger:     s.Logger,
	}
	rep := r.Render(results)
	for _, err := range rep.Skipped {
		printWarn(err.Error())
	}
	if err := r.Write(s.Out, rep); err != nil && !errors.Is(err, syscall.EPIPE) {
		return err
	}

	if opts.Mode.Kind != render.RecipeList || rep.Catalog.Len() == 0 {
		return nil
	}
	return s.selectAndOpen(ctx, rep, r.Palette)
}

// selectAndOpen traps SIGINT only while the prompt waits; before that an
// interrupt kills the process as usual.
func (s *session) selectAndOpen(ctx context.Context, rep *render.Report, p render.Palette) error {
	ctx, stop := s.notify(ctx)
	sel := &selector.Selector{In: s.In, Out: s.Out, Palette: p}
	e, err := sel.Select(ctx, rep.Catalog, rep.Default)
	stop()
	switch {
	case errors.Is(err, selector.ErrInterrupted):
		return errInterrupted
	case err != nil:
		fmt.Fprintln(s.Out)
		printErr(err.Error())
		return nil
	}

	s.Logger.Debug("opening ebuild", "path", e.Path)
	if err := s.Open(e.Path); err != nil {
		fmt.Fprintln(s.Out)
		printErr(err.Error())
	}
	return nil
}

func (s *session) notify(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Notify != nil {
		return s.Notify(ctx)
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
