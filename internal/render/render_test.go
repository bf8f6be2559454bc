package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamusis/esearch/internal/recipe"
	"github.com/kamusis/esearch/internal/search"
	"github.com/kamusis/esearch/internal/search/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	foo = index.Record{
		Name: "foo", FullName: "dev-lang/foo", LatestAvailable: "2.0", LatestInstalled: "1.0",
		DownloadSize: "1,024 kB", Homepage: "https://foo.example", Description: "The Foo language", License: "MIT",
	}
	bar = index.Record{Name: "bar", FullName: "app-misc/bar", Masked: true, LatestAvailable: "0.3", Description: "Bar tool"}
	baz = index.Record{Name: "baz", FullName: "app-misc/baz", LatestAvailable: "1", LatestInstalled: "1", Description: "Baz"}
)

func matchAll(t *testing.T, records []index.Record, raws ...string) []search.Result {
	t.Helper()
	ps, err := search.CompileAll(raws)
	require.NoError(t, err)
	res, err := search.MatchAll(ps, search.Options{}, records)
	require.NoError(t, err)
	return res
}

func writeEbuilds(t *testing.T, root, fullName, body string, files ...string) {
	t.Helper()
	dir := filepath.Join(root, fullName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(body), 0o644))
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		masked               bool
		available, installed string
		want                 string
	}{
		{false, "2.0", "2.0", " I"},
		{false, "2.0", "", " N"},
		{false, "2.0", "1.0", " U"},
		{true, "2.0", "2.0", "MI"},
		{true, "2.0", "", "MN"},
		{true, "2.0", "1.0", "MU"},
	}
	for _, tt := range tests {
		got := Status(index.Record{Masked: tt.masked, LatestAvailable: tt.available, LatestInstalled: tt.installed})
		assert.Equal(t, tt.want, got)
	}
}

func TestCompact_Outdated(t *testing.T) {
	r := &Renderer{Mode: Mode{Kind: Compact}}
	rep := r.Render(matchAll(t, []index.Record{foo}, "foo"))
	require.Len(t, rep.Sections, 1)
	assert.Equal(t, "[ U] foo (2.0): The Foo language\n", rep.Sections[0].Text)
}

func TestCompact_StarListsEverything(t *testing.T) {
	r := &Renderer{Mode: Mode{Kind: Compact}}
	rep := r.Render(matchAll(t, []index.Record{foo, bar, baz}, "*"))

	var out bytes.Buffer
	require.NoError(t, r.Write(&out, rep))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"[ U] foo (2.0): The Foo language",
		"[MN] bar (0.3): Bar tool",
		"[ I] baz (1): Baz",
	}, lines)
	assert.Equal(t, 3, rep.Sections[0].Count)
}

func TestNormal_Block(t *testing.T) {
	r := &Renderer{Mode: Mode{Kind: Normal}}
	rep := r.Render(matchAll(t, []index.Record{foo, bar}, "bar"))

	var out bytes.Buffer
	require.NoError(t, r.Write(&out, rep))
	want := "[ Results for search key : bar ]\n" +
		"[ Applications found : 1 ]\n\n" +
		"*  app-misc/bar [ Masked ]\n" +
		"      Latest version available: 0.3\n" +
		"      Latest version installed: [ Not Installed ]\n" +
		"      Size of downloaded files: \n" +
		"      Homepage:    \n" +
		"      Description: Bar tool\n" +
		"      License:     \n\n" +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestVerbose_FlagsAndSkip(t *testing.T) {
	root := t.TempDir()
	writeEbuilds(t, root, "dev-lang/foo", "IUSE=\"ssl doc\"\n", "foo-2.0.ebuild", "foo-2.1_rc1.ebuild")
	writeEbuilds(t, root, "app-misc/baz", "", "baz-1.ebuild")

	r := &Renderer{
		Mode:       Mode{Kind: Verbose},
		Repository: &recipe.Repository{Locator: recipe.NewLocator(root, nil, nil)},
		USE:        map[string]bool{"ssl": true},
	}
	rep := r.Render(matchAll(t, []index.Record{foo, bar, baz}, "*"))

	require.Len(t, rep.Skipped, 1)
	assert.ErrorIs(t, rep.Skipped[0], recipe.ErrNotInTree)
	assert.Equal(t, 2, rep.Sections[0].Count)
	text := rep.Sections[0].Text
	assert.Contains(t, text, "      Unstable version:         2.1_rc1\n")
	assert.Contains(t, text, "      Use Flags (stable):       -doc +ssl \n")
	assert.Contains(t, text, "      Use Flags (stable):       -\n")
	assert.NotContains(t, text, "app-misc/bar")
}

func TestRecipeList_NumberingAndDefault(t *testing.T) {
	root := t.TempDir()
	writeEbuilds(t, root, "dev-lang/foo", "", "foo-1.1-r1.ebuild", "foo-1.0.ebuild")

	r := &Renderer{Mode: Mode{Kind: RecipeList}, Locator: recipe.NewLocator(root, nil, nil)}
	rep := r.Render(matchAll(t, []index.Record{{Name: "foo", FullName: "dev-lang/foo", LatestAvailable: "1.1", Description: "Foo"}}, "foo"))

	assert.Equal(t, "[ N] foo (1.1): Foo\n Portage [1] foo-1.0\n Portage [2] foo-1.1-r1\n\n", rep.Sections[0].Text)
	require.NotNil(t, rep.Catalog)
	assert.Equal(t, 2, rep.Catalog.Len())
	require.NotNil(t, rep.Default)
	assert.Equal(t, 2, rep.Default.Number)
	assert.Equal(t, filepath.Join(root, "dev-lang/foo", "foo-1.1-r1.ebuild"), rep.Default.Path)
}

func TestRecipeList_ContiguousAcrossPatterns(t *testing.T) {
	root := t.TempDir()
	overlay := t.TempDir()
	writeEbuilds(t, root, "dev-lang/foo", "", "foo-1.0.ebuild", "foo-2.0.ebuild")
	writeEbuilds(t, overlay, "dev-lang/foo", "", "foo-2.0.ebuild")
	writeEbuilds(t, root, "app-misc/baz", "", "baz-1.ebuild")

	r := &Renderer{Mode: Mode{Kind: RecipeList}, Locator: recipe.NewLocator(root, []string{overlay}, nil)}
	rep := r.Render(matchAll(t, []index.Record{foo, bar, baz}, "foo", "ba"))

	require.Len(t, rep.Sections, 2)
	for i, e := range rep.Catalog.Entries() {
		assert.Equal(t, i+1, e.Number)
	}
	assert.Equal(t, 4, rep.Catalog.Len())
	assert.Contains(t, rep.Sections[0].Text, " Overlay [3] foo-2.0\n")
	assert.Contains(t, rep.Sections[1].Text, "[MN] bar (0.3): Bar tool\n\n")
	assert.Contains(t, rep.Sections[1].Text, " Portage [4] baz-1\n")
	assert.Nil(t, rep.Default, "two patterns never yield a default")
}

func TestRecipeList_NoDefaultForSeveralMatches(t *testing.T) {
	root := t.TempDir()
	writeEbuilds(t, root, "dev-lang/foo", "", "foo-2.0.ebuild")
	writeEbuilds(t, root, "app-misc/baz", "", "baz-1.ebuild")

	r := &Renderer{Mode: Mode{Kind: RecipeList}, Locator: recipe.NewLocator(root, nil, nil)}
	rep := r.Render(matchAll(t, []index.Record{foo, baz}, "*"))
	assert.Equal(t, 2, rep.Catalog.Len())
	assert.Nil(t, rep.Default)
}

func TestRecipeList_ZeroMatchPatternDropsDefault(t *testing.T) {
	root := t.TempDir()
	writeEbuilds(t, root, "dev-lang/foo", "", "foo-1.0.ebuild", "foo-2.0.ebuild")

	r := &Renderer{Mode: Mode{Kind: RecipeList}, Locator: recipe.NewLocator(root, nil, nil)}
	rep := r.Render(matchAll(t, []index.Record{foo, bar}, "^foo$", "nomatch"))
	require.Len(t, rep.Sections, 2)
	assert.Zero(t, rep.Sections[1].Count)
	assert.Equal(t, 2, rep.Catalog.Len())
	assert.Nil(t, rep.Default, "the default needs a single pattern on the command line")
}

func TestCustomTemplate(t *testing.T) {
	r := &Renderer{Mode: Mode{Kind: CustomTemplate, Template: `%p|%m|%va|%vi\n`}}
	rep := r.Render(matchAll(t, []index.Record{foo, bar}, "*"))
	assert.Equal(t, "dev-lang/foo||2.0|1.0\napp-misc/bar|masked|0.3|\n", rep.Sections[0].Text)

	var out bytes.Buffer
	require.NoError(t, r.Write(&out, rep))
	assert.Equal(t, rep.Sections[0].Text, out.String())
}

func TestPalette_ColorOff(t *testing.T) {
	p := NewPalette(&bytes.Buffer{}, false)
	assert.Equal(t, "x", p.Bold("x"))
	assert.Equal(t, "x", p.Red("x"))
}

func TestPalette_ColorOn(t *testing.T) {
	p := NewPalette(&bytes.Buffer{}, true)
	got := p.Red("x")
	assert.Contains(t, got, "x")
	assert.Contains(t, got, "\x1b[")
}

func TestParseMode(t *testing.T) {
	for _, k := range []Kind{Normal, Compact, Verbose, RecipeList} {
		m, err := ParseMode(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, m.Kind)
	}
	m, err := ParseMode("custom:%n %va")
	require.NoError(t, err)
	assert.Equal(t, Mode{Kind: CustomTemplate, Template: "%n %va"}, m)

	_, err = ParseMode("fancy")
	var me *ModeError
	require.ErrorAs(t, err, &me)
}
