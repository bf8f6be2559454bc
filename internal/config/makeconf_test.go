package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadMakeConf_ParsesAssignments(t *testing.T) {
	p := filepath.Join(t.TempDir(), "make.conf")
	writeFile(t, p, "# comment\nCFLAGS=\"-O2 -pipe\"\nexport PORTDIR=/var/db/repos/gentoo\n"+
		"USE=\"ssl\n  -doc X\"\nPORTDIR_OVERLAY=\"${PORTDIR}/../local\"\nnot an assignment\n")

	m, err := LoadMakeConf([]string{p, filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	assert.Equal(t, "-O2 -pipe", m["CFLAGS"])
	assert.Equal(t, "/var/db/repos/gentoo", m["PORTDIR"])
	assert.Equal(t, "ssl\n  -doc X", m["USE"])
	assert.Equal(t, "/var/db/repos/gentoo/../local", m["PORTDIR_OVERLAY"])
}

func TestLoadMakeConf_DirectoryInNameOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "make.conf")
	writeFile(t, filepath.Join(dir, "20-local"), "EDITOR=nano\n")
	writeFile(t, filepath.Join(dir, "10-base"), "EDITOR=vi\nUSE=ssl\n")

	m, err := LoadMakeConf([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, "nano", m["EDITOR"])
	assert.Equal(t, "ssl", m["USE"])
}

func TestDefaultConfig_PortageMakeConfWins(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, "etc", "make.conf")
	modern := filepath.Join(root, "etc", "portage", "make.conf")
	writeFile(t, legacy, "PORTDIR=\"/legacy\"\nEDITOR=vi\n")
	writeFile(t, modern, "PORTDIR=\"/new\"\n")

	var paths []string
	for _, p := range DefaultConfig().MakeConf {
		paths = append(paths, filepath.Join(root, p))
	}
	for _, k := range []string{"PORTDIR", "PORTDIR_OVERLAY", "USE", "EDITOR"} {
		t.Setenv(k, "")
	}

	pc, err := (&Config{MakeConf: paths}).Portage()
	require.NoError(t, err)
	assert.Equal(t, "/new", pc.PortDir)
	assert.Equal(t, "vi", pc.Editor)
}

func TestValue_EnvOverridesMakeConf(t *testing.T) {
	p := filepath.Join(t.TempDir(), "make.conf")
	writeFile(t, p, "EDITOR=fromfile\nUSE=doc\n")
	cfg := &Config{MakeConf: []string{p}}

	t.Setenv("EDITOR", "fromenv")
	t.Setenv("USE", "")

	v, err := cfg.Value("EDITOR")
	require.NoError(t, err)
	assert.Equal(t, "fromenv", v)

	v, err = cfg.Value("USE")
	require.NoError(t, err)
	assert.Equal(t, "doc", v)
}

func TestPortage_Defaults(t *testing.T) {
	for _, k := range []string{"PORTDIR", "PORTDIR_OVERLAY", "USE", "EDITOR"} {
		t.Setenv(k, "")
	}
	p := filepath.Join(t.TempDir(), "make.conf")
	writeFile(t, p, "PORTDIR_OVERLAY=\"/a /b\"\nUSE=\"ssl doc -doc\"\n")

	pc, err := (&Config{MakeConf: []string{p}}).Portage()
	require.NoError(t, err)
	assert.Equal(t, DefaultPortDir, pc.PortDir)
	assert.Equal(t, []string{"/a", "/b"}, pc.Overlays)
	assert.Equal(t, map[string]bool{"ssl": true}, pc.USE)
	assert.Empty(t, pc.Editor)
}

func TestParseUSE(t *testing.T) {
	assert.Equal(t, map[string]bool{"x": true, "y": true}, ParseUSE("a -a +x y"))
	assert.Equal(t, map[string]bool{"b": true}, ParseUSE("a -* b"))
	assert.Empty(t, ParseUSE(""))
}
