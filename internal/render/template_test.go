package render

import (
	"strings"
	"testing"

	"github.com/kamusis/esearch/internal/search/index"
	"github.com/stretchr/testify/assert"
)

func TestExpand_AllPlaceholders(t *testing.T) {
	rec := index.Record{
		Name: "foo", FullName: "dev-lang/foo", Masked: true, LatestAvailable: "2.0", LatestInstalled: "1.0",
		DownloadSize: "10 kB", Homepage: "https://foo.example", Description: "Foo", License: "GPL-2",
	}
	got := Expand(`%c %n %p %m %va %vi %s %h %d %l\t.\n`, rec)
	assert.Equal(t, "dev-lang foo dev-lang/foo masked 2.0 1.0 10 kB https://foo.example Foo GPL-2\t.\n", got)
	for _, tok := range []string{"%c", "%n", "%p", "%m", "%va", "%vi", "%s", "%h", "%d", "%l"} {
		assert.False(t, strings.Contains(got, tok), tok)
	}
}

func TestExpand_NoResubstitution(t *testing.T) {
	rec := index.Record{Name: "foo", FullName: "a/foo", Description: `100%n pure \n`}
	assert.Equal(t, `foo: 100%n pure \n`, Expand("%n: %d", rec))
}

func TestExpand_EmptyFields(t *testing.T) {
	rec := index.Record{Name: "foo", FullName: "a/foo"}
	assert.Equal(t, "[][]", Expand("[%m][%vi]", rec))
}

func TestExpand_UnknownTokensKept(t *testing.T) {
	rec := index.Record{Name: "foo", FullName: "a/foo"}
	assert.Equal(t, `%x %v \q 50%`, Expand(`%x %v \q 50%`, rec))
}
