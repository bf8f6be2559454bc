package render

import (
	"strings"

	"github.com/kamusis/esearch/internal/search/index"
)

type placeholder struct {
	token   string
	resolve func(index.Record) string
}

// placeholders is the custom format contract, tried in this order at each
// position of the format string.
var placeholders = []placeholder{
	{"%c", index.Record.Category},
	{"%n", func(r index.Record) string { return r.Name }},
	{"%p", func(r index.Record) string { return r.FullName }},
	{"%m", func(r index.Record) string {
		if r.Masked {
			return "masked"
		}
		return ""
	}},
	{"%va", func(r index.Record) string { return r.LatestAvailable }},
	{"%vi", func(r index.Record) string { return r.LatestInstalled }},
	{"%s", func(r index.Record) string { return r.DownloadSize }},
	{"%h", func(r index.Record) string { return r.Homepage }},
	{"%d", func(r index.Record) string { return r.Description }},
	{"%l", func(r index.Record) string { return r.License }},
	{`\n`, func(index.Record) string { return "\n" }},
	{`\t`, func(index.Record) string { return "\t" }},
}

// Expand applies format to rec in a single left-to-right pass. Substituted
// values are never scanned again, so a description containing "%n" is
// printed verbatim.
func Expand(format string, rec index.Record) string {
	var b strings.Builder
	b.Grow(len(format) + len(rec.Description))
	for i := 0; i < len(format); {
		if p, ok := placeholderAt(format[i:]); ok {
			b.WriteString(p.resolve(rec))
			i += len(p.token)
			continue
		}
		b.WriteByte(format[i])
		i++
	}
	return b.String()
}

func placeholderAt(s string) (placeholder, bool) {
	if s[0] != '%' && s[0] != '\\' {
		return placeholder{}, false
	}
	for _, p := range placeholders {
		if strings.HasPrefix(s, p.token) {
			return p, true
		}
	}
	return placeholder{}, false
}
