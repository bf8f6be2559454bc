package config

import "strings"

// DefaultPortDir is the tree location when PORTDIR is unset.
const DefaultPortDir = "/usr/portage"

// Portage holds the package-manager settings esearch reads.
type Portage struct {
	PortDir  string
	Overlays []string
	USE      map[string]bool
	Editor   string
}

// Portage resolves PORTDIR, PORTDIR_OVERLAY, USE and EDITOR, environment
// first, then make.conf.
func (cfg *Config) Portage() (*Portage, error) {
	vals, err := cfg.Values("PORTDIR", "PORTDIR_OVERLAY", "USE", "EDITOR")
	if err != nil {
		return nil, err
	}
	p := &Portage{
		PortDir:  vals["PORTDIR"],
		Overlays: strings.Fields(vals["PORTDIR_OVERLAY"]),
		USE:      ParseUSE(vals["USE"]),
		Editor:   vals["EDITOR"],
	}
	if p.PortDir == "" {
		p.PortDir = DefaultPortDir
	}
	return p, nil
}

// ParseUSE turns a USE string into the set of enabled flags. "-flag" disables
// an earlier flag and "-*" clears everything before it.
func ParseUSE(s string) map[string]bool {
	out := map[string]bool{}
	for _, f := range strings.Fields(s) {
		switch {
		case f == "-*":
			clear(out)
		case strings.HasPrefix(f, "-"):
			delete(out, f[1:])
		default:
			out[strings.TrimPrefix(f, "+")] = true
		}
	}
	return out
}
