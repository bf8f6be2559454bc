package render

import (
	"fmt"
	"strings"
)

// Kind is the report style of a run.
type Kind int

const (
	Normal Kind = iota
	Compact
	Verbose
	RecipeList
	CustomTemplate
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Compact:
		return "compact"
	case Verbose:
		return "verbose"
	case RecipeList:
		return "recipes"
	case CustomTemplate:
		return "custom"
	default:
		return "unknown"
	}
}

// Mode is the output mode chosen once per run. Template is only used by
// CustomTemplate.
type Mode struct {
	Kind     Kind
	Template string
}

// ModeError reports an unknown output mode name.
type ModeError struct {
	Name string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("unknown output mode %q (want normal, compact, verbose, recipes or custom:<format>)", e.Name)
}

// ParseMode reads normal, compact, verbose, recipes or custom:<format>.
func ParseMode(s string) (Mode, error) {
	if tpl, ok := strings.CutPrefix(s, "custom:"); ok {
		return Mode{Kind: CustomTemplate, Template: tpl}, nil
	}
	for _, k := range []Kind{Normal, Compact, Verbose, RecipeList} {
		if s == k.String() {
			return Mode{Kind: k}, nil
		}
	}
	return Mode{}, &ModeError{Name: s}
}
