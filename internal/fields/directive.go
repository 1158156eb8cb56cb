package fields

import (
	"strings"

	"github.com/tordrt/schemalive/modelconfig"
)

// Directive is one `method[:arg,...]` token of a column comment
type Directive struct {
	// Raw is the token exactly as written, surrounding whitespace included
	Raw    string
	Method string
	Args   []string
}

// ParseDirectives splits a column comment into directives. Empty tokens are kept
// so callers see exactly what the comment contained. Method and arguments are
// trimmed; Raw is not.
func ParseDirectives(comment string) []Directive {
	if comment == "" {
		return nil
	}
	parts := strings.Split(comment, ";")
	directives := make([]Directive, 0, len(parts))
	for _, part := range parts {
		d := Directive{Raw: part}
		method, args, hasArgs := strings.Cut(part, ":")
		d.Method = strings.TrimSpace(method)
		if hasArgs {
			d.Args = strings.Split(strings.TrimSpace(args), ",")
		}
		directives = append(directives, d)
	}
	return directives
}

// handler applies a directive to the field config of the column's table
type handler func(cfg *modelconfig.FieldConfig, column string, args []string)

var handlers = map[string]handler{
	"hidden": func(cfg *modelconfig.FieldConfig, column string, _ []string) {
		cfg.Hidden = append(cfg.Hidden, column)
	},
	"guarded": func(cfg *modelconfig.FieldConfig, column string, _ []string) {
		cfg.Guarded = append(cfg.Guarded, column)
	},
	"json": func(cfg *modelconfig.FieldConfig, column string, _ []string) {
		cfg.Casts[column] = modelconfig.CastArray
	},
}

// lookupHandler matches method names case-insensitively
func lookupHandler(method string) (handler, bool) {
	h, ok := handlers[strings.ToLower(method)]
	return h, ok
}
