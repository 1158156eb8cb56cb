// Package formatter renders model configurations as text, markdown, JSON or YAML.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tordrt/schemalive/modelconfig"
)

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
)

// Formatter writes a set of model configurations
type Formatter interface {
	Format(set modelconfig.Set) error
}

// New returns the formatter for an output format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case formatText, "":
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	case formatJSON:
		return NewJSONFormatter(w), nil
	case formatYAML:
		return NewYAMLFormatter(w), nil
	}
	return nil, fmt.Errorf("unsupported output format: %s", format)
}

// tableNames returns every table with fields or relationships, sorted
func tableNames(cfg *modelconfig.Configuration) []string {
	seen := make(map[string]bool, len(cfg.Fields))
	names := make([]string, 0, len(cfg.Fields))
	for name := range cfg.Fields {
		seen[name] = true
		names = append(names, name)
	}
	for name := range cfg.Relationships {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatParams renders constructor parameters, with null for an unresolved target
func formatParams(params []any) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case nil:
			parts = append(parts, "null")
		case modelconfig.Columns:
			if len(v) == 1 {
				parts = append(parts, v[0])
			} else {
				parts = append(parts, "["+strings.Join(v, ", ")+"]")
			}
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ", ")
}

func formatCasts(casts map[string]modelconfig.CastKind) string {
	parts := make([]string, 0, len(casts))
	for _, col := range sortedKeys(casts) {
		parts = append(parts, fmt.Sprintf("%s=%s", col, casts[col]))
	}
	return strings.Join(parts, ", ")
}

func formatAttribute(v *string) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *v)
}
