package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemalive/modelconfig"
)

// MarkdownFormatter formats model configurations as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes every configuration of the set in markdown format
func (f *MarkdownFormatter) Format(set modelconfig.Set) error {
	_, _ = fmt.Fprintln(f.writer, "# Model Configuration")
	_, _ = fmt.Fprintln(f.writer)

	for _, name := range set.Connections() {
		if len(set) > 1 {
			_, _ = fmt.Fprintf(f.writer, "## Connection `%s`\n\n", name)
		}
		cfg := set[name]
		for _, table := range tableNames(cfg) {
			f.FormatTable(cfg, table)
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(cfg *modelconfig.Configuration, table string) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table)
	f.FormatFields(cfg.Field(table))
	f.FormatRelationships(cfg.Relationships[table])
}

// FormatFields writes the fields section of a table
func (f *MarkdownFormatter) FormatFields(fc *modelconfig.FieldConfig) {
	if fc == nil {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### Fields")
	_, _ = fmt.Fprintln(f.writer)
	f.formatList("fillable", fc.Fillable)
	f.formatList("guarded", fc.Guarded)
	f.formatList("hidden", fc.Hidden)
	if len(fc.Casts) > 0 {
		_, _ = fmt.Fprintf(f.writer, "- **casts:** %s\n", formatCasts(fc.Casts))
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(fc.Rules) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Rules")
		_, _ = fmt.Fprintln(f.writer)
		for _, col := range sortedKeys(fc.Rules) {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col, strings.Join(fc.Rules[col], ", "))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(fc.Attributes) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Defaults")
		_, _ = fmt.Fprintln(f.writer)
		for _, col := range sortedKeys(fc.Attributes) {
			_, _ = fmt.Fprintf(f.writer, "- %s = %s\n", col, formatAttribute(fc.Attributes[col]))
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}

// FormatRelationships writes the relationships section of a table
func (f *MarkdownFormatter) FormatRelationships(rels map[string]*modelconfig.Relationship) {
	if len(rels) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### Relationships")
	_, _ = fmt.Fprintln(f.writer)
	for _, name := range sortedKeys(rels) {
		rel := rels[name]
		target := "unresolved"
		if rel.Resolved() {
			target = rel.TargetClass
		}
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %s → %s (%s)\n", name, rel.Kind, target, formatParams(rel.Params()[1:]))
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatList(label string, cols []string) {
	if len(cols) == 0 {
		return
	}
	_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", label, strings.Join(cols, ", "))
}
