package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemalive/modelconfig"
)

// TextFormatter formats model configurations as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every configuration of the set in compact text format
func (f *TextFormatter) Format(set modelconfig.Set) error {
	for i, name := range set.Connections() {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		if len(set) > 1 {
			_, _ = fmt.Fprintf(f.writer, "CONNECTION %s\n\n", name)
		}
		if err := f.FormatConfiguration(set[name]); err != nil {
			return err
		}
	}
	return nil
}

// FormatConfiguration writes the tables of one configuration
func (f *TextFormatter) FormatConfiguration(cfg *modelconfig.Configuration) error {
	for i, table := range tableNames(cfg) {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.formatTable(cfg, table)
	}
	return nil
}

func (f *TextFormatter) formatTable(cfg *modelconfig.Configuration, table string) {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s\n", table)

	if fc := cfg.Field(table); fc != nil {
		f.formatList("FILLABLE", fc.Fillable)
		f.formatList("GUARDED", fc.Guarded)
		f.formatList("HIDDEN", fc.Hidden)
		if len(fc.Casts) > 0 {
			_, _ = fmt.Fprintf(f.writer, "  CASTS: %s\n", formatCasts(fc.Casts))
		}

		if len(fc.Rules) > 0 {
			_, _ = fmt.Fprintln(f.writer, "  RULES:")
			for _, col := range sortedKeys(fc.Rules) {
				_, _ = fmt.Fprintf(f.writer, "    %s: %s\n", col, strings.Join(fc.Rules[col], "|"))
			}
		}

		if len(fc.Attributes) > 0 {
			_, _ = fmt.Fprintln(f.writer, "  ATTRIBUTES:")
			for _, col := range sortedKeys(fc.Attributes) {
				_, _ = fmt.Fprintf(f.writer, "    %s = %s\n", col, formatAttribute(fc.Attributes[col]))
			}
		}
	}

	rels := cfg.Relationships[table]
	if len(rels) > 0 {
		_, _ = fmt.Fprintln(f.writer, "  RELATIONSHIPS:")
		for _, name := range sortedKeys(rels) {
			rel := rels[name]
			_, _ = fmt.Fprintf(f.writer, "    %s → %s(%s)\n", name, rel.Kind, formatParams(rel.Params()))
		}
	}
}

func (f *TextFormatter) formatList(label string, cols []string) {
	if len(cols) == 0 {
		return
	}
	_, _ = fmt.Fprintf(f.writer, "  %s: %s\n", label, strings.Join(cols, ", "))
}
