package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/schemalive/modelconfig"
)

// MultiFileFormatter writes model configurations to one file per table
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text", "markdown", "json" or "yaml"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the set to a directory. With several connections every
// connection gets its own subdirectory.
func (f *MultiFileFormatter) Format(set modelconfig.Set) error {
	for _, name := range set.Connections() {
		dir := f.OutputDir
		if len(set) > 1 {
			dir = filepath.Join(f.OutputDir, name)
		}
		if err := f.formatConfiguration(dir, set[name]); err != nil {
			return fmt.Errorf("failed to write connection %s: %w", name, err)
		}
	}
	return nil
}

func (f *MultiFileFormatter) formatConfiguration(dir string, cfg *modelconfig.Configuration) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(dir, cfg); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range tableNames(cfg) {
		if err := f.writeTableFile(dir, cfg, table); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table, err)
		}
	}
	return nil
}

// writeOverview lists every table with the tables its relationships point at
func (f *MultiFileFormatter) writeOverview(dir string, cfg *modelconfig.Configuration) error {
	ext := f.getFileExtension()
	file, err := os.Create(filepath.Join(dir, "_overview"+ext))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case formatMarkdown:
		_, _ = fmt.Fprintf(file, "# Model Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>%s`\n\n", ext)
		_, _ = fmt.Fprintf(file, "## Tables\n\n")
		for _, table := range tableNames(cfg) {
			_, _ = fmt.Fprintf(file, "- **%s**", table)
			if related := relatedTables(cfg, table); len(related) > 0 {
				_, _ = fmt.Fprintf(file, " (related: %s)", strings.Join(related, ", "))
			}
			_, _ = fmt.Fprintf(file, "\n")
		}
	case formatJSON, formatYAML:
		overview := make(map[string][]string)
		for _, table := range tableNames(cfg) {
			overview[table] = relatedTables(cfg, table)
		}
		return f.encode(file, overview)
	default:
		_, _ = fmt.Fprintf(file, "MODEL OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each table has a file: <table_name>%s\n\n", ext)
		for _, table := range tableNames(cfg) {
			_, _ = fmt.Fprintf(file, "%s", table)
			if related := relatedTables(cfg, table); len(related) > 0 {
				_, _ = fmt.Fprintf(file, " (related: %s)", strings.Join(related, ","))
			}
			_, _ = fmt.Fprintf(file, "\n")
		}
	}
	return nil
}

// tableEntry is the per-table document of the JSON and YAML formats
type tableEntry struct {
	Fields        *modelconfig.FieldConfig             `json:"fields" yaml:"fields"`
	Relationships map[string]*modelconfig.Relationship `json:"relationships" yaml:"relationships"`
}

func (f *MultiFileFormatter) writeTableFile(dir string, cfg *modelconfig.Configuration, table string) error {
	file, err := os.Create(filepath.Join(dir, table+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case formatMarkdown:
		NewMarkdownFormatter(file).FormatTable(cfg, table)
	case formatJSON, formatYAML:
		return f.encode(file, tableEntry{
			Fields:        cfg.Field(table),
			Relationships: cfg.Relationships[table],
		})
	default:
		NewTextFormatter(file).formatTable(cfg, table)
	}
	return nil
}

func (f *MultiFileFormatter) encode(w io.Writer, v any) error {
	if f.OutputFormat == formatJSON {
		return encodeJSON(w, v)
	}
	return encodeYAML(w, v)
}

// relatedTables returns the distinct tables a table's relationships point at
func relatedTables(cfg *modelconfig.Configuration, table string) []string {
	seen := make(map[string]bool)
	related := []string{}
	for _, rel := range cfg.Relationships[table] {
		if !seen[rel.Related] {
			seen[rel.Related] = true
			related = append(related, rel.Related)
		}
	}
	sort.Strings(related)
	return related
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case formatMarkdown:
		return ".md"
	case formatJSON:
		return ".json"
	case formatYAML:
		return ".yaml"
	}
	return ".txt"
}
