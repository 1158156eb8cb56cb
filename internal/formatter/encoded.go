package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemalive/modelconfig"
)

// document returns the value to encode: the configuration itself for a single
// connection, otherwise the set keyed by connection name
func document(set modelconfig.Set) any {
	if len(set) == 1 {
		for _, cfg := range set {
			return cfg
		}
	}
	return set
}

// JSONFormatter writes model configurations as indented JSON
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the set as JSON
func (f *JSONFormatter) Format(set modelconfig.Set) error {
	return encodeJSON(f.writer, document(set))
}

// YAMLFormatter writes model configurations as YAML
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the set as YAML
func (f *YAMLFormatter) Format(set modelconfig.Set) error {
	return encodeYAML(f.writer, document(set))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
