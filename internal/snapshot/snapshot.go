// Package snapshot reads and writes schema snapshots as YAML, so a schema
// can be built into a model configuration without a live database.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemalive/internal/schema"
)

// ErrInvalid is wrapped by every validation error of a snapshot
var ErrInvalid = errors.New("invalid schema snapshot")

// Load reads a snapshot file
func Load(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return Read(bytes.NewReader(data))
}

// Read decodes and validates a snapshot
func Read(r io.Reader) (*schema.Schema, error) {
	var s schema.Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	if err := normalize(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Write encodes a schema as a snapshot
func Write(w io.Writer, s *schema.Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}
	return enc.Close()
}

// Save writes a snapshot file
func Save(path string, s *schema.Schema) error {
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	return nil
}

// normalize checks a decoded snapshot and names primary indexes the way extractors do
func normalize(s *schema.Schema) error {
	seen := make(map[string]bool, len(s.Tables))
	for i := range s.Tables {
		t := &s.Tables[i]
		if t.Name == "" {
			return fmt.Errorf("%w: table %d has no name", ErrInvalid, i)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: table %s is declared twice", ErrInvalid, t.Name)
		}
		seen[t.Name] = true

		for j := range t.Indexes {
			idx := &t.Indexes[j]
			if len(idx.Columns) == 0 {
				return fmt.Errorf("%w: index %s on %s has no columns", ErrInvalid, idx.Name, t.Name)
			}
			if idx.IsPrimary {
				idx.Name = schema.PrimaryIndexName
				idx.IsUnique = true
			}
		}

		for _, fk := range t.ForeignKeys {
			if fk.TargetTable == "" || len(fk.Columns) == 0 {
				return fmt.Errorf("%w: foreign key %v on %s has no target", ErrInvalid, fk.Columns, t.Name)
			}
			if len(fk.Columns) != len(fk.TargetColumns) {
				return fmt.Errorf("%w: foreign key %v on %s references %d columns of %s",
					ErrInvalid, fk.Columns, t.Name, len(fk.TargetColumns), fk.TargetTable)
			}
		}
	}
	return nil
}
