package modelconfig

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the relationship constructor a runtime model dispatches to
type Kind string

const (
	HasOne        Kind = "hasOne"
	BelongsTo     Kind = "belongsTo"
	HasMany       Kind = "hasMany"
	BelongsToMany Kind = "belongsToMany"
)

// Columns is a key made of one or more columns. It is rendered as a scalar
// when it holds a single column and as a list otherwise.
type Columns []string

// String joins the columns with commas
func (c Columns) String() string {
	return strings.Join(c, ",")
}

func (c Columns) value() any {
	if len(c) == 1 {
		return c[0]
	}
	return []string(c)
}

// MarshalJSON implements json.Marshaler
func (c Columns) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value())
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Columns) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*c = Columns{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("columns must be a string or a list of strings: %w", err)
	}
	*c = many
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (c Columns) MarshalYAML() (any, error) {
	return c.value(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Columns{node.Value}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*c = many
	return nil
}

// Relationship is one named relationship from a table to a related table.
//
// Which key fields are set depends on Kind:
//   - HasOne, HasMany: ForeignKey (on the related table), LocalKey
//   - BelongsTo: ForeignKey (on this table), OwnerKey (on the related table)
//   - BelongsToMany: Pivot, ForeignPivotKey, RelatedPivotKey, ParentKey, RelatedKey
type Relationship struct {
	Name        string
	Kind        Kind
	TargetClass string // empty when no model could be resolved
	Related     string

	ForeignKey Columns
	LocalKey   Columns
	OwnerKey   Columns

	Pivot           string
	ForeignPivotKey Columns
	RelatedPivotKey Columns
	ParentKey       Columns
	RelatedKey      Columns
}

// Resolved reports whether the relationship points at a known model
func (r *Relationship) Resolved() bool {
	return r.TargetClass != ""
}

// Params returns the positional constructor parameters for the relationship kind
func (r *Relationship) Params() []any {
	var target any
	if r.Resolved() {
		target = r.TargetClass
	}
	switch r.Kind {
	case HasOne, HasMany:
		return []any{target, r.ForeignKey, r.LocalKey}
	case BelongsTo:
		return []any{target, r.ForeignKey, r.OwnerKey, r.Name}
	case BelongsToMany:
		return []any{target, r.Pivot, r.ForeignPivotKey, r.RelatedPivotKey, r.ParentKey, r.RelatedKey, r.Name}
	}
	return []any{target}
}

// Equal reports whether two relationships describe the same edge
func (r *Relationship) Equal(o *Relationship) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Name == o.Name &&
		r.Kind == o.Kind &&
		r.TargetClass == o.TargetClass &&
		r.Related == o.Related &&
		r.Pivot == o.Pivot &&
		slices.Equal(r.ForeignKey, o.ForeignKey) &&
		slices.Equal(r.LocalKey, o.LocalKey) &&
		slices.Equal(r.OwnerKey, o.OwnerKey) &&
		slices.Equal(r.ForeignPivotKey, o.ForeignPivotKey) &&
		slices.Equal(r.RelatedPivotKey, o.RelatedPivotKey) &&
		slices.Equal(r.ParentKey, o.ParentKey) &&
		slices.Equal(r.RelatedKey, o.RelatedKey)
}

type encodedRelationship struct {
	Kind        Kind    `json:"kind" yaml:"kind"`
	TargetClass *string `json:"targetClass" yaml:"targetClass"`
	Params      []any   `json:"params" yaml:"params"`
}

func (r *Relationship) encoded() encodedRelationship {
	e := encodedRelationship{Kind: r.Kind, Params: r.Params()}
	if r.Resolved() {
		target := r.TargetClass
		e.TargetClass = &target
	}
	return e
}

// MarshalJSON implements json.Marshaler
func (r *Relationship) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.encoded())
}

// MarshalYAML implements yaml.Marshaler
func (r *Relationship) MarshalYAML() (any, error) {
	return r.encoded(), nil
}
