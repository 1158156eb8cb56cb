// Package modelconfig holds the model configuration derived from a database schema:
// per-table field metadata and per-table relationship definitions.
//
// A Configuration is produced once per connection and is read-only afterwards.
// Runtime consumers look fields up by table name and relationships by table and
// relationship name.
package modelconfig

// CastKind is the type a column value is cast to when read from a model
type CastKind string

const (
	CastDateTime CastKind = "datetime"
	CastArray    CastKind = "array"
)

// FieldConfig is the derived field metadata of one table
type FieldConfig struct {
	Attributes map[string]*string  `json:"attributes" yaml:"attributes"`
	Fillable   []string            `json:"fillable" yaml:"fillable"`
	Guarded    []string            `json:"guarded" yaml:"guarded"`
	Hidden     []string            `json:"hidden" yaml:"hidden"`
	Casts      map[string]CastKind `json:"casts" yaml:"casts"`
	Rules      map[string][]string `json:"rules" yaml:"rules"`
}

// NewFieldConfig returns a FieldConfig with every collection initialised
func NewFieldConfig() *FieldConfig {
	return &FieldConfig{
		Attributes: make(map[string]*string),
		Fillable:   []string{},
		Guarded:    []string{},
		Hidden:     []string{},
		Casts:      make(map[string]CastKind),
		Rules:      make(map[string][]string),
	}
}

// AddRule appends a rule token to a column's rule list
func (f *FieldConfig) AddRule(column, rule string) {
	f.Rules[column] = append(f.Rules[column], rule)
}

// Configuration is the generated configuration of one connection
type Configuration struct {
	Connection    string                              `json:"-" yaml:"-"`
	Fields        map[string]*FieldConfig             `json:"fields" yaml:"fields"`
	Relationships map[string]map[string]*Relationship `json:"relationships" yaml:"relationships"`
}

// New creates an empty configuration for a connection
func New(connection string) *Configuration {
	return &Configuration{
		Connection:    connection,
		Fields:        make(map[string]*FieldConfig),
		Relationships: make(map[string]map[string]*Relationship),
	}
}

// Field returns the field metadata of a table, or nil
func (c *Configuration) Field(table string) *FieldConfig {
	return c.Fields[table]
}

// Relationship returns a named relationship of a table, or nil
func (c *Configuration) Relationship(table, name string) *Relationship {
	return c.Relationships[table][name]
}

// RelationshipCount returns the number of relationships over all tables
func (c *Configuration) RelationshipCount() int {
	n := 0
	for _, rels := range c.Relationships {
		n += len(rels)
	}
	return n
}

// Set holds configurations keyed by connection name
type Set map[string]*Configuration
