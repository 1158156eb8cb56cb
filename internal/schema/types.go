package schema

import "strings"

// PrimaryIndexName is the name every extractor gives to a table's primary key index
const PrimaryIndexName = "PRIMARY"

// Schema represents a complete database schema
type Schema struct {
	Tables []Table `yaml:"tables"`
}

// Table represents a database table
type Table struct {
	Name        string       `yaml:"name"`
	Columns     []Column     `yaml:"columns"`
	Indexes     []Index      `yaml:"indexes,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
}

// Column represents a table column
type Column struct {
	Name          string  `yaml:"name"`
	Type          string  `yaml:"type"`
	Nullable      bool    `yaml:"nullable,omitempty"`
	DefaultValue  *string `yaml:"default,omitempty"`
	AutoIncrement bool    `yaml:"auto_increment,omitempty"`
	Length        int     `yaml:"length,omitempty"`
	Comment       string  `yaml:"comment,omitempty"`
}

// Index represents a database index
type Index struct {
	Name      string   `yaml:"name"`
	Columns   []string `yaml:"columns"`
	IsUnique  bool     `yaml:"unique,omitempty"`
	IsPrimary bool     `yaml:"primary,omitempty"`
}

// ForeignKey represents a foreign key constraint, possibly spanning several columns
type ForeignKey struct {
	Name          string   `yaml:"name,omitempty"`
	Columns       []string `yaml:"columns"`
	TargetTable   string   `yaml:"references"`
	TargetColumns []string `yaml:"target_columns"`
}

// Table returns the named table, or nil
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns table names in schema order
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// PrimaryKey returns the columns of the table's primary index
func (t *Table) PrimaryKey() []string {
	for _, idx := range t.Indexes {
		if idx.IsPrimary {
			return idx.Columns
		}
	}
	return nil
}

// IsString reports whether the declared type is a bounded character type
func (c Column) IsString() bool {
	switch baseType(c.Type) {
	case "varchar", "char", "character", "character varying", "nvarchar", "nchar",
		"varying character", "native character", "enum", "set", "string":
		return true
	}
	return false
}

// IsDateTime reports whether the declared type carries both a date and a time
func (c Column) IsDateTime() bool {
	switch baseType(c.Type) {
	case "datetime", "datetime2", "smalldatetime", "timestamp", "timestamptz",
		"timestamp without time zone", "timestamp with time zone":
		return true
	}
	return false
}

// baseType lower-cases a declared type and strips any size or value list, so
// "VARCHAR(255)" and "enum('a','b')" become "varchar" and "enum"
func baseType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i]) + rest
	}
	t = strings.TrimSuffix(t, " unsigned")
	return strings.Join(strings.Fields(t), " ")
}
