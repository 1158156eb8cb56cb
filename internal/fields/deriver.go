// Package fields derives per-table field metadata (defaults, rules, casts and
// visibility) from column definitions and column comments.
package fields

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/tordrt/schemalive/internal/schema"
	"github.com/tordrt/schemalive/modelconfig"
)

// Rule tokens produced from column definitions
const (
	RuleRequired  = "required"
	RuleDate      = "date"
	rulePrefixMax = "max:"
)

// Deriver builds field configurations for tables
type Deriver struct {
	logger *zap.Logger
}

// NewDeriver creates a deriver; a nil logger discards output
func NewDeriver(logger *zap.Logger) *Deriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deriver{logger: logger}
}

// Derive returns the field configuration of one table
func (d *Deriver) Derive(t schema.Table) *modelconfig.FieldConfig {
	cfg := modelconfig.NewFieldConfig()
	for _, col := range t.Columns {
		d.deriveColumn(cfg, t.Name, col)
	}
	return cfg
}

func (d *Deriver) deriveColumn(cfg *modelconfig.FieldConfig, table string, col schema.Column) {
	cfg.Attributes[col.Name] = col.DefaultValue
	cfg.Fillable = append(cfg.Fillable, col.Name)

	if !col.Nullable && col.DefaultValue == nil && !col.AutoIncrement {
		cfg.AddRule(col.Name, RuleRequired)
	}
	if col.IsString() && col.Length > 0 {
		cfg.AddRule(col.Name, rulePrefixMax+strconv.Itoa(col.Length))
	}
	if col.IsDateTime() {
		cfg.AddRule(col.Name, RuleDate)
		cfg.Casts[col.Name] = modelconfig.CastDateTime
	}

	for _, dir := range ParseDirectives(col.Comment) {
		if h, ok := lookupHandler(dir.Method); ok {
			h(cfg, col.Name, dir.Args)
			continue
		}
		if dir.Method == "" {
			continue
		}
		d.logger.Debug("column comment kept as rule",
			zap.String("table", table),
			zap.String("column", col.Name),
			zap.String("rule", dir.Raw))
		cfg.AddRule(col.Name, dir.Raw)
	}
}
