// Package builder assembles the model configuration of a schema: field metadata
// for every table and the inferred relationship map.
package builder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/schemalive/internal/fields"
	"github.com/tordrt/schemalive/internal/index"
	"github.com/tordrt/schemalive/internal/naming"
	"github.com/tordrt/schemalive/internal/relation"
	"github.com/tordrt/schemalive/internal/schema"
	"github.com/tordrt/schemalive/modelconfig"
)

// ErrNoSchema is returned when a source yields neither a schema nor an error
var ErrNoSchema = errors.New("source returned no schema")

// DefaultConnection names the configuration of a single-connection build
const DefaultConnection = "default"

type options struct {
	connection string
	guesser    naming.Guesser
	logger     *zap.Logger
}

// Option configures a build
type Option func(*options)

// WithConnection sets the connection name recorded on the configuration
func WithConnection(name string) Option {
	return func(o *options) { o.connection = name }
}

// WithNamespace sets the namespace prefixed to model class references
func WithNamespace(ns string) Option {
	return func(o *options) { o.guesser.Namespace = ns }
}

// WithResolver sets how model names are checked for existence
func WithResolver(r naming.Resolver) Option {
	return func(o *options) { o.guesser.Resolver = r }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) *options {
	o := &options{
		connection: DefaultConnection,
		guesser:    naming.Guesser{Resolver: naming.Conventional{}},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Build derives the configuration of a schema. Indexes are read first, then
// foreign keys, then columns, and many-to-many edges are collapsed last.
// A nil schema builds an empty configuration.
func Build(s *schema.Schema, opts ...Option) *modelconfig.Configuration {
	if s == nil {
		s = &schema.Schema{}
	}
	o := newOptions(opts)
	log := o.logger.With(zap.String("connection", o.connection))

	catalog := index.NewCatalog()
	for _, t := range s.Tables {
		catalog.RecordTable(t)
	}

	engine := relation.NewEngine(catalog, o.guesser, log)
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			engine.AddForeignKey(t.Name, fk)
		}
	}

	cfg := modelconfig.New(o.connection)
	deriver := fields.NewDeriver(log)
	for _, t := range s.Tables {
		cfg.Fields[t.Name] = deriver.Derive(t)
	}

	engine.CollapseManyToMany()

	for _, t := range s.Tables {
		cfg.Relationships[t.Name] = map[string]*modelconfig.Relationship{}
	}
	for table, rels := range engine.Relationships() {
		cfg.Relationships[table] = rels
	}

	log.Debug("model configuration built",
		zap.Int("tables", len(s.Tables)),
		zap.Int("indexes", catalog.Len()),
		zap.Int("relationships", engine.Len()))
	return cfg
}

// Source produces the schema of one connection
type Source interface {
	Schema(ctx context.Context) (*schema.Schema, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (*schema.Schema, error)

// Schema implements Source
func (f SourceFunc) Schema(ctx context.Context) (*schema.Schema, error) {
	return f(ctx)
}

// BuildAll builds one configuration per connection. Builds run concurrently
// and share nothing; the first failure cancels the rest.
func BuildAll(ctx context.Context, sources map[string]Source, opts ...Option) (modelconfig.Set, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	results := make([]*modelconfig.Configuration, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		src := sources[name]
		g.Go(func() error {
			s, err := src.Schema(gctx)
			if err != nil {
				return fmt.Errorf("failed to read schema of connection %s: %w", name, err)
			}
			if s == nil {
				return fmt.Errorf("failed to read schema of connection %s: %w", name, ErrNoSchema)
			}
			connOpts := append(append([]Option{}, opts...), WithConnection(name))
			results[i] = Build(s, connOpts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(modelconfig.Set, len(results))
	for _, cfg := range results {
		set[cfg.Connection] = cfg
	}
	return set, nil
}
