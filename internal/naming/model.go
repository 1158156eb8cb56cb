package naming

// Resolver reports whether a model with the given name exists
type Resolver interface {
	Exists(name string) bool
}

// KnownModels is a Resolver over an explicit list of model names
type KnownModels map[string]struct{}

// NewKnownModels creates a resolver for the given model names
func NewKnownModels(names ...string) KnownModels {
	m := make(KnownModels, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Exists implements Resolver
func (k KnownModels) Exists(name string) bool {
	_, ok := k[name]
	return ok
}

// Conventional assumes one model per table, named after the singular table name
type Conventional struct{}

// Exists implements Resolver
func (Conventional) Exists(name string) bool {
	return name != "" && Singular(name) == name
}

// Guesser maps table names to model class references
type Guesser struct {
	Namespace string
	Resolver  Resolver
}

// Guess returns the class reference of the first existing model among the
// studly, singular and plural forms of the table name, or "" if none exists
func (g Guesser) Guess(table string) string {
	if g.Resolver == nil {
		return ""
	}
	name := Studly(table)
	for _, candidate := range []string{name, Singular(name), Plural(name)} {
		if g.Resolver.Exists(candidate) {
			return g.qualify(candidate)
		}
	}
	return ""
}

func (g Guesser) qualify(name string) string {
	if g.Namespace == "" {
		return name
	}
	return g.Namespace + "." + name
}
