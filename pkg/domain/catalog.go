package domain

import (
	"fmt"
	"slices"
)

// Catalog is an ordered, name-keyed set of environments.
// A Catalog is immutable once built; Merge returns a new one.
type Catalog struct {
	order []string
	envs  map[string]Environment
}

// NewCatalog builds a catalog from the given environments, preserving their order.
// Later entries with the same name replace earlier ones in place.
func NewCatalog(envs ...Environment) (*Catalog, error) {
	c := &Catalog{
		order: make([]string, 0, len(envs)),
		envs:  make(map[string]Environment, len(envs)),
	}
	for _, env := range envs {
		if err := c.put(env); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultCatalog returns the built-in themes.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(builtinEnvironments...)
	if err != nil {
		panic(fmt.Sprintf("builtin catalog is invalid: %v", err))
	}
	return c
}

func (c *Catalog) put(env Environment) error {
	if err := env.Validate(); err != nil {
		return err
	}
	env.Symbols = slices.Clone(env.Symbols)
	if _, exists := c.envs[env.Name]; !exists {
		c.order = append(c.order, env.Name)
	}
	c.envs[env.Name] = env
	return nil
}

// Merge returns a new catalog with envs layered over c.
func (c *Catalog) Merge(envs ...Environment) (*Catalog, error) {
	merged, err := NewCatalog(c.All()...)
	if err != nil {
		return nil, err
	}
	for _, env := range envs {
		if err := merged.put(env); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Lookup returns the named environment or an error wrapping ErrInvalidEnvironment.
func (c *Catalog) Lookup(name string) (Environment, error) {
	env, ok := c.envs[name]
	if !ok {
		return Environment{}, &UnknownEnvironmentError{Name: name}
	}
	env.Symbols = slices.Clone(env.Symbols)
	return env, nil
}

// Has reports whether name is a known environment.
func (c *Catalog) Has(name string) bool {
	_, ok := c.envs[name]
	return ok
}

// Names returns the environment names in catalog order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// All returns copies of every environment in catalog order.
func (c *Catalog) All() []Environment {
	out := make([]Environment, 0, len(c.order))
	for _, name := range c.order {
		env := c.envs[name]
		env.Symbols = slices.Clone(env.Symbols)
		out = append(out, env)
	}
	return out
}

// Len returns the number of environments.
func (c *Catalog) Len() int {
	return len(c.order)
}
