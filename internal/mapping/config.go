package mapping

import (
	"fmt"
	"slices"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/match"
	"trace-mapper/internal/schema"
	"trace-mapper/internal/template"
)

// Config is a compiled mapping configuration. It is read-only once loaded
// and safe for concurrent use.
type Config struct {
	vars  map[string]*VarMapping
	order []string
}

// VarMapping maps one source var.
type VarMapping struct {
	// Source is the var name found in events.
	Source string
	// Name is the target var name.
	Name string
	// Functions lists the op mappings in declared order.
	Functions []*OpMapping

	ops map[string]*OpMapping
}

// OpMapping maps one source op of a var.
type OpMapping struct {
	// Source is the op name found in events.
	Source string
	// Name is the target op name.
	Name string
	// MapArgs builds the target arguments.
	MapArgs template.Node
	// InputSchema optionally constrains the source arguments.
	InputSchema *schema.Schema
	// OutputSchema optionally constrains the mapped arguments.
	OutputSchema *schema.Schema
}

func newConfig() *Config {
	return &Config{vars: make(map[string]*VarMapping)}
}

func (c *Config) add(v *VarMapping) {
	c.vars[v.Source] = v
	c.order = append(c.order, v.Source)
}

func (v *VarMapping) add(op *OpMapping) {
	if v.ops == nil {
		v.ops = make(map[string]*OpMapping)
	}

	v.ops[op.Source] = op
	v.Functions = append(v.Functions, op)
}

// Vars returns the var mappings in declared order.
func (c *Config) Vars() []*VarMapping {
	out := make([]*VarMapping, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.vars[name])
	}

	return out
}

// Len returns the number of mapped (var, op) pairs.
func (c *Config) Len() int {
	n := 0
	for _, v := range c.vars {
		n += len(v.ops)
	}

	return n
}

// Op returns the mapping of a source op.
func (v *VarMapping) Op(name string) (*OpMapping, bool) {
	op, ok := v.ops[name]
	return op, ok
}

// Lookup returns the mappings for a source (var, op) pair. An unknown pair
// is a *diagnostic.ConfigError with close matches as suggestions.
func (c *Config) Lookup(varName, opName string) (*VarMapping, *OpMapping, error) {
	v, ok := c.vars[varName]
	if !ok {
		return nil, nil, &diagnostic.ConfigError{
			Path:        varName,
			Reason:      fmt.Sprintf("no mapping for var %q", varName),
			Suggestions: match.Suggest(varName, c.order, match.DefaultThreshold, match.DefaultLimit),
		}
	}

	op, ok := v.ops[opName]
	if !ok {
		names := make([]string, 0, len(v.Functions))
		for _, f := range v.Functions {
			names = append(names, f.Source)
		}

		return nil, nil, &diagnostic.ConfigError{
			Path:        varName + ".functions." + opName,
			Reason:      fmt.Sprintf("no mapping for op %q of var %q", opName, varName),
			Suggestions: match.Suggest(opName, names, match.DefaultThreshold, match.DefaultLimit),
		}
	}

	return v, op, nil
}

// Keys returns every mapped "var.op" pair, sorted.
func (c *Config) Keys() []string {
	var keys []string

	for _, v := range c.vars {
		for name := range v.ops {
			keys = append(keys, v.Source+"."+name)
		}
	}

	slices.Sort(keys)

	return keys
}
