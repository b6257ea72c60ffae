package entity

import (
	"fmt"
	"slices"
)

type AttributeDescriptor struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// TypeConfig describes how an entity type is displayed and which child types
// it may contain.
type TypeConfig struct {
	Key        Type                  `json:"key"`
	Name       string                `json:"name"`
	Attributes []AttributeDescriptor `json:"attributes"`
	Children   []Type                `json:"children"`
	TopLevel   bool                  `json:"topLevel"`
}

// Registry is the read-only entity type configuration. Build it once with
// NewRegistry and share the pointer.
type Registry struct {
	order   []Type
	configs map[Type]TypeConfig
}

var stationAttributes = []AttributeDescriptor{
	{Key: "occupation", Name: "Occupation"},
	{Key: "situation", Name: "Situation"},
}

var worldAttributes = []AttributeDescriptor{
	{Key: "atmosphere", Name: "Atmosphere"},
	{Key: "temperature", Name: "Temperature"},
	{Key: "biosphere", Name: "Biosphere"},
	{Key: "population", Name: "Population"},
	{Key: "techLevel", Name: "Tech Level"},
}

func defaultTypeConfigs() []TypeConfig {
	orbiting := []Type{TypeAsteroidBase, TypeGasGiantMine, TypeMoon, TypeMoonBase, TypeOrbitalRuin, TypeRefuelingStation, TypeResearchBase, TypeSpaceStation}

	return []TypeConfig{
		{Key: TypeSector, Name: "Sector", Children: []Type{TypeSystem, TypeBlackHole}},
		{Key: TypeSystem, Name: "System", TopLevel: true, Children: []Type{TypePlanet, TypeAsteroidBelt, TypeDeepSpaceStation, TypeSpaceStation}},
		{Key: TypeBlackHole, Name: "Black Hole", TopLevel: true, Children: []Type{TypeDeepSpaceStation, TypeSpaceStation}},
		{Key: TypeAsteroidBelt, Name: "Asteroid Belt", Attributes: stationAttributes, Children: []Type{TypeAsteroidBase, TypeSpaceStation}},
		{Key: TypeAsteroidBase, Name: "Asteroid Base", Attributes: stationAttributes},
		{Key: TypeDeepSpaceStation, Name: "Deep Space Station", Attributes: stationAttributes},
		{Key: TypeGasGiantMine, Name: "Gas Giant Mine", Attributes: stationAttributes},
		{Key: TypeMoon, Name: "Moon", Attributes: worldAttributes, Children: []Type{TypeMoonBase, TypeOrbitalRuin}},
		{Key: TypeMoonBase, Name: "Moon Base", Attributes: stationAttributes},
		{Key: TypeOrbitalRuin, Name: "Orbital Ruin", Attributes: stationAttributes},
		{Key: TypePlanet, Name: "Planet", Attributes: worldAttributes, Children: orbiting},
		{Key: TypeRefuelingStation, Name: "Refueling Station", Attributes: stationAttributes},
		{Key: TypeResearchBase, Name: "Research Base", Attributes: stationAttributes},
		{Key: TypeSpaceStation, Name: "Space Station", Attributes: stationAttributes},
	}
}

// NewRegistry returns the built-in entity type configuration.
func NewRegistry() *Registry {
	return newRegistry(defaultTypeConfigs())
}

func newRegistry(configs []TypeConfig) *Registry {
	r := &Registry{
		order:   make([]Type, 0, len(configs)),
		configs: make(map[Type]TypeConfig, len(configs)),
	}
	for _, c := range configs {
		r.order = append(r.order, c.Key)
		r.configs[c.Key] = c
	}
	return r
}

// Lookup returns the configuration for t.
func (r *Registry) Lookup(t Type) (TypeConfig, bool) {
	c, ok := r.configs[t]
	if !ok {
		return TypeConfig{}, false
	}
	return cloneConfig(c), true
}

// MustLookup is Lookup for types known at compile time.
func (r *Registry) MustLookup(t Type) TypeConfig {
	c, ok := r.Lookup(t)
	if !ok {
		panic(fmt.Sprintf("entity: unknown type %q", t))
	}
	return c
}

// Types returns every registered type in declaration order.
func (r *Registry) Types() []Type {
	return slices.Clone(r.order)
}

// Configs returns every type configuration in declaration order.
func (r *Registry) Configs() []TypeConfig {
	out := make([]TypeConfig, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, cloneConfig(r.configs[t]))
	}
	return out
}

// CanContain reports whether parent may hold children of type child.
func (r *Registry) CanContain(parent, child Type) bool {
	c, ok := r.configs[parent]
	if !ok {
		return false
	}
	return slices.Contains(c.Children, child)
}

func cloneConfig(c TypeConfig) TypeConfig {
	c.Attributes = slices.Clone(c.Attributes)
	c.Children = slices.Clone(c.Children)
	return c
}
