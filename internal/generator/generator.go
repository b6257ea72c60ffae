// Package generator builds randomly populated entities.
//
// Every type-specific generator runs through the same pipeline: a base entity
// is built from the entity type and the caller's Config (name, parent), then
// the type step adds random attributes unless generation is disabled. All
// randomness comes from the Generator's *random.Chance, so a Generator built
// from a fixed seed is fully reproducible.
//
// Generators never mutate their inputs and never fail: missing options fall
// back to their defaults.
package generator

import (
	"log/slog"

	"sectors-server/internal/entity"
	"sectors-server/internal/random"

	"github.com/google/uuid"
)

// Config holds the options shared by all single-entity generators.
type Config struct {
	// Name overrides the generated name when set.
	Name string `json:"name,omitempty"`

	// Generate defaults to true. When false the base entity is returned
	// without random attributes.
	Generate *bool `json:"generate,omitempty"`

	// HideOccAndSit hides the occupation and situation attributes.
	HideOccAndSit bool `json:"hideOccAndSit,omitempty"`

	Parent     string      `json:"parent,omitempty"`
	ParentType entity.Type `json:"parentEntity,omitempty"`
}

// ShouldGenerate reports the effective value of Generate.
func (c Config) ShouldGenerate() bool {
	return c.Generate == nil || *c.Generate
}

// Bool returns a pointer to v, for optional flags.
func Bool(v bool) *bool {
	return &v
}

type Generator struct {
	registry   *entity.Registry
	occupation entity.CategoryTable
	situation  entity.CategoryTable
	chance     *random.Chance
	names      *nameGenerator
	newID      func() string
	logger     *slog.Logger
}

type Option func(*Generator)

// WithIDFunc replaces the uuid-based identifier source.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) {
		g.newID = fn
	}
}

// WithTables replaces the occupation and situation tables.
func WithTables(occupation, situation entity.CategoryTable) Option {
	return func(g *Generator) {
		g.occupation = occupation
		g.situation = situation
	}
}

func New(registry *entity.Registry, chance *random.Chance, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		registry:   registry,
		occupation: entity.Occupation,
		situation:  entity.Situation,
		chance:     chance,
		names:      newNameGenerator(chance),
		newID:      uuid.NewString,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type step func(base entity.Entity, cfg Config) entity.Entity

// common builds the base entity for entityType and runs fn on it.
func (g *Generator) common(entityType entity.Type, cfg Config, fn step) entity.Entity {
	name := cfg.Name
	if name == "" {
		name = g.names.forType(entityType)
	}

	base := entity.Entity{
		Name:       name,
		Type:       entityType,
		Parent:     cfg.Parent,
		ParentType: cfg.ParentType,
	}
	return fn(base, cfg)
}
