package generator

import (
	"sectors-server/internal/entity"
	"sectors-server/internal/random"
)

// ChildDescriptor describes one child entity to generate.
type ChildDescriptor struct {
	Name     string `json:"name,omitempty"`
	Generate *bool  `json:"generate,omitempty"`
}

type ChildrenOptions struct {
	// Children lists the stations to create. A nil slice means a random
	// number between 0 and 2, weighted 3:1:1 toward none. An empty non-nil
	// slice creates no stations.
	Children []ChildDescriptor `json:"children,omitempty"`
	// AdditionalPointsOfInterest defaults to true. When false no children
	// are created regardless of Children.
	AdditionalPointsOfInterest *bool `json:"additionalPointsOfInterest,omitempty"`
	Config
}

type Children struct {
	Children []entity.Entity `json:"children"`
}

var childCounts = []int{0, 1, 2}
var childCountWeights = []int{3, 1, 1}

// GenerateSpaceStation creates a space station from cfg.
func (g *Generator) GenerateSpaceStation(cfg Config) entity.Entity {
	return g.common(entity.TypeSpaceStation, cfg, g.spaceStationStep)
}

// GenerateSpaceStationFrom runs the space station step on an existing
// entity. base is not modified.
func (g *Generator) GenerateSpaceStationFrom(base entity.Entity, cfg Config) entity.Entity {
	return g.spaceStationStep(base, cfg)
}

func (g *Generator) spaceStationStep(base entity.Entity, cfg Config) entity.Entity {
	if !cfg.ShouldGenerate() {
		return base.Clone()
	}

	var visibility map[string]bool
	if cfg.HideOccAndSit {
		visibility = map[string]bool{
			entity.VisibilityKey(g.occupation.Key): false,
			entity.VisibilityKey(g.situation.Key): false,
		}
	}

	occupation := random.Weighted(g.chance, g.occupation.Keys(), g.occupation.Weights())
	situation := random.Weighted(g.chance, g.situation.Keys(), g.situation.Weights())

	return base.Merge(entity.Entity{
		Visibility: visibility,
		Attributes: map[string]string{
			g.occupation.Key: occupation,
			g.situation.Key:  situation,
		},
	})
}

// GenerateSpaceStations creates the child stations described by opts.
// A name or generate flag set on the shared config overrides the one of
// each descriptor.
func (g *Generator) GenerateSpaceStations(opts ChildrenOptions) Children {
	if opts.AdditionalPointsOfInterest != nil && !*opts.AdditionalPointsOfInterest {
		return Children{Children: []entity.Entity{}}
	}

	descriptors := opts.Children
	if descriptors == nil {
		descriptors = make([]ChildDescriptor, random.Weighted(g.chance, childCounts, childCountWeights))
	}

	children := make([]entity.Entity, 0, len(descriptors))
	for _, d := range descriptors {
		cfg := opts.Config
		if cfg.Name == "" {
			cfg.Name = d.Name
		}
		if cfg.Generate == nil {
			cfg.Generate = d.Generate
		}
		children = append(children, g.GenerateSpaceStation(cfg))
	}

	g.logger.Debug("Generated space stations",
		"component", "generator",
		"operation", "generate_space_stations",
		"count", len(children),
		"parent", opts.Parent,
	)
	return Children{Children: children}
}
