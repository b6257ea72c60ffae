package entity

import (
	"maps"
	"slices"
)

type Type string

const (
	TypeSector           Type = "sector"
	TypeSystem           Type = "system"
	TypeBlackHole        Type = "blackHole"
	TypeAsteroidBelt     Type = "asteroidBelt"
	TypeAsteroidBase     Type = "asteroidBase"
	TypeDeepSpaceStation Type = "deepSpaceStation"
	TypeGasGiantMine     Type = "gasGiantMine"
	TypeMoon             Type = "moon"
	TypeMoonBase         Type = "moonBase"
	TypeOrbitalRuin      Type = "orbitalRuin"
	TypePlanet           Type = "planet"
	TypeRefuelingStation Type = "refuelingStation"
	TypeResearchBase     Type = "researchBase"
	TypeSpaceStation     Type = "spaceStation"
)

func (t Type) String() string {
	return string(t)
}

// Entity is a map object of any type. Attributes and Visibility are keyed by
// attribute key; Visibility uses the "attr.<key>" form.
type Entity struct {
	Name        string            `json:"name"`
	Type        Type              `json:"type,omitempty"`
	Parent      string            `json:"parent,omitempty"`
	ParentType  Type              `json:"parentEntity,omitempty"`
	Location    string            `json:"location,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Visibility  map[string]bool   `json:"visibility,omitempty"`
	Neighbors   []string          `json:"neighbors,omitempty"`
	Children    []string          `json:"children,omitempty"`
	Description string            `json:"description,omitempty"`
	IsHidden    bool              `json:"isHidden,omitempty"`
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	out := e
	out.Tags = slices.Clone(e.Tags)
	out.Neighbors = slices.Clone(e.Neighbors)
	out.Children = slices.Clone(e.Children)
	out.Attributes = maps.Clone(e.Attributes)
	out.Visibility = maps.Clone(e.Visibility)
	return out
}

// Merge returns a copy of e with patch applied. Scalar and slice fields are
// replaced when set on patch; Attributes and Visibility are merged one level
// deep with patch winning on conflicts.
func (e Entity) Merge(patch Entity) Entity {
	out := e.Clone()

	if patch.Name != "" {
		out.Name = patch.Name
	}
	if patch.Type != "" {
		out.Type = patch.Type
	}
	if patch.Parent != "" {
		out.Parent = patch.Parent
	}
	if patch.ParentType != "" {
		out.ParentType = patch.ParentType
	}
	if patch.Location != "" {
		out.Location = patch.Location
	}
	if patch.Tags != nil {
		out.Tags = slices.Clone(patch.Tags)
	}
	if patch.Neighbors != nil {
		out.Neighbors = slices.Clone(patch.Neighbors)
	}
	if patch.Children != nil {
		out.Children = slices.Clone(patch.Children)
	}
	if patch.Description != "" {
		out.Description = patch.Description
	}
	if patch.IsHidden {
		out.IsHidden = true
	}

	if len(patch.Attributes) > 0 {
		if out.Attributes == nil {
			out.Attributes = make(map[string]string, len(patch.Attributes))
		}
		maps.Copy(out.Attributes, patch.Attributes)
	}
	if len(patch.Visibility) > 0 {
		if out.Visibility == nil {
			out.Visibility = make(map[string]bool, len(patch.Visibility))
		}
		maps.Copy(out.Visibility, patch.Visibility)
	}

	return out
}

// VisibilityKey returns the Visibility key for an attribute.
func VisibilityKey(attribute string) string {
	return "attr." + attribute
}

// Collection holds entities keyed by type, then by entity ID.
type Collection map[Type]map[string]Entity

// Add stores e under id, creating the type bucket when needed.
func (c Collection) Add(id string, e Entity) {
	bucket, ok := c[e.Type]
	if !ok {
		bucket = make(map[string]Entity)
		c[e.Type] = bucket
	}
	bucket[id] = e
}

// Count returns the number of entities across all types.
func (c Collection) Count() int {
	total := 0
	for _, bucket := range c {
		total += len(bucket)
	}
	return total
}
