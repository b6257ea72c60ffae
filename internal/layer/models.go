package layer

import (
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"sectors-server/internal/generator"
	"sectors-server/internal/shared/errors"
)

const (
	MaxNameLength = 40
	DefaultColor  = "#dbdbdb"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Region struct {
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	IsHidden bool     `json:"isHidden"`
	Hexes    []string `json:"hexes"`
}

type Layer struct {
	ID          string            `json:"id"`
	SectorID    string            `json:"sectorId"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	IsHidden    bool              `json:"isHidden"`
	Regions     map[string]Region `json:"regions"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// LayerPatch changes the fields that are non-nil.
type LayerPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsHidden    *bool   `json:"isHidden,omitempty"`
}

// RegionPatch changes the fields that are non-nil. Hexes replaces the whole
// hex list when set.
type RegionPatch struct {
	Name     *string  `json:"name,omitempty"`
	Color    *string  `json:"color,omitempty"`
	IsHidden *bool    `json:"isHidden,omitempty"`
	Hexes    []string `json:"hexes,omitempty"`
}

// RegionEntry pairs a region with its id, for ordered listings.
type RegionEntry struct {
	ID string `json:"id"`
	Region
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	out := l
	out.Regions = make(map[string]Region, len(l.Regions))
	for id, r := range l.Regions {
		out.Regions[id] = r.clone()
	}
	return out
}

func (r Region) clone() Region {
	r.Hexes = slices.Clone(r.Hexes)
	return r
}

// Apply returns a copy of l with patch applied.
func (l Layer) Apply(patch LayerPatch) Layer {
	out := l.Clone()
	if patch.Name != nil {
		out.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.IsHidden != nil {
		out.IsHidden = *patch.IsHidden
	}
	return out
}

// WithRegion returns a copy of l holding region under id.
func (l Layer) WithRegion(id string, region Region) Layer {
	out := l.Clone()
	out.Regions[id] = region.clone()
	return out
}

// UpdateRegion returns a copy of l with patch applied to region id. The
// boolean is false when the region does not exist.
func (l Layer) UpdateRegion(id string, patch RegionPatch) (Layer, bool) {
	current, ok := l.Regions[id]
	if !ok {
		return l, false
	}

	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		current.Color = *patch.Color
	}
	if patch.IsHidden != nil {
		current.IsHidden = *patch.IsHidden
	}
	if patch.Hexes != nil {
		current.Hexes = patch.Hexes
	}
	return l.WithRegion(id, current), true
}

// WithoutRegion returns a copy of l without region id.
func (l Layer) WithoutRegion(id string) Layer {
	out := l.Clone()
	delete(out.Regions, id)
	return out
}

// SortedRegions lists the regions ordered case-insensitively by name, then
// by id.
func (l Layer) SortedRegions() []RegionEntry {
	ids := slices.Collect(maps.Keys(l.Regions))
	sort.Slice(ids, func(i, j int) bool {
		a := strings.ToLower(l.Regions[ids[i]].Name)
		b := strings.ToLower(l.Regions[ids[j]].Name)
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})

	entries := make([]RegionEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, RegionEntry{ID: id, Region: l.Regions[id].clone()})
	}
	return entries
}

func validateName(kind, name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 {
		return errors.Validationf("%s name is required", kind)
	}
	if n > MaxNameLength {
		return errors.Validationf("%s name must be at most %d characters", kind, MaxNameLength)
	}
	return nil
}

func (l Layer) validate() error {
	return validateName("layer", l.Name)
}

func (r Region) validate() error {
	if err := validateName("region", r.Name); err != nil {
		return err
	}
	if !colorPattern.MatchString(r.Color) {
		return errors.Validationf("invalid region color %q", r.Color)
	}
	for _, hex := range r.Hexes {
		if _, err := generator.ParseHex(hex); err != nil {
			return errors.WrapValidation("invalid region hex", err)
		}
	}
	return nil
}
