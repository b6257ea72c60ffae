package generator

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"sectors-server/internal/entity"
	"sectors-server/internal/shared/errors"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestGenerateSector_Defaults(t *testing.T) {
	g := newTestGenerator(11)

	sector, err := g.GenerateSector(SectorOptions{})
	if err != nil {
		t.Fatalf("GenerateSector() error = %v", err)
	}

	if sector.Rows != DefaultRows || sector.Columns != DefaultColumns {
		t.Errorf("grid = %dx%d, want %dx%d", sector.Rows, sector.Columns, DefaultRows, DefaultColumns)
	}
	if sector.Name == "" {
		t.Error("sector has no name")
	}
	if sector.ID == "" {
		t.Error("sector has no id")
	}

	systems := sector.Entities[entity.TypeSystem]
	if len(systems) < 20 || len(systems) > 30 {
		t.Errorf("systems = %d, want 20..30 for an 8x10 grid", len(systems))
	}

	locations := make(map[string]bool)
	for id, system := range systems {
		if locations[system.Location] {
			t.Errorf("system %s shares location %s", id, system.Location)
		}
		locations[system.Location] = true

		hex, err := ParseHex(system.Location)
		if err != nil {
			t.Fatalf("system %s location: %v", id, err)
		}
		if hex.Column >= DefaultColumns || hex.Row >= DefaultRows {
			t.Errorf("system %s at %s is outside the grid", id, system.Location)
		}
		if system.Parent != sector.ID || system.ParentType != entity.TypeSector {
			t.Errorf("system %s parent = %q/%q", id, system.Parent, system.ParentType)
		}
	}

	for id, station := range sector.Entities[entity.TypeSpaceStation] {
		parent, ok := systems[station.Parent]
		if !ok {
			t.Errorf("station %s has unknown parent %q", id, station.Parent)
			continue
		}
		found := false
		for _, child := range parent.Children {
			if child == station.Name {
				found = true
			}
		}
		if !found {
			t.Errorf("station %s missing from parent children %v", station.Name, parent.Children)
		}
	}
}

func TestGenerateSector_NoPointsOfInterest(t *testing.T) {
	sector, err := newTestGenerator(12).GenerateSector(SectorOptions{AdditionalPointsOfInterest: Bool(false)})
	if err != nil {
		t.Fatalf("GenerateSector() error = %v", err)
	}
	if n := len(sector.Entities[entity.TypeSpaceStation]); n != 0 {
		t.Errorf("stations = %d, want 0", n)
	}
}

func TestGenerateSector_HideOccAndSit(t *testing.T) {
	sector, err := newTestGenerator(13).GenerateSector(SectorOptions{HideOccAndSit: true})
	if err != nil {
		t.Fatalf("GenerateSector() error = %v", err)
	}
	for id, station := range sector.Entities[entity.TypeSpaceStation] {
		if v, ok := station.Visibility["attr.occupation"]; !ok || v {
			t.Errorf("station %s occupation visible", id)
		}
	}
}

func TestGenerateSector_Determinism(t *testing.T) {
	first, err := newSeededGenerator(21).GenerateSector(SectorOptions{Name: "Verge"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := newSeededGenerator(21).GenerateSector(SectorOptions{Name: "Verge"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed and id source produced different sectors")
	}
	if first.Name != "Verge" {
		t.Errorf("Name = %q, want Verge", first.Name)
	}
}

func newSeededGenerator(seed int64) *Generator {
	base := newTestGenerator(seed)
	return New(base.registry, base.chance, base.logger, WithIDFunc(sequentialIDs()))
}

func TestGenerateSector_Neighbors(t *testing.T) {
	sector, err := newSeededGenerator(31).GenerateSector(SectorOptions{Rows: 3, Columns: 3})
	if err != nil {
		t.Fatalf("GenerateSector() error = %v", err)
	}

	byLocation := make(map[string]entity.Entity)
	for _, s := range sector.Entities[entity.TypeSystem] {
		byLocation[s.Location] = s
	}

	for _, s := range byLocation {
		hex, _ := ParseHex(s.Location)
		var want []string
		for _, n := range hex.Neighbors(3, 3) {
			if other, ok := byLocation[n.Label()]; ok {
				want = append(want, other.Name)
			}
		}
		if len(want) != len(s.Neighbors) {
			t.Errorf("system at %s neighbors = %v, want names %v", s.Location, s.Neighbors, want)
		}
	}
}

func TestGenerateSector_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts SectorOptions
	}{
		{name: "negative rows", opts: SectorOptions{Rows: -1}},
		{name: "too many columns", opts: SectorOptions{Columns: MaxGridSize + 1}},
		{name: "long name", opts: SectorOptions{Name: strings.Repeat("x", MaxNameLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestGenerator(1).GenerateSector(tt.opts)
			if errors.GetType(err) != errors.ErrorTypeValidation {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestGenerateSector_SingleHex(t *testing.T) {
	sector, err := newTestGenerator(8).GenerateSector(SectorOptions{Rows: 1, Columns: 1})
	if err != nil {
		t.Fatalf("GenerateSector() error = %v", err)
	}
	if n := len(sector.Entities[entity.TypeSystem]); n != 1 {
		t.Errorf("systems = %d, want 1", n)
	}
}
