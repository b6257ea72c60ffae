package layer

import (
	"reflect"
	"strings"
	"testing"

	"sectors-server/internal/shared/errors"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleLayer() Layer {
	return Layer{
		ID:       "l1",
		SectorID: "s1",
		Name:     "Factions",
		Regions: map[string]Region{
			"r1": {Name: "zeta league", Color: "#ff0000", Hexes: []string{"0101"}},
			"r2": {Name: "Alpha Pact", Color: "#00ff00"},
			"r3": {Name: "beta cartel", Color: "#0000ff", IsHidden: true},
		},
	}
}

func TestLayer_WithRegion(t *testing.T) {
	l := sampleLayer()
	hexes := []string{"0303"}

	next := l.WithRegion("r4", Region{Name: "Delta", Color: "#123", Hexes: hexes})
	if _, ok := next.Regions["r4"]; !ok {
		t.Fatal("region not added")
	}
	if _, ok := l.Regions["r4"]; ok {
		t.Error("input layer was mutated")
	}

	hexes[0] = "9999"
	if next.Regions["r4"].Hexes[0] != "0303" {
		t.Error("layer shares the caller's hex slice")
	}
}

func TestLayer_UpdateRegion(t *testing.T) {
	l := sampleLayer()

	next, ok := l.UpdateRegion("r1", RegionPatch{Color: ptr("#abcdef"), IsHidden: ptr(true)})
	if !ok {
		t.Fatal("UpdateRegion() reported missing region")
	}
	want := Region{Name: "zeta league", Color: "#abcdef", IsHidden: true, Hexes: []string{"0101"}}
	if !reflect.DeepEqual(next.Regions["r1"], want) {
		t.Errorf("region = %+v, want %+v", next.Regions["r1"], want)
	}
	if l.Regions["r1"].Color != "#ff0000" {
		t.Error("input layer was mutated")
	}

	if _, ok := l.UpdateRegion("missing", RegionPatch{}); ok {
		t.Error("UpdateRegion() on a missing region reported success")
	}
}

func TestLayer_WithoutRegion(t *testing.T) {
	l := sampleLayer()
	next := l.WithoutRegion("r2")

	if _, ok := next.Regions["r2"]; ok {
		t.Error("region not removed")
	}
	if len(l.Regions) != 3 {
		t.Error("input layer was mutated")
	}
}

func TestLayer_SortedRegions(t *testing.T) {
	var names []string
	for _, entry := range sampleLayer().SortedRegions() {
		names = append(names, entry.Name)
	}

	want := []string{"Alpha Pact", "beta cartel", "zeta league"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestLayer_Apply(t *testing.T) {
	next := sampleLayer().Apply(LayerPatch{Name: ptr("  Trade  "), IsHidden: ptr(true)})
	if next.Name != "Trade" || !next.IsHidden {
		t.Errorf("Apply() = %+v", next)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "layer ok", err: Layer{Name: "Trade"}.validate()},
		{name: "layer blank", err: Layer{Name: "   "}.validate(), wantErr: true},
		{name: "layer too long", err: Layer{Name: strings.Repeat("a", MaxNameLength+1)}.validate(), wantErr: true},
		{name: "region ok", err: Region{Name: "Pact", Color: "#fff", Hexes: []string{"0102"}}.validate()},
		{name: "region bad color", err: Region{Name: "Pact", Color: "red"}.validate(), wantErr: true},
		{name: "region bad hex", err: Region{Name: "Pact", Color: "#ffffff", Hexes: []string{"12"}}.validate(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				if !errors.Is(tt.err, errors.ErrorTypeValidation) {
					t.Errorf("error = %v, want validation error", tt.err)
				}
				return
			}
			if tt.err != nil {
				t.Errorf("unexpected error: %v", tt.err)
			}
		})
	}
}
