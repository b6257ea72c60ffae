package generator

import (
	"sort"
	"unicode/utf8"

	"sectors-server/internal/entity"
	"sectors-server/internal/random"
	"sectors-server/internal/shared/errors"
)

const (
	DefaultRows    = 10
	DefaultColumns = 8
	MaxGridSize    = 99
	MaxNameLength  = 40
)

type SectorOptions struct {
	Name                       string `json:"name,omitempty"`
	Rows                       int    `json:"rows,omitempty"`
	Columns                    int    `json:"columns,omitempty"`
	AdditionalPointsOfInterest *bool  `json:"additionalPointsOfInterest,omitempty"`
	HideOccAndSit              bool   `json:"hideOccAndSit,omitempty"`
}

type GeneratedSector struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Rows     int               `json:"rows"`
	Columns  int               `json:"columns"`
	Entities entity.Collection `json:"entities"`
}

type placedSystem struct {
	id     string
	hex    Hex
	entity entity.Entity
}

// GenerateSector lays out systems on distinct hexes of a new sector and
// populates each with space stations.
func (g *Generator) GenerateSector(opts SectorOptions) (*GeneratedSector, error) {
	rows, columns := opts.Rows, opts.Columns
	if rows == 0 {
		rows = DefaultRows
	}
	if columns == 0 {
		columns = DefaultColumns
	}

	if rows < 1 || rows > MaxGridSize {
		return nil, errors.Validationf("rows must be between 1 and %d", MaxGridSize)
	}
	if columns < 1 || columns > MaxGridSize {
		return nil, errors.Validationf("columns must be between 1 and %d", MaxGridSize)
	}
	if utf8.RuneCountInString(opts.Name) > MaxNameLength {
		return nil, errors.Validationf("sector name must be at most %d characters", MaxNameLength)
	}

	logger := g.logger.With("component", "generator", "operation", "generate_sector", "rows", rows, "columns", columns)
	logger.Debug("Generating sector")

	sectorID := g.newID()
	name := opts.Name
	if name == "" {
		name = g.names.sector()
	}

	hexes := random.Shuffle(g.chance, Grid(rows, columns))
	total := len(hexes)
	low := max(1, total/4)
	high := max(low, total*3/8)
	count := g.chance.Integer(low, high)

	systems := make([]placedSystem, 0, count)
	for _, hex := range hexes[:count] {
		label := hex.Label()
		system := g.common(entity.TypeSystem, Config{Parent: sectorID, ParentType: entity.TypeSector}, func(base entity.Entity, _ Config) entity.Entity {
			base.Location = label
			return base
		})
		systems = append(systems, placedSystem{id: g.newID(), hex: hex, entity: system})
	}

	entities := entity.Collection{}
	byLabel := make(map[string]string, len(systems))
	for _, s := range systems {
		byLabel[s.hex.Label()] = s.entity.Name
	}

	for _, s := range systems {
		stations := g.GenerateSpaceStations(ChildrenOptions{
			AdditionalPointsOfInterest: opts.AdditionalPointsOfInterest,
			Config: Config{
				HideOccAndSit: opts.HideOccAndSit,
				Parent:        s.id,
				ParentType:    entity.TypeSystem,
			},
		})

		system := s.entity
		for _, station := range stations.Children {
			entities.Add(g.newID(), station)
			system.Children = append(system.Children, station.Name)
		}

		for _, n := range s.hex.Neighbors(rows, columns) {
			if neighbor, ok := byLabel[n.Label()]; ok {
				system.Neighbors = append(system.Neighbors, neighbor)
			}
		}
		sort.Strings(system.Neighbors)

		entities.Add(s.id, system)
	}

	logger.Info("Sector generated",
		"sector_id", sectorID,
		"systems", len(systems),
		"entities", entities.Count(),
	)

	return &GeneratedSector{
		ID:       sectorID,
		Name:     name,
		Rows:     rows,
		Columns:  columns,
		Entities: entities,
	}, nil
}
