// Package printable turns a sector's entities into the blocks of the
// expanded printable export.
package printable

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"sectors-server/internal/entity"
)

type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Block is one entity of the printable: a header and its non-empty fields.
type Block struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	TypeName string `json:"typeName"`
	Location string `json:"location,omitempty"`
	Lines    []Line `json:"lines,omitempty"`
}

// Header returns "(Type - Location)" or "(Type)".
func (b Block) Header() string {
	if b.Location != "" {
		return fmt.Sprintf("(%s - %s)", b.TypeName, b.Location)
	}
	return fmt.Sprintf("(%s)", b.TypeName)
}

// Render builds one block per entity, ordered by the registry's type order,
// then by name, then by id. Entities of unregistered types are skipped.
func Render(registry *entity.Registry, entities entity.Collection) []Block {
	var blocks []Block

	for _, conf := range registry.Configs() {
		bucket := entities[conf.Key]
		if len(bucket) == 0 {
			continue
		}

		ids := make([]string, 0, len(bucket))
		for id := range bucket {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := bucket[ids[i]], bucket[ids[j]]
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return ids[i] < ids[j]
		})

		for _, id := range ids {
			blocks = append(blocks, renderEntity(id, conf, bucket[id]))
		}
	}

	return blocks
}

func renderEntity(id string, conf entity.TypeConfig, e entity.Entity) Block {
	var lines []Line

	if len(e.Tags) > 0 {
		lines = append(lines, Line{Label: "Tags", Value: strings.Join(e.Tags, ", ")})
	}
	for _, attr := range conf.Attributes {
		if value := e.Attributes[attr.Key]; value != "" {
			lines = append(lines, Line{Label: attr.Name, Value: attributeLabel(attr.Key, value)})
		}
	}
	if len(e.Neighbors) > 0 {
		lines = append(lines, Line{Label: "Neighbors", Value: strings.Join(e.Neighbors, ", ")})
	}
	if len(e.Children) > 0 {
		lines = append(lines, Line{Label: "Children", Value: strings.Join(e.Children, ", ")})
	}
	if e.Description != "" {
		lines = append(lines, Line{Label: "Description", Value: e.Description})
	}

	return Block{
		ID:       id,
		Name:     e.Name,
		Type:     conf.Key.String(),
		TypeName: conf.Name,
		Location: e.Location,
		Lines:    lines,
	}
}

// attributeLabel resolves category keys such as "pirates" to their display
// names. Free-form values pass through.
func attributeLabel(key, value string) string {
	switch key {
	case entity.Occupation.Key:
		return entity.Occupation.Label(value)
	case entity.Situation.Key:
		return entity.Situation.Label(value)
	default:
		return value
	}
}

// WriteText writes blocks in the plain-text printable layout.
func WriteText(w io.Writer, title string, blocks []Block) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", utf8.RuneCountInString(title))); err != nil {
			return err
		}
	}

	for _, b := range blocks {
		if _, err := fmt.Fprintf(w, "%s %s\n", b.Name, b.Header()); err != nil {
			return err
		}
		for _, l := range b.Lines {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", l.Label, l.Value); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
