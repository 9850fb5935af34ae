// Package registry loads card definitions and serves them read-only to the engine.
package registry

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/norsetcg/cardengine/internal/game/card"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateCard is returned when two definitions share an id.
var ErrDuplicateCard = errors.New("duplicate card id")

// Registry is an immutable set of card definitions. It is safe for concurrent use.
type Registry struct {
	byID  map[string]*card.Data
	order []*card.Data
}

// New builds a registry, validating every card.
func New(cards ...*card.Data) (*Registry, error) {
	r := &Registry{byID: make(map[string]*card.Data, len(cards))}
	for _, d := range cards {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, d.ID)
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d)
	}
	slices.SortFunc(r.order, func(a, b *card.Data) int {
		return strings.Compare(a.ID, b.ID)
	})
	return r, nil
}

// FromFlat builds a registry from card rows.
func FromFlat(rows []card.Flat) (*Registry, error) {
	cards := make([]*card.Data, 0, len(rows))
	for i, row := range rows {
		d, err := row.Build()
		if err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i, row.ID, err)
		}
		cards = append(cards, d)
	}
	return New(cards...)
}

// Lookup returns the definition with the given id.
func (r *Registry) Lookup(id string) (*card.Data, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All lists every definition ordered by id.
func (r *Registry) All() []*card.Data {
	return slices.Clone(r.order)
}

// Len is the number of definitions.
func (r *Registry) Len() int {
	return len(r.order)
}

// cardFile is the YAML document layout: a top-level cards list.
type cardFile struct {
	Cards []card.Flat `yaml:"cards"`
}

// Decode parses a YAML card document.
func Decode(data []byte) (*Registry, error) {
	var doc cardFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse cards: %w", err)
	}
	return FromFlat(doc.Cards)
}

// LoadFile reads a YAML card file.
func LoadFile(path string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card file: %w", err)
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("card registry loaded",
		zap.String("source", "file"),
		zap.String("path", path),
		zap.Int("cards", r.Len()),
	)
	return r, nil
}

// Encode writes a registry back to the YAML document layout.
func Encode(r *Registry) ([]byte, error) {
	doc := cardFile{Cards: make([]card.Flat, 0, r.Len())}
	for _, d := range r.order {
		doc.Cards = append(doc.Cards, card.Flatten(d))
	}
	return yaml.Marshal(doc)
}
