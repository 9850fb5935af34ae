package registry

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/norsetcg/cardengine/internal/game/card"
)

// csvColumns are the columns a card export may carry. Only id, name and type are
// required; the rest may be missing or empty.
var csvColumns = []string{
	"id", "name", "description", "manaCost", "type", "rarity", "class", "keywords",
	"collectible", "spellDamage", "attack", "health", "race", "durability", "armor", "abilities",
}

// DecodeCSV parses a card export with a header row. Keywords are separated by
// semicolons; abilities use the JSONB column layout of the cards table.
func DecodeCSV(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("card export is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"id", "name", "type"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("card export has no %q column", required)
		}
	}
	for name := range index {
		if !knownColumn(name) {
			return nil, fmt.Errorf("card export has unknown column %q", name)
		}
	}

	var rows []card.Flat
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := flatFromRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return FromFlat(rows)
}

func knownColumn(name string) bool {
	for _, c := range csvColumns {
		if c == name {
			return true
		}
	}
	return false
}

func flatFromRecord(record []string, index map[string]int) (card.Flat, error) {
	get := func(col string) string {
		if i, ok := index[col]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	num := func(col string) (int, error) {
		v := get(col)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", col, err)
		}
		return n, nil
	}

	f := card.Flat{
		ID:          get("id"),
		Name:        get("name"),
		Description: get("description"),
		Type:        card.Type(get("type")),
		Rarity:      card.Rarity(get("rarity")),
		Class:       card.Class(get("class")),
		Race:        card.Race(get("race")),
	}

	var err error
	for _, target := range []struct {
		col string
		dst *int
	}{
		{"manaCost", &f.ManaCost},
		{"spellDamage", &f.SpellDamage},
		{"attack", &f.Attack},
		{"health", &f.Health},
		{"durability", &f.Durability},
		{"armor", &f.Armor},
	} {
		if *target.dst, err = num(target.col); err != nil {
			return f, err
		}
	}

	if kw := get("keywords"); kw != "" {
		for _, k := range strings.Split(kw, ";") {
			if k = strings.TrimSpace(k); k != "" {
				f.Keywords = append(f.Keywords, card.Keyword(k))
			}
		}
	}
	if v := get("collectible"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("column collectible: %w", err)
		}
		f.Collectible = &b
	}
	if v := get("abilities"); v != "" {
		var col abilityColumn
		if err := json.Unmarshal([]byte(v), &col); err != nil {
			return f, fmt.Errorf("column abilities: %w", err)
		}
		f.Battlecry = col.Battlecry
		f.Deathrattle = col.Deathrattle
		f.Spell = col.Spell
		f.Combo = col.Combo
		f.Frenzy = col.Frenzy
	}
	return f, nil
}
