// Package discovery builds discovery candidate pools and picks a card for AI players.
package discovery

import (
	"math/rand/v2"

	"github.com/norsetcg/cardengine/internal/game/card"
)

// DefaultCount is the number of options offered when a descriptor does not say.
const DefaultCount = 3

// Catalog lists every card definition in a stable order.
type Catalog interface {
	All() []*card.Data
}

// Candidates returns the collectible cards that pass the filter, in catalog order.
func Candidates(catalog Catalog, filter card.Filter) []*card.Data {
	var out []*card.Data
	for _, d := range catalog.All() {
		if d.Collectible && filter.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Options draws up to count distinct candidates uniformly at random. A count of zero
// or less means DefaultCount.
func Options(catalog Catalog, filter card.Filter, count int, rng *rand.Rand) []*card.Data {
	if count <= 0 {
		count = DefaultCount
	}
	pool := Candidates(catalog, filter)
	if count > len(pool) {
		count = len(pool)
	}
	// Partial Fisher-Yates: the first count slots end up a uniform sample.
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count:count]
}

var keywordValue = map[card.Keyword]int{
	card.KeywordTaunt:        2,
	card.KeywordDivineShield: 3,
	card.KeywordCharge:       3,
	card.KeywordRush:         2,
	card.KeywordWindfury:     2,
	card.KeywordStealth:      1,
	card.KeywordPoisonous:    2,
	card.KeywordLifesteal:    2,
	card.KeywordSpellDamage:  1,
	card.KeywordFrenzy:       1,
	card.KeywordMagnetic:     1,
	card.KeywordColossal:     2,
	card.KeywordEcho:         1,
	card.KeywordBattlecry:    1,
	card.KeywordDeathrattle:  1,
	card.KeywordCombo:        1,
}

// Score is the AI heuristic: keyword value plus attack plus health (durability for
// weapons).
func Score(d *card.Data) int {
	if d == nil {
		return 0
	}
	score := 0
	for _, k := range d.Keywords {
		score += keywordValue[k]
	}
	switch {
	case d.Minion != nil:
		score += d.Minion.Attack + d.Minion.Health
	case d.Weapon != nil:
		score += d.Weapon.Attack + d.Weapon.Durability
	case d.Hero != nil:
		score += d.Hero.Armor
	}
	return score
}

// Choose picks the highest scoring option. Ties go to the earliest option, so the pick
// is deterministic for a given option list.
func Choose(options []*card.Data) (*card.Data, bool) {
	var best *card.Data
	bestScore := 0
	for _, opt := range options {
		if s := Score(opt); best == nil || s > bestScore {
			best, bestScore = opt, s
		}
	}
	return best, best != nil
}
