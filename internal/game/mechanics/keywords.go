// Package mechanics implements keyword initialization hooks and the trigger helpers the
// dispatcher calls for Frenzy, Magnetic, Colossal, Echo, Rush, Poisonous, Lifesteal and
// Spell Power.
package mechanics

import (
	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
)

// Initialize derives runtime flags from the printed keywords. It is the match.InitHook
// used for every minted instance and runs exactly once per instance.
func Initialize(inst *match.CardInstance) {
	for _, k := range inst.Keywords {
		applyKeyword(inst, k)
	}
	ReadyForBattle(inst)
}

func applyKeyword(inst *match.CardInstance, k card.Keyword) {
	switch k {
	case card.KeywordTaunt:
		inst.HasTaunt = true
	case card.KeywordDivineShield:
		inst.HasDivineShield = true
	case card.KeywordRush:
		inst.IsRush = true
	case card.KeywordPoisonous:
		inst.IsPoisonous = true
	case card.KeywordLifesteal:
		inst.HasLifesteal = true
	case card.KeywordSpellDamage:
		inst.SpellPower = inst.Card.SpellDamage
		if inst.SpellPower == 0 {
			inst.SpellPower = 1
		}
	case card.KeywordFrenzy:
		inst.HasFrenzy = true
		inst.FrenzyTriggered = false
	case card.KeywordMagnetic:
		inst.IsMagnetic = true
	case card.KeywordColossal:
		inst.IsColossal = true
		inst.ColossalParts = []match.InstanceID{}
	case card.KeywordEcho:
		inst.HasEcho = true
	}
}

// ReadyForBattle resets attack readiness for a minion entering the battlefield. Charge
// attacks anything at once; Rush attacks minions only.
func ReadyForBattle(inst *match.CardInstance) {
	if !inst.IsMinion() {
		return
	}
	charge := inst.HasKeyword(card.KeywordCharge)
	inst.AttacksPerformed = 0
	inst.IsSummoningSick = !charge
	inst.CanAttack = charge || inst.IsRush
	inst.CanAttackHeroes = charge
}

// Silence strips keywords, ability descriptors and every flag derived from them. Stats
// and identity are kept, so silencing twice is the same as silencing once.
func Silence(inst *match.CardInstance) {
	inst.IsSilenced = true
	inst.Keywords = nil
	inst.Battlecry = nil
	inst.Deathrattle = nil
	inst.Spell = nil
	inst.Combo = nil
	inst.Frenzy = nil

	inst.HasDivineShield = false
	inst.IsFrozen = false
	inst.HasTaunt = false
	inst.IsRush = false
	inst.IsPoisonous = false
	inst.HasLifesteal = false
	inst.SpellPower = 0
	inst.HasFrenzy = false
	inst.IsMagnetic = false
	inst.IsColossal = false
	inst.HasEcho = false
	if inst.IsSummoningSick {
		inst.CanAttack = false
		inst.CanAttackHeroes = false
	}
}

// SpellDamage adds a side's spell power to a spell's base damage.
func SpellDamage(r match.Reader, side match.Side, base int) int {
	total := 0
	for _, inst := range r.Battlefield(side) {
		total += inst.SpellPower
	}
	return base + total
}

// Poisonous reports whether damage from the source destroys any minion it hits.
func Poisonous(src *match.CardInstance) bool {
	return src != nil && src.IsPoisonous && !src.IsSilenced
}

// Lifesteal reports whether damage from the source heals its owner's hero.
func Lifesteal(src *match.CardInstance) bool {
	return src != nil && src.HasLifesteal && !src.IsSilenced
}
