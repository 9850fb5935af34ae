// Package gametest builds card registries and match states for tests.
package gametest

import (
	"fmt"
	"time"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"github.com/norsetcg/cardengine/internal/registry"
)

// Card ids of the fixture set.
const (
	Wisp         = "wisp"          // 0 mana 1/1
	Yeti         = "yeti"          // 4 mana 4/5
	Squire       = "squire"        // 1/1 divine shield
	Cobra        = "cobra"         // 2/3 poisonous beast
	Berserker    = "berserker"     // 2/3 frenzy: +3 attack
	LootHoarder  = "loot_hoarder"  // 2/1 deathrattle: draw 1
	HarvestGolem = "harvest_golem" // 2/3 mech, deathrattle: summon Damaged Golem
	DamagedGolem = "damaged_golem" // 2/1 mech token
	Geomancer    = "geomancer"     // 2/2 spell damage +1
	Annoy        = "annoy_module"  // 2/4 magnetic mech with taunt and divine shield
	Spider       = "spider_tank"   // 3/4 mech
	Thrasher     = "thrasher"      // 4/4 colossal, parts: 2x Thrasher Fin
	ThrasherFin  = "thrasher_fin"  // 0/3 token
	Sheep        = "sheep"         // 1/1 beast token
	Bandit       = "bandit"        // 2/1 token
	Ringleader   = "ringleader"    // 2/2 combo: summon Bandit
	Archer       = "archer"        // 1/1 battlecry: 1 damage
	Deathwing    = "deathwing"     // 12/12 battlecry: destroy all other minions, discard hand

	Moonfire   = "moonfire"     // 1 damage to a character
	Explosion  = "explosion"    // 1 damage to all enemy minions
	Consecrate = "consecrate"   // 2 damage to all enemies
	FrostNova  = "frost_nova"   // freeze all enemy minions
	Polymorph  = "polymorph"    // transform a minion into Sheep
	Control    = "mind_control" // take an enemy minion
	Intellect  = "intellect"    // draw 2
	Glyph      = "glyph"        // discover a spell
	Waygate    = "waygate"      // quest: cast 2 spells, reward Time Warp
	TimeWarp   = "time_warp"    // quest reward
	Drain      = "drain_life"   // lifesteal, 2 damage
	Evolve     = "evolve"       // echo, +1/+1 to a friendly minion
	Assassin   = "assassinate"  // destroy an enemy minion
	Shrink     = "shrink"       // -2/-2 to a minion

	Axe = "war_axe" // 3/2 weapon
)

// Ability builds a descriptor. RequiresTarget follows the target type.
func Ability(effect card.Effect, tt targeting.TargetType) *card.Ability {
	return &card.Ability{
		Effect:         effect,
		TargetType:     tt,
		RequiresTarget: tt != targeting.TargetNone && !tt.IsMass(),
	}
}

// Minion builds a collectible neutral minion.
func Minion(id, name string, cost, attack, health int, keywords ...card.Keyword) *card.Data {
	return &card.Data{
		ID:          id,
		Name:        name,
		ManaCost:    cost,
		Type:        card.TypeMinion,
		Rarity:      card.RarityCommon,
		Class:       card.ClassNeutral,
		Keywords:    keywords,
		Collectible: true,
		Minion:      &card.MinionStats{Attack: attack, Health: health, Race: card.RaceNone},
	}
}

// Spell builds a collectible neutral spell.
func Spell(id, name string, cost int, ability *card.Ability, keywords ...card.Keyword) *card.Data {
	return &card.Data{
		ID:          id,
		Name:        name,
		ManaCost:    cost,
		Type:        card.TypeSpell,
		Rarity:      card.RarityCommon,
		Class:       card.ClassNeutral,
		Keywords:    keywords,
		Collectible: true,
		Spell:       ability,
	}
}

func token(d *card.Data) *card.Data {
	d.Collectible = false
	d.Rarity = card.RarityToken
	return d
}

func race(d *card.Data, r card.Race) *card.Data {
	d.Minion.Race = r
	return d
}

// Cards is the fixture card set.
func Cards() []*card.Data {
	berserker := Minion(Berserker, "Amani Berserker", 2, 2, 3, card.KeywordFrenzy)
	berserker.Frenzy = Ability(card.Buff{Attack: 3}, targeting.TargetNone)

	loot := Minion(LootHoarder, "Loot Hoarder", 2, 2, 1, card.KeywordDeathrattle)
	loot.Deathrattle = Ability(card.Draw{Count: 1}, targeting.TargetNone)

	golem := race(Minion(HarvestGolem, "Harvest Golem", 3, 2, 3, card.KeywordDeathrattle), card.RaceMech)
	golem.Deathrattle = Ability(card.Summon{CardID: DamagedGolem, Count: 1}, targeting.TargetNone)

	geomancer := Minion(Geomancer, "Kobold Geomancer", 2, 2, 2, card.KeywordSpellDamage)
	geomancer.SpellDamage = 1

	ringleader := Minion(Ringleader, "Defias Ringleader", 2, 2, 2, card.KeywordCombo)
	ringleader.Combo = Ability(card.Summon{CardID: Bandit, Count: 1}, targeting.TargetNone)

	archer := Minion(Archer, "Elven Archer", 1, 1, 1, card.KeywordBattlecry)
	archer.Battlecry = Ability(card.Damage{Amount: 1}, targeting.TargetAnyCharacter)

	deathwing := race(Minion(Deathwing, "Deathwing", 10, 12, 12, card.KeywordBattlecry), card.RaceDragon)
	deathwing.Battlecry = Ability(card.DestroyAll{Scope: targeting.TargetAllMinions, ExcludeSource: true, DiscardHand: true}, targeting.TargetNone)

	waygate := Spell(Waygate, "Open the Waygate", 1, Ability(card.StartQuest{Quest: card.QuestSpec{
		Kind:         card.QuestCastSpells,
		Target:       2,
		RewardCardID: TimeWarp,
	}}, targeting.TargetNone))

	timeWarp := token(Spell(TimeWarp, "Time Warp", 5, Ability(card.Draw{Count: 1}, targeting.TargetNone)))

	return []*card.Data{
		Minion(Wisp, "Wisp", 0, 1, 1),
		Minion(Yeti, "Chillwind Yeti", 4, 4, 5),
		Minion(Squire, "Argent Squire", 1, 1, 1, card.KeywordDivineShield),
		race(Minion(Cobra, "Emperor Cobra", 3, 2, 3, card.KeywordPoisonous), card.RaceBeast),
		berserker,
		loot,
		golem,
		token(race(Minion(DamagedGolem, "Damaged Golem", 1, 2, 1), card.RaceMech)),
		geomancer,
		race(Minion(Annoy, "Annoy-o-Module", 4, 2, 4, card.KeywordMagnetic, card.KeywordTaunt, card.KeywordDivineShield), card.RaceMech),
		race(Minion(Spider, "Spider Tank", 3, 3, 4), card.RaceMech),
		Minion(Thrasher, "Thrasher", 6, 4, 4, card.KeywordColossal),
		token(Minion(ThrasherFin, "Thrasher Fin", 1, 0, 3)),
		token(race(Minion(Sheep, "Sheep", 1, 1, 1), card.RaceBeast)),
		token(Minion(Bandit, "Defias Bandit", 1, 2, 1)),
		ringleader,
		archer,
		deathwing,

		Spell(Moonfire, "Moonfire", 0, Ability(card.Damage{Amount: 1}, targeting.TargetAnyCharacter)),
		Spell(Explosion, "Arcane Explosion", 2, Ability(card.AreaDamage{Amount: 1, Scope: targeting.TargetAllEnemyMinions}, targeting.TargetAllEnemyMinions)),
		Spell(Consecrate, "Consecration", 4, Ability(card.AreaDamage{Amount: 2, Scope: targeting.TargetAllEnemies}, targeting.TargetAllEnemies)),
		Spell(FrostNova, "Frost Nova", 3, Ability(card.Freeze{Scope: targeting.TargetAllEnemyMinions}, targeting.TargetAllEnemyMinions)),
		Spell(Polymorph, "Polymorph", 4, Ability(card.Transform{IntoCardID: Sheep}, targeting.TargetAnyMinion)),
		Spell(Control, "Mind Control", 10, Ability(card.MindControl{}, targeting.TargetEnemyMinion)),
		Spell(Intellect, "Arcane Intellect", 3, Ability(card.Draw{Count: 2}, targeting.TargetNone)),
		Spell(Glyph, "Primordial Glyph", 2, Ability(card.Discover{Filter: card.Filter{Type: card.TypeSpell}}, targeting.TargetNone)),
		waygate,
		timeWarp,
		Spell(Drain, "Drain Life", 3, Ability(card.Damage{Amount: 2}, targeting.TargetAnyCharacter), card.KeywordLifesteal),
		Spell(Evolve, "Unstable Evolution", 1, Ability(card.Buff{Attack: 1, Health: 1}, targeting.TargetFriendlyMinion), card.KeywordEcho),
		Spell(Assassin, "Assassinate", 5, Ability(card.Destroy{}, targeting.TargetEnemyMinion)),
		Spell(Shrink, "Shrink Ray", 1, Ability(card.Buff{Attack: -2, Health: -2}, targeting.TargetAnyMinion)),

		{
			ID:          Axe,
			Name:        "Fiery War Axe",
			ManaCost:    3,
			Type:        card.TypeWeapon,
			Rarity:      card.RarityCommon,
			Class:       card.ClassNeutral,
			Collectible: true,
			Weapon:      &card.WeaponStats{Attack: 3, Durability: 2},
		},
	}
}

// Registry is the fixture card set plus extra cards.
func Registry(extra ...*card.Data) *registry.Registry {
	r, err := registry.New(append(Cards(), extra...)...)
	if err != nil {
		panic(fmt.Sprintf("gametest: fixture registry: %v", err))
	}
	return r
}

// Colossal is the part table for the fixture colossal minion.
func Colossal() mechanics.ColossalTable {
	return mechanics.ColossalTable{Thrasher: {ThrasherFin, ThrasherFin}}
}

// Epoch is the fixed clock of fixture states.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewState is an empty two-sided match on the fixed clock. The player goes first.
func NewState() *match.State {
	return match.NewState(match.Setup{
		ID:        "test-match",
		FirstTurn: match.SidePlayer,
		Clock:     func() time.Time { return Epoch },
	})
}

// Setup applies fn to a working copy of st and commits it.
func Setup(st *match.State, fn func(txn *match.Txn)) *match.State {
	txn := st.Begin()
	fn(txn)
	return txn.Commit()
}

// Summon mints a card onto a side's battlefield, ready to attack.
func Summon(txn *match.Txn, cards card.Source, side match.Side, id string) match.InstanceID {
	inst := txn.Mint(mustLookup(cards, id), side, mechanics.Initialize)
	if !txn.PutOnBattlefield(side, inst.ID, -1) {
		panic(fmt.Sprintf("gametest: %s battlefield is full", side))
	}
	txn.Update(inst.ID, func(ci *match.CardInstance) {
		ci.IsSummoningSick = false
		ci.CanAttack = true
		ci.CanAttackHeroes = true
	})
	return inst.ID
}

// Hand mints a card into a side's hand.
func Hand(txn *match.Txn, cards card.Source, side match.Side, id string) match.InstanceID {
	inst := txn.Mint(mustLookup(cards, id), side, mechanics.Initialize)
	if !txn.PutInHand(side, inst.ID) {
		panic(fmt.Sprintf("gametest: %s hand is full", side))
	}
	return inst.ID
}

// Deck replaces a side's deck with the given cards, front first.
func Deck(txn *match.Txn, cards card.Source, side match.Side, ids ...string) {
	deck := make([]*card.Data, len(ids))
	for i, id := range ids {
		deck[i] = mustLookup(cards, id)
	}
	txn.SetDeck(side, deck)
}

// Mana gives a side current and maximum mana.
func Mana(txn *match.Txn, side match.Side, mana int) {
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.Mana = match.ManaPool{Current: mana, Max: mana}
	})
}

// Controller sets who makes a side's choices.
func Controller(txn *match.Txn, side match.Side, c match.Controller) {
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.Controller = c
	})
}

func mustLookup(cards card.Source, id string) *card.Data {
	d, ok := cards.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("gametest: unknown card %q", id))
	}
	return d
}
