// Package card holds the static, read-only card definitions the engine resolves against.
package card

import (
	"fmt"
	"slices"
)

// Type discriminates the CardData variants.
type Type string

const (
	TypeMinion   Type = "minion"
	TypeSpell    Type = "spell"
	TypeWeapon   Type = "weapon"
	TypeHero     Type = "hero"
	TypeSecret   Type = "secret"
	TypeLocation Type = "location"
)

// Race is a minion tribe.
type Race string

const (
	RaceNone      Race = "none"
	RaceBeast     Race = "beast"
	RaceDragon    Race = "dragon"
	RaceElemental Race = "elemental"
	RaceUndead    Race = "undead"
	RaceMech      Race = "mech"
	RaceMurloc    Race = "murloc"
	RacePirate    Race = "pirate"
	RaceDemon     Race = "demon"
	RaceTotem     Race = "totem"
	RaceNaga      Race = "naga"
	RaceAll       Race = "all"
)

// Rarity of a card.
type Rarity string

const (
	RarityBasic     Rarity = "basic"
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityToken     Rarity = "token"
)

// Class is the hero class a card belongs to.
type Class string

const ClassNeutral Class = "neutral"

// Source looks card definitions up by id. The card registry implements it.
type Source interface {
	Lookup(id string) (*Data, bool)
}

// MinionStats is the minion variant payload.
type MinionStats struct {
	Attack int
	Health int
	Race   Race
}

// WeaponStats is the weapon variant payload.
type WeaponStats struct {
	Attack     int
	Durability int
}

// HeroStats is the hero card variant payload.
type HeroStats struct {
	Armor int
}

// LocationStats is the location variant payload.
type LocationStats struct {
	Durability int
}

// Data is an immutable card definition. Exactly one variant payload is set for the
// variants that carry one; spells and secrets carry none.
type Data struct {
	ID          string
	Name        string
	Description string
	ManaCost    int
	Type        Type
	Rarity      Rarity
	Class       Class
	Keywords    []Keyword
	Collectible bool
	SpellDamage int

	Minion   *MinionStats
	Weapon   *WeaponStats
	Hero     *HeroStats
	Location *LocationStats

	Battlecry   *Ability
	Deathrattle *Ability
	Spell       *Ability
	Combo       *Ability
	Frenzy      *Ability
}

// AsMinion returns the minion payload.
func (d *Data) AsMinion() (MinionStats, bool) {
	if d == nil || d.Type != TypeMinion || d.Minion == nil {
		return MinionStats{}, false
	}
	return *d.Minion, true
}

// AsWeapon returns the weapon payload.
func (d *Data) AsWeapon() (WeaponStats, bool) {
	if d == nil || d.Type != TypeWeapon || d.Weapon == nil {
		return WeaponStats{}, false
	}
	return *d.Weapon, true
}

// AsHero returns the hero payload.
func (d *Data) AsHero() (HeroStats, bool) {
	if d == nil || d.Type != TypeHero || d.Hero == nil {
		return HeroStats{}, false
	}
	return *d.Hero, true
}

// IsMinion reports whether the card is a minion.
func (d *Data) IsMinion() bool {
	_, ok := d.AsMinion()
	return ok
}

// Attack is the printed attack of a minion or weapon, zero otherwise.
func (d *Data) Attack() int {
	if m, ok := d.AsMinion(); ok {
		return m.Attack
	}
	if w, ok := d.AsWeapon(); ok {
		return w.Attack
	}
	return 0
}

// Health is the printed health of a minion, zero otherwise.
func (d *Data) Health() int {
	if m, ok := d.AsMinion(); ok {
		return m.Health
	}
	return 0
}

// Race is the minion race, RaceNone for everything else.
func (d *Data) Race() Race {
	if m, ok := d.AsMinion(); ok && m.Race != "" {
		return m.Race
	}
	return RaceNone
}

// HasKeyword reports whether the printed keyword set contains k.
func (d *Data) HasKeyword(k Keyword) bool {
	if d == nil {
		return false
	}
	return slices.Contains(d.Keywords, k)
}

// Validate checks that the variant payload matches the type tag.
func (d *Data) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("card has no id")
	}
	switch d.Type {
	case TypeMinion:
		if d.Minion == nil {
			return fmt.Errorf("card %s: minion without stats", d.ID)
		}
		if d.Minion.Health <= 0 {
			return fmt.Errorf("card %s: minion health must be positive", d.ID)
		}
	case TypeWeapon:
		if d.Weapon == nil {
			return fmt.Errorf("card %s: weapon without stats", d.ID)
		}
	case TypeHero:
		if d.Hero == nil {
			return fmt.Errorf("card %s: hero without armor", d.ID)
		}
	case TypeLocation:
		if d.Location == nil {
			return fmt.Errorf("card %s: location without durability", d.ID)
		}
	case TypeSpell, TypeSecret:
	default:
		return fmt.Errorf("card %s: unknown type %q", d.ID, d.Type)
	}
	if d.Minion != nil && d.Type != TypeMinion {
		return fmt.Errorf("card %s: minion stats on a %s", d.ID, d.Type)
	}
	if d.Weapon != nil && d.Type != TypeWeapon {
		return fmt.Errorf("card %s: weapon stats on a %s", d.ID, d.Type)
	}
	return nil
}
