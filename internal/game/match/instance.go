package match

import (
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
)

// InstanceID identifies one card instance for its whole lifetime. Retired ids are
// never handed out again.
type InstanceID string

// CardInstance is the mutable overlay for one copy of a card. Records reachable from a
// State are shared between states and must only be changed through Txn.Update.
type CardInstance struct {
	ID    InstanceID
	Card  *card.Data
	Owner Side
	Zone  Zone

	Attack        int
	CurrentHealth int
	MaxHealth     int
	Durability    int

	// Own copies of the printed keywords and abilities; Silence clears these.
	Keywords    []card.Keyword
	Battlecry   *card.Ability
	Deathrattle *card.Ability
	Spell       *card.Ability
	Combo       *card.Ability
	Frenzy      *card.Ability

	HasDivineShield  bool
	IsFrozen         bool
	IsSilenced       bool
	IsSummoningSick  bool
	CanAttack        bool
	CanAttackHeroes  bool
	AttacksPerformed int

	HasTaunt     bool
	IsRush       bool
	IsPoisonous  bool
	HasLifesteal bool
	SpellPower   int

	HasFrenzy       bool
	FrenzyTriggered bool

	IsMagnetic      bool
	MechAttachments []string

	IsColossal       bool
	ColossalParts    []InstanceID
	IsColossalPart   bool
	ParentColossalID InstanceID

	HasEcho    bool
	IsEchoCopy bool
}

// CardID is the id of the underlying card definition.
func (ci *CardInstance) CardID() string {
	if ci == nil || ci.Card == nil {
		return ""
	}
	return ci.Card.ID
}

// Name is the card name.
func (ci *CardInstance) Name() string {
	if ci == nil || ci.Card == nil {
		return ""
	}
	return ci.Card.Name
}

// Race is the printed race of a minion.
func (ci *CardInstance) Race() card.Race {
	if ci == nil {
		return card.RaceNone
	}
	return ci.Card.Race()
}

// IsMinion reports whether the instance is a minion.
func (ci *CardInstance) IsMinion() bool {
	return ci != nil && ci.Card.IsMinion()
}

// HasKeyword checks the instance's current keyword set.
func (ci *CardInstance) HasKeyword(k card.Keyword) bool {
	return ci != nil && slices.Contains(ci.Keywords, k)
}

// Clone copies the record and its slices. Card data and abilities are immutable and
// stay shared.
func (ci *CardInstance) Clone() *CardInstance {
	if ci == nil {
		return nil
	}
	out := *ci
	out.Keywords = slices.Clone(ci.Keywords)
	out.MechAttachments = slices.Clone(ci.MechAttachments)
	out.ColossalParts = slices.Clone(ci.ColossalParts)
	return &out
}

// InitHook derives runtime flags from static card data when an instance is minted.
type InitHook func(*CardInstance)

func newInstance(id InstanceID, data *card.Data, owner Side) *CardInstance {
	inst := &CardInstance{
		ID:          id,
		Card:        data,
		Owner:       owner,
		Keywords:    slices.Clone(data.Keywords),
		Battlecry:   data.Battlecry,
		Deathrattle: data.Deathrattle,
		Spell:       data.Spell,
		Combo:       data.Combo,
		Frenzy:      data.Frenzy,
	}
	switch {
	case data.IsMinion():
		inst.Attack = data.Attack()
		inst.CurrentHealth = data.Health()
		inst.MaxHealth = data.Health()
		inst.IsSummoningSick = true
	case data.Weapon != nil:
		inst.Attack = data.Weapon.Attack
		inst.Durability = data.Weapon.Durability
	case data.Location != nil:
		inst.Durability = data.Location.Durability
	}
	return inst
}
