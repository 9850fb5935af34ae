package match

import (
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
)

// Hero is a side's hero.
type Hero struct {
	Health           int
	MaxHealth        int
	Armor            int
	Frozen           bool
	AttacksPerformed int
}

// ManaPool is the current and maximum mana of a side.
type ManaPool struct {
	Current int
	Max     int
}

// Quest is a long-lived counter that pays out a reward card once.
type Quest struct {
	Kind         card.QuestKind
	Progress     int
	Target       int
	RewardCardID string
	Completed    bool
	SourceCardID string
	SourceName   string
}

// PlayerState is one side of the match. Zone sequences hold instance ids in board
// order; the deck holds card data front first.
type PlayerState struct {
	Controller Controller

	Hand        []InstanceID
	Deck        []*card.Data
	Battlefield []InstanceID
	Graveyard   []InstanceID
	Secrets     []InstanceID
	Weapon      InstanceID

	Hero  Hero
	Mana  ManaPool
	Quest *Quest

	CardsPlayedThisTurn int
}

func (p *PlayerState) cloneSequences() {
	p.Hand = slices.Clone(p.Hand)
	p.Deck = slices.Clone(p.Deck)
	p.Battlefield = slices.Clone(p.Battlefield)
	p.Graveyard = slices.Clone(p.Graveyard)
	p.Secrets = slices.Clone(p.Secrets)
	if p.Quest != nil {
		q := *p.Quest
		p.Quest = &q
	}
}

// ResumeAction says what ResumeDiscovery does with the chosen card.
type ResumeAction string

const ResumeAddToHand ResumeAction = "add_to_hand"

// Discovery is a pending choice. The continuation is data, so a pending state can be
// stored and resumed by a later call. Choices made in one resolution wait behind each
// other through Next and are resumed in the order they were offered.
type Discovery struct {
	Side         Side
	SourceID     InstanceID
	SourceCardID string
	Options      []*card.Data
	Filter       card.Filter
	Resume       ResumeAction
	Next         *Discovery
}

// Queued is the number of choices waiting behind this one.
func (d *Discovery) Queued() int {
	n := 0
	for next := d.Next; next != nil; next = next.Next {
		n++
	}
	return n
}

// then returns a copy of the chain with d appended at its tail.
func (d *Discovery) then(tail *Discovery) *Discovery {
	if d == nil {
		return tail
	}
	head := *d
	head.Next = d.Next.then(tail)
	return &head
}

// Offers reports whether the card is one of the options.
func (d *Discovery) Offers(id string) bool {
	if d == nil {
		return false
	}
	for _, opt := range d.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// MulliganChoice is one side's pending mulligan selection.
type MulliganChoice struct {
	Selected  []InstanceID
	Confirmed bool
}

// Mulligan is the opening-hand sub-state.
type Mulligan struct {
	Player   MulliganChoice
	Opponent MulliganChoice
}

// For returns the choice of a side.
func (m *Mulligan) For(side Side) MulliganChoice {
	if side == SideOpponent {
		return m.Opponent
	}
	return m.Player
}

// With returns a copy with the side's choice replaced.
func (m Mulligan) With(side Side, choice MulliganChoice) *Mulligan {
	choice.Selected = slices.Clone(choice.Selected)
	if side == SideOpponent {
		m.Opponent = choice
	} else {
		m.Player = choice
	}
	return &m
}

// Done reports whether both sides confirmed.
func (m *Mulligan) Done() bool {
	return m.Player.Confirmed && m.Opponent.Confirmed
}
