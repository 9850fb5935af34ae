package match

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/norsetcg/cardengine/internal/game/card"
)

// Txn is a working copy of a State. Instance records and zone sequences are shared with
// the base state until first written, then copied, so the base never observes a change.
// A Txn is discarded on error and turned into a new State by Commit.
type Txn struct {
	view
	base    *State
	owned   map[InstanceID]bool
	ownSeq  map[Side]bool
	intents []Intent
	clock   func() time.Time
}

// Begin opens a working copy of the state.
func (s *State) Begin() *Txn {
	t := &Txn{
		view: view{
			players:     make(map[Side]*PlayerState, 2),
			instances:   make(map[InstanceID]*CardInstance, len(s.instances)),
			currentTurn: s.currentTurn,
			turnNumber:  s.turnNumber,
			log:         slices.Clip(s.log),
			discovery:   s.discovery,
			mulligan:    s.mulligan,
			limits:      s.limits,
		},
		base:   s,
		owned:  make(map[InstanceID]bool),
		ownSeq: make(map[Side]bool, 2),
		clock:  s.clock,
	}
	for side, p := range s.players {
		cp := *p
		t.players[side] = &cp
	}
	for id, inst := range s.instances {
		t.instances[id] = inst
	}
	return t
}

// Commit produces the new state. The transaction must not be used afterwards.
func (t *Txn) Commit() *State {
	return &State{view: t.view, id: t.base.id, clock: t.base.clock}
}

// Base is the state the transaction started from.
func (t *Txn) Base() *State {
	return t.base
}

// Intents are the presentation intents recorded so far.
func (t *Txn) Intents() []Intent {
	return slices.Clone(t.intents)
}

// Emit records a presentation intent.
func (t *Txn) Emit(intent Intent) {
	t.intents = append(t.intents, intent)
}

// Log appends an audit entry, stamping id, time and turn.
func (t *Txn) Log(ev LogEvent) LogEvent {
	ev.ID = uuid.NewString()
	ev.Timestamp = t.clock()
	ev.Turn = t.turnNumber
	t.log = append(t.log, ev)
	return ev
}

// LogLen is the number of log entries, used to detect new entries.
func (t *Txn) LogLen() int {
	return len(t.log)
}

// LogSince returns the entries appended after position n.
func (t *Txn) LogSince(n int) []LogEvent {
	if n >= len(t.log) {
		return nil
	}
	return slices.Clone(t.log[n:])
}

// Mint creates a fresh instance with a new id, outside every zone. The hook derives
// keyword flags from static data.
func (t *Txn) Mint(data *card.Data, owner Side, hook InitHook) *CardInstance {
	inst := newInstance(InstanceID(uuid.NewString()), data, owner)
	if hook != nil {
		hook(inst)
	}
	t.instances[inst.ID] = inst
	t.owned[inst.ID] = true
	return inst
}

// Update applies fn to a private copy of the record. It reports false when the id is
// unknown.
func (t *Txn) Update(id InstanceID, fn func(*CardInstance)) bool {
	inst, ok := t.instances[id]
	if !ok {
		return false
	}
	if !t.owned[id] {
		inst = inst.Clone()
		t.instances[id] = inst
		t.owned[id] = true
	}
	fn(inst)
	return true
}

func (t *Txn) player(side Side) *PlayerState {
	p := t.players[side]
	if !t.ownSeq[side] {
		p.cloneSequences()
		t.ownSeq[side] = true
	}
	return p
}

// UpdatePlayer applies fn to a side's private state. Zone sequences must be changed
// through the zone methods so instance records stay in step.
func (t *Txn) UpdatePlayer(side Side, fn func(*PlayerState)) {
	fn(t.player(side))
}

// UpdateHero applies fn to a side's hero.
func (t *Txn) UpdateHero(side Side, fn func(*Hero)) {
	fn(&t.player(side).Hero)
}

// PopDeck removes and returns the front card of a side's deck.
func (t *Txn) PopDeck(side Side) (*card.Data, bool) {
	p := t.player(side)
	if len(p.Deck) == 0 {
		return nil, false
	}
	top := p.Deck[0]
	p.Deck = p.Deck[1:]
	return top, true
}

// SetDeck replaces a side's deck.
func (t *Txn) SetDeck(side Side, deck []*card.Data) {
	t.player(side).Deck = slices.Clone(deck)
}

// PutInHand appends an instance to the hand. It reports false, leaving the instance
// where it was, when the hand is full.
func (t *Txn) PutInHand(side Side, id InstanceID) bool {
	if t.HandFull(side) {
		return false
	}
	t.Detach(id)
	p := t.player(side)
	p.Hand = append(p.Hand, id)
	t.setZone(id, side, ZoneHand)
	return true
}

// PutOnBattlefield inserts an instance at index, or appends when index is out of range.
// It reports false when the battlefield is full.
func (t *Txn) PutOnBattlefield(side Side, id InstanceID, index int) bool {
	if t.BoardSpace(side) == 0 {
		return false
	}
	t.Detach(id)
	p := t.player(side)
	if index < 0 || index > len(p.Battlefield) {
		index = len(p.Battlefield)
	}
	p.Battlefield = slices.Insert(p.Battlefield, index, id)
	t.setZone(id, side, ZoneBattlefield)
	return true
}

// PutInGraveyard moves an instance to its side's graveyard.
func (t *Txn) PutInGraveyard(side Side, id InstanceID) {
	t.Detach(id)
	p := t.player(side)
	p.Graveyard = append(p.Graveyard, id)
	t.setZone(id, side, ZoneGraveyard)
}

// PutSecret moves an instance to its side's secrets.
func (t *Txn) PutSecret(side Side, id InstanceID) {
	t.Detach(id)
	p := t.player(side)
	p.Secrets = append(p.Secrets, id)
	t.setZone(id, side, ZoneSecrets)
}

// EquipWeapon fills the weapon slot, sending the previous weapon to the graveyard.
// It returns the replaced weapon's id.
func (t *Txn) EquipWeapon(side Side, id InstanceID) InstanceID {
	old := t.player(side).Weapon
	if old != "" {
		t.PutInGraveyard(side, old)
	}
	t.Detach(id)
	t.player(side).Weapon = id
	t.setZone(id, side, ZoneWeapon)
	return old
}

// Detach takes an instance out of whatever zone sequence holds it.
func (t *Txn) Detach(id InstanceID) {
	inst, ok := t.instances[id]
	if !ok || inst.Zone == ZoneNone {
		return
	}
	p := t.player(inst.Owner)
	switch inst.Zone {
	case ZoneHand:
		p.Hand = without(p.Hand, id)
	case ZoneBattlefield:
		p.Battlefield = without(p.Battlefield, id)
	case ZoneGraveyard:
		p.Graveyard = without(p.Graveyard, id)
	case ZoneSecrets:
		p.Secrets = without(p.Secrets, id)
	case ZoneWeapon:
		if p.Weapon == id {
			p.Weapon = ""
		}
	}
	t.setZone(id, inst.Owner, ZoneNone)
}

// Retire detaches an instance and forgets its record. The id is never reused.
func (t *Txn) Retire(id InstanceID) {
	t.Detach(id)
	delete(t.instances, id)
	delete(t.owned, id)
}

// SetTurn moves the turn marker.
func (t *Txn) SetTurn(side Side, number int) {
	t.currentTurn = side
	t.turnNumber = number
}

// SetDiscovery replaces the pending discovery; nil clears it.
func (t *Txn) SetDiscovery(d *Discovery) {
	t.discovery = d
}

// QueueDiscovery offers a choice. With one already pending it waits behind it.
func (t *Txn) QueueDiscovery(d *Discovery) {
	d.Next = nil
	t.discovery = t.discovery.then(d)
}

// SetMulligan replaces the mulligan sub-state; nil closes it.
func (t *Txn) SetMulligan(m *Mulligan) {
	t.mulligan = m
}

// Now is the transaction clock.
func (t *Txn) Now() time.Time {
	return t.clock()
}

func (t *Txn) setZone(id InstanceID, side Side, zone Zone) {
	inst := t.instances[id]
	if inst.Zone == zone && inst.Owner == side {
		return
	}
	t.Update(id, func(ci *CardInstance) {
		ci.Owner = side
		ci.Zone = zone
	})
}

func without(ids []InstanceID, id InstanceID) []InstanceID {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}
