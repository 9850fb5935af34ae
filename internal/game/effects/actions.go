package effects

import (
	"fmt"
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"github.com/norsetcg/cardengine/internal/game/quest"
)

// damage hits one character. Minions at 0 health leave the battlefield before damage
// returns, so the next target of an area pass already sees the smaller board.
func (s *Session) damage(res *resolution, targetID string, amount int) {
	if amount <= 0 {
		return
	}
	txn := s.txn
	src := res.source

	if side, ok := match.ParseHeroID(targetID); ok {
		hero := txn.Player(side).Hero
		absorbed := min(hero.Armor, amount)
		txn.UpdateHero(side, func(h *match.Hero) {
			h.Armor -= absorbed
			h.Health -= amount - absorbed
		})
		txn.Log(match.LogEvent{
			Type:     match.LogDamage,
			Player:   res.side,
			Text:     fmt.Sprintf("%s deals %d damage to %s hero", src.Name(), amount, side),
			CardID:   src.CardID(),
			CardName: src.Name(),
			TargetID: targetID,
			Value:    amount,
		})
		txn.Emit(match.Intent{Kind: match.IntentDamage, Side: side, CardID: src.CardID(), Amount: amount})
		s.lifesteal(res, amount)
		return
	}

	id := match.InstanceID(targetID)
	inst, ok := txn.Instance(id)
	if !ok || inst.Zone != match.ZoneBattlefield {
		return
	}
	if inst.HasDivineShield {
		txn.Update(id, func(ci *match.CardInstance) {
			ci.HasDivineShield = false
		})
		txn.Log(match.LogEvent{
			Type:     match.LogShieldBreak,
			Player:   res.side,
			Text:     fmt.Sprintf("%s's divine shield absorbs %d damage", inst.Name(), amount),
			CardID:   src.CardID(),
			CardName: src.Name(),
			TargetID: targetID,
			Value:    amount,
		})
		txn.Emit(match.Intent{Kind: match.IntentShieldBreak, Side: inst.Owner, Instance: id})
		return
	}

	poisoned := mechanics.Poisonous(src) && src.ID != id
	txn.Update(id, func(ci *match.CardInstance) {
		ci.CurrentHealth -= amount
		if poisoned && ci.CurrentHealth > 0 {
			ci.CurrentHealth = 0
		}
	})
	txn.Log(match.LogEvent{
		Type:     match.LogDamage,
		Player:   res.side,
		Text:     fmt.Sprintf("%s deals %d damage to %s", src.Name(), amount, inst.Name()),
		CardID:   src.CardID(),
		CardName: src.Name(),
		TargetID: targetID,
		Value:    amount,
	})
	txn.Emit(match.Intent{Kind: match.IntentDamage, Side: inst.Owner, Instance: id, Amount: amount})
	s.lifesteal(res, amount)

	live, _ := txn.Instance(id)
	if live.CurrentHealth <= 0 {
		s.kill(res, id)
		return
	}
	if mechanics.FrenzyReady(live) {
		mechanics.MarkFrenzy(txn, id)
		live, _ = txn.Instance(id)
		s.enqueue(live, TriggerFrenzy, live.Frenzy, res.depth)
	}
}

func (s *Session) lifesteal(res *resolution, amount int) {
	if !mechanics.Lifesteal(res.source) {
		return
	}
	s.heal(res, match.HeroID(res.source.Owner), amount, false)
}

// kill moves a minion from the battlefield to its owner's graveyard and queues its
// deathrattle.
func (s *Session) kill(res *resolution, id match.InstanceID) {
	txn := s.txn
	inst, ok := txn.Instance(id)
	if !ok || inst.Zone != match.ZoneBattlefield {
		return
	}
	side := inst.Owner
	txn.PutInGraveyard(side, id)
	mechanics.ReconcilePart(txn, inst)
	txn.Log(match.LogEvent{
		Type:     match.LogDeath,
		Player:   side,
		Text:     fmt.Sprintf("%s dies", inst.Name()),
		CardID:   inst.CardID(),
		CardName: inst.Name(),
		TargetID: string(id),
	})
	txn.Emit(match.Intent{Kind: match.IntentDeath, Side: side, Instance: id, CardID: inst.CardID()})

	dead, _ := txn.Instance(id)
	if dead.Deathrattle != nil && !dead.IsSilenced {
		s.enqueue(dead, TriggerDeathrattle, dead.Deathrattle, res.depth)
	}
}

// heal restores health up to the cap and returns how much was restored.
func (s *Session) heal(res *resolution, targetID string, amount int, full bool) int {
	txn := s.txn
	var healed int
	var name string
	owner := res.side

	if side, ok := match.ParseHeroID(targetID); ok {
		hero := txn.Player(side).Hero
		healed = hero.MaxHealth - hero.Health
		if !full {
			healed = min(healed, amount)
		}
		if healed <= 0 {
			return 0
		}
		txn.UpdateHero(side, func(h *match.Hero) {
			h.Health += healed
		})
		name, owner = string(side)+" hero", side
	} else {
		id := match.InstanceID(targetID)
		inst, ok := txn.Instance(id)
		if !ok || inst.Zone != match.ZoneBattlefield {
			return 0
		}
		healed = inst.MaxHealth - inst.CurrentHealth
		if !full {
			healed = min(healed, amount)
		}
		if healed <= 0 {
			return 0
		}
		txn.Update(id, func(ci *match.CardInstance) {
			ci.CurrentHealth += healed
		})
		name, owner = inst.Name(), inst.Owner
	}

	txn.Log(match.LogEvent{
		Type:     match.LogHeal,
		Player:   res.side,
		Text:     fmt.Sprintf("%s restores %d health to %s", res.source.Name(), healed, name),
		CardID:   res.source.CardID(),
		CardName: res.source.Name(),
		TargetID: targetID,
		Value:    healed,
	})
	txn.Emit(match.Intent{Kind: match.IntentHeal, Side: owner, Instance: match.InstanceID(targetID), Amount: healed})
	return healed
}

// buff adds to attack and to both max and current health. Attack stops at 0 and max
// health at 1; a debuff that takes current health to 0 kills.
func (s *Session) buff(res *resolution, id match.InstanceID, attack, health int) {
	txn := s.txn
	inst, ok := txn.Instance(id)
	if !ok || inst.Zone != match.ZoneBattlefield {
		return
	}
	txn.Update(id, func(ci *match.CardInstance) {
		ci.Attack = max(0, ci.Attack+attack)
		ci.MaxHealth = max(1, ci.MaxHealth+health)
		ci.CurrentHealth = min(ci.CurrentHealth+health, ci.MaxHealth)
	})
	txn.Log(match.LogEvent{
		Type:     match.LogBuff,
		Player:   res.side,
		Text:     fmt.Sprintf("%s gives %s %+d/%+d", res.source.Name(), inst.Name(), attack, health),
		CardID:   res.source.CardID(),
		CardName: res.source.Name(),
		TargetID: string(id),
		Value:    attack,
	})
	if live, _ := txn.Instance(id); live.CurrentHealth <= 0 {
		s.kill(res, id)
	}
}

// summon puts a fresh minion on a side's battlefield. It reports false when the board
// is full.
func (s *Session) summon(res *resolution, side match.Side, data *card.Data) bool {
	txn := s.txn
	if txn.BoardSpace(side) == 0 {
		return false
	}
	inst := txn.Mint(data, side, mechanics.Initialize)
	txn.PutOnBattlefield(side, inst.ID, -1)
	txn.Log(match.LogEvent{
		Type:     match.LogSummon,
		Player:   side,
		Text:     fmt.Sprintf("%s summons %s", res.source.Name(), data.Name),
		CardID:   data.ID,
		CardName: data.Name,
		TargetID: string(inst.ID),
	})
	txn.Emit(match.Intent{Kind: match.IntentSummon, Side: side, Instance: inst.ID, CardID: data.ID})
	quest.Observe(txn, s.d.cards, side, quest.Action{Kind: quest.ActionMinionSummoned, Card: data})
	return true
}

// Draw moves up to count cards from the front of a side's deck into its hand. Cards
// drawn into a full hand are burned. Drawing stops when the deck runs out.
func (s *Session) Draw(side match.Side, count int) int {
	txn := s.txn
	drawn := 0
	for i := 0; i < count; i++ {
		data, ok := txn.PopDeck(side)
		if !ok {
			break
		}
		drawn++
		inst := txn.Mint(data, side, mechanics.Initialize)
		if !txn.PutInHand(side, inst.ID) {
			s.burn(side, inst)
			continue
		}
		txn.Log(match.LogEvent{
			Type:     match.LogDraw,
			Player:   side,
			Text:     fmt.Sprintf("%s draws a card", side),
			CardID:   data.ID,
			CardName: data.Name,
			TargetID: string(inst.ID),
		})
		txn.Emit(match.Intent{Kind: match.IntentDraw, Side: side, Instance: inst.ID, CardID: data.ID, Amount: 1})
	}
	return drawn
}

// Give adds a fresh copy of a card to a side's hand, or burns it when the hand is full.
// It reports whether the card reached the hand.
func (s *Session) Give(side match.Side, data *card.Data, logType match.LogType) (match.InstanceID, bool) {
	txn := s.txn
	inst := txn.Mint(data, side, mechanics.Initialize)
	if !txn.PutInHand(side, inst.ID) {
		s.burn(side, inst)
		return inst.ID, false
	}
	txn.Log(match.LogEvent{
		Type:     logType,
		Player:   side,
		Text:     fmt.Sprintf("%s adds %s to hand", side, data.Name),
		CardID:   data.ID,
		CardName: data.Name,
		TargetID: string(inst.ID),
	})
	return inst.ID, true
}

func (s *Session) burn(side match.Side, inst *match.CardInstance) {
	s.txn.PutInGraveyard(side, inst.ID)
	s.txn.Log(match.LogEvent{
		Type:     match.LogBurn,
		Player:   side,
		Text:     fmt.Sprintf("%s's hand is full, %s is burned", side, inst.Name()),
		CardID:   inst.CardID(),
		CardName: inst.Name(),
		TargetID: string(inst.ID),
	})
	s.txn.Emit(match.Intent{Kind: match.IntentBurn, Side: side, Instance: inst.ID, CardID: inst.CardID()})
}

// discard sends random hand cards to the graveyard, stopping when the hand is empty.
func (s *Session) discard(side match.Side, count int, all bool) int {
	txn := s.txn
	hand := slices.Clone(txn.Player(side).Hand)
	if all {
		count = len(hand)
	}
	n := 0
	for ; n < count && len(hand) > 0; n++ {
		i := s.d.rng.IntN(len(hand))
		id := hand[i]
		hand = slices.Delete(hand, i, i+1)
		inst, _ := txn.Instance(id)
		txn.PutInGraveyard(side, id)
		txn.Log(match.LogEvent{
			Type:     match.LogDiscard,
			Player:   side,
			Text:     fmt.Sprintf("%s discards %s", side, inst.Name()),
			CardID:   inst.CardID(),
			CardName: inst.Name(),
			TargetID: string(id),
		})
	}
	return n
}

// bounce returns a minion to its owner's hand as a fresh instance. With a full hand the
// fresh copy goes to the graveyard instead.
func (s *Session) bounce(res *resolution, inst *match.CardInstance) {
	txn := s.txn
	side := inst.Owner
	mechanics.ReconcilePart(txn, inst)
	txn.Retire(inst.ID)

	fresh := txn.Mint(inst.Card, side, mechanics.Initialize)
	text := fmt.Sprintf("%s returns %s to hand", res.source.Name(), inst.Name())
	if !txn.PutInHand(side, fresh.ID) {
		txn.PutInGraveyard(side, fresh.ID)
		text = fmt.Sprintf("%s returns %s but the hand is full", res.source.Name(), inst.Name())
	}
	txn.Log(match.LogEvent{
		Type:     match.LogReturn,
		Player:   res.side,
		Text:     text,
		CardID:   inst.CardID(),
		CardName: inst.Name(),
		TargetID: string(inst.ID),
	})
}

// transform replaces a minion in place with a fresh instance of another card.
func (s *Session) transform(res *resolution, inst *match.CardInstance, into *card.Data) match.InstanceID {
	txn := s.txn
	side := inst.Owner
	index := slices.Index(txn.Player(side).Battlefield, inst.ID)
	mechanics.ReconcilePart(txn, inst)
	txn.Retire(inst.ID)

	fresh := txn.Mint(into, side, mechanics.Initialize)
	txn.PutOnBattlefield(side, fresh.ID, index)
	txn.Log(match.LogEvent{
		Type:     match.LogTransform,
		Player:   res.side,
		Text:     fmt.Sprintf("%s transforms %s into %s", res.source.Name(), inst.Name(), into.Name),
		CardID:   into.ID,
		CardName: into.Name,
		TargetID: string(inst.ID),
	})
	txn.Emit(match.Intent{Kind: match.IntentTransform, Side: side, Instance: fresh.ID, CardID: into.ID})
	return fresh.ID
}

func (s *Session) freeze(res *resolution, targetID string) {
	txn := s.txn
	name := ""
	var owner match.Side
	if side, ok := match.ParseHeroID(targetID); ok {
		txn.UpdateHero(side, func(h *match.Hero) {
			h.Frozen = true
		})
		name, owner = string(side)+" hero", side
	} else {
		id := match.InstanceID(targetID)
		inst, ok := txn.Instance(id)
		if !ok || inst.Zone != match.ZoneBattlefield {
			return
		}
		txn.Update(id, func(ci *match.CardInstance) {
			ci.IsFrozen = true
		})
		name, owner = inst.Name(), inst.Owner
	}
	txn.Log(match.LogEvent{
		Type:     match.LogFreeze,
		Player:   res.side,
		Text:     fmt.Sprintf("%s freezes %s", res.source.Name(), name),
		CardID:   res.source.CardID(),
		CardName: res.source.Name(),
		TargetID: targetID,
	})
	txn.Emit(match.Intent{Kind: match.IntentFreeze, Side: owner, Instance: match.InstanceID(targetID)})
}
