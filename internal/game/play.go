package game

import (
	"fmt"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/effects"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"github.com/norsetcg/cardengine/internal/game/quest"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"go.uber.org/zap"
)

func (e *Engine) play(s *effects.Session, id match.InstanceID, target Target) error {
	txn := s.Txn()
	if txn.Discovery() != nil {
		return effects.ErrDiscoveryPending
	}
	if txn.Mulligan() != nil {
		return effects.ErrMulliganActive
	}
	inst, ok := txn.Instance(id)
	if !ok {
		return fmt.Errorf("%w: %s", effects.ErrSourceNotFound, id)
	}
	if inst.Zone != match.ZoneHand {
		return fmt.Errorf("%w: %s is in %q", effects.ErrIllegalSourceZone, inst.Name(), inst.Zone)
	}
	side := inst.Owner
	if side != txn.CurrentTurn() {
		return fmt.Errorf("%w: %s", effects.ErrNotYourTurn, side)
	}
	cost := inst.Card.ManaCost
	if mana := txn.Player(side).Mana.Current; mana < cost {
		return fmt.Errorf("%w: %s costs %d, %d available", effects.ErrInsufficientMana, inst.Name(), cost, mana)
	}

	// Checks that depend on the card type run before mana is spent.
	magnetize := false
	switch inst.Card.Type {
	case card.TypeMinion:
		if inst.IsMagnetic && target.ID != "" {
			if host, ok := txn.Instance(match.InstanceID(target.ID)); ok && mechanics.CanMagnetize(inst, host) == nil {
				magnetize = true
			}
		}
		if !magnetize && txn.BoardSpace(side) == 0 {
			return effects.ErrBattlefieldFull
		}
	case card.TypeLocation:
		return fmt.Errorf("%w: locations cannot be played", effects.ErrIllegalSourceZone)
	}

	comboActive := txn.Player(side).CardsPlayedThisTurn > 0
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.Mana.Current -= cost
	})
	txn.Log(match.LogEvent{
		Type:     match.LogPlay,
		Player:   side,
		Text:     fmt.Sprintf("%s plays %s", side, inst.Name()),
		CardID:   inst.CardID(),
		CardName: inst.Name(),
		TargetID: target.ID,
		Value:    cost,
	})

	var err error
	switch {
	case magnetize:
		err = e.playMagnetic(s, inst, target)
	case inst.Card.Type == card.TypeMinion:
		err = e.playMinion(s, inst, target, comboActive)
	case inst.Card.Type == card.TypeSpell:
		err = e.playSpell(s, inst, target, comboActive, cost)
	case inst.Card.Type == card.TypeSecret:
		txn.PutSecret(side, id)
		txn.Log(match.LogEvent{
			Type:     match.LogSecret,
			Player:   side,
			Text:     fmt.Sprintf("%s sets a secret", side),
			CardID:   inst.CardID(),
			CardName: inst.Name(),
		})
		quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionCardPlayed, Card: inst.Card})
	case inst.Card.Type == card.TypeWeapon:
		err = e.playWeapon(s, inst, target)
	case inst.Card.Type == card.TypeHero:
		err = e.playHero(s, inst, target)
	default:
		err = fmt.Errorf("%w: %s has unknown type %q", effects.ErrIllegalSourceZone, inst.Name(), inst.Card.Type)
	}
	if err != nil {
		return err
	}

	if live, ok := txn.Instance(id); ok {
		mechanics.EchoCopy(txn, live)
	}
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.CardsPlayedThisTurn++
	})
	return nil
}

func (e *Engine) playMinion(s *effects.Session, inst *match.CardInstance, target Target, comboActive bool) error {
	txn := s.Txn()
	side := inst.Owner
	txn.PutOnBattlefield(side, inst.ID, -1)
	quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionCardPlayed, Card: inst.Card})
	quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionMinionSummoned, Card: inst.Card})

	if err := e.fireOnPlay(s, inst.ID, inst.Battlecry, effects.TriggerBattlecry, target); err != nil {
		return err
	}
	if comboActive {
		if err := e.fireOnPlay(s, inst.ID, inst.Combo, effects.TriggerCombo, target); err != nil {
			return err
		}
	}

	for _, part := range mechanics.SummonParts(txn, e.cards, e.dispatcher.Colossal(), inst.ID) {
		if p, ok := txn.Instance(part); ok {
			quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionMinionSummoned, Card: p.Card})
		}
	}
	return nil
}

func (e *Engine) playMagnetic(s *effects.Session, inst *match.CardInstance, target Target) error {
	txn := s.Txn()
	quest.Observe(txn, e.cards, inst.Owner, quest.Action{Kind: quest.ActionCardPlayed, Card: inst.Card})
	return mechanics.Magnetize(txn, inst.ID, match.InstanceID(target.ID))
}

// playSpell resolves a spell while it is out of every zone, then files it in the
// graveyard.
func (e *Engine) playSpell(s *effects.Session, inst *match.CardInstance, target Target, comboActive bool, cost int) error {
	txn := s.Txn()
	side := inst.Owner
	txn.Detach(inst.ID)
	before := txn.Player(side).Quest

	if err := e.fireOnPlay(s, inst.ID, inst.Spell, effects.TriggerSpell, target); err != nil {
		return err
	}
	if comboActive {
		if err := e.fireOnPlay(s, inst.ID, inst.Combo, effects.TriggerCombo, target); err != nil {
			return err
		}
	}

	txn.PutInGraveyard(side, inst.ID)
	// A quest never counts the card that started it.
	if txn.Player(side).Quest != before {
		return nil
	}
	quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionCardPlayed, Card: inst.Card})
	quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionSpellCast, Card: inst.Card, Mana: cost})
	return nil
}

func (e *Engine) playWeapon(s *effects.Session, inst *match.CardInstance, target Target) error {
	txn := s.Txn()
	side := inst.Owner
	txn.EquipWeapon(side, inst.ID)
	txn.Log(match.LogEvent{
		Type:     match.LogEquip,
		Player:   side,
		Text:     fmt.Sprintf("%s equips %s", side, inst.Name()),
		CardID:   inst.CardID(),
		CardName: inst.Name(),
		TargetID: string(inst.ID),
		Value:    inst.Attack,
	})
	quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionCardPlayed, Card: inst.Card})
	return e.fireOnPlay(s, inst.ID, inst.Battlecry, effects.TriggerBattlecry, target)
}

// playHero grants the hero card's armor and resolves its battlecry. The card itself
// goes to the graveyard.
func (e *Engine) playHero(s *effects.Session, inst *match.CardInstance, target Target) error {
	txn := s.Txn()
	side := inst.Owner
	txn.Detach(inst.ID)
	if stats, ok := inst.Card.AsHero(); ok && stats.Armor > 0 {
		txn.UpdateHero(side, func(h *match.Hero) {
			h.Armor += stats.Armor
		})
		txn.Log(match.LogEvent{
			Type:     match.LogArmor,
			Player:   side,
			Text:     fmt.Sprintf("%s gains %d armor", side, stats.Armor),
			CardID:   inst.CardID(),
			CardName: inst.Name(),
			TargetID: match.HeroID(side),
			Value:    stats.Armor,
		})
	}
	if err := e.fireOnPlay(s, inst.ID, inst.Battlecry, effects.TriggerBattlecry, target); err != nil {
		return err
	}
	txn.PutInGraveyard(side, inst.ID)
	quest.Observe(txn, e.cards, side, quest.Action{Kind: quest.ActionCardPlayed, Card: inst.Card})
	return nil
}

// fireOnPlay resolves an on-play ability. A targeted ability with nothing to aim at and
// no target given fizzles, which is not an error for the play. So does one whose target
// was removed by an earlier ability of the same play.
func (e *Engine) fireOnPlay(s *effects.Session, id match.InstanceID, ability *card.Ability, trigger effects.Trigger, target Target) error {
	if ability == nil || ability.Effect == nil {
		return nil
	}
	txn := s.Txn()
	if target.ID != "" {
		_, now := txn.FindTarget(target.ID)
		before, was := txn.Base().FindTarget(target.ID)
		if !now && was {
			inst, _ := txn.Instance(id)
			logType := match.LogEffect
			if trigger == effects.TriggerCombo {
				logType = match.LogCombo
			}
			txn.Log(match.LogEvent{
				Type:     logType,
				Player:   inst.Owner,
				Text:     fmt.Sprintf("%s %s fizzles: %s is gone", inst.Name(), trigger, before.Name),
				CardID:   inst.CardID(),
				CardName: inst.Name(),
				TargetID: target.ID,
			})
			e.logger.Debug("ability target removed earlier in the play",
				zap.String("source", string(id)),
				zap.String("trigger", string(trigger)),
				zap.String("target", target.ID),
			)
			return nil
		}
	}
	if target.ID == "" && ability.RequiresTarget && !ability.TargetType.IsMass() && ability.TargetType != targeting.TargetNone {
		inst, _ := txn.Instance(id)
		if len(targeting.NewTargetValidator(txn).ValidTargets(ability.TargetType, string(inst.Owner))) == 0 {
			e.logger.Debug("ability has no legal targets",
				zap.String("source", string(id)),
				zap.String("trigger", string(trigger)),
			)
			return nil
		}
	}
	return s.Fire(effects.Request{
		Source:         id,
		Trigger:        trigger,
		Ability:        ability,
		TargetID:       target.ID,
		TargetCategory: target.Category,
	})
}
