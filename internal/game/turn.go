package game

import (
	"fmt"
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/effects"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"go.uber.org/zap"
)

// EndTurn finishes the current side's turn: echo copies expire, its frozen characters
// thaw, the turn passes, and the next side refreshes its mana and minions and draws.
func (e *Engine) EndTurn(st *match.State) (*effects.Outcome, error) {
	return e.run(st, func(s *effects.Session) error {
		txn := s.Txn()
		if txn.Discovery() != nil {
			return effects.ErrDiscoveryPending
		}
		if txn.Mulligan() != nil {
			return effects.ErrMulliganActive
		}

		side := txn.CurrentTurn()
		if n := mechanics.ExpireEcho(txn, side); n > 0 {
			e.logger.Debug("echo copies expired", zap.String("side", string(side)), zap.Int("count", n))
		}
		for _, inst := range txn.Battlefield(side) {
			if inst.IsFrozen {
				txn.Update(inst.ID, func(ci *match.CardInstance) {
					ci.IsFrozen = false
				})
			}
		}
		txn.UpdatePlayer(side, func(p *match.PlayerState) {
			p.Hero.Frozen = false
			p.CardsPlayedThisTurn = 0
		})
		txn.Log(match.LogEvent{
			Type:   match.LogEndTurn,
			Player: side,
			Text:   fmt.Sprintf("%s ends turn %d", side, txn.TurnNumber()),
		})

		next := side.Other()
		txn.SetTurn(next, txn.TurnNumber()+1)
		maxMana := txn.Limits().MaxMana
		txn.UpdatePlayer(next, func(p *match.PlayerState) {
			p.Mana.Max = min(p.Mana.Max+1, maxMana)
			p.Mana.Current = p.Mana.Max
			p.CardsPlayedThisTurn = 0
			p.Hero.AttacksPerformed = 0
		})
		for _, inst := range txn.Battlefield(next) {
			txn.Update(inst.ID, func(ci *match.CardInstance) {
				ci.IsSummoningSick = false
				ci.CanAttack = true
				ci.CanAttackHeroes = true
				ci.AttacksPerformed = 0
			})
		}
		s.Draw(next, 1)
		return nil
	})
}

// ToggleMulligan selects or deselects an opening-hand card for replacement.
func (e *Engine) ToggleMulligan(st *match.State, side match.Side, id match.InstanceID) (*effects.Outcome, error) {
	return e.run(st, func(s *effects.Session) error {
		txn := s.Txn()
		m := txn.Mulligan()
		if m == nil {
			return fmt.Errorf("%w: no mulligan in progress", effects.ErrConditionNotMet)
		}
		choice := m.For(side)
		if choice.Confirmed {
			return fmt.Errorf("%w: %s already confirmed", effects.ErrConditionNotMet, side)
		}
		inst, ok := txn.Instance(id)
		if !ok || inst.Owner != side || inst.Zone != match.ZoneHand {
			return fmt.Errorf("%w: %s is not in %s's hand", effects.ErrIllegalChoice, id, side)
		}

		selected := slices.Clone(choice.Selected)
		verb := "keeps"
		if i := slices.Index(selected, id); i >= 0 {
			selected = slices.Delete(selected, i, i+1)
		} else {
			selected = append(selected, id)
			verb = "marks for replacement"
		}
		choice.Selected = selected
		txn.SetMulligan(m.With(side, choice))
		txn.Log(match.LogEvent{
			Type:     match.LogMulligan,
			Player:   side,
			Text:     fmt.Sprintf("%s %s %s", side, verb, inst.Name()),
			CardID:   inst.CardID(),
			CardName: inst.Name(),
			TargetID: string(id),
		})
		return nil
	})
}

// ConfirmMulligan replaces a side's selected cards and locks its choice. The mulligan
// closes once both sides confirmed.
func (e *Engine) ConfirmMulligan(st *match.State, side match.Side) (*effects.Outcome, error) {
	return e.run(st, func(s *effects.Session) error {
		m := s.Txn().Mulligan()
		if m == nil {
			return fmt.Errorf("%w: no mulligan in progress", effects.ErrConditionNotMet)
		}
		if m.For(side).Confirmed {
			return fmt.Errorf("%w: %s already confirmed", effects.ErrConditionNotMet, side)
		}
		e.confirmMulligan(s, side)
		return nil
	})
}

// confirmMulligan draws replacements first and then shuffles the returned cards back,
// so a replaced card is never drawn again straight away.
func (e *Engine) confirmMulligan(s *effects.Session, side match.Side) {
	txn := s.Txn()
	m := txn.Mulligan()
	choice := m.For(side)

	var returned []*card.Data
	for _, id := range choice.Selected {
		inst, ok := txn.Instance(id)
		if !ok || inst.Zone != match.ZoneHand {
			continue
		}
		returned = append(returned, inst.Card)
		txn.Retire(id)
	}
	s.Draw(side, len(returned))

	if len(returned) > 0 {
		deck := append(slices.Clone(txn.Player(side).Deck), returned...)
		e.rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		txn.SetDeck(side, deck)
	}

	choice.Confirmed = true
	choice.Selected = nil
	m = m.With(side, choice)
	txn.Log(match.LogEvent{
		Type:   match.LogMulligan,
		Player: side,
		Text:   fmt.Sprintf("%s replaces %d cards", side, len(returned)),
		Value:  len(returned),
	})
	if m.Done() {
		txn.SetMulligan(nil)
		txn.Log(match.LogEvent{
			Type:   match.LogMulligan,
			Player: side,
			Text:   "mulligan complete",
		})
		return
	}
	txn.SetMulligan(m)
}
