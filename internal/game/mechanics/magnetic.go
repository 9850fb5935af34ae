package mechanics

import (
	"fmt"
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/targeting"
)

// CanMagnetize checks that a magnetic minion in hand can attach to a friendly Mech on
// the battlefield.
func CanMagnetize(src, target *match.CardInstance) error {
	if src == nil || target == nil {
		return targeting.ErrTargetNotFound
	}
	if !src.IsMinion() || !src.HasKeyword(card.KeywordMagnetic) {
		return fmt.Errorf("%w: %s is not magnetic", targeting.ErrIllegalTarget, src.Name())
	}
	if !target.IsMinion() || target.Zone != match.ZoneBattlefield {
		return fmt.Errorf("%w: %s is not on the battlefield", targeting.ErrIllegalTarget, target.ID)
	}
	if race := target.Race(); race != card.RaceMech && race != card.RaceAll {
		return fmt.Errorf("%w: %s is not a mech", targeting.ErrIllegalTarget, target.Name())
	}
	if target.Owner != src.Owner {
		return fmt.Errorf("%w: %s is not friendly", targeting.ErrIllegalTarget, target.Name())
	}
	return nil
}

// Magnetize merges the magnetic minion into the target Mech and consumes it. The
// magnetic card never takes a battlefield slot. The deathrattle only carries over when
// the target has none of its own.
func Magnetize(txn *match.Txn, srcID, targetID match.InstanceID) error {
	src, ok := txn.Instance(srcID)
	if !ok {
		return targeting.ErrTargetNotFound
	}
	target, ok := txn.Instance(targetID)
	if !ok {
		return fmt.Errorf("%w: %s", targeting.ErrTargetNotFound, targetID)
	}
	if err := CanMagnetize(src, target); err != nil {
		return err
	}

	txn.Update(targetID, func(ci *match.CardInstance) {
		ci.Attack += src.Attack
		ci.CurrentHealth += src.CurrentHealth
		ci.MaxHealth += src.MaxHealth
		for _, k := range src.Keywords {
			if k == card.KeywordMagnetic || slices.Contains(ci.Keywords, k) {
				continue
			}
			ci.Keywords = append(ci.Keywords, k)
			applyKeyword(ci, k)
		}
		if ci.Deathrattle == nil && src.Deathrattle != nil {
			ci.Deathrattle = src.Deathrattle
		}
		ci.MechAttachments = append(ci.MechAttachments, src.CardID())
		if ci.IsRush && ci.AttacksPerformed == 0 {
			ci.CanAttack = true
		}
	})
	txn.Retire(srcID)

	txn.Log(match.LogEvent{
		Type:     match.LogMagnetic,
		Player:   src.Owner,
		Text:     fmt.Sprintf("%s magnetized to %s", src.Name(), target.Name()),
		CardID:   src.CardID(),
		CardName: src.Name(),
		TargetID: string(targetID),
		Value:    src.Attack,
	})
	return nil
}
