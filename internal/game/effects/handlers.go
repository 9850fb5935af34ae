package effects

import (
	"errors"
	"fmt"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/discovery"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"github.com/norsetcg/cardengine/internal/game/quest"
	"github.com/norsetcg/cardengine/internal/game/targeting"
)

// handler applies one resolution. Each Visit method checks everything that can fail
// before calling begin, so a rejected ability leaves neither log entries nor changes.
type handler struct {
	s     *Session
	res   *resolution
	begun bool
}

var _ card.Visitor = (*handler)(nil)

// begin writes the summary entry for the ability. It runs once, before the first
// mutation.
func (h *handler) begin() {
	if h.begun {
		return
	}
	h.begun = true
	src := h.res.source
	h.s.txn.Log(match.LogEvent{
		Type:     h.res.trigger.logType(),
		Player:   h.res.side,
		Text:     fmt.Sprintf("%s %s: %s", src.Name(), h.res.trigger, h.res.ability.Kind()),
		CardID:   src.CardID(),
		CardName: src.Name(),
		TargetID: h.res.targetID,
	})
}

// minionTarget is the chosen target, which must be a minion on a battlefield.
func (h *handler) minionTarget() (*match.CardInstance, error) {
	id := h.res.targetID
	if id == "" {
		return nil, ErrMissingTarget
	}
	if _, ok := match.ParseHeroID(id); ok {
		return nil, fmt.Errorf("%w: %s is a hero", ErrIllegalTarget, id)
	}
	inst, ok := h.s.txn.Instance(match.InstanceID(id))
	if !ok || inst.Zone != match.ZoneBattlefield {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, id)
	}
	return inst, nil
}

// mass snapshots the characters a mass scope selects, in board order.
func (h *handler) mass(scope targeting.TargetType, excludeSource, minionsOnly bool) []string {
	validator := targeting.NewTargetValidator(h.s.txn)
	var ids []string
	for _, info := range validator.ValidTargets(scope, string(h.res.side)) {
		if excludeSource && info.ID == string(h.res.source.ID) {
			continue
		}
		if minionsOnly && info.Category != targeting.CategoryMinion {
			continue
		}
		ids = append(ids, info.ID)
	}
	return ids
}

// amount is the damage an effect deals: the source's live attack when asked for,
// otherwise the base plus spell damage for spells.
func (h *handler) amount(base int, useSourceAttack bool) int {
	src := h.res.source
	if useSourceAttack {
		if live, ok := h.s.txn.Instance(src.ID); ok {
			return live.Attack
		}
		return src.Attack
	}
	if src.Card != nil && src.Card.Type == card.TypeSpell {
		return mechanics.SpellDamage(h.s.txn, h.res.side, base)
	}
	return base
}

func (h *handler) lookup(id string, want card.Type) (*card.Data, error) {
	data, ok := h.s.d.cards.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if want != "" && data.Type != want {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", ErrCardNotFound, id, data.Type, want)
	}
	return data, nil
}

func (h *handler) VisitDamage(e card.Damage) error {
	if h.res.targetID == "" {
		return ErrMissingTarget
	}
	amount := h.amount(e.Amount, e.UseSourceAttack)
	h.begin()
	h.s.damage(h.res, h.res.targetID, amount)
	return nil
}

func (h *handler) VisitAreaDamage(e card.AreaDamage) error {
	ids := h.mass(e.Scope, e.ExcludeSource, false)
	amount := h.amount(e.Amount, e.UseSourceAttack)
	h.begin()
	for _, id := range ids {
		if _, ok := h.s.txn.FindTarget(id); !ok {
			continue
		}
		h.s.damage(h.res, id, amount)
	}
	return nil
}

func (h *handler) VisitDestroyAll(e card.DestroyAll) error {
	ids := h.mass(e.Scope, e.ExcludeSource, true)
	h.begin()
	for _, id := range ids {
		h.s.kill(h.res, match.InstanceID(id))
	}
	if e.DiscardHand {
		h.s.discard(h.res.side, 0, true)
	}
	return nil
}

func (h *handler) VisitHeal(e card.Heal) error {
	target := h.res.targetID
	if target == "" {
		target = match.HeroID(h.res.side)
	}
	h.begin()
	h.s.heal(h.res, target, e.Amount, e.Full)
	return nil
}

func (h *handler) VisitBuff(e card.Buff) error {
	var ids []match.InstanceID
	switch {
	case e.Scope.IsMass():
		for _, id := range h.mass(e.Scope, false, true) {
			ids = append(ids, match.InstanceID(id))
		}
	case h.res.targetID != "":
		target, err := h.minionTarget()
		if err != nil {
			return err
		}
		ids = append(ids, target.ID)
	default:
		src, ok := h.s.txn.Instance(h.res.source.ID)
		if !ok || src.Zone != match.ZoneBattlefield {
			return ErrMissingTarget
		}
		ids = append(ids, src.ID)
	}
	h.begin()
	for _, id := range ids {
		h.s.buff(h.res, id, e.Attack, e.Health)
	}
	return nil
}

func (h *handler) VisitSummon(e card.Summon) error {
	data, err := h.lookup(e.CardID, card.TypeMinion)
	if err != nil {
		return err
	}
	side := h.res.side
	if e.ForOpponent {
		side = side.Other()
	}
	h.begin()
	for i := 0; i < max(e.Count, 1); i++ {
		if !h.s.summon(h.res, side, data) {
			break
		}
	}
	return nil
}

func (h *handler) VisitDraw(e card.Draw) error {
	h.begin()
	if e.Count < 0 {
		h.s.discard(h.res.side, -e.Count, false)
		return nil
	}
	h.s.Draw(h.res.side, e.Count)
	if e.BothPlayers {
		h.s.Draw(h.res.side.Other(), e.Count)
	}
	return nil
}

func (h *handler) VisitDiscard(e card.Discard) error {
	h.begin()
	h.s.discard(h.res.side, e.Count, e.All)
	return nil
}

func (h *handler) VisitDestroy(card.Destroy) error {
	target, err := h.minionTarget()
	if err != nil {
		return err
	}
	h.begin()
	h.s.txn.Log(match.LogEvent{
		Type:     match.LogDestroy,
		Player:   h.res.side,
		Text:     fmt.Sprintf("%s destroys %s", h.res.source.Name(), target.Name()),
		CardID:   target.CardID(),
		CardName: target.Name(),
		TargetID: string(target.ID),
	})
	h.s.kill(h.res, target.ID)
	return nil
}

func (h *handler) VisitReturnToHand(card.ReturnToHand) error {
	target, err := h.minionTarget()
	if err != nil {
		return err
	}
	h.begin()
	h.s.bounce(h.res, target)
	return nil
}

func (h *handler) VisitTransform(e card.Transform) error {
	target, err := h.minionTarget()
	if err != nil {
		return err
	}
	into, err := h.lookup(e.IntoCardID, card.TypeMinion)
	if err != nil {
		return err
	}
	h.begin()
	h.s.transform(h.res, target, into)
	return nil
}

func (h *handler) VisitSilence(card.Silence) error {
	target, err := h.minionTarget()
	if err != nil {
		return err
	}
	h.begin()
	h.s.txn.Update(target.ID, mechanics.Silence)
	h.s.txn.Log(match.LogEvent{
		Type:     match.LogSilence,
		Player:   h.res.side,
		Text:     fmt.Sprintf("%s silences %s", h.res.source.Name(), target.Name()),
		CardID:   target.CardID(),
		CardName: target.Name(),
		TargetID: string(target.ID),
	})
	return nil
}

func (h *handler) VisitFreeze(e card.Freeze) error {
	var ids []string
	if e.Scope.IsMass() {
		ids = h.mass(e.Scope, false, false)
	} else {
		if h.res.targetID == "" {
			return ErrMissingTarget
		}
		ids = []string{h.res.targetID}
	}
	h.begin()
	for _, id := range ids {
		h.s.freeze(h.res, id)
	}
	return nil
}

func (h *handler) VisitMindControl(card.MindControl) error {
	target, err := h.minionTarget()
	if err != nil {
		return err
	}
	side := h.res.side
	if target.Owner == side {
		return fmt.Errorf("%w: %s is already friendly", ErrIllegalTarget, target.ID)
	}
	if h.s.txn.BoardSpace(side) == 0 {
		return ErrBattlefieldFull
	}
	h.begin()
	txn := h.s.txn
	txn.PutOnBattlefield(side, target.ID, -1)
	txn.Update(target.ID, func(ci *match.CardInstance) {
		ci.IsSummoningSick = true
		ci.CanAttack = false
		ci.CanAttackHeroes = false
		ci.AttacksPerformed = 0
		mechanics.ReadyForBattle(ci)
	})
	txn.Log(match.LogEvent{
		Type:     match.LogMindControl,
		Player:   side,
		Text:     fmt.Sprintf("%s takes control of %s", h.res.source.Name(), target.Name()),
		CardID:   target.CardID(),
		CardName: target.Name(),
		TargetID: string(target.ID),
	})
	return nil
}

func (h *handler) VisitDiscover(e card.Discover) error {
	count := e.Count
	if count <= 0 {
		count = h.s.d.opts.DiscoverOptions
	}
	options := discovery.Options(h.s.d.cards, e.Filter, count, h.s.d.rng)
	h.begin()

	txn := h.s.txn
	side := h.res.side
	src := h.res.source
	if len(options) == 0 {
		txn.Log(match.LogEvent{
			Type:     match.LogDiscover,
			Player:   side,
			Text:     fmt.Sprintf("%s found nothing to discover", src.Name()),
			CardID:   src.CardID(),
			CardName: src.Name(),
		})
		return nil
	}

	if txn.Player(side).Controller == match.ControllerAI {
		choice, _ := discovery.Choose(options)
		txn.Log(match.LogEvent{
			Type:     match.LogDiscover,
			Player:   side,
			Text:     fmt.Sprintf("%s discovers %s", side, choice.Name),
			CardID:   choice.ID,
			CardName: choice.Name,
		})
		h.s.Give(side, choice, match.LogAddToHand)
		return nil
	}

	txn.QueueDiscovery(&match.Discovery{
		Side:         side,
		SourceID:     src.ID,
		SourceCardID: src.CardID(),
		Options:      options,
		Filter:       e.Filter,
		Resume:       match.ResumeAddToHand,
	})
	txn.Log(match.LogEvent{
		Type:     match.LogDiscover,
		Player:   side,
		Text:     fmt.Sprintf("%s is discovering from %d cards", side, len(options)),
		CardID:   src.CardID(),
		CardName: src.Name(),
		Value:    len(options),
	})
	txn.Emit(match.Intent{Kind: match.IntentDiscover, Side: side, Instance: src.ID, Amount: len(options)})
	return nil
}

func (h *handler) VisitStartQuest(e card.StartQuest) error {
	if err := quest.CanInstall(h.s.txn, h.s.d.cards, h.res.side, e.Quest); err != nil {
		return questError(err)
	}
	h.begin()
	return questError(quest.Install(h.s.txn, h.s.d.cards, h.res.side, e.Quest, h.res.source))
}

func questError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, quest.ErrRewardNotFound):
		return fmt.Errorf("%w: %w", ErrCardNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrConditionNotMet, err)
	}
}

func (h *handler) VisitGainArmor(e card.GainArmor) error {
	h.begin()
	side := h.res.side
	h.s.txn.UpdateHero(side, func(hero *match.Hero) {
		hero.Armor += e.Amount
	})
	h.s.txn.Log(match.LogEvent{
		Type:     match.LogArmor,
		Player:   side,
		Text:     fmt.Sprintf("%s gains %d armor", side, e.Amount),
		CardID:   h.res.source.CardID(),
		CardName: h.res.source.Name(),
		TargetID: match.HeroID(side),
		Value:    e.Amount,
	})
	return nil
}

func (h *handler) VisitEquipWeapon(e card.EquipWeapon) error {
	data, err := h.lookup(e.CardID, card.TypeWeapon)
	if err != nil {
		return err
	}
	h.begin()
	txn := h.s.txn
	side := h.res.side
	inst := txn.Mint(data, side, mechanics.Initialize)
	txn.EquipWeapon(side, inst.ID)
	txn.Log(match.LogEvent{
		Type:     match.LogEquip,
		Player:   side,
		Text:     fmt.Sprintf("%s equips %s", side, data.Name),
		CardID:   data.ID,
		CardName: data.Name,
		TargetID: string(inst.ID),
		Value:    inst.Attack,
	})
	return nil
}

func (h *handler) VisitAddToHand(e card.AddToHand) error {
	data, err := h.lookup(e.CardID, "")
	if err != nil {
		return err
	}
	h.begin()
	for i := 0; i < max(e.Count, 1); i++ {
		h.s.Give(h.res.side, data, match.LogAddToHand)
	}
	return nil
}
