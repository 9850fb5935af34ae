// Package effects resolves ability descriptors against a match. It owns the atomicity
// contract: a resolution either commits fully, log entries included, or hands the
// input state back untouched.
package effects

import (
	"fmt"
	"math/rand/v2"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/discovery"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"go.uber.org/zap"
)

// Trigger says why an ability is firing.
type Trigger string

const (
	TriggerBattlecry   Trigger = "battlecry"
	TriggerDeathrattle Trigger = "deathrattle"
	TriggerSpell       Trigger = "spell"
	TriggerCombo       Trigger = "combo"
	TriggerFrenzy      Trigger = "frenzy"
)

// zones lists where the source may be when a caller fires the trigger directly.
func (t Trigger) zones() []match.Zone {
	switch t {
	case TriggerBattlecry:
		return []match.Zone{match.ZoneHand, match.ZoneBattlefield}
	case TriggerDeathrattle, TriggerFrenzy:
		return []match.Zone{match.ZoneBattlefield}
	case TriggerSpell, TriggerCombo:
		return []match.Zone{match.ZoneHand}
	}
	return nil
}

func (t Trigger) ability(inst *match.CardInstance) *card.Ability {
	switch t {
	case TriggerBattlecry:
		return inst.Battlecry
	case TriggerDeathrattle:
		return inst.Deathrattle
	case TriggerSpell:
		return inst.Spell
	case TriggerCombo:
		return inst.Combo
	case TriggerFrenzy:
		return inst.Frenzy
	}
	return nil
}

func (t Trigger) logType() match.LogType {
	switch t {
	case TriggerDeathrattle:
		return match.LogDeathrattle
	case TriggerFrenzy:
		return match.LogFrenzy
	case TriggerCombo:
		return match.LogCombo
	}
	return match.LogEffect
}

// Registry is the card registry as the dispatcher sees it.
type Registry interface {
	card.Source
	discovery.Catalog
}

// Options tune a dispatcher. Zero values fall back to the defaults.
type Options struct {
	DiscoverOptions     int
	MaxDeathrattleDepth int
	Colossal            mechanics.ColossalTable
	RNG                 *rand.Rand
}

// Dispatcher routes effect descriptors to their handlers.
type Dispatcher struct {
	logger   *zap.Logger
	cards    Registry
	rng      *rand.Rand
	colossal mechanics.ColossalTable
	opts     Options
}

// NewDispatcher builds a dispatcher over a card registry.
func NewDispatcher(logger *zap.Logger, cards Registry, opts Options) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DiscoverOptions <= 0 {
		opts.DiscoverOptions = discovery.DefaultCount
	}
	if opts.MaxDeathrattleDepth <= 0 {
		opts.MaxDeathrattleDepth = 8
	}
	if opts.Colossal == nil {
		opts.Colossal = mechanics.DefaultColossalTable()
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Dispatcher{
		logger:   logger,
		cards:    cards,
		rng:      opts.RNG,
		colossal: opts.Colossal,
		opts:     opts,
	}
}

// Cards is the registry the dispatcher resolves against.
func (d *Dispatcher) Cards() Registry {
	return d.cards
}

// Colossal is the colossal part table.
func (d *Dispatcher) Colossal() mechanics.ColossalTable {
	return d.colossal
}

// RNG is the dispatcher's random source.
func (d *Dispatcher) RNG() *rand.Rand {
	return d.rng
}

// Request asks for one ability of a source to resolve. Ability overrides the source's
// own descriptor for the trigger when set.
type Request struct {
	Source         match.InstanceID
	Trigger        Trigger
	Ability        *card.Ability
	TargetID       string
	TargetCategory targeting.Category
}

// Outcome is a committed resolution. Pending is set when the resolution stopped at a
// discovery choice.
type Outcome struct {
	State   *match.State
	Intents []match.Intent
	Pending bool
}

// Resolve fires one ability against a working copy of st. On error the original state
// is returned alongside it.
func (d *Dispatcher) Resolve(st *match.State, req Request) (*Outcome, error) {
	d.logger.Debug("resolving ability",
		zap.String("source", string(req.Source)),
		zap.String("trigger", string(req.Trigger)),
		zap.String("target", req.TargetID),
	)

	txn := st.Begin()
	if err := d.Session(txn).Trigger(req); err != nil {
		d.logger.Warn("resolution rejected",
			zap.String("source", string(req.Source)),
			zap.String("trigger", string(req.Trigger)),
			zap.Error(err),
		)
		return &Outcome{State: st}, err
	}
	return &Outcome{
		State:   txn.Commit(),
		Intents: txn.Intents(),
		Pending: txn.Discovery() != nil,
	}, nil
}

// pending is a queued deathrattle or frenzy.
type pending struct {
	source  *match.CardInstance
	trigger Trigger
	ability *card.Ability
	depth   int
}

// Session resolves abilities inside one transaction. Deathrattles and frenzies queued by
// one ability run after it, in the order they were queued.
type Session struct {
	d     *Dispatcher
	txn   *match.Txn
	queue []pending
}

// Session opens a resolution session on a transaction.
func (d *Dispatcher) Session(txn *match.Txn) *Session {
	return &Session{d: d, txn: txn}
}

// Txn is the session's transaction.
func (s *Session) Txn() *match.Txn {
	return s.txn
}

// Trigger checks the source zone and combo state, then fires the ability as Fire does.
func (s *Session) Trigger(req Request) error {
	if s.txn.Discovery() != nil {
		return wrap(req.Trigger, req.Source, req.TargetID, ErrDiscoveryPending)
	}
	src, ok := s.txn.Instance(req.Source)
	if !ok {
		return wrap(req.Trigger, req.Source, req.TargetID, fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source))
	}
	legal := false
	for _, z := range req.Trigger.zones() {
		if src.Zone == z {
			legal = true
			break
		}
	}
	if !legal {
		return wrap(req.Trigger, req.Source, req.TargetID, fmt.Errorf("%w: %s from %q", ErrIllegalSourceZone, req.Trigger, src.Zone))
	}
	if req.Trigger == TriggerCombo && s.txn.Player(src.Owner).CardsPlayedThisTurn == 0 {
		return wrap(req.Trigger, req.Source, req.TargetID, fmt.Errorf("%w: combo is not active", ErrConditionNotMet))
	}
	return s.Fire(req)
}

// Fire resolves the ability and everything it queues. The caller is responsible for the
// source being in a sensible zone.
func (s *Session) Fire(req Request) error {
	src, ok := s.txn.Instance(req.Source)
	if !ok {
		return wrap(req.Trigger, req.Source, req.TargetID, fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source))
	}
	ability := req.Ability
	if ability == nil {
		ability = req.Trigger.ability(src)
	}
	if ability == nil || ability.Effect == nil {
		return wrap(req.Trigger, req.Source, req.TargetID, ErrNoAbility)
	}

	if err := s.run(src, req.Trigger, ability, req.TargetID, req.TargetCategory, false, 0); err != nil {
		return wrap(req.Trigger, req.Source, req.TargetID, err)
	}
	s.drain()
	return nil
}

// drain resolves queued deathrattles and frenzies. A queued ability that cannot resolve
// is skipped; it never rolls back the ability that queued it.
func (s *Session) drain() {
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		if next.depth > s.d.opts.MaxDeathrattleDepth {
			s.d.logger.Warn("dropping queued ability past depth limit",
				zap.String("source", string(next.source.ID)),
				zap.String("trigger", string(next.trigger)),
				zap.Int("depth", next.depth),
			)
			continue
		}
		// The source may have changed since it was queued; frenzy reads the live record.
		src := next.source
		if live, ok := s.txn.Instance(src.ID); ok {
			src = live
		}
		if err := s.run(src, next.trigger, next.ability, "", "", true, next.depth); err != nil {
			s.d.logger.Debug("queued ability skipped",
				zap.String("source", string(src.ID)),
				zap.String("trigger", string(next.trigger)),
				zap.Error(err),
			)
		}
	}
}

func (s *Session) enqueue(src *match.CardInstance, trigger Trigger, ability *card.Ability, depth int) {
	s.queue = append(s.queue, pending{source: src, trigger: trigger, ability: ability, depth: depth + 1})
}

// resolution is the context of one running ability.
type resolution struct {
	source   *match.CardInstance
	side     match.Side
	trigger  Trigger
	ability  *card.Ability
	targetID string
	depth    int
}

func (s *Session) run(src *match.CardInstance, trigger Trigger, ability *card.Ability, targetID string, category targeting.Category, auto bool, depth int) error {
	side := src.Owner
	if err := s.checkCondition(src, ability.Condition); err != nil {
		return err
	}

	targetID, err := s.chooseTarget(side, ability, targetID, category, auto)
	if err != nil {
		return err
	}

	res := &resolution{
		source:   src,
		side:     side,
		trigger:  trigger,
		ability:  ability,
		targetID: targetID,
		depth:    depth,
	}
	h := &handler{s: s, res: res}
	if err := ability.Effect.Accept(h); err != nil {
		return err
	}
	h.begin()
	return nil
}

// chooseTarget validates an explicit target, or picks one when the ability aims at a
// single character and nobody chose: fixed for hero specs, random for the rest.
func (s *Session) chooseTarget(side match.Side, ability *card.Ability, targetID string, category targeting.Category, auto bool) (string, error) {
	spec := ability.TargetType
	validator := targeting.NewTargetValidator(s.txn)

	if targetID != "" {
		check := spec
		if check == targeting.TargetNone || check.IsMass() {
			check = targeting.TargetAnyCharacter
		}
		if err := validator.Check(check, category, targetID, string(side)); err != nil {
			return "", err
		}
		return targetID, nil
	}

	if ability.RequiresTarget && !auto {
		return "", ErrMissingTarget
	}
	if spec == targeting.TargetNone || spec.IsMass() {
		return "", nil
	}
	switch spec {
	case targeting.TargetFriendlyHero:
		return match.HeroID(side), nil
	case targeting.TargetEnemyHero:
		return match.HeroID(side.Other()), nil
	}
	candidates := validator.ValidTargets(spec, string(side))
	if len(candidates) == 0 {
		if ability.RequiresTarget {
			return "", ErrMissingTarget
		}
		return "", nil
	}
	return candidates[s.d.rng.IntN(len(candidates))].ID, nil
}

func (s *Session) checkCondition(src *match.CardInstance, cond *card.Condition) error {
	if cond == nil {
		return nil
	}
	p := s.txn.Player(src.Owner)
	ok := false
	switch cond.Kind {
	case card.ConditionNoCostInDeck:
		ok = true
		for _, d := range p.Deck {
			if d.ManaCost == cond.Value {
				ok = false
				break
			}
		}
	case card.ConditionHoldingRace:
		for _, inst := range s.txn.Hand(src.Owner) {
			if inst.ID == src.ID {
				continue
			}
			if r := inst.Race(); r == cond.Race || (r == card.RaceAll && inst.IsMinion()) {
				ok = true
				break
			}
		}
	case card.ConditionHeroHealthAtMost:
		ok = p.Hero.Health <= cond.Value
	case card.ConditionMinionsAtLeast:
		ok = len(p.Battlefield) >= cond.Value
	default:
		return fmt.Errorf("%w: unknown condition %q", ErrConditionNotMet, cond.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrConditionNotMet, cond.Kind)
	}
	return nil
}
