// Package game is the entry point for playing cards against a match state. Every call
// takes a state and returns the next one; a failed call hands back the state it was
// given.
package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/effects"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
	"github.com/norsetcg/cardengine/internal/game/quest"
	"github.com/norsetcg/cardengine/internal/game/rules"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"go.uber.org/zap"
)

// Opening hand sizes for the side that goes first and the side that goes second.
const (
	openingHandFirst  = 3
	openingHandSecond = 4
)

// Config tunes an engine. Zero values fall back to the defaults.
type Config struct {
	Limits              match.Limits
	StartingHealth      int
	DiscoverOptions     int
	MaxDeathrattleDepth int
	// Seed fixes the random source. Zero seeds from the runtime.
	Seed     uint64
	Colossal mechanics.ColossalTable
}

// Target is the character a player aimed at. Category is optional.
type Target struct {
	ID       string
	Category targeting.Category
}

// Engine plays cards and turns against match states.
type Engine struct {
	logger     *zap.Logger
	cards      effects.Registry
	dispatcher *effects.Dispatcher
	bus        *rules.EventBus
	recorder   *ReplayRecorder
	rng        *rand.Rand
	cfg        Config
}

// NewEngine creates an engine over a card registry.
func NewEngine(logger *zap.Logger, cards effects.Registry, cfg Config) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Limits == (match.Limits{}) {
		cfg.Limits = match.DefaultLimits()
	}
	if cfg.StartingHealth <= 0 {
		cfg.StartingHealth = 30
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Engine{
		logger: logger,
		cards:  cards,
		dispatcher: effects.NewDispatcher(logger.Named("effects"), cards, effects.Options{
			DiscoverOptions:     cfg.DiscoverOptions,
			MaxDeathrattleDepth: cfg.MaxDeathrattleDepth,
			Colossal:            cfg.Colossal,
			RNG:                 rng,
		}),
		bus: rules.NewEventBus(),
		rng: rng,
		cfg: cfg,
	}
}

// Events is the bus committed log entries are published on.
func (e *Engine) Events() *rules.EventBus {
	return e.bus
}

// SetRecorder makes the engine record every match it starts from now on. Nil stops
// recording new matches.
func (e *Engine) SetRecorder(rr *ReplayRecorder) {
	e.recorder = rr
}

// Dispatcher is the effect dispatcher the engine resolves with.
func (e *Engine) Dispatcher() *effects.Dispatcher {
	return e.dispatcher
}

// NewMatch shuffles both decks, deals opening hands and opens the mulligan. AI sides
// keep their hands.
func (e *Engine) NewMatch(setup match.Setup) (*match.State, error) {
	if setup.Limits == (match.Limits{}) {
		setup.Limits = e.cfg.Limits
	}
	if setup.Player.Health <= 0 {
		setup.Player.Health = e.cfg.StartingHealth
	}
	if setup.Opponent.Health <= 0 {
		setup.Opponent.Health = e.cfg.StartingHealth
	}
	if setup.FirstTurn != "" && !setup.FirstTurn.Valid() {
		return nil, fmt.Errorf("invalid first side %q", setup.FirstTurn)
	}

	st := match.NewState(setup)
	txn := st.Begin()
	first := txn.CurrentTurn()

	for _, side := range match.Sides() {
		deck := slices.Clone(txn.Player(side).Deck)
		e.rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		txn.SetDeck(side, deck)
	}

	session := e.dispatcher.Session(txn)
	session.Draw(first, openingHandFirst)
	session.Draw(first.Other(), openingHandSecond)

	txn.UpdatePlayer(first, func(p *match.PlayerState) {
		p.Mana = match.ManaPool{Current: 1, Max: 1}
	})

	txn.SetMulligan(&match.Mulligan{})
	txn.Log(match.LogEvent{
		Type:   match.LogMulligan,
		Player: first,
		Text:   "mulligan started",
	})
	for _, side := range match.Sides() {
		if txn.Player(side).Controller == match.ControllerAI {
			e.confirmMulligan(session, side)
		}
	}

	next := txn.Commit()
	e.logger.Info("match started",
		zap.String("match_id", next.ID()),
		zap.String("first", string(first)),
	)
	if e.recorder != nil {
		e.recorder.StartRecording(next.ID())
		e.recorder.RecordState(next)
	}
	e.publish(next.ID(), txn.LogSince(0))
	return next, nil
}

// PlayCard plays a card from the hand of the side whose turn it is, paying its cost and
// resolving its battlecry, spell and combo abilities. Everything the play causes commits
// together or not at all.
func (e *Engine) PlayCard(st *match.State, source match.InstanceID, target Target) (*effects.Outcome, error) {
	e.logger.Debug("playing card",
		zap.String("match_id", st.ID()),
		zap.String("source", string(source)),
		zap.String("target", target.ID),
	)
	return e.run(st, func(s *effects.Session) error {
		return e.play(s, source, target)
	})
}

// Resolve fires one ability directly.
func (e *Engine) Resolve(st *match.State, req effects.Request) (*effects.Outcome, error) {
	return e.run(st, func(s *effects.Session) error {
		return s.Trigger(req)
	})
}

// ResumeDiscovery completes the first pending discovery with the chosen card id. An
// empty choice skips it. A choice queued behind it becomes pending.
func (e *Engine) ResumeDiscovery(st *match.State, chosen string) (*effects.Outcome, error) {
	return e.run(st, func(s *effects.Session) error {
		txn := s.Txn()
		d := txn.Discovery()
		if d == nil {
			return effects.ErrNoPendingDiscovery
		}
		if chosen == "" {
			txn.SetDiscovery(d.Next)
			txn.Log(match.LogEvent{
				Type:   match.LogDiscover,
				Player: d.Side,
				Text:   fmt.Sprintf("%s skipped the discovery", d.Side),
				CardID: d.SourceCardID,
			})
			return nil
		}
		if !d.Offers(chosen) {
			return fmt.Errorf("%w: %s", effects.ErrIllegalChoice, chosen)
		}
		data, ok := e.cards.Lookup(chosen)
		if !ok {
			return fmt.Errorf("%w: %s", effects.ErrCardNotFound, chosen)
		}

		txn.SetDiscovery(d.Next)
		txn.Log(match.LogEvent{
			Type:     match.LogDiscover,
			Player:   d.Side,
			Text:     fmt.Sprintf("%s discovers %s", d.Side, data.Name),
			CardID:   data.ID,
			CardName: data.Name,
		})
		switch d.Resume {
		case match.ResumeAddToHand, "":
			s.Give(d.Side, data, match.LogAddToHand)
		default:
			return fmt.Errorf("unknown discovery continuation %q", d.Resume)
		}
		return nil
	})
}

// ObserveAction feeds an action that happened outside card play, such as an attack or
// a hero power, to a side's quest.
func (e *Engine) ObserveAction(st *match.State, side match.Side, action quest.Action) (*effects.Outcome, error) {
	return e.run(st, func(s *effects.Session) error {
		if !side.Valid() {
			return fmt.Errorf("invalid side %q", side)
		}
		txn := s.Txn()
		txn.Log(match.LogEvent{
			Type:   match.LogAction,
			Player: side,
			Text:   fmt.Sprintf("%s: %s", side, action.Kind),
			Value:  action.Mana,
		})
		quest.Observe(txn, e.cards, side, action)
		return nil
	})
}

// LegalTargets lists the characters a source's ability for the trigger may aim at. Mass
// and untargeted abilities have none.
func (e *Engine) LegalTargets(st *match.State, source match.InstanceID, trigger effects.Trigger) []targeting.TargetInfo {
	inst, ok := st.Instance(source)
	if !ok {
		return nil
	}
	ability := abilityFor(inst, trigger)
	if ability == nil || ability.TargetType == targeting.TargetNone || ability.TargetType.IsMass() {
		return nil
	}
	return targeting.NewTargetValidator(st).ValidTargets(ability.TargetType, string(inst.Owner))
}

func abilityFor(inst *match.CardInstance, trigger effects.Trigger) *card.Ability {
	switch trigger {
	case effects.TriggerBattlecry:
		return inst.Battlecry
	case effects.TriggerDeathrattle:
		return inst.Deathrattle
	case effects.TriggerSpell:
		return inst.Spell
	case effects.TriggerCombo:
		return inst.Combo
	case effects.TriggerFrenzy:
		return inst.Frenzy
	}
	return nil
}

// run executes fn in a fresh session and commits it. On error the input state is
// returned and nothing is published.
func (e *Engine) run(st *match.State, fn func(*effects.Session) error) (*effects.Outcome, error) {
	txn := st.Begin()
	mark := txn.LogLen()
	if err := fn(e.dispatcher.Session(txn)); err != nil {
		e.logger.Warn("action rejected",
			zap.String("match_id", st.ID()),
			zap.Error(err),
		)
		return &effects.Outcome{State: st}, err
	}

	next := txn.Commit()
	if e.recorder != nil {
		e.recorder.RecordState(next)
	}
	e.publish(next.ID(), txn.LogSince(mark))
	return &effects.Outcome{
		State:   next,
		Intents: txn.Intents(),
		Pending: next.Discovery() != nil,
	}, nil
}

func (e *Engine) publish(matchID string, entries []match.LogEvent) {
	if len(entries) == 0 {
		return
	}
	e.bus.PublishBatch(rules.FromLogs(matchID, entries))
}
