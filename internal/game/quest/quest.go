// Package quest installs quests and advances them from the actions that qualify.
package quest

import (
	"errors"
	"fmt"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/mechanics"
)

var (
	// ErrQuestActive is returned when a side already has an unfinished quest.
	ErrQuestActive = errors.New("quest already active")
	// ErrRewardNotFound is returned when the reward card is not in the card source.
	ErrRewardNotFound = errors.New("quest reward card not found")
	// ErrInvalidQuest is returned for quests without a kind or a positive target.
	ErrInvalidQuest = errors.New("invalid quest")
)

// ActionKind is an action a quest can observe.
type ActionKind string

const (
	ActionCardPlayed     ActionKind = "card_played"
	ActionMinionSummoned ActionKind = "minion_summoned"
	ActionSpellCast      ActionKind = "spell_cast"
	ActionHeroAttack     ActionKind = "hero_attack"
	ActionMinionAttack   ActionKind = "minion_attack"
	ActionHeroPower      ActionKind = "hero_power"
)

// Action is one observed action. Card is the card involved, if any; Mana is what the
// action cost.
type Action struct {
	Kind ActionKind
	Card *card.Data
	Mana int
}

// Increment is how much the action advances a quest of the given kind. Zero means the
// action does not qualify.
func Increment(kind card.QuestKind, a Action) int {
	switch kind {
	case card.QuestSummonMinions:
		if a.Kind == ActionMinionSummoned {
			return 1
		}
	case card.QuestSummonRushMinions:
		if a.Kind == ActionMinionSummoned && a.Card.HasKeyword(card.KeywordRush) {
			return 1
		}
	case card.QuestPlayMinions:
		if a.Kind == ActionCardPlayed && a.Card.IsMinion() {
			return 1
		}
	case card.QuestPlayTauntMinions:
		if a.Kind == ActionCardPlayed && a.Card.IsMinion() && a.Card.HasKeyword(card.KeywordTaunt) {
			return 1
		}
	case card.QuestCastSpells:
		if a.Kind == ActionSpellCast {
			return 1
		}
	case card.QuestSpendManaOnSpells:
		if a.Kind == ActionSpellCast && a.Mana > 0 {
			return a.Mana
		}
	case card.QuestHeroAttacks:
		if a.Kind == ActionHeroAttack {
			return 1
		}
	case card.QuestMinionAttacks:
		if a.Kind == ActionMinionAttack {
			return 1
		}
	case card.QuestHeroPowerUses:
		if a.Kind == ActionHeroPower {
			return 1
		}
	}
	return 0
}

// Install puts a fresh quest on a side. A completed quest may be replaced; an
// unfinished one may not.
func Install(txn *match.Txn, cards card.Source, side match.Side, spec card.QuestSpec, source *match.CardInstance) error {
	if err := CanInstall(txn, cards, side, spec); err != nil {
		return err
	}

	q := &match.Quest{
		Kind:         spec.Kind,
		Target:       spec.Target,
		RewardCardID: spec.RewardCardID,
		SourceCardID: source.CardID(),
		SourceName:   source.Name(),
	}
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.Quest = q
	})
	txn.Log(match.LogEvent{
		Type:     match.LogQuestStarted,
		Player:   side,
		Text:     fmt.Sprintf("%s started quest: %s", side, q.SourceName),
		CardID:   q.SourceCardID,
		CardName: q.SourceName,
		Progress: 0,
		Target:   q.Target,
	})
	return nil
}

// CanInstall runs Install's checks without touching the transaction.
func CanInstall(r match.Reader, cards card.Source, side match.Side, spec card.QuestSpec) error {
	if spec.Kind == "" || spec.Target <= 0 {
		return fmt.Errorf("%w: kind %q target %d", ErrInvalidQuest, spec.Kind, spec.Target)
	}
	if q := r.Player(side).Quest; q != nil && !q.Completed {
		return fmt.Errorf("%w: %s", ErrQuestActive, q.SourceName)
	}
	if _, ok := cards.Lookup(spec.RewardCardID); !ok {
		return fmt.Errorf("%w: %s", ErrRewardNotFound, spec.RewardCardID)
	}
	return nil
}

// Observe advances a side's quest by the action and completes it when the target is
// reached. It reports whether the quest moved. Completed quests never move.
func Observe(txn *match.Txn, cards card.Source, side match.Side, a Action) bool {
	q := txn.Player(side).Quest
	if q == nil || q.Completed {
		return false
	}
	inc := Increment(q.Kind, a)
	if inc == 0 {
		return false
	}

	var progressed match.Quest
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.Quest.Progress += inc
		progressed = *p.Quest
	})
	txn.Log(match.LogEvent{
		Type:     match.LogQuestProgress,
		Player:   side,
		Text:     fmt.Sprintf("%s quest progress: %d/%d", side, progressed.Progress, progressed.Target),
		CardID:   progressed.SourceCardID,
		CardName: progressed.SourceName,
		Value:    inc,
		Progress: progressed.Progress,
		Target:   progressed.Target,
	})

	if progressed.Progress >= progressed.Target {
		complete(txn, cards, side)
	}
	return true
}

func complete(txn *match.Txn, cards card.Source, side match.Side) {
	var q match.Quest
	txn.UpdatePlayer(side, func(p *match.PlayerState) {
		p.Quest.Completed = true
		q = *p.Quest
	})
	txn.Log(match.LogEvent{
		Type:     match.LogQuestCompleted,
		Player:   side,
		Text:     fmt.Sprintf("%s completed quest: %s", side, q.SourceName),
		CardID:   q.SourceCardID,
		CardName: q.SourceName,
		Progress: q.Progress,
		Target:   q.Target,
	})
	txn.Emit(match.Intent{Kind: match.IntentQuestComplete, Side: side, CardID: q.RewardCardID})

	reward, ok := cards.Lookup(q.RewardCardID)
	if !ok {
		return
	}
	inst := txn.Mint(reward, side, mechanics.Initialize)
	if !txn.PutInHand(side, inst.ID) {
		txn.PutInGraveyard(side, inst.ID)
		txn.Log(match.LogEvent{
			Type:     match.LogBurn,
			Player:   side,
			Text:     fmt.Sprintf("%s burned quest reward %s", side, reward.Name),
			CardID:   reward.ID,
			CardName: reward.Name,
			TargetID: string(inst.ID),
		})
		txn.Emit(match.Intent{Kind: match.IntentBurn, Side: side, Instance: inst.ID, CardID: reward.ID})
		return
	}
	txn.Log(match.LogEvent{
		Type:     match.LogQuestRewardAdded,
		Player:   side,
		Text:     fmt.Sprintf("%s received quest reward: %s", side, reward.Name),
		CardID:   reward.ID,
		CardName: reward.Name,
		TargetID: string(inst.ID),
	})
}
