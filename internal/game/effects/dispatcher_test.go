package effects_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/effects"
	"github.com/norsetcg/cardengine/internal/game/gametest"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"github.com/norsetcg/cardengine/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newDispatcher(t *testing.T, opts effects.Options, extra ...*card.Data) (*effects.Dispatcher, *registry.Registry) {
	t.Helper()
	reg := gametest.Registry(extra...)
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewPCG(1, 2))
	}
	if opts.Colossal == nil {
		opts.Colossal = gametest.Colossal()
	}
	return effects.NewDispatcher(zaptest.NewLogger(t), reg, opts), reg
}

func logTypes(events []match.LogEvent) []match.LogType {
	out := make([]match.LogType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func intentKinds(intents []match.Intent) []match.IntentKind {
	out := make([]match.IntentKind, len(intents))
	for i, in := range intents {
		out[i] = in.Kind
	}
	return out
}

func instance(t *testing.T, st *match.State, id match.InstanceID) *match.CardInstance {
	t.Helper()
	inst, ok := st.Instance(id)
	require.True(t, ok, "instance %s", id)
	return inst
}

func cast(d *effects.Dispatcher, st *match.State, source match.InstanceID, target string) (*effects.Outcome, error) {
	return d.Resolve(st, effects.Request{Source: source, Trigger: effects.TriggerSpell, TargetID: target})
}

// TestResolveFailureLeavesStateUntouched verifies that a rejected ability hands back the
// input state with neither log entries nor changes.
func TestResolveFailureLeavesStateUntouched(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var moonfire, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})
	logBefore := len(st.Log())
	checksum := st.Checksum()

	tests := []struct {
		name   string
		target string
		want   error
	}{
		{"missing target", "", effects.ErrMissingTarget},
		{"unknown target", "nobody", effects.ErrTargetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := cast(d, st, moonfire, tt.target)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Same(t, st, out.State)
			assert.Empty(t, out.Intents)

			var re *effects.ResolutionError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, effects.TriggerSpell, re.Trigger)
			assert.Equal(t, moonfire, re.Source)
		})
	}

	assert.Len(t, st.Log(), logBefore)
	assert.Equal(t, checksum, st.Checksum())
	assert.Equal(t, 5, instance(t, st, yeti).CurrentHealth)
}

// TestRejectedEffectsAreAtomic verifies every effect family hands back its input when
// it refuses the target or the board, with no log entry and no intent.
func TestRejectedEffectsAreAtomic(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var source, yeti, cobra match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		source = gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SidePlayer, gametest.Yeti)
		for i := 0; i < 5; i++ {
			gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		}
		cobra = gametest.Summon(txn, reg, match.SideOpponent, gametest.Cobra)
		gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
		txn.UpdatePlayer(match.SidePlayer, func(p *match.PlayerState) {
			p.Quest = &match.Quest{Kind: card.QuestCastSpells, Target: 3, RewardCardID: gametest.TimeWarp}
		})
	})
	logBefore := len(st.Log())
	checksum := st.Checksum()
	playerHero := match.HeroID(match.SidePlayer)
	enemyHero := match.HeroID(match.SideOpponent)
	quest := card.QuestSpec{Kind: card.QuestCastSpells, Target: 2, RewardCardID: gametest.TimeWarp}

	tests := []struct {
		name   string
		effect card.Effect
		tt     targeting.TargetType
		target string
		want   error
	}{
		{"damage without target", card.Damage{Amount: 2}, targeting.TargetAnyCharacter, "", effects.ErrMissingTarget},
		{"damage unknown id", card.Damage{Amount: 2}, targeting.TargetAnyCharacter, "ghost", effects.ErrTargetNotFound},
		{"heal unknown id", card.Heal{Amount: 2}, targeting.TargetAnyCharacter, "ghost", effects.ErrTargetNotFound},
		{"buff on a hero", card.Buff{Attack: 1, Health: 1}, targeting.TargetAnyCharacter, playerHero, effects.ErrIllegalTarget},
		{"destroy a friendly minion", card.Destroy{}, targeting.TargetEnemyMinion, string(yeti), effects.ErrIllegalTarget},
		{"transform a hero", card.Transform{IntoCardID: gametest.Sheep}, targeting.TargetAnyCharacter, enemyHero, effects.ErrIllegalTarget},
		{"transform into a spell", card.Transform{IntoCardID: gametest.Moonfire}, targeting.TargetAnyMinion, string(cobra), effects.ErrCardNotFound},
		{"silence a hero", card.Silence{}, targeting.TargetAnyCharacter, enemyHero, effects.ErrIllegalTarget},
		{"mind control on a full board", card.MindControl{}, targeting.TargetEnemyMinion, string(cobra), effects.ErrBattlefieldFull},
		{"mind control a friendly minion", card.MindControl{}, targeting.TargetAnyMinion, string(yeti), effects.ErrIllegalTarget},
		{"return unknown id", card.ReturnToHand{}, targeting.TargetAnyMinion, "ghost", effects.ErrTargetNotFound},
		{"freeze unknown id", card.Freeze{}, targeting.TargetAnyCharacter, "ghost", effects.ErrTargetNotFound},
		{"freeze without target", card.Freeze{}, targeting.TargetAnyCharacter, "", effects.ErrMissingTarget},
		{"summon unknown card", card.Summon{CardID: "missing", Count: 1}, targeting.TargetNone, "", effects.ErrCardNotFound},
		{"equip a minion", card.EquipWeapon{CardID: gametest.Yeti}, targeting.TargetNone, "", effects.ErrCardNotFound},
		{"add unknown card", card.AddToHand{CardID: "missing"}, targeting.TargetNone, "", effects.ErrCardNotFound},
		{"quest while one is active", card.StartQuest{Quest: quest}, targeting.TargetNone, "", effects.ErrConditionNotMet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Resolve(st, effects.Request{
				Source:   source,
				Trigger:  effects.TriggerBattlecry,
				Ability:  gametest.Ability(tt.effect, tt.tt),
				TargetID: tt.target,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Same(t, st, out.State)
			assert.Empty(t, out.Intents)
			assert.False(t, out.Pending)
		})
	}

	assert.Len(t, st.Log(), logBefore)
	assert.Equal(t, checksum, st.Checksum())
	assert.Len(t, st.Battlefield(match.SidePlayer), 7)
	assert.Equal(t, 0, st.Player(match.SidePlayer).Quest.Progress)
}

// TestResolveDoesNotMutateInput verifies copy-on-write: the input state still shows the
// old board after a successful resolution.
func TestResolveDoesNotMutateInput(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var moonfire, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := cast(d, st, moonfire, string(yeti))
	require.NoError(t, err)

	assert.Equal(t, 5, instance(t, st, yeti).CurrentHealth)
	assert.Equal(t, 4, instance(t, out.State, yeti).CurrentHealth)
	assert.Greater(t, len(out.State.Log()), len(st.Log()))
}

// TestDamageBreaksDivineShield verifies the shield absorbs the whole hit.
func TestDamageBreaksDivineShield(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var moonfire, squire match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
		squire = gametest.Summon(txn, reg, match.SideOpponent, gametest.Squire)
	})

	out, err := cast(d, st, moonfire, string(squire))
	require.NoError(t, err)

	got := instance(t, out.State, squire)
	assert.False(t, got.HasDivineShield)
	assert.Equal(t, 1, got.CurrentHealth)
	assert.Equal(t, match.ZoneBattlefield, got.Zone)
	assert.Contains(t, logTypes(out.State.Log()), match.LogShieldBreak)
	assert.NotContains(t, logTypes(out.State.Log()), match.LogDamage)
	assert.Contains(t, intentKinds(out.Intents), match.IntentShieldBreak)

	// The second hit lands.
	out, err = cast(d, out.State, moonfire, string(squire))
	require.NoError(t, err)
	assert.Equal(t, match.ZoneGraveyard, instance(t, out.State, squire).Zone)
}

// TestSpellDamageOnlyBoostsSpells verifies spell power adds to spells but not to a
// minion's battlecry.
func TestSpellDamageOnlyBoostsSpells(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var moonfire, archer, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		gametest.Summon(txn, reg, match.SidePlayer, gametest.Geomancer)
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
		archer = gametest.Hand(txn, reg, match.SidePlayer, gametest.Archer)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := cast(d, st, moonfire, string(yeti))
	require.NoError(t, err)
	assert.Equal(t, 3, instance(t, out.State, yeti).CurrentHealth)

	out, err = d.Resolve(out.State, effects.Request{Source: archer, Trigger: effects.TriggerBattlecry, TargetID: string(yeti)})
	require.NoError(t, err)
	assert.Equal(t, 2, instance(t, out.State, yeti).CurrentHealth)
}

// TestPoisonousDestroysMinion verifies any damage from a poisonous source kills.
func TestPoisonousDestroysMinion(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var cobra, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		cobra = gametest.Summon(txn, reg, match.SidePlayer, gametest.Cobra)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := d.Resolve(st, effects.Request{
		Source:   cobra,
		Trigger:  effects.TriggerBattlecry,
		Ability:  gametest.Ability(card.Damage{Amount: 1}, targeting.TargetAnyMinion),
		TargetID: string(yeti),
	})
	require.NoError(t, err)

	assert.Equal(t, match.ZoneGraveyard, instance(t, out.State, yeti).Zone)
	assert.Empty(t, out.State.Battlefield(match.SideOpponent))
	assert.Contains(t, intentKinds(out.Intents), match.IntentDeath)
}

// TestLifestealHealsOwnerHero verifies damage from a lifesteal spell heals its caster.
func TestLifestealHealsOwnerHero(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var drain match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		drain = gametest.Hand(txn, reg, match.SidePlayer, gametest.Drain)
		txn.UpdateHero(match.SidePlayer, func(h *match.Hero) { h.Health = 20 })
	})

	out, err := cast(d, st, drain, match.HeroID(match.SideOpponent))
	require.NoError(t, err)

	assert.Equal(t, 28, out.State.Player(match.SideOpponent).Hero.Health)
	assert.Equal(t, 22, out.State.Player(match.SidePlayer).Hero.Health)
	assert.Contains(t, logTypes(out.State.Log()), match.LogHeal)
}

// TestArmorAbsorbsHeroDamage verifies armor is spent before health.
func TestArmorAbsorbsHeroDamage(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var drain match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		drain = gametest.Hand(txn, reg, match.SidePlayer, gametest.Drain)
		txn.UpdateHero(match.SideOpponent, func(h *match.Hero) { h.Armor = 1 })
	})

	out, err := cast(d, st, drain, match.HeroID(match.SideOpponent))
	require.NoError(t, err)

	hero := out.State.Player(match.SideOpponent).Hero
	assert.Equal(t, 0, hero.Armor)
	assert.Equal(t, 29, hero.Health)
}

// TestAreaDamageResolvesBeforeDeathrattles verifies every target of an area effect is
// hit in board order before any queued deathrattle runs.
func TestAreaDamageResolvesBeforeDeathrattles(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var explosion, loot, wisp, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		explosion = gametest.Hand(txn, reg, match.SidePlayer, gametest.Explosion)
		loot = gametest.Summon(txn, reg, match.SideOpponent, gametest.LootHoarder)
		wisp = gametest.Summon(txn, reg, match.SideOpponent, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
		gametest.Deck(txn, reg, match.SideOpponent, gametest.Yeti)
	})
	mark := len(st.Log())

	out, err := cast(d, st, explosion, "")
	require.NoError(t, err)

	assert.Equal(t, match.ZoneGraveyard, instance(t, out.State, loot).Zone)
	assert.Equal(t, match.ZoneGraveyard, instance(t, out.State, wisp).Zone)
	assert.Equal(t, 4, instance(t, out.State, yeti).CurrentHealth)
	assert.Len(t, out.State.Hand(match.SideOpponent), 1, "loot hoarder draws for its owner")

	var damaged []string
	lastDamage, deathrattle := -1, -1
	for i, ev := range out.State.Log()[mark:] {
		switch ev.Type {
		case match.LogDamage:
			damaged = append(damaged, ev.TargetID)
			lastDamage = i
		case match.LogDeathrattle:
			deathrattle = i
		}
	}
	assert.Equal(t, []string{string(loot), string(wisp), string(yeti)}, damaged)
	require.GreaterOrEqual(t, deathrattle, 0)
	assert.Greater(t, deathrattle, lastDamage)
}

// TestAreaDamageHitsHeroes verifies an all-enemies scope reaches the enemy hero too.
func TestAreaDamageHitsHeroes(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var consecrate, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		consecrate = gametest.Hand(txn, reg, match.SidePlayer, gametest.Consecrate)
		gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := cast(d, st, consecrate, "")
	require.NoError(t, err)

	assert.Equal(t, 3, instance(t, out.State, yeti).CurrentHealth)
	assert.Equal(t, 28, out.State.Player(match.SideOpponent).Hero.Health)
	assert.Equal(t, 30, out.State.Player(match.SidePlayer).Hero.Health)
	assert.Len(t, out.State.Battlefield(match.SidePlayer), 1)
}

// TestDeathrattleSummonsReplacement verifies a deathrattle runs after its minion died
// and summons for the minion's owner.
func TestDeathrattleSummonsReplacement(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var assassinate, golem match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		assassinate = gametest.Hand(txn, reg, match.SidePlayer, gametest.Assassin)
		golem = gametest.Summon(txn, reg, match.SideOpponent, gametest.HarvestGolem)
	})

	out, err := cast(d, st, assassinate, string(golem))
	require.NoError(t, err)

	assert.Equal(t, match.ZoneGraveyard, instance(t, out.State, golem).Zone)
	board := out.State.Battlefield(match.SideOpponent)
	require.Len(t, board, 1)
	assert.Equal(t, gametest.DamagedGolem, board[0].CardID())
	assert.Equal(t, []match.LogType{match.LogEffect, match.LogDestroy, match.LogDeath, match.LogDeathrattle, match.LogSummon},
		logTypes(out.State.Log()[len(st.Log()):]))
}

// TestSilencedMinionHasNoDeathrattle verifies silence removes the deathrattle.
func TestSilencedMinionHasNoDeathrattle(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp, golem match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
		golem = gametest.Summon(txn, reg, match.SideOpponent, gametest.HarvestGolem)
	})

	silence := gametest.Ability(card.Silence{}, targeting.TargetAnyMinion)
	destroy := gametest.Ability(card.Destroy{}, targeting.TargetAnyMinion)

	out, err := d.Resolve(st, effects.Request{Source: wisp, Trigger: effects.TriggerBattlecry, Ability: silence, TargetID: string(golem)})
	require.NoError(t, err)
	assert.True(t, instance(t, out.State, golem).IsSilenced)

	out, err = d.Resolve(out.State, effects.Request{Source: wisp, Trigger: effects.TriggerBattlecry, Ability: destroy, TargetID: string(golem)})
	require.NoError(t, err)
	assert.Empty(t, out.State.Battlefield(match.SideOpponent))
	assert.NotContains(t, logTypes(out.State.Log()), match.LogDeathrattle)
}

// TestDeathrattleDepthLimit verifies chained deathrattles stop at the configured depth.
func TestDeathrattleDepthLimit(t *testing.T) {
	bomb := gametest.Minion("bomb", "Volatile Bomb", 1, 1, 1, card.KeywordDeathrattle)
	bomb.Deathrattle = gametest.Ability(card.AreaDamage{Amount: 1, Scope: targeting.TargetAllMinions}, targeting.TargetNone)

	tests := []struct {
		name       string
		depth      int
		wantHealth int
	}{
		{"stops after first deathrattle", 1, 4},
		{"default depth runs the chain", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, reg := newDispatcher(t, effects.Options{MaxDeathrattleDepth: tt.depth}, bomb)

			var moonfire, first, yeti match.InstanceID
			st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
				moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
				first = gametest.Summon(txn, reg, match.SideOpponent, "bomb")
				gametest.Summon(txn, reg, match.SideOpponent, "bomb")
				yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
			})

			out, err := cast(d, st, moonfire, string(first))
			require.NoError(t, err)
			assert.Equal(t, tt.wantHealth, instance(t, out.State, yeti).CurrentHealth)
		})
	}
}

// TestDrawBurnsOnFullHand verifies cards drawn into a full hand go to the graveyard.
func TestDrawBurnsOnFullHand(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var intellect match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		intellect = gametest.Hand(txn, reg, match.SidePlayer, gametest.Intellect)
		for i := 0; i < 8; i++ {
			gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
		}
		gametest.Deck(txn, reg, match.SidePlayer, gametest.Yeti, gametest.Squire, gametest.Cobra)
	})

	out, err := cast(d, st, intellect, "")
	require.NoError(t, err)

	p := out.State.Player(match.SidePlayer)
	assert.Len(t, p.Hand, 9)
	assert.Len(t, p.Deck, 1)
	burned := out.State.Graveyard(match.SidePlayer)
	require.Len(t, burned, 2)
	assert.Equal(t, gametest.Yeti, burned[0].CardID())
	assert.Equal(t, gametest.Squire, burned[1].CardID())
	assert.Equal(t, 2, countType(out.State.Log(), match.LogBurn))
	assert.Contains(t, intentKinds(out.Intents), match.IntentBurn)
}

// TestDrawFromEmptyDeck verifies drawing stops quietly when the deck runs out.
func TestDrawFromEmptyDeck(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var intellect match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		intellect = gametest.Hand(txn, reg, match.SidePlayer, gametest.Intellect)
		gametest.Deck(txn, reg, match.SidePlayer, gametest.Yeti)
	})

	out, err := cast(d, st, intellect, "")
	require.NoError(t, err)
	assert.Len(t, out.State.Hand(match.SidePlayer), 2)
	assert.Empty(t, out.State.Player(match.SidePlayer).Deck)
}

// TestSummonStopsAtFullBoard verifies summons beyond the board cap are dropped.
func TestSummonStopsAtFullBoard(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
		for i := 0; i < 6; i++ {
			gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		}
	})

	out, err := d.Resolve(st, effects.Request{
		Source:  wisp,
		Trigger: effects.TriggerBattlecry,
		Ability: gametest.Ability(card.Summon{CardID: gametest.Bandit, Count: 3}, targeting.TargetNone),
	})
	require.NoError(t, err)
	assert.Len(t, out.State.Battlefield(match.SidePlayer), 7)
	assert.Equal(t, 1, countType(out.State.Log(), match.LogSummon))
}

// TestSummonUnknownCard verifies a summon of a card missing from the registry fails.
func TestSummonUnknownCard(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
	})

	out, err := d.Resolve(st, effects.Request{
		Source:  wisp,
		Trigger: effects.TriggerBattlecry,
		Ability: gametest.Ability(card.Summon{CardID: "missing"}, targeting.TargetNone),
	})
	assert.ErrorIs(t, err, effects.ErrCardNotFound)
	assert.Same(t, st, out.State)
}

// TestBuffAndDebuff verifies stat floors and that a debuff to zero health kills.
func TestBuffAndDebuff(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var shrink, wisp, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		shrink = gametest.Hand(txn, reg, match.SidePlayer, gametest.Shrink)
		wisp = gametest.Summon(txn, reg, match.SideOpponent, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := cast(d, st, shrink, string(yeti))
	require.NoError(t, err)
	got := instance(t, out.State, yeti)
	assert.Equal(t, 2, got.Attack)
	assert.Equal(t, 3, got.MaxHealth)
	assert.Equal(t, 3, got.CurrentHealth)

	out, err = cast(d, out.State, shrink, string(wisp))
	require.NoError(t, err)
	got = instance(t, out.State, wisp)
	assert.Equal(t, match.ZoneGraveyard, got.Zone)
	assert.Equal(t, 0, got.Attack)
	assert.Equal(t, 1, got.MaxHealth)
}

// TestBuffRejectsHeroTarget verifies a minion-only effect refuses a hero.
func TestBuffRejectsHeroTarget(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
	})

	_, err := d.Resolve(st, effects.Request{
		Source:   wisp,
		Trigger:  effects.TriggerBattlecry,
		Ability:  gametest.Ability(card.Buff{Attack: 1}, targeting.TargetAnyCharacter),
		TargetID: match.HeroID(match.SidePlayer),
	})
	assert.ErrorIs(t, err, effects.ErrIllegalTarget)
}

// TestFrenzyFiresOnce verifies frenzy triggers on the first survived hit only.
func TestFrenzyFiresOnce(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var moonfire, berserker match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
		berserker = gametest.Summon(txn, reg, match.SideOpponent, gametest.Berserker)
	})

	out, err := cast(d, st, moonfire, string(berserker))
	require.NoError(t, err)
	got := instance(t, out.State, berserker)
	assert.Equal(t, 5, got.Attack)
	assert.Equal(t, 2, got.CurrentHealth)
	assert.True(t, got.FrenzyTriggered)

	out, err = cast(d, out.State, moonfire, string(berserker))
	require.NoError(t, err)
	got = instance(t, out.State, berserker)
	assert.Equal(t, 5, got.Attack)
	assert.Equal(t, 1, got.CurrentHealth)
	assert.Equal(t, 1, countType(out.State.Log(), match.LogFrenzy))
}

// TestDestroyAllSparesSourceAndDiscards verifies the board wipe keeps its source and
// empties the hand.
func TestDestroyAllSparesSourceAndDiscards(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var deathwing match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		deathwing = gametest.Summon(txn, reg, match.SidePlayer, gametest.Deathwing)
		gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
		gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
		gametest.Hand(txn, reg, match.SidePlayer, gametest.Yeti)
	})

	out, err := d.Resolve(st, effects.Request{Source: deathwing, Trigger: effects.TriggerBattlecry})
	require.NoError(t, err)

	board := out.State.Battlefield(match.SidePlayer)
	require.Len(t, board, 1)
	assert.Equal(t, deathwing, board[0].ID)
	assert.Empty(t, out.State.Battlefield(match.SideOpponent))
	assert.Empty(t, out.State.Hand(match.SidePlayer))
	assert.Len(t, out.State.Graveyard(match.SidePlayer), 3)
	assert.Equal(t, 2, countType(out.State.Log(), match.LogDiscard))
}

// TestTransformKeepsBoardPosition verifies the replacement takes the old slot.
func TestTransformKeepsBoardPosition(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var polymorph, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		polymorph = gametest.Hand(txn, reg, match.SidePlayer, gametest.Polymorph)
		gametest.Summon(txn, reg, match.SideOpponent, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
		gametest.Summon(txn, reg, match.SideOpponent, gametest.Squire)
	})

	out, err := cast(d, st, polymorph, string(yeti))
	require.NoError(t, err)

	board := out.State.Battlefield(match.SideOpponent)
	require.Len(t, board, 3)
	assert.Equal(t, gametest.Wisp, board[0].CardID())
	assert.Equal(t, gametest.Sheep, board[1].CardID())
	assert.Equal(t, gametest.Squire, board[2].CardID())
	assert.NotEqual(t, yeti, board[1].ID)
	_, ok := out.State.Instance(yeti)
	assert.False(t, ok)
	assert.Contains(t, intentKinds(out.Intents), match.IntentTransform)
}

// TestReturnToHand verifies a bounced minion comes back as a fresh copy.
func TestReturnToHand(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
		txn.Update(yeti, func(ci *match.CardInstance) { ci.CurrentHealth = 1 })
	})

	out, err := d.Resolve(st, effects.Request{
		Source:   wisp,
		Trigger:  effects.TriggerBattlecry,
		Ability:  gametest.Ability(card.ReturnToHand{}, targeting.TargetAnyMinion),
		TargetID: string(yeti),
	})
	require.NoError(t, err)

	assert.Empty(t, out.State.Battlefield(match.SideOpponent))
	hand := out.State.Hand(match.SideOpponent)
	require.Len(t, hand, 1)
	assert.Equal(t, gametest.Yeti, hand[0].CardID())
	assert.Equal(t, 5, hand[0].CurrentHealth)
}

// TestMindControl verifies a stolen minion changes sides and needs board space.
func TestMindControl(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var control, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		control = gametest.Hand(txn, reg, match.SidePlayer, gametest.Control)
		yeti = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := cast(d, st, control, string(yeti))
	require.NoError(t, err)
	got := instance(t, out.State, yeti)
	assert.Equal(t, match.SidePlayer, got.Owner)
	assert.True(t, got.IsSummoningSick)
	assert.Empty(t, out.State.Battlefield(match.SideOpponent))

	full := gametest.Setup(st, func(txn *match.Txn) {
		for i := 0; i < 7; i++ {
			gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		}
	})
	out, err = cast(d, full, control, string(yeti))
	assert.ErrorIs(t, err, effects.ErrBattlefieldFull)
	assert.Same(t, full, out.State)
}

// TestFreezeAllEnemyMinions verifies a mass freeze leaves friendly minions alone.
func TestFreezeAllEnemyMinions(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var nova, mine, theirs match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		nova = gametest.Hand(txn, reg, match.SidePlayer, gametest.FrostNova)
		mine = gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		theirs = gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})

	out, err := cast(d, st, nova, "")
	require.NoError(t, err)
	assert.True(t, instance(t, out.State, theirs).IsFrozen)
	assert.False(t, instance(t, out.State, mine).IsFrozen)
	assert.False(t, out.State.Player(match.SideOpponent).Hero.Frozen)

	var freezes []match.Intent
	for _, in := range out.Intents {
		if in.Kind == match.IntentFreeze {
			freezes = append(freezes, in)
		}
	}
	assert.Equal(t, []match.Intent{{Kind: match.IntentFreeze, Side: match.SideOpponent, Instance: theirs}}, freezes)
}

// TestDiscoverPendsForHumans verifies a human discovery stops the resolution and
// blocks further resolutions until it is resumed.
func TestDiscoverPendsForHumans(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var glyph, moonfire match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		glyph = gametest.Hand(txn, reg, match.SidePlayer, gametest.Glyph)
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
	})

	out, err := cast(d, st, glyph, "")
	require.NoError(t, err)
	require.True(t, out.Pending)

	pending := out.State.Discovery()
	require.NotNil(t, pending)
	assert.Equal(t, match.SidePlayer, pending.Side)
	assert.Equal(t, glyph, pending.SourceID)
	assert.Len(t, pending.Options, 3)
	for _, opt := range pending.Options {
		assert.Equal(t, card.TypeSpell, opt.Type)
		assert.True(t, opt.Collectible)
	}
	assert.Contains(t, intentKinds(out.Intents), match.IntentDiscover)

	_, err = cast(d, out.State, moonfire, match.HeroID(match.SideOpponent))
	assert.ErrorIs(t, err, effects.ErrDiscoveryPending)
}

// TestDiscoverPicksForAI verifies an AI side gets its pick at once.
func TestDiscoverPicksForAI(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var glyph match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		gametest.Controller(txn, match.SidePlayer, match.ControllerAI)
		glyph = gametest.Hand(txn, reg, match.SidePlayer, gametest.Glyph)
	})

	out, err := cast(d, st, glyph, "")
	require.NoError(t, err)
	assert.False(t, out.Pending)
	assert.Nil(t, out.State.Discovery())

	hand := out.State.Hand(match.SidePlayer)
	require.Len(t, hand, 2)
	assert.Equal(t, card.TypeSpell, hand[1].Card.Type)
}

// TestDiscoverWithNoCandidates verifies an empty pool resolves without a choice.
func TestDiscoverWithNoCandidates(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
	})

	out, err := d.Resolve(st, effects.Request{
		Source:  wisp,
		Trigger: effects.TriggerBattlecry,
		Ability: gametest.Ability(card.Discover{Filter: card.Filter{Class: card.Class("mage")}}, targeting.TargetNone),
	})
	require.NoError(t, err)
	assert.False(t, out.Pending)
	assert.Len(t, out.State.Hand(match.SidePlayer), 1)
}

// TestStartQuest verifies quest installation and its rejections.
func TestStartQuest(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var waygate match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		waygate = gametest.Hand(txn, reg, match.SidePlayer, gametest.Waygate)
	})

	out, err := cast(d, st, waygate, "")
	require.NoError(t, err)
	q := out.State.Player(match.SidePlayer).Quest
	require.NotNil(t, q)
	assert.Equal(t, card.QuestCastSpells, q.Kind)
	assert.Equal(t, 2, q.Target)
	assert.Equal(t, gametest.TimeWarp, q.RewardCardID)

	_, err = cast(d, out.State, waygate, "")
	assert.ErrorIs(t, err, effects.ErrConditionNotMet)

	_, err = d.Resolve(st, effects.Request{
		Source:  waygate,
		Trigger: effects.TriggerSpell,
		Ability: gametest.Ability(card.StartQuest{Quest: card.QuestSpec{Kind: card.QuestCastSpells, Target: 1, RewardCardID: "missing"}}, targeting.TargetNone),
	})
	assert.ErrorIs(t, err, effects.ErrCardNotFound)
}

// TestTriggerChecksSourceZone verifies triggers only fire from their zones.
func TestTriggerChecksSourceZone(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var ringleader, loot match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		ringleader = gametest.Hand(txn, reg, match.SidePlayer, gametest.Ringleader)
		loot = gametest.Hand(txn, reg, match.SidePlayer, gametest.LootHoarder)
	})

	_, err := d.Resolve(st, effects.Request{Source: loot, Trigger: effects.TriggerDeathrattle})
	assert.ErrorIs(t, err, effects.ErrIllegalSourceZone)

	_, err = d.Resolve(st, effects.Request{Source: ringleader, Trigger: effects.TriggerCombo})
	assert.ErrorIs(t, err, effects.ErrConditionNotMet)

	_, err = d.Resolve(st, effects.Request{Source: "ghost", Trigger: effects.TriggerSpell})
	assert.ErrorIs(t, err, effects.ErrSourceNotFound)

	_, err = d.Resolve(st, effects.Request{Source: ringleader, Trigger: effects.TriggerSpell})
	assert.ErrorIs(t, err, effects.ErrNoAbility)
}

// TestConditionGatesAbility verifies a failed condition rejects the ability.
func TestConditionGatesAbility(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
	})

	ability := gametest.Ability(card.GainArmor{Amount: 5}, targeting.TargetNone)
	ability.Condition = &card.Condition{Kind: card.ConditionHeroHealthAtMost, Value: 15}

	out, err := d.Resolve(st, effects.Request{Source: wisp, Trigger: effects.TriggerBattlecry, Ability: ability})
	assert.ErrorIs(t, err, effects.ErrConditionNotMet)
	assert.Same(t, st, out.State)

	hurt := gametest.Setup(st, func(txn *match.Txn) {
		txn.UpdateHero(match.SidePlayer, func(h *match.Hero) { h.Health = 10 })
	})
	out, err = d.Resolve(hurt, effects.Request{Source: wisp, Trigger: effects.TriggerBattlecry, Ability: ability})
	require.NoError(t, err)
	assert.Equal(t, 5, out.State.Player(match.SidePlayer).Hero.Armor)
}

// TestEquipWeaponReplacesOld verifies the old weapon goes to the graveyard.
func TestEquipWeaponReplacesOld(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
	})
	equip := gametest.Ability(card.EquipWeapon{CardID: gametest.Axe}, targeting.TargetNone)

	out, err := d.Resolve(st, effects.Request{Source: wisp, Trigger: effects.TriggerBattlecry, Ability: equip})
	require.NoError(t, err)
	first, ok := out.State.Weapon(match.SidePlayer)
	require.True(t, ok)
	assert.Equal(t, 3, first.Attack)

	out, err = d.Resolve(out.State, effects.Request{Source: wisp, Trigger: effects.TriggerBattlecry, Ability: equip})
	require.NoError(t, err)
	second, ok := out.State.Weapon(match.SidePlayer)
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, slices.ContainsFunc(out.State.Graveyard(match.SidePlayer), func(ci *match.CardInstance) bool {
		return ci.ID == first.ID
	}))
}

func countType(events []match.LogEvent, t match.LogType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// TestHealClampsAtMaxHealth verifies healing never raises health past its maximum.
func TestHealClampsAtMaxHealth(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp, yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		yeti = gametest.Summon(txn, reg, match.SidePlayer, gametest.Yeti)
		txn.Update(yeti, func(ci *match.CardInstance) {
			ci.CurrentHealth = 2
		})
		txn.UpdateHero(match.SidePlayer, func(h *match.Hero) {
			h.Health = 25
		})
	})
	heal := func(st *match.State, amount int, target string) *match.State {
		t.Helper()
		out, err := d.Resolve(st, effects.Request{
			Source:   wisp,
			Trigger:  effects.TriggerBattlecry,
			Ability:  gametest.Ability(card.Heal{Amount: amount}, targeting.TargetAnyCharacter),
			TargetID: target,
		})
		require.NoError(t, err)
		return out.State
	}

	st = heal(st, 4, string(yeti))
	assert.Equal(t, 5, instance(t, st, yeti).CurrentHealth)

	st = heal(st, 10, match.HeroID(match.SidePlayer))
	assert.Equal(t, 30, st.Player(match.SidePlayer).Hero.Health)
}

// TestDiscardStopsAtEmptyHand verifies discards, including negative draws, never
// overrun the hand.
func TestDiscardStopsAtEmptyHand(t *testing.T) {
	d, reg := newDispatcher(t, effects.Options{})

	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
		for _, id := range []string{gametest.Yeti, gametest.Moonfire, gametest.Squire} {
			gametest.Hand(txn, reg, match.SidePlayer, id)
		}
	})
	resolve := func(st *match.State, effect card.Effect) *match.State {
		t.Helper()
		out, err := d.Resolve(st, effects.Request{
			Source:  wisp,
			Trigger: effects.TriggerBattlecry,
			Ability: gametest.Ability(effect, targeting.TargetNone),
		})
		require.NoError(t, err)
		return out.State
	}

	st = resolve(st, card.Discard{Count: 2})
	assert.Len(t, st.Hand(match.SidePlayer), 1)
	assert.Len(t, st.Graveyard(match.SidePlayer), 2)

	st = resolve(st, card.Draw{Count: -5})
	assert.Empty(t, st.Hand(match.SidePlayer))
	assert.Len(t, st.Graveyard(match.SidePlayer), 3)
	assert.Equal(t, match.LogDiscard, logTypes(st.Log())[len(st.Log())-1])
}
