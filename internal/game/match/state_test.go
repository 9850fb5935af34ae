package match_test

import (
	"testing"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/gametest"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	st := match.NewState(match.Setup{})

	assert.NotEmpty(t, st.ID())
	assert.Equal(t, match.SidePlayer, st.CurrentTurn())
	assert.Equal(t, 1, st.TurnNumber())
	assert.Equal(t, match.DefaultLimits(), st.Limits())
	for _, side := range match.Sides() {
		p := st.Player(side)
		assert.Equal(t, match.ControllerHuman, p.Controller)
		assert.Equal(t, 30, p.Hero.Health)
		assert.Equal(t, 30, p.Hero.MaxHealth)
		assert.Empty(t, p.Hand)
	}
	assert.Nil(t, st.Discovery())
	assert.Nil(t, st.Mulligan())
}

// TestTxnCopyOnWrite verifies that nothing done in a transaction is visible through the
// state it started from.
func TestTxnCopyOnWrite(t *testing.T) {
	reg := gametest.Registry()
	var yeti, wisp match.InstanceID
	base := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		yeti = gametest.Summon(txn, reg, match.SidePlayer, gametest.Yeti)
		wisp = gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
		gametest.Deck(txn, reg, match.SidePlayer, gametest.Squire, gametest.Cobra)
	})
	checksum := base.Checksum()

	txn := base.Begin()
	txn.Update(yeti, func(ci *match.CardInstance) { ci.CurrentHealth = 1 })
	require.True(t, txn.PutOnBattlefield(match.SidePlayer, wisp, 0))
	_, ok := txn.PopDeck(match.SidePlayer)
	require.True(t, ok)
	txn.UpdateHero(match.SideOpponent, func(h *match.Hero) { h.Armor = 5 })
	txn.Log(match.LogEvent{Type: match.LogEffect, Text: "scratch"})
	next := txn.Commit()

	yetiBefore, _ := base.Instance(yeti)
	assert.Equal(t, 5, yetiBefore.CurrentHealth)
	wispBefore, _ := base.Instance(wisp)
	assert.Equal(t, match.ZoneHand, wispBefore.Zone)
	assert.Len(t, base.Player(match.SidePlayer).Deck, 2)
	assert.Len(t, base.Battlefield(match.SidePlayer), 1)
	assert.Equal(t, 0, base.Player(match.SideOpponent).Hero.Armor)
	assert.Empty(t, base.Log())
	assert.Equal(t, checksum, base.Checksum())

	yetiAfter, _ := next.Instance(yeti)
	assert.Equal(t, 1, yetiAfter.CurrentHealth)
	board := next.Battlefield(match.SidePlayer)
	require.Len(t, board, 2)
	assert.Equal(t, wisp, board[0].ID)
	assert.Len(t, next.Player(match.SidePlayer).Deck, 1)
	assert.Equal(t, 5, next.Player(match.SideOpponent).Hero.Armor)
	assert.Len(t, next.Log(), 1)
}

// TestTxnDiscardedLeavesNoTrace verifies an abandoned transaction changes nothing.
func TestTxnDiscardedLeavesNoTrace(t *testing.T) {
	reg := gametest.Registry()
	base := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		gametest.Summon(txn, reg, match.SideOpponent, gametest.Yeti)
	})
	checksum := base.Checksum()

	txn := base.Begin()
	for _, inst := range txn.Battlefield(match.SideOpponent) {
		txn.PutInGraveyard(match.SideOpponent, inst.ID)
	}
	assert.Empty(t, txn.Battlefield(match.SideOpponent))

	assert.Len(t, base.Battlefield(match.SideOpponent), 1)
	assert.Equal(t, checksum, base.Checksum())
}

func TestZoneCaps(t *testing.T) {
	reg := gametest.Registry()
	st := gametest.NewState()
	txn := st.Begin()

	for i := 0; i < st.Limits().MaxHandSize; i++ {
		gametest.Hand(txn, reg, match.SidePlayer, gametest.Wisp)
	}
	assert.True(t, txn.HandFull(match.SidePlayer))
	extra := txn.Mint(reg.All()[0], match.SidePlayer, nil)
	assert.False(t, txn.PutInHand(match.SidePlayer, extra.ID))
	assert.Equal(t, match.ZoneNone, extra.Zone)

	for i := 0; i < st.Limits().MaxBattlefieldSize; i++ {
		gametest.Summon(txn, reg, match.SideOpponent, gametest.Wisp)
	}
	assert.Equal(t, 0, txn.BoardSpace(match.SideOpponent))
	assert.False(t, txn.PutOnBattlefield(match.SideOpponent, extra.ID, -1))
}

func TestRetireForgetsInstance(t *testing.T) {
	reg := gametest.Registry()
	var wisp match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		wisp = gametest.Summon(txn, reg, match.SidePlayer, gametest.Wisp)
	})

	txn := st.Begin()
	txn.Retire(wisp)
	next := txn.Commit()

	_, ok := next.Instance(wisp)
	assert.False(t, ok)
	assert.Empty(t, next.Battlefield(match.SidePlayer))
	_, ok = st.Instance(wisp)
	assert.True(t, ok)
}

func TestEquipWeaponSendsOldToGraveyard(t *testing.T) {
	reg := gametest.Registry()
	axe, _ := reg.Lookup(gametest.Axe)

	txn := gametest.NewState().Begin()
	first := txn.Mint(axe, match.SidePlayer, nil)
	assert.Empty(t, txn.EquipWeapon(match.SidePlayer, first.ID))
	second := txn.Mint(axe, match.SidePlayer, nil)
	assert.Equal(t, first.ID, txn.EquipWeapon(match.SidePlayer, second.ID))
	st := txn.Commit()

	weapon, ok := st.Weapon(match.SidePlayer)
	require.True(t, ok)
	assert.Equal(t, second.ID, weapon.ID)
	graveyard := st.Graveyard(match.SidePlayer)
	require.Len(t, graveyard, 1)
	assert.Equal(t, first.ID, graveyard[0].ID)
}

// TestChecksumIgnoresLog verifies that audit entries alone do not change the digest
// while any state change does.
func TestChecksumIgnoresLog(t *testing.T) {
	reg := gametest.Registry()
	var yeti match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		yeti = gametest.Summon(txn, reg, match.SidePlayer, gametest.Yeti)
	})

	logged := gametest.Setup(st, func(txn *match.Txn) {
		txn.Log(match.LogEvent{Type: match.LogEffect, Text: "nothing happened"})
	})
	assert.Equal(t, st.Checksum(), logged.Checksum())
	assert.Equal(t, st.Checksum(), st.Checksum())

	hurt := gametest.Setup(st, func(txn *match.Txn) {
		txn.Update(yeti, func(ci *match.CardInstance) { ci.CurrentHealth-- })
	})
	assert.NotEqual(t, st.Checksum(), hurt.Checksum())
}

func TestLogStampsTurnAndClock(t *testing.T) {
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		txn.SetTurn(match.SideOpponent, 4)
		txn.Log(match.LogEvent{Type: match.LogEndTurn, Player: match.SidePlayer})
	})

	ev, ok := st.LastLog()
	require.True(t, ok)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, 4, ev.Turn)
	assert.Equal(t, gametest.Epoch, ev.Timestamp)
}

func TestFindTarget(t *testing.T) {
	reg := gametest.Registry()
	var cobra match.InstanceID
	var inHand match.InstanceID
	st := gametest.Setup(gametest.NewState(), func(txn *match.Txn) {
		cobra = gametest.Summon(txn, reg, match.SideOpponent, gametest.Cobra)
		inHand = gametest.Hand(txn, reg, match.SideOpponent, gametest.Wisp)
	})

	info, ok := st.FindTarget(string(cobra))
	require.True(t, ok)
	assert.Equal(t, targeting.CategoryMinion, info.Category)
	assert.Equal(t, string(match.SideOpponent), info.Owner)
	assert.Equal(t, string(card.RaceBeast), info.Race)

	info, ok = st.FindTarget(match.HeroID(match.SidePlayer))
	require.True(t, ok)
	assert.Equal(t, targeting.CategoryHero, info.Category)

	_, ok = st.FindTarget(string(inHand))
	assert.False(t, ok, "cards in hand are not targetable")

	targets := st.Targets()
	require.Len(t, targets, 3)
	assert.Equal(t, match.HeroID(match.SidePlayer), targets[0].ID)
	assert.Equal(t, string(cobra), targets[1].ID)
	assert.Equal(t, match.HeroID(match.SideOpponent), targets[2].ID)
}

func TestHeroID(t *testing.T) {
	side, ok := match.ParseHeroID(match.HeroID(match.SideOpponent))
	assert.True(t, ok)
	assert.Equal(t, match.SideOpponent, side)

	_, ok = match.ParseHeroID("hero:spectator")
	assert.False(t, ok)
	_, ok = match.ParseHeroID("minion-1")
	assert.False(t, ok)
}

func TestMulliganWith(t *testing.T) {
	m := &match.Mulligan{}
	next := m.With(match.SideOpponent, match.MulliganChoice{Confirmed: true})

	assert.False(t, m.For(match.SideOpponent).Confirmed)
	assert.True(t, next.For(match.SideOpponent).Confirmed)
	assert.False(t, next.Done())
	assert.True(t, next.With(match.SidePlayer, match.MulliganChoice{Confirmed: true}).Done())
}

func TestQueueDiscoveryKeepsOrder(t *testing.T) {
	txn := gametest.NewState().Begin()
	txn.QueueDiscovery(&match.Discovery{Side: match.SidePlayer, SourceID: "first"})
	first := txn.Commit()

	txn = first.Begin()
	txn.QueueDiscovery(&match.Discovery{Side: match.SideOpponent, SourceID: "second"})
	txn.QueueDiscovery(&match.Discovery{Side: match.SidePlayer, SourceID: "third"})
	next := txn.Commit()

	d := next.Discovery()
	require.NotNil(t, d)
	assert.Equal(t, match.InstanceID("first"), d.SourceID)
	assert.Equal(t, 2, d.Queued())
	assert.Equal(t, match.InstanceID("second"), d.Next.SourceID)
	assert.Equal(t, match.SideOpponent, d.Next.Side)
	assert.Equal(t, match.InstanceID("third"), d.Next.Next.SourceID)

	assert.Equal(t, 0, first.Discovery().Queued(), "the earlier state keeps its own chain")
	assert.NotEqual(t, first.Checksum(), next.Checksum())
}
