package game_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/norsetcg/cardengine/internal/game"
	"github.com/norsetcg/cardengine/internal/game/gametest"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// turns builds n states that differ only in turn number.
func turns(n int) []*match.State {
	st := gametest.NewState()
	out := []*match.State{st}
	for i := 1; i < n; i++ {
		st = gametest.Setup(st, func(txn *match.Txn) {
			txn.SetTurn(txn.CurrentTurn().Other(), txn.TurnNumber()+1)
		})
		out = append(out, st)
	}
	return out
}

func TestReplayNavigation(t *testing.T) {
	replay := game.NewReplay("test-match")
	assert.Nil(t, replay.Last())
	for _, st := range turns(5) {
		replay.RecordState(st)
	}
	require.Equal(t, 5, replay.Size())

	replay.Start()
	assert.Equal(t, 1, replay.Next().TurnNumber())
	assert.Equal(t, 2, replay.Next().TurnNumber())
	assert.Equal(t, 2, replay.CurrentIndex)

	assert.Equal(t, 2, replay.Previous().TurnNumber())
	assert.Equal(t, 1, replay.CurrentIndex)

	assert.Equal(t, 4, replay.Skip(2).TurnNumber())
	assert.Equal(t, 5, replay.Skip(10).TurnNumber(), "clamped to the last state")
	assert.Equal(t, 1, replay.Skip(-10).TurnNumber(), "clamped to the first state")

	replay.Start()
	assert.Nil(t, replay.Previous())
	replay.Skip(4)
	replay.Next()
	assert.Nil(t, replay.Next())

	assert.Equal(t, 3, replay.StateAt(2).TurnNumber())
	assert.Nil(t, replay.StateAt(-1))
	assert.Nil(t, replay.StateAt(5))
	assert.Equal(t, 5, replay.Last().TurnNumber())
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	engine, reg := newEngine(t)
	var moonfire match.InstanceID
	st := ready(1, func(txn *match.Txn) {
		moonfire = gametest.Hand(txn, reg, match.SidePlayer, gametest.Moonfire)
	})
	out, err := engine.PlayCard(st, moonfire, game.Target{ID: match.HeroID(match.SideOpponent)})
	require.NoError(t, err)

	replay := game.NewReplay(st.ID())
	replay.RecordState(st)
	replay.RecordState(out.State)
	require.NoError(t, replay.SaveToFile(dir))

	_, err = os.Stat(filepath.Join(dir, "test-match.replay"))
	require.NoError(t, err)

	transcript, err := game.LoadTranscript(dir, "test-match")
	require.NoError(t, err)
	assert.Equal(t, "test-match", transcript.MatchID)
	assert.Equal(t, 2, transcript.States)
	assert.Equal(t, out.State.Checksum(), transcript.Checksum)
	require.Len(t, transcript.Entries, len(out.State.Log()))
	for i, ev := range out.State.Log() {
		assert.Equal(t, ev.ID, transcript.Entries[i].ID)
		assert.Equal(t, ev.Type, transcript.Entries[i].Type)
		assert.True(t, ev.Timestamp.Equal(transcript.Entries[i].Timestamp))
	}

	_, err = game.LoadTranscript(dir, "no-such-match")
	assert.Error(t, err)
	assert.Error(t, game.NewReplay("empty").SaveToFile(dir))
}

func TestRecorderFollowsEngine(t *testing.T) {
	dir := t.TempDir()
	engine, reg := newEngine(t)
	recorder := game.NewReplayRecorder(zaptest.NewLogger(t), dir)
	engine.SetRecorder(recorder)

	st, err := engine.NewMatch(match.Setup{
		ID:       "recorded",
		Player:   match.Seat{Deck: game.BuildDeck(reg, 10), Controller: match.ControllerAI},
		Opponent: match.Seat{Deck: game.BuildDeck(reg, 10), Controller: match.ControllerAI},
	})
	require.NoError(t, err)
	assert.True(t, recorder.IsRecording("recorded"))

	out, err := engine.EndTurn(st)
	require.NoError(t, err)
	_, err = engine.EndTurn(st)
	require.NoError(t, err)

	replay, ok := recorder.GetReplay("recorded")
	require.True(t, ok)
	assert.Equal(t, 3, replay.Size())
	assert.Same(t, st, replay.StateAt(0))
	assert.Same(t, out.State, replay.StateAt(1))

	recorder.StopRecording("recorded")
	_, err = engine.EndTurn(out.State)
	require.NoError(t, err)
	assert.Equal(t, 3, replay.Size(), "stopped matches are not recorded")

	// Failed calls never reach the recorder.
	recorder.StartRecording("recorded")
	_, err = engine.ResumeDiscovery(st, "")
	require.Error(t, err)
	fresh, _ := recorder.GetReplay("recorded")
	assert.Zero(t, fresh.Size())

	fresh.RecordState(out.State)
	require.NoError(t, recorder.SaveReplay("recorded"))
	_, ok = recorder.GetReplay("recorded")
	assert.False(t, ok)

	transcript, err := recorder.LoadTranscript("recorded")
	require.NoError(t, err)
	assert.Equal(t, out.State.Checksum(), transcript.Checksum)

	assert.Error(t, recorder.SaveReplay("recorded"))
	recorder.StartRecording("other")
	recorder.ClearReplay("other")
	assert.False(t, recorder.IsRecording("other"))
}
