package registry

import (
	"strings"
	"testing"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvFixture = `id,name,manaCost,type,keywords,collectible,attack,health,race,abilities
1001,Wisp,0,minion,,,1,1,,
1002,Loot Hoarder,2,minion,deathrattle,true,2,1,,"{""deathrattle"":{""type"":""draw"",""value"":1}}"
1003,Sheep,1,minion,,false,1,1,beast,
1004,Moonfire,0,spell,,,,,,"{""spellEffect"":{""type"":""damage"",""value"":1,""targetType"":""any_character""}}"
`

func TestDecodeCSV(t *testing.T) {
	r, err := DecodeCSV(strings.NewReader(csvFixture))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())

	wisp, ok := r.Lookup("1001")
	require.True(t, ok)
	assert.True(t, wisp.Collectible)
	assert.Equal(t, 1, wisp.Attack())

	loot, _ := r.Lookup("1002")
	assert.Equal(t, []card.Keyword{card.KeywordDeathrattle}, loot.Keywords)
	require.NotNil(t, loot.Deathrattle)
	assert.Equal(t, card.Draw{Count: 1}, loot.Deathrattle.Effect)

	sheep, _ := r.Lookup("1003")
	assert.False(t, sheep.Collectible)
	assert.Equal(t, card.RaceBeast, sheep.Race())

	moonfire, _ := r.Lookup("1004")
	require.NotNil(t, moonfire.Spell)
	assert.Equal(t, card.Damage{Amount: 1}, moonfire.Spell.Effect)
	assert.Equal(t, targeting.TargetAnyCharacter, moonfire.Spell.TargetType)
}

func TestDecodeCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"missing id column", "name,type\nWisp,minion\n"},
		{"unknown column", "id,name,type,power\n1,Wisp,minion,1\n"},
		{"bad number", "id,name,type,attack,health\n1,Wisp,minion,one,1\n"},
		{"bad bool", "id,name,type,health,collectible\n1,Wisp,minion,1,maybe\n"},
		{"bad abilities", "id,name,type,abilities\n1,Bolt,spell,{\n"},
		{"invalid card", "id,name,type\n1,Ghost,minion\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCSV(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}
