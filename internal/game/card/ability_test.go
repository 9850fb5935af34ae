package card

import (
	"encoding/json"
	"testing"

	"github.com/norsetcg/cardengine/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeAbility(t *testing.T, src string) (*Ability, error) {
	t.Helper()
	var a Ability
	err := yaml.Unmarshal([]byte(src), &a)
	return &a, err
}

func TestAbilityUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		want     Effect
		target   targeting.TargetType
		requires bool
	}{
		{
			name:     "single damage",
			src:      "type: damage\nvalue: 3\ntargetType: any_character",
			want:     Damage{Amount: 3},
			target:   targeting.TargetAnyCharacter,
			requires: true,
		},
		{
			name:   "damage with a mass target becomes area damage",
			src:    "type: damage\nvalue: 2\ntargetType: all_enemies",
			want:   AreaDamage{Amount: 2, Scope: targeting.TargetAllEnemies},
			target: targeting.TargetAllEnemies,
		},
		{
			name:   "area damage defaults to enemy minions",
			src:    "type: aoe_damage\nvalue: 1",
			want:   AreaDamage{Amount: 1, Scope: targeting.TargetAllEnemyMinions},
			target: targeting.TargetNone,
		},
		{
			name:   "destroy all",
			src:    "type: destroy_all\nexcludeSelf: true\ndiscardHand: true",
			want:   DestroyAll{Scope: targeting.TargetAllMinions, ExcludeSource: true, DiscardHand: true},
			target: targeting.TargetNone,
		},
		{
			name:     "debuff negates both stats",
			src:      "type: debuff\nbuffAttack: 2\nbuffHealth: 1\ntargetType: any_minion",
			want:     Buff{Attack: -2, Health: -1},
			target:   targeting.TargetAnyMinion,
			requires: true,
		},
		{
			name:   "summon defaults to one copy",
			src:    "type: summon\nsummonCardId: \"1001\"",
			want:   Summon{CardID: "1001", Count: 1},
			target: targeting.TargetNone,
		},
		{
			name:   "draw reads value as the count",
			src:    "type: draw\nvalue: 2",
			want:   Draw{Count: 2},
			target: targeting.TargetNone,
		},
		{
			name:   "quest",
			src:    "type: quest\nquestData:\n  type: cast_spells\n  target: 5\n  rewardCardId: \"9001\"",
			want:   StartQuest{Quest: QuestSpec{Kind: QuestCastSpells, Target: 5, RewardCardID: "9001"}},
			target: targeting.TargetNone,
		},
		{
			name:     "explicit requiresTarget wins",
			src:      "type: silence\ntargetType: enemy_minion\nrequiresTarget: false",
			want:     Silence{},
			target:   targeting.TargetEnemyMinion,
			requires: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := decodeAbility(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Effect)
			assert.Equal(t, tt.target, a.TargetType)
			assert.Equal(t, tt.requires, a.RequiresTarget)
		})
	}
}

func TestAbilityUnmarshalDiscover(t *testing.T) {
	a, err := decodeAbility(t, `
type: discover
discoveryType: spell
discoveryClass: any
discoveryManaCostRange: [1, 3]
discoveryCount: 4
`)
	require.NoError(t, err)

	d, ok := a.Effect.(Discover)
	require.True(t, ok)
	assert.Equal(t, TypeSpell, d.Filter.Type)
	assert.Empty(t, d.Filter.Class)
	require.NotNil(t, d.Filter.MinCost)
	require.NotNil(t, d.Filter.MaxCost)
	assert.Equal(t, 1, *d.Filter.MinCost)
	assert.Equal(t, 3, *d.Filter.MaxCost)
	assert.Equal(t, 4, d.Count)
}

func TestAbilityUnmarshalCondition(t *testing.T) {
	a, err := decodeAbility(t, `
type: gain_armor
value: 5
condition:
  type: holding_race
  race: dragon
`)
	require.NoError(t, err)
	require.NotNil(t, a.Condition)
	assert.Equal(t, ConditionHoldingRace, a.Condition.Kind)
	assert.Equal(t, RaceDragon, a.Condition.Race)
}

func TestAbilityUnmarshalErrors(t *testing.T) {
	_, err := decodeAbility(t, "type: teleport")
	assert.ErrorIs(t, err, ErrUnknownEffectType)

	_, err = decodeAbility(t, "type: damage\nvalue: 1\ntargetType: everyone")
	assert.Error(t, err)

	_, err = decodeAbility(t, "type: summon")
	assert.Error(t, err)

	_, err = decodeAbility(t, "type: quest\nquestData:\n  type: cast_spells\n  target: 0")
	assert.Error(t, err)
}

// TestAbilityJSONRoundTrip verifies the JSONB shape decodes back to the same ability.
func TestAbilityJSONRoundTrip(t *testing.T) {
	lo, hi := 2, 4
	in := Ability{
		Effect:     Discover{Filter: Filter{Type: TypeMinion, MinCost: &lo, MaxCost: &hi}, Count: 3},
		TargetType: targeting.TargetNone,
		Condition:  &Condition{Kind: ConditionMinionsAtLeast, Value: 2},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Ability
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestFlatBuild(t *testing.T) {
	no := false
	d, err := Flat{ID: "1", Name: "Yeti", ManaCost: 4, Type: TypeMinion, Attack: 4, Health: 5}.Build()
	require.NoError(t, err)
	assert.Equal(t, ClassNeutral, d.Class)
	assert.Equal(t, RarityCommon, d.Rarity)
	assert.True(t, d.Collectible)
	assert.Equal(t, RaceNone, d.Race())
	assert.Equal(t, 4, d.Attack())
	assert.Equal(t, 5, d.Health())

	d, err = Flat{ID: "2", Name: "Axe", Type: TypeWeapon, Attack: 3, Durability: 2, Collectible: &no}.Build()
	require.NoError(t, err)
	assert.False(t, d.Collectible)
	w, ok := d.AsWeapon()
	require.True(t, ok)
	assert.Equal(t, WeaponStats{Attack: 3, Durability: 2}, w)
	assert.False(t, d.IsMinion())

	_, err = Flat{ID: "3", Name: "Ghost", Type: TypeMinion, Attack: 1}.Build()
	assert.Error(t, err, "minions need health")

	_, err = Flat{Name: "Nameless", Type: TypeSpell}.Build()
	assert.Error(t, err)
}

func TestFlattenInvertsBuild(t *testing.T) {
	f := Flat{
		ID:          "10",
		Name:        "Harvest Golem",
		ManaCost:    3,
		Type:        TypeMinion,
		Rarity:      RarityCommon,
		Class:       ClassNeutral,
		Keywords:    []Keyword{KeywordDeathrattle},
		Attack:      2,
		Health:      3,
		Race:        RaceMech,
		Deathrattle: &Ability{Effect: Summon{CardID: "11", Count: 1}},
	}
	d, err := f.Build()
	require.NoError(t, err)

	back := Flatten(d)
	require.NotNil(t, back.Collectible)
	assert.True(t, *back.Collectible)
	back.Collectible = nil
	assert.Equal(t, f, back)
}
