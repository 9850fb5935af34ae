package card

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/norsetcg/cardengine/internal/game/targeting"
	"gopkg.in/yaml.v3"
)

// ErrUnknownEffectType is returned when a descriptor tag has no effect variant.
var ErrUnknownEffectType = errors.New("unknown effect type")

// Ability is one ability descriptor: the effect plus its targeting and guard.
type Ability struct {
	Effect         Effect
	TargetType     targeting.TargetType
	RequiresTarget bool
	Condition      *Condition
}

// Kind is the tag of the wrapped effect.
func (a *Ability) Kind() Kind {
	if a == nil || a.Effect == nil {
		return ""
	}
	return a.Effect.Kind()
}

// ConditionKind tags a guard.
type ConditionKind string

const (
	// ConditionNoCostInDeck holds when the deck has no card costing Value.
	ConditionNoCostInDeck ConditionKind = "no_cost_in_deck"
	// ConditionHoldingRace holds when another card in hand is a minion of Race.
	ConditionHoldingRace ConditionKind = "holding_race"
	// ConditionHeroHealthAtMost holds when the acting hero has at most Value health.
	ConditionHeroHealthAtMost ConditionKind = "hero_health_at_most"
	// ConditionMinionsAtLeast holds when the acting side controls at least Value minions.
	ConditionMinionsAtLeast ConditionKind = "minions_at_least"
)

// Condition is a guard evaluated before an effect mutates anything.
type Condition struct {
	Kind  ConditionKind
	Value int
	Race  Race
}

// QuestKind tags which actions advance a quest.
type QuestKind string

const (
	QuestSummonMinions     QuestKind = "summon_minions"
	QuestPlayMinions       QuestKind = "play_minions"
	QuestCastSpells        QuestKind = "cast_spells"
	QuestSpendManaOnSpells QuestKind = "spend_mana_on_spells"
	QuestPlayTauntMinions  QuestKind = "play_taunt_minions"
	QuestSummonRushMinions QuestKind = "summon_rush_minions"
	QuestHeroAttacks       QuestKind = "hero_attacks"
	QuestMinionAttacks     QuestKind = "minion_attacks"
	QuestHeroPowerUses     QuestKind = "hero_power_uses"
)

// QuestSpec is the static part of a quest.
type QuestSpec struct {
	Kind         QuestKind
	Target       int
	RewardCardID string
}

type rawCondition struct {
	Type  string `yaml:"type" json:"type"`
	Value int    `yaml:"value,omitempty" json:"value,omitempty"`
	Race  string `yaml:"race,omitempty" json:"race,omitempty"`
}

type rawQuest struct {
	Type         string `yaml:"type" json:"type"`
	Target       int    `yaml:"target" json:"target"`
	RewardCardID string `yaml:"rewardCardId" json:"rewardCardId"`
}

// rawAbility is the flat wire shape shared by YAML card files and JSONB columns.
type rawAbility struct {
	Type           string        `yaml:"type" json:"type"`
	Value          int           `yaml:"value,omitempty" json:"value,omitempty"`
	TargetType     string        `yaml:"targetType,omitempty" json:"targetType,omitempty"`
	RequiresTarget *bool         `yaml:"requiresTarget,omitempty" json:"requiresTarget,omitempty"`
	Condition      *rawCondition `yaml:"condition,omitempty" json:"condition,omitempty"`

	UseAttack   bool `yaml:"useAttack,omitempty" json:"useAttack,omitempty"`
	ExcludeSelf bool `yaml:"excludeSelf,omitempty" json:"excludeSelf,omitempty"`
	DiscardHand bool `yaml:"discardHand,omitempty" json:"discardHand,omitempty"`
	FullHeal    bool `yaml:"fullHeal,omitempty" json:"fullHeal,omitempty"`
	BuffAttack  int  `yaml:"buffAttack,omitempty" json:"buffAttack,omitempty"`
	BuffHealth  int  `yaml:"buffHealth,omitempty" json:"buffHealth,omitempty"`
	ForOpponent bool `yaml:"forOpponent,omitempty" json:"forOpponent,omitempty"`
	BothPlayers bool `yaml:"bothPlayers,omitempty" json:"bothPlayers,omitempty"`
	All         bool `yaml:"all,omitempty" json:"all,omitempty"`
	Count       int  `yaml:"count,omitempty" json:"count,omitempty"`

	SummonCardID string `yaml:"summonCardId,omitempty" json:"summonCardId,omitempty"`
	CardID       string `yaml:"cardId,omitempty" json:"cardId,omitempty"`

	DiscoveryType      string `yaml:"discoveryType,omitempty" json:"discoveryType,omitempty"`
	DiscoveryClass     string `yaml:"discoveryClass,omitempty" json:"discoveryClass,omitempty"`
	DiscoveryRarity    string `yaml:"discoveryRarity,omitempty" json:"discoveryRarity,omitempty"`
	DiscoveryManaCost  *int   `yaml:"discoveryManaCost,omitempty" json:"discoveryManaCost,omitempty"`
	DiscoveryCostRange []int  `yaml:"discoveryManaCostRange,omitempty" json:"discoveryManaCostRange,omitempty"`
	DiscoveryCount     int    `yaml:"discoveryCount,omitempty" json:"discoveryCount,omitempty"`

	Quest *rawQuest `yaml:"questData,omitempty" json:"questData,omitempty"`
}

// UnmarshalYAML decodes the flat descriptor shape used in card files.
func (a *Ability) UnmarshalYAML(value *yaml.Node) error {
	var raw rawAbility
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return a.fromRaw(raw)
}

// MarshalYAML encodes the descriptor in its flat shape.
func (a Ability) MarshalYAML() (interface{}, error) {
	return a.toRaw()
}

// UnmarshalJSON decodes the flat descriptor shape stored in JSONB columns.
func (a *Ability) UnmarshalJSON(data []byte) error {
	var raw rawAbility
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return a.fromRaw(raw)
}

// MarshalJSON encodes the descriptor in its flat shape.
func (a Ability) MarshalJSON() ([]byte, error) {
	raw, err := a.toRaw()
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func (a *Ability) fromRaw(raw rawAbility) error {
	tt := targeting.TargetType(raw.TargetType)
	if tt != targeting.TargetNone && !tt.Known() {
		return fmt.Errorf("effect %q: unknown target type %q", raw.Type, raw.TargetType)
	}

	effect, err := effectFromRaw(raw, tt)
	if err != nil {
		return err
	}

	a.Effect = effect
	a.TargetType = tt
	if raw.RequiresTarget != nil {
		a.RequiresTarget = *raw.RequiresTarget
	} else {
		a.RequiresTarget = tt != targeting.TargetNone && !tt.IsMass()
	}
	a.Condition = nil
	if raw.Condition != nil {
		a.Condition = &Condition{
			Kind:  ConditionKind(raw.Condition.Type),
			Value: raw.Condition.Value,
			Race:  Race(raw.Condition.Race),
		}
	}
	return nil
}

func effectFromRaw(raw rawAbility, tt targeting.TargetType) (Effect, error) {
	count := raw.Count
	if count == 0 {
		count = raw.Value
	}

	switch Kind(raw.Type) {
	case KindDamage:
		if tt.IsMass() {
			return AreaDamage{Amount: raw.Value, Scope: tt, UseSourceAttack: raw.UseAttack, ExcludeSource: raw.ExcludeSelf}, nil
		}
		return Damage{Amount: raw.Value, UseSourceAttack: raw.UseAttack}, nil
	case KindAreaDamage:
		scope := tt
		if scope == targeting.TargetNone {
			scope = targeting.TargetAllEnemyMinions
		}
		return AreaDamage{Amount: raw.Value, Scope: scope, UseSourceAttack: raw.UseAttack, ExcludeSource: raw.ExcludeSelf}, nil
	case KindDestroyAll:
		scope := tt
		if scope == targeting.TargetNone {
			scope = targeting.TargetAllMinions
		}
		return DestroyAll{Scope: scope, ExcludeSource: raw.ExcludeSelf, DiscardHand: raw.DiscardHand}, nil
	case KindHeal:
		return Heal{Amount: raw.Value, Full: raw.FullHeal}, nil
	case KindBuff:
		return Buff{Attack: raw.BuffAttack, Health: raw.BuffHealth, Scope: massOnly(tt)}, nil
	case KindDebuff:
		return Buff{Attack: -abs(raw.BuffAttack), Health: -abs(raw.BuffHealth), Scope: massOnly(tt)}, nil
	case KindSummon:
		id := raw.SummonCardID
		if id == "" {
			id = raw.CardID
		}
		if id == "" {
			return nil, fmt.Errorf("summon effect without summonCardId")
		}
		n := raw.Count
		if n == 0 {
			n = 1
		}
		return Summon{CardID: id, Count: n, ForOpponent: raw.ForOpponent}, nil
	case KindDraw:
		if count == 0 {
			count = 1
		}
		return Draw{Count: count, BothPlayers: raw.BothPlayers}, nil
	case KindDiscard:
		return Discard{Count: count, All: raw.All}, nil
	case KindDestroy:
		return Destroy{}, nil
	case KindReturnToHand, "return":
		return ReturnToHand{}, nil
	case KindTransform:
		id := raw.CardID
		if id == "" {
			id = raw.SummonCardID
		}
		if id == "" {
			return nil, fmt.Errorf("transform effect without cardId")
		}
		return Transform{IntoCardID: id}, nil
	case KindSilence:
		return Silence{}, nil
	case KindFreeze:
		return Freeze{Scope: massOnly(tt)}, nil
	case KindMindControl:
		return MindControl{}, nil
	case KindDiscover:
		f := Filter{
			Type:     Type(raw.DiscoveryType),
			Class:    Class(raw.DiscoveryClass),
			Rarity:   Rarity(raw.DiscoveryRarity),
			ManaCost: raw.DiscoveryManaCost,
		}
		if f.Type == "any" {
			f.Type = ""
		}
		if f.Class == "any" {
			f.Class = ""
		}
		if f.Rarity == "any" {
			f.Rarity = ""
		}
		if len(raw.DiscoveryCostRange) == 2 {
			lo, hi := raw.DiscoveryCostRange[0], raw.DiscoveryCostRange[1]
			f.MinCost, f.MaxCost = &lo, &hi
		}
		return Discover{Filter: f, Count: raw.DiscoveryCount}, nil
	case KindStartQuest:
		if raw.Quest == nil {
			return nil, fmt.Errorf("quest effect without questData")
		}
		if raw.Quest.Target <= 0 {
			return nil, fmt.Errorf("quest target must be positive")
		}
		return StartQuest{Quest: QuestSpec{
			Kind:         QuestKind(raw.Quest.Type),
			Target:       raw.Quest.Target,
			RewardCardID: raw.Quest.RewardCardID,
		}}, nil
	case KindGainArmor:
		return GainArmor{Amount: raw.Value}, nil
	case KindEquipWeapon:
		if raw.CardID == "" {
			return nil, fmt.Errorf("equip_weapon effect without cardId")
		}
		return EquipWeapon{CardID: raw.CardID}, nil
	case KindAddToHand:
		if raw.CardID == "" {
			return nil, fmt.Errorf("add_to_hand effect without cardId")
		}
		n := raw.Count
		if n == 0 {
			n = 1
		}
		return AddToHand{CardID: raw.CardID, Count: n}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffectType, raw.Type)
	}
}

func (a Ability) toRaw() (rawAbility, error) {
	requires := a.RequiresTarget
	raw := rawAbility{
		TargetType:     string(a.TargetType),
		RequiresTarget: &requires,
	}
	if a.Condition != nil {
		raw.Condition = &rawCondition{
			Type:  string(a.Condition.Kind),
			Value: a.Condition.Value,
			Race:  string(a.Condition.Race),
		}
	}

	switch e := a.Effect.(type) {
	case Damage:
		raw.Type, raw.Value, raw.UseAttack = string(KindDamage), e.Amount, e.UseSourceAttack
	case AreaDamage:
		raw.Type, raw.Value, raw.UseAttack, raw.ExcludeSelf = string(KindAreaDamage), e.Amount, e.UseSourceAttack, e.ExcludeSource
		raw.TargetType = string(e.Scope)
	case DestroyAll:
		raw.Type, raw.ExcludeSelf, raw.DiscardHand = string(KindDestroyAll), e.ExcludeSource, e.DiscardHand
		raw.TargetType = string(e.Scope)
	case Heal:
		raw.Type, raw.Value, raw.FullHeal = string(KindHeal), e.Amount, e.Full
	case Buff:
		raw.Type, raw.BuffAttack, raw.BuffHealth = string(KindBuff), e.Attack, e.Health
		if e.Scope != targeting.TargetNone {
			raw.TargetType = string(e.Scope)
		}
	case Summon:
		raw.Type, raw.SummonCardID, raw.Count, raw.ForOpponent = string(KindSummon), e.CardID, e.Count, e.ForOpponent
	case Draw:
		raw.Type, raw.Count, raw.BothPlayers = string(KindDraw), e.Count, e.BothPlayers
	case Discard:
		raw.Type, raw.Count, raw.All = string(KindDiscard), e.Count, e.All
	case Destroy:
		raw.Type = string(KindDestroy)
	case ReturnToHand:
		raw.Type = string(KindReturnToHand)
	case Transform:
		raw.Type, raw.CardID = string(KindTransform), e.IntoCardID
	case Silence:
		raw.Type = string(KindSilence)
	case Freeze:
		raw.Type = string(KindFreeze)
		if e.Scope != targeting.TargetNone {
			raw.TargetType = string(e.Scope)
		}
	case MindControl:
		raw.Type = string(KindMindControl)
	case Discover:
		raw.Type = string(KindDiscover)
		raw.DiscoveryType = string(e.Filter.Type)
		raw.DiscoveryClass = string(e.Filter.Class)
		raw.DiscoveryRarity = string(e.Filter.Rarity)
		raw.DiscoveryManaCost = e.Filter.ManaCost
		if e.Filter.MinCost != nil && e.Filter.MaxCost != nil {
			raw.DiscoveryCostRange = []int{*e.Filter.MinCost, *e.Filter.MaxCost}
		}
		raw.DiscoveryCount = e.Count
	case StartQuest:
		raw.Type = string(KindStartQuest)
		raw.Quest = &rawQuest{Type: string(e.Quest.Kind), Target: e.Quest.Target, RewardCardID: e.Quest.RewardCardID}
	case GainArmor:
		raw.Type, raw.Value = string(KindGainArmor), e.Amount
	case EquipWeapon:
		raw.Type, raw.CardID = string(KindEquipWeapon), e.CardID
	case AddToHand:
		raw.Type, raw.CardID, raw.Count = string(KindAddToHand), e.CardID, e.Count
	default:
		return rawAbility{}, fmt.Errorf("%w: %T", ErrUnknownEffectType, a.Effect)
	}
	return raw, nil
}

func massOnly(tt targeting.TargetType) targeting.TargetType {
	if tt.IsMass() {
		return tt
	}
	return targeting.TargetNone
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
