package card

import "github.com/norsetcg/cardengine/internal/game/targeting"

// Kind is the descriptor tag of an effect variant.
type Kind string

const (
	KindDamage       Kind = "damage"
	KindAreaDamage   Kind = "aoe_damage"
	KindDestroyAll   Kind = "destroy_all"
	KindHeal         Kind = "heal"
	KindBuff         Kind = "buff"
	KindDebuff       Kind = "debuff"
	KindSummon       Kind = "summon"
	KindDraw         Kind = "draw"
	KindDiscard      Kind = "discard"
	KindDestroy      Kind = "destroy"
	KindReturnToHand Kind = "return_to_hand"
	KindTransform    Kind = "transform"
	KindSilence      Kind = "silence"
	KindFreeze       Kind = "freeze"
	KindMindControl  Kind = "mind_control"
	KindDiscover     Kind = "discover"
	KindStartQuest   Kind = "quest"
	KindGainArmor    Kind = "gain_armor"
	KindEquipWeapon  Kind = "equip_weapon"
	KindAddToHand    Kind = "add_to_hand"
)

// Effect is the closed set of effect variants. Every variant dispatches itself to the
// matching Visitor method, so a new variant does not compile until each visitor
// handles it.
type Effect interface {
	Kind() Kind
	Accept(v Visitor) error
}

// Visitor has one method per effect variant.
type Visitor interface {
	VisitDamage(Damage) error
	VisitAreaDamage(AreaDamage) error
	VisitDestroyAll(DestroyAll) error
	VisitHeal(Heal) error
	VisitBuff(Buff) error
	VisitSummon(Summon) error
	VisitDraw(Draw) error
	VisitDiscard(Discard) error
	VisitDestroy(Destroy) error
	VisitReturnToHand(ReturnToHand) error
	VisitTransform(Transform) error
	VisitSilence(Silence) error
	VisitFreeze(Freeze) error
	VisitMindControl(MindControl) error
	VisitDiscover(Discover) error
	VisitStartQuest(StartQuest) error
	VisitGainArmor(GainArmor) error
	VisitEquipWeapon(EquipWeapon) error
	VisitAddToHand(AddToHand) error
}

// Damage hits one character. With UseSourceAttack the amount is the source's attack.
type Damage struct {
	Amount          int
	UseSourceAttack bool
}

// AreaDamage hits every character selected by Scope, left to right.
type AreaDamage struct {
	Amount          int
	Scope           targeting.TargetType
	UseSourceAttack bool
	ExcludeSource   bool
}

// DestroyAll destroys every minion selected by Scope.
type DestroyAll struct {
	Scope         targeting.TargetType
	ExcludeSource bool
	DiscardHand   bool
}

// Heal restores health up to the cap. Full heals to the cap.
type Heal struct {
	Amount int
	Full   bool
}

// Buff adds to attack and to both max and current health. Negative values debuff.
// A mass Scope applies it to every matching minion; no scope and no target buffs
// the source.
type Buff struct {
	Attack int
	Health int
	Scope  targeting.TargetType
}

// Summon puts Count copies of CardID onto a battlefield.
type Summon struct {
	CardID      string
	Count       int
	ForOpponent bool
}

// Draw moves cards from deck to hand. A negative count discards instead.
type Draw struct {
	Count       int
	BothPlayers bool
}

// Discard removes random cards from the acting side's hand.
type Discard struct {
	Count int
	All   bool
}

// Destroy removes the target minion.
type Destroy struct{}

// ReturnToHand bounces the target minion to its owner's hand as a fresh instance.
type ReturnToHand struct{}

// Transform replaces the target minion with a fresh instance of IntoCardID.
type Transform struct {
	IntoCardID string
}

// Silence strips keywords and ability descriptors from the target.
type Silence struct{}

// Freeze freezes the target, or every character selected by a mass Scope.
type Freeze struct {
	Scope targeting.TargetType
}

// MindControl moves the target enemy minion to the acting side.
type MindControl struct{}

// Discover offers Count cards matching Filter.
type Discover struct {
	Filter Filter
	Count  int
}

// StartQuest installs a quest on the acting side.
type StartQuest struct {
	Quest QuestSpec
}

// GainArmor adds armor to the acting hero.
type GainArmor struct {
	Amount int
}

// EquipWeapon puts CardID into the acting side's weapon slot.
type EquipWeapon struct {
	CardID string
}

// AddToHand adds Count copies of CardID to the acting side's hand.
type AddToHand struct {
	CardID string
	Count  int
}

func (Damage) Kind() Kind       { return KindDamage }
func (AreaDamage) Kind() Kind   { return KindAreaDamage }
func (DestroyAll) Kind() Kind   { return KindDestroyAll }
func (Heal) Kind() Kind         { return KindHeal }
func (Buff) Kind() Kind         { return KindBuff }
func (Summon) Kind() Kind       { return KindSummon }
func (Draw) Kind() Kind         { return KindDraw }
func (Discard) Kind() Kind      { return KindDiscard }
func (Destroy) Kind() Kind      { return KindDestroy }
func (ReturnToHand) Kind() Kind { return KindReturnToHand }
func (Transform) Kind() Kind    { return KindTransform }
func (Silence) Kind() Kind      { return KindSilence }
func (Freeze) Kind() Kind       { return KindFreeze }
func (MindControl) Kind() Kind  { return KindMindControl }
func (Discover) Kind() Kind     { return KindDiscover }
func (StartQuest) Kind() Kind   { return KindStartQuest }
func (GainArmor) Kind() Kind    { return KindGainArmor }
func (EquipWeapon) Kind() Kind  { return KindEquipWeapon }
func (AddToHand) Kind() Kind    { return KindAddToHand }

func (e Damage) Accept(v Visitor) error       { return v.VisitDamage(e) }
func (e AreaDamage) Accept(v Visitor) error   { return v.VisitAreaDamage(e) }
func (e DestroyAll) Accept(v Visitor) error   { return v.VisitDestroyAll(e) }
func (e Heal) Accept(v Visitor) error         { return v.VisitHeal(e) }
func (e Buff) Accept(v Visitor) error         { return v.VisitBuff(e) }
func (e Summon) Accept(v Visitor) error       { return v.VisitSummon(e) }
func (e Draw) Accept(v Visitor) error         { return v.VisitDraw(e) }
func (e Discard) Accept(v Visitor) error      { return v.VisitDiscard(e) }
func (e Destroy) Accept(v Visitor) error      { return v.VisitDestroy(e) }
func (e ReturnToHand) Accept(v Visitor) error { return v.VisitReturnToHand(e) }
func (e Transform) Accept(v Visitor) error    { return v.VisitTransform(e) }
func (e Silence) Accept(v Visitor) error      { return v.VisitSilence(e) }
func (e Freeze) Accept(v Visitor) error       { return v.VisitFreeze(e) }
func (e MindControl) Accept(v Visitor) error  { return v.VisitMindControl(e) }
func (e Discover) Accept(v Visitor) error     { return v.VisitDiscover(e) }
func (e StartQuest) Accept(v Visitor) error   { return v.VisitStartQuest(e) }
func (e GainArmor) Accept(v Visitor) error    { return v.VisitGainArmor(e) }
func (e EquipWeapon) Accept(v Visitor) error  { return v.VisitEquipWeapon(e) }
func (e AddToHand) Accept(v Visitor) error    { return v.VisitAddToHand(e) }
