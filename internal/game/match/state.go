package match

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/targeting"
)

// Limits are the zone caps of a match.
type Limits struct {
	MaxHandSize        int
	MaxBattlefieldSize int
	MaxMana            int
}

// DefaultLimits are the standard caps.
func DefaultLimits() Limits {
	return Limits{MaxHandSize: 9, MaxBattlefieldSize: 7, MaxMana: 10}
}

// Seat configures one side of a new match.
type Seat struct {
	Controller Controller
	Deck       []*card.Data
	Health     int
}

// Setup configures a new match.
type Setup struct {
	ID        string
	Player    Seat
	Opponent  Seat
	FirstTurn Side
	Limits    Limits
	Clock     func() time.Time
}

// Reader is the read-only view shared by State and Txn.
type Reader interface {
	targeting.TargetGameStateAccessor
	Player(side Side) PlayerState
	Instance(id InstanceID) (*CardInstance, bool)
	Hand(side Side) []*CardInstance
	Battlefield(side Side) []*CardInstance
	Graveyard(side Side) []*CardInstance
	Weapon(side Side) (*CardInstance, bool)
	HandFull(side Side) bool
	BoardSpace(side Side) int
	CurrentTurn() Side
	TurnNumber() int
	Limits() Limits
	Discovery() *Discovery
	Mulligan() *Mulligan
}

type view struct {
	players     map[Side]*PlayerState
	instances   map[InstanceID]*CardInstance
	currentTurn Side
	turnNumber  int
	log         []LogEvent
	discovery   *Discovery
	mulligan    *Mulligan
	limits      Limits
}

// State is an immutable match snapshot. Every change goes through Begin and Commit,
// which leave the receiver untouched.
type State struct {
	view
	id    string
	clock func() time.Time
}

var (
	_ Reader = (*State)(nil)
	_ Reader = (*Txn)(nil)
)

// NewState builds an empty-board match from the setup.
func NewState(setup Setup) *State {
	if setup.ID == "" {
		setup.ID = uuid.NewString()
	}
	if setup.FirstTurn == "" {
		setup.FirstTurn = SidePlayer
	}
	if setup.Limits == (Limits{}) {
		setup.Limits = DefaultLimits()
	}
	if setup.Clock == nil {
		setup.Clock = time.Now
	}

	st := &State{
		view: view{
			players:     make(map[Side]*PlayerState, 2),
			instances:   make(map[InstanceID]*CardInstance),
			currentTurn: setup.FirstTurn,
			turnNumber:  1,
			limits:      setup.Limits,
		},
		id:    setup.ID,
		clock: setup.Clock,
	}
	for side, seat := range map[Side]Seat{SidePlayer: setup.Player, SideOpponent: setup.Opponent} {
		health := seat.Health
		if health <= 0 {
			health = 30
		}
		controller := seat.Controller
		if controller == "" {
			controller = ControllerHuman
		}
		st.players[side] = &PlayerState{
			Controller: controller,
			Deck:       slices.Clone(seat.Deck),
			Hero:       Hero{Health: health, MaxHealth: health},
		}
	}
	return st
}

// ID is the match id.
func (s *State) ID() string {
	return s.id
}

// Log returns the audit log. The slice is shared and must not be modified.
func (s *State) Log() []LogEvent {
	return slices.Clip(s.log)
}

// LastLog returns the newest log entry.
func (s *State) LastLog() (LogEvent, bool) {
	if len(s.log) == 0 {
		return LogEvent{}, false
	}
	return s.log[len(s.log)-1], true
}

// Player returns a copy of a side's state. Its slices are shared and must not be
// modified.
func (v *view) Player(side Side) PlayerState {
	p, ok := v.players[side]
	if !ok {
		return PlayerState{}
	}
	return *p
}

// Instance looks an instance up in any zone.
func (v *view) Instance(id InstanceID) (*CardInstance, bool) {
	inst, ok := v.instances[id]
	return inst, ok
}

// Hand returns the hand in order.
func (v *view) Hand(side Side) []*CardInstance {
	return v.resolve(v.Player(side).Hand)
}

// Battlefield returns the battlefield in board order.
func (v *view) Battlefield(side Side) []*CardInstance {
	return v.resolve(v.Player(side).Battlefield)
}

// Graveyard returns the graveyard, oldest first.
func (v *view) Graveyard(side Side) []*CardInstance {
	return v.resolve(v.Player(side).Graveyard)
}

// Secrets returns the hidden secrets of a side.
func (v *view) Secrets(side Side) []*CardInstance {
	return v.resolve(v.Player(side).Secrets)
}

// Weapon returns the equipped weapon, if any.
func (v *view) Weapon(side Side) (*CardInstance, bool) {
	id := v.Player(side).Weapon
	if id == "" {
		return nil, false
	}
	return v.Instance(id)
}

func (v *view) resolve(ids []InstanceID) []*CardInstance {
	out := make([]*CardInstance, 0, len(ids))
	for _, id := range ids {
		if inst, ok := v.instances[id]; ok {
			out = append(out, inst)
		}
	}
	return out
}

// CurrentTurn is the side whose turn it is.
func (v *view) CurrentTurn() Side {
	return v.currentTurn
}

// TurnNumber starts at 1 and grows on every EndTurn.
func (v *view) TurnNumber() int {
	return v.turnNumber
}

// Limits are the zone caps.
func (v *view) Limits() Limits {
	return v.limits
}

// Discovery is the pending choice, or nil.
func (v *view) Discovery() *Discovery {
	return v.discovery
}

// Mulligan is the opening-hand sub-state, or nil once both sides confirmed.
func (v *view) Mulligan() *Mulligan {
	return v.mulligan
}

// HandFull reports whether the hand is at its cap.
func (v *view) HandFull(side Side) bool {
	return len(v.Player(side).Hand) >= v.limits.MaxHandSize
}

// BoardSpace is the number of free battlefield slots.
func (v *view) BoardSpace(side Side) int {
	n := v.limits.MaxBattlefieldSize - len(v.Player(side).Battlefield)
	if n < 0 {
		return 0
	}
	return n
}

// FindTarget resolves minions on either battlefield and both heroes.
func (v *view) FindTarget(id string) (targeting.TargetInfo, bool) {
	if side, ok := ParseHeroID(id); ok {
		return targeting.TargetInfo{
			ID:       id,
			Name:     string(side) + " hero",
			Category: targeting.CategoryHero,
			Owner:    string(side),
		}, true
	}
	inst, ok := v.instances[InstanceID(id)]
	if !ok || inst.Zone != ZoneBattlefield {
		return targeting.TargetInfo{}, false
	}
	return minionInfo(inst), true
}

// Targets lists every character, player side first, minions before the hero.
func (v *view) Targets() []targeting.TargetInfo {
	var out []targeting.TargetInfo
	for _, side := range Sides() {
		for _, inst := range v.Battlefield(side) {
			out = append(out, minionInfo(inst))
		}
		info, _ := v.FindTarget(HeroID(side))
		out = append(out, info)
	}
	return out
}

func minionInfo(inst *CardInstance) targeting.TargetInfo {
	return targeting.TargetInfo{
		ID:       string(inst.ID),
		Name:     inst.Name(),
		Category: targeting.CategoryMinion,
		Owner:    string(inst.Owner),
		Race:     string(inst.Race()),
	}
}
