package targeting

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotFound is returned when a target id is not on a battlefield or a hero.
	ErrTargetNotFound = errors.New("target not found")
	// ErrIllegalTarget is returned when a target exists but fails the table check.
	ErrIllegalTarget = errors.New("illegal target")
)

// TargetGameStateAccessor provides the read-only view of the match needed for validation.
type TargetGameStateAccessor interface {
	// FindTarget looks a character up on both battlefields and both heroes.
	FindTarget(id string) (TargetInfo, bool)
	// Targets lists every targetable character, friendly side first.
	Targets() []TargetInfo
}

// TargetInfo describes a targetable character.
type TargetInfo struct {
	ID       string
	Name     string
	Category Category
	Owner    string
	Race     string
}

// TargetValidator validates that selected targets are legal.
type TargetValidator struct {
	gameState TargetGameStateAccessor
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(gameState TargetGameStateAccessor) *TargetValidator {
	return &TargetValidator{
		gameState: gameState,
	}
}

// IsLegalTarget is the boolean form of Check. It has no side effects, so the UI can use
// it for highlighting and get the same answer the dispatcher will.
func IsLegalTarget(spec TargetType, category Category, targetID, actor string, gameState TargetGameStateAccessor) bool {
	return NewTargetValidator(gameState).Check(spec, category, targetID, actor) == nil
}

// Check validates a single target for the given spec on behalf of actor. An empty
// category means the caller did not say what it was aiming at.
func (tv *TargetValidator) Check(spec TargetType, category Category, targetID, actor string) error {
	if tv == nil || tv.gameState == nil {
		return fmt.Errorf("target validator not initialized")
	}

	info, ok := tv.gameState.FindTarget(targetID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}
	if category != "" && category != info.Category {
		return fmt.Errorf("%w: %s is a %s, not a %s", ErrIllegalTarget, targetID, info.Category, category)
	}
	if !spec.Accepts(info.Category, relationOf(info.Owner, actor), info.Race) {
		return fmt.Errorf("%w: %s does not satisfy %q", ErrIllegalTarget, targetID, spec)
	}
	return nil
}

// ValidTargets returns every character the spec accepts for actor, in board order.
func (tv *TargetValidator) ValidTargets(spec TargetType, actor string) []TargetInfo {
	if tv == nil || tv.gameState == nil {
		return nil
	}
	var out []TargetInfo
	for _, info := range tv.gameState.Targets() {
		if spec.Accepts(info.Category, relationOf(info.Owner, actor), info.Race) {
			out = append(out, info)
		}
	}
	return out
}

func relationOf(owner, actor string) Relation {
	if owner == actor {
		return Friendly
	}
	return Enemy
}
