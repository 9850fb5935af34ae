package effects

import (
	"errors"
	"fmt"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
	"github.com/norsetcg/cardengine/internal/game/targeting"
)

// Every resolution failure wraps one of these. All of them are recoverable: the state
// handed to Resolve comes back unchanged and the call can be retried.
var (
	ErrMissingTarget     = errors.New("missing target")
	ErrTargetNotFound    = targeting.ErrTargetNotFound
	ErrIllegalTarget     = targeting.ErrIllegalTarget
	ErrConditionNotMet   = errors.New("condition not met")
	ErrSourceNotFound    = errors.New("source not found")
	ErrUnknownEffectType = card.ErrUnknownEffectType

	ErrIllegalSourceZone  = errors.New("ability cannot fire from this zone")
	ErrNoAbility          = errors.New("source has no ability for this trigger")
	ErrCardNotFound       = errors.New("card not found in registry")
	ErrDiscoveryPending   = errors.New("a discovery is pending")
	ErrNoPendingDiscovery = errors.New("no discovery is pending")
	ErrIllegalChoice      = errors.New("card is not one of the discovery options")
	ErrInsufficientMana   = errors.New("insufficient mana")
	ErrBattlefieldFull    = errors.New("battlefield is full")
	ErrNotYourTurn        = errors.New("not this side's turn")
	ErrMulliganActive     = errors.New("mulligan in progress")
)

// ResolutionError carries the context of a failed resolution.
type ResolutionError struct {
	Trigger Trigger
	Source  match.InstanceID
	Target  string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s of %s on %s: %v", e.Trigger, e.Source, e.Target, e.Err)
	}
	return fmt.Sprintf("%s of %s: %v", e.Trigger, e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func wrap(trigger Trigger, source match.InstanceID, target string, err error) error {
	if err == nil {
		return nil
	}
	var re *ResolutionError
	if errors.As(err, &re) {
		return err
	}
	return &ResolutionError{Trigger: trigger, Source: source, Target: target, Err: err}
}
