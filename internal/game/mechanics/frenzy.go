package mechanics

import "github.com/norsetcg/cardengine/internal/game/match"

// FrenzyReady reports whether a damaged minion should fire its frenzy ability now:
// it survived, is still on the battlefield and has not fired before.
func FrenzyReady(inst *match.CardInstance) bool {
	return inst != nil &&
		inst.HasFrenzy &&
		!inst.FrenzyTriggered &&
		!inst.IsSilenced &&
		inst.Frenzy != nil &&
		inst.Zone == match.ZoneBattlefield &&
		inst.CurrentHealth > 0
}

// MarkFrenzy sets the guard so the ability never fires twice. It returns false when the
// instance is gone.
func MarkFrenzy(txn *match.Txn, id match.InstanceID) bool {
	return txn.Update(id, func(ci *match.CardInstance) {
		ci.FrenzyTriggered = true
	})
}
