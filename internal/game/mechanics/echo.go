package mechanics

import (
	"fmt"

	"github.com/norsetcg/cardengine/internal/game/match"
)

// EchoCopy adds a copy of a just-played Echo card to its owner's hand. The copy is
// itself repeatable and expires at end of turn. Nothing happens on a full hand.
func EchoCopy(txn *match.Txn, played *match.CardInstance) (match.InstanceID, bool) {
	if played == nil || !played.HasEcho || played.IsSilenced {
		return "", false
	}
	side := played.Owner
	if txn.HandFull(side) {
		return "", false
	}
	copyInst := txn.Mint(played.Card, side, func(ci *match.CardInstance) {
		Initialize(ci)
		ci.IsEchoCopy = true
	})
	txn.PutInHand(side, copyInst.ID)
	txn.Log(match.LogEvent{
		Type:     match.LogEcho,
		Player:   side,
		Text:     fmt.Sprintf("%s echoes back to hand", played.Name()),
		CardID:   played.CardID(),
		CardName: played.Name(),
		TargetID: string(copyInst.ID),
	})
	return copyInst.ID, true
}

// ExpireEcho removes a side's echo copies from hand, logging each one. It returns how
// many expired.
func ExpireEcho(txn *match.Txn, side match.Side) int {
	n := 0
	for _, inst := range txn.Hand(side) {
		if !inst.IsEchoCopy {
			continue
		}
		txn.Retire(inst.ID)
		txn.Log(match.LogEvent{
			Type:     match.LogEcho,
			Player:   side,
			Text:     fmt.Sprintf("%s fades from hand", inst.Name()),
			CardID:   inst.CardID(),
			CardName: inst.Name(),
			TargetID: string(inst.ID),
		})
		n++
	}
	return n
}
