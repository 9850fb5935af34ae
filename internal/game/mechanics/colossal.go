package mechanics

import (
	"fmt"
	"slices"

	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/match"
)

// ColossalTable maps a colossal card id to the card ids of its parts.
type ColossalTable map[string][]string

// DefaultColossalTable is the part list for the built-in colossal minions.
func DefaultColossalTable() ColossalTable {
	return ColossalTable{
		"3001": {"3002", "3002"},
		"3003": {"3004", "3005"},
		"3006": {"3007", "3007", "3007"},
	}
}

// Parts returns the part ids of a colossal card.
func (t ColossalTable) Parts(cardID string) []string {
	return slices.Clone(t[cardID])
}

// SummonParts puts the parts of a colossal minion onto its owner's battlefield, up to
// the remaining space. Parts missing from the card source are skipped. It returns the
// summoned ids.
func SummonParts(txn *match.Txn, cards card.Source, table ColossalTable, parentID match.InstanceID) []match.InstanceID {
	parent, ok := txn.Instance(parentID)
	if !ok || !parent.IsColossal || parent.IsSilenced || parent.Zone != match.ZoneBattlefield {
		return nil
	}
	side := parent.Owner
	partIDs := table.Parts(parent.CardID())
	if len(partIDs) == 0 {
		return nil
	}

	var summoned []match.InstanceID
	for _, partID := range partIDs {
		if txn.BoardSpace(side) == 0 {
			break
		}
		data, ok := cards.Lookup(partID)
		if !ok || !data.IsMinion() {
			continue
		}
		part := txn.Mint(data, side, func(ci *match.CardInstance) {
			Initialize(ci)
			ci.IsColossalPart = true
			ci.ParentColossalID = parentID
		})
		txn.PutOnBattlefield(side, part.ID, -1)
		summoned = append(summoned, part.ID)
	}
	if len(summoned) == 0 {
		return nil
	}

	txn.Update(parentID, func(ci *match.CardInstance) {
		ci.ColossalParts = append(ci.ColossalParts, summoned...)
	})
	txn.Log(match.LogEvent{
		Type:     match.LogColossal,
		Player:   side,
		Text:     fmt.Sprintf("%s summoned %d parts", parent.Name(), len(summoned)),
		CardID:   parent.CardID(),
		CardName: parent.Name(),
		TargetID: string(parentID),
		Value:    len(summoned),
	})
	for _, id := range summoned {
		txn.Emit(match.Intent{Kind: match.IntentSummon, Side: side, Instance: id})
	}
	return summoned
}

// ReconcilePart drops a dead part from its parent's part list.
func ReconcilePart(txn *match.Txn, part *match.CardInstance) {
	if part == nil || !part.IsColossalPart || part.ParentColossalID == "" {
		return
	}
	txn.Update(part.ParentColossalID, func(ci *match.CardInstance) {
		if i := slices.Index(ci.ColossalParts, part.ID); i >= 0 {
			ci.ColossalParts = slices.Delete(ci.ColossalParts, i, i+1)
		}
	})
}
