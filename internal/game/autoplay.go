package game

import (
	"github.com/norsetcg/cardengine/internal/game/card"
	"github.com/norsetcg/cardengine/internal/game/discovery"
	"github.com/norsetcg/cardengine/internal/game/match"
	"go.uber.org/zap"
)

// BuildDeck fills a deck of size cards by cycling through the playable collectible
// cards of the catalog in order.
func BuildDeck(catalog discovery.Catalog, size int) []*card.Data {
	var pool []*card.Data
	for _, d := range catalog.All() {
		if d.Collectible && d.Type != card.TypeLocation {
			pool = append(pool, d)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	deck := make([]*card.Data, size)
	for i := range deck {
		deck[i] = pool[i%len(pool)]
	}
	return deck
}

// Winner reports whether a hero has fallen, and which side won. Both heroes falling is
// a draw with an empty winner.
func Winner(st *match.State) (bool, match.Side) {
	playerDead := st.Player(match.SidePlayer).Hero.Health <= 0
	opponentDead := st.Player(match.SideOpponent).Hero.Health <= 0
	switch {
	case playerDead && opponentDead:
		return true, ""
	case playerDead:
		return true, match.SideOpponent
	case opponentDead:
		return true, match.SidePlayer
	}
	return false, ""
}

// PlayTurn plays the current side's hand greedily, left to right, letting the engine
// pick targets, then ends the turn. A pending discovery is resolved with the AI pick.
// Plays the engine rejects are skipped.
func (e *Engine) PlayTurn(st *match.State) *match.State {
	side := st.CurrentTurn()
	for _, seat := range match.Sides() {
		if st.Mulligan() == nil {
			break
		}
		if !st.Mulligan().For(seat).Confirmed {
			if out, err := e.ConfirmMulligan(st, seat); err == nil {
				st = out.State
			}
		}
	}

	for progressed := true; progressed; {
		progressed = false
		for _, inst := range st.Hand(side) {
			if inst.Card.ManaCost > st.Player(side).Mana.Current {
				continue
			}
			out, err := e.PlayCard(st, inst.ID, Target{})
			if err != nil {
				e.logger.Debug("autoplay skipped card", zap.String("card", inst.Name()), zap.Error(err))
				continue
			}
			st = e.settleDiscovery(out.State)
			progressed = true
			break
		}
		if over, _ := Winner(st); over {
			return st
		}
	}

	out, err := e.EndTurn(st)
	if err != nil {
		e.logger.Warn("autoplay could not end turn", zap.Error(err))
		return st
	}
	return out.State
}

func (e *Engine) settleDiscovery(st *match.State) *match.State {
	for d := st.Discovery(); d != nil; d = st.Discovery() {
		chosen := ""
		if pick, ok := discovery.Choose(d.Options); ok {
			chosen = pick.ID
		}
		out, err := e.ResumeDiscovery(st, chosen)
		if err != nil {
			return st
		}
		st = out.State
	}
	return st
}
