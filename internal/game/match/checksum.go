package match

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum is a deterministic SHA-256 digest of the state. Log ids and timestamps are
// left out so two states built by the same sequence of calls compare equal.
func (s *State) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// canonical renders every field that matters for equality in a fixed order.
func (s *State) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MATCH:%s|%s|%d|%d|%d\n", s.id, s.currentTurn, s.turnNumber, s.limits.MaxHandSize, s.limits.MaxBattlefieldSize)

	for _, side := range Sides() {
		p := s.Player(side)
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d/%d+%d|%t|%d/%d|%d\n",
			side,
			p.Controller,
			p.Hero.Health,
			p.Hero.MaxHealth,
			p.Hero.Armor,
			p.Hero.Frozen,
			p.Mana.Current,
			p.Mana.Max,
			p.CardsPlayedThisTurn,
		)
		deck := make([]string, len(p.Deck))
		for i, d := range p.Deck {
			deck[i] = d.ID
		}
		// Zone order matters, so sequences are not sorted.
		fmt.Fprintf(&buf, "  DECK:%s\n", strings.Join(deck, ","))
		fmt.Fprintf(&buf, "  HAND:%s\n", joinIDs(p.Hand))
		fmt.Fprintf(&buf, "  BATTLEFIELD:%s\n", joinIDs(p.Battlefield))
		fmt.Fprintf(&buf, "  GRAVEYARD:%s\n", joinIDs(p.Graveyard))
		fmt.Fprintf(&buf, "  SECRETS:%s\n", joinIDs(p.Secrets))
		fmt.Fprintf(&buf, "  WEAPON:%s\n", p.Weapon)
		if q := p.Quest; q != nil {
			fmt.Fprintf(&buf, "  QUEST:%s|%d/%d|%s|%t\n", q.Kind, q.Progress, q.Target, q.RewardCardID, q.Completed)
		}
	}

	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		inst := s.instances[InstanceID(id)]
		fmt.Fprintf(&buf, "CARD:%s|%s|%s|%s|%d|%d/%d|%d|%d\n",
			id,
			inst.CardID(),
			inst.Owner,
			inst.Zone,
			inst.Attack,
			inst.CurrentHealth,
			inst.MaxHealth,
			inst.Durability,
			inst.SpellPower,
		)
		fmt.Fprintf(&buf, "  FLAGS:%t|%t|%t|%t|%t|%t|%d|%t|%t|%t|%t|%t|%t|%t|%t\n",
			inst.HasDivineShield,
			inst.IsFrozen,
			inst.IsSilenced,
			inst.IsSummoningSick,
			inst.CanAttack,
			inst.CanAttackHeroes,
			inst.AttacksPerformed,
			inst.HasTaunt,
			inst.IsRush,
			inst.IsPoisonous,
			inst.HasLifesteal,
			inst.FrenzyTriggered,
			inst.IsColossalPart,
			inst.HasEcho,
			inst.IsEchoCopy,
		)
		keywords := make([]string, len(inst.Keywords))
		for i, k := range inst.Keywords {
			keywords[i] = string(k)
		}
		sort.Strings(keywords)
		fmt.Fprintf(&buf, "  KEYWORDS:%s\n", strings.Join(keywords, ","))
		fmt.Fprintf(&buf, "  ABILITIES:%s|%s|%s|%s|%s\n",
			inst.Battlecry.Kind(),
			inst.Deathrattle.Kind(),
			inst.Spell.Kind(),
			inst.Combo.Kind(),
			inst.Frenzy.Kind(),
		)
		if len(inst.MechAttachments) > 0 {
			fmt.Fprintf(&buf, "  MAGNETIC:%s\n", strings.Join(inst.MechAttachments, ","))
		}
		if inst.IsColossal || inst.ParentColossalID != "" {
			fmt.Fprintf(&buf, "  COLOSSAL:%s|%s\n", joinIDs(inst.ColossalParts), inst.ParentColossalID)
		}
	}

	for d := s.discovery; d != nil; d = d.Next {
		opts := make([]string, len(d.Options))
		for i, o := range d.Options {
			opts[i] = o.ID
		}
		fmt.Fprintf(&buf, "DISCOVERY:%s|%s|%s\n", d.Side, d.SourceID, strings.Join(opts, ","))
	}
	if m := s.mulligan; m != nil {
		fmt.Fprintf(&buf, "MULLIGAN:%s|%t|%s|%t\n", joinIDs(m.Player.Selected), m.Player.Confirmed, joinIDs(m.Opponent.Selected), m.Opponent.Confirmed)
	}

	// Log entries by type and subject only.
	for _, ev := range s.log {
		fmt.Fprintf(&buf, "LOG:%s|%s|%d|%s|%s|%d\n", ev.Type, ev.Player, ev.Turn, ev.CardID, ev.TargetID, ev.Value)
	}

	return buf.String()
}

func joinIDs(ids []InstanceID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
