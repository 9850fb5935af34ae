// Package match holds the match state the engine threads from one resolution to the
// next, and the copy-on-write transaction every mutation goes through.
package match

// Side is a player role in a match.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Sides lists both roles, player first.
func Sides() [2]Side {
	return [2]Side{SidePlayer, SideOpponent}
}

// Other returns the opposing role.
func (s Side) Other() Side {
	if s == SidePlayer {
		return SideOpponent
	}
	return SidePlayer
}

// Valid reports whether s names one of the two roles.
func (s Side) Valid() bool {
	return s == SidePlayer || s == SideOpponent
}

func (s Side) String() string {
	return string(s)
}

// Controller tells the engine whether choices are made by a person or by the AI.
type Controller string

const (
	ControllerHuman Controller = "human"
	ControllerAI    Controller = "ai"
)

// Zone is where a card instance currently lives. Decks hold card data, not instances.
type Zone string

const (
	ZoneNone        Zone = ""
	ZoneHand        Zone = "hand"
	ZoneBattlefield Zone = "battlefield"
	ZoneGraveyard   Zone = "graveyard"
	ZoneWeapon      Zone = "weapon"
	ZoneSecrets     Zone = "secrets"
)

const heroIDPrefix = "hero:"

// HeroID is the target id of a side's hero.
func HeroID(side Side) string {
	return heroIDPrefix + string(side)
}

// ParseHeroID returns the side a hero target id belongs to.
func ParseHeroID(id string) (Side, bool) {
	if len(id) <= len(heroIDPrefix) || id[:len(heroIDPrefix)] != heroIDPrefix {
		return "", false
	}
	side := Side(id[len(heroIDPrefix):])
	return side, side.Valid()
}
