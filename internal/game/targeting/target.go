package targeting

// TargetType is the target specification tag carried by an ability descriptor.
type TargetType string

const (
	// TargetNone marks an ability that never takes a target.
	TargetNone TargetType = ""

	TargetFriendlyMinion TargetType = "friendly_minion"
	TargetEnemyMinion    TargetType = "enemy_minion"
	TargetAnyMinion      TargetType = "any_minion"

	TargetFriendlyHero TargetType = "friendly_hero"
	TargetEnemyHero    TargetType = "enemy_hero"
	TargetAnyHero      TargetType = "any_hero"

	TargetAnyCharacter      TargetType = "any_character"
	TargetFriendlyCharacter TargetType = "friendly_character"
	TargetEnemyCharacter    TargetType = "enemy_character"

	// Mass specs select every matching character instead of a chosen one.
	TargetAllMinions         TargetType = "all_minions"
	TargetAllEnemyMinions    TargetType = "all_enemy_minions"
	TargetAllFriendlyMinions TargetType = "all_friendly_minions"
	TargetAllCharacters      TargetType = "all_characters"
	TargetAllEnemies         TargetType = "all_enemies"

	// Race tags accept a minion of either side with a matching race.
	TargetBeast     TargetType = "beast"
	TargetDragon    TargetType = "dragon"
	TargetMech      TargetType = "mech"
	TargetMurloc    TargetType = "murloc"
	TargetDemon     TargetType = "demon"
	TargetElemental TargetType = "elemental"
	TargetPirate    TargetType = "pirate"
	TargetUndead    TargetType = "undead"
	TargetNaga      TargetType = "naga"
	TargetTotem     TargetType = "totem"
)

// Category is the coarse kind of a targetable character.
type Category string

const (
	CategoryMinion Category = "minion"
	CategoryHero   Category = "hero"
)

// Relation is the ownership of a target relative to the acting side.
type Relation int

const (
	Friendly Relation = iota
	Enemy
)

// RaceAll is the wildcard race that satisfies every race tag.
const RaceAll = "all"

type rule struct {
	categories []Category
	relations  []Relation
	race       string
	mass       bool
}

var (
	minionOnly = []Category{CategoryMinion}
	heroOnly   = []Category{CategoryHero}
	characters = []Category{CategoryMinion, CategoryHero}

	friendlyOnly = []Relation{Friendly}
	enemyOnly    = []Relation{Enemy}
	bothSides    = []Relation{Friendly, Enemy}
)

var table = map[TargetType]rule{
	TargetFriendlyMinion: {categories: minionOnly, relations: friendlyOnly},
	TargetEnemyMinion:    {categories: minionOnly, relations: enemyOnly},
	TargetAnyMinion:      {categories: minionOnly, relations: bothSides},

	TargetFriendlyHero: {categories: heroOnly, relations: friendlyOnly},
	TargetEnemyHero:    {categories: heroOnly, relations: enemyOnly},
	TargetAnyHero:      {categories: heroOnly, relations: bothSides},

	TargetAnyCharacter:      {categories: characters, relations: bothSides},
	TargetFriendlyCharacter: {categories: characters, relations: friendlyOnly},
	TargetEnemyCharacter:    {categories: characters, relations: enemyOnly},

	TargetAllMinions:         {categories: minionOnly, relations: bothSides, mass: true},
	TargetAllEnemyMinions:    {categories: minionOnly, relations: enemyOnly, mass: true},
	TargetAllFriendlyMinions: {categories: minionOnly, relations: friendlyOnly, mass: true},
	TargetAllCharacters:      {categories: characters, relations: bothSides, mass: true},
	TargetAllEnemies:         {categories: characters, relations: enemyOnly, mass: true},

	TargetBeast:     {categories: minionOnly, relations: bothSides, race: "beast"},
	TargetDragon:    {categories: minionOnly, relations: bothSides, race: "dragon"},
	TargetMech:      {categories: minionOnly, relations: bothSides, race: "mech"},
	TargetMurloc:    {categories: minionOnly, relations: bothSides, race: "murloc"},
	TargetDemon:     {categories: minionOnly, relations: bothSides, race: "demon"},
	TargetElemental: {categories: minionOnly, relations: bothSides, race: "elemental"},
	TargetPirate:    {categories: minionOnly, relations: bothSides, race: "pirate"},
	TargetUndead:    {categories: minionOnly, relations: bothSides, race: "undead"},
	TargetNaga:      {categories: minionOnly, relations: bothSides, race: "naga"},
	TargetTotem:     {categories: minionOnly, relations: bothSides, race: "totem"},
}

// Known reports whether the tag has an entry in the target table.
func (t TargetType) Known() bool {
	_, ok := table[t]
	return ok
}

// IsMass reports whether the tag selects every matching character.
func (t TargetType) IsMass() bool {
	return table[t].mass
}

// Race returns the race restriction of a race tag, or "" for other tags.
func (t TargetType) Race() string {
	return table[t].race
}

// AllowsCategory reports whether the tag can ever select the given category.
func (t TargetType) AllowsCategory(category Category) bool {
	r, ok := table[t]
	if !ok {
		return false
	}
	for _, c := range r.categories {
		if c == category {
			return true
		}
	}
	return false
}

// Accepts checks the category/relation pair first and then, for race tags, the race.
func (t TargetType) Accepts(category Category, relation Relation, race string) bool {
	r, ok := table[t]
	if !ok {
		return false
	}
	if !t.AllowsCategory(category) {
		return false
	}
	relationOK := false
	for _, rel := range r.relations {
		if rel == relation {
			relationOK = true
			break
		}
	}
	if !relationOK {
		return false
	}
	if r.race != "" {
		return race == r.race || race == RaceAll
	}
	return true
}

// Types returns every tag in the target table.
func Types() []TargetType {
	out := make([]TargetType, 0, len(table))
	for t := range table {
		out = append(out, t)
	}
	return out
}
