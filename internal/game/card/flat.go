package card

// Flat is the row shape of a card in YAML files and database tables. Variant stats
// are flattened onto the row and folded back into the typed payload by Build.
type Flat struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	ManaCost    int       `yaml:"manaCost" json:"manaCost"`
	Type        Type      `yaml:"type" json:"type"`
	Rarity      Rarity    `yaml:"rarity,omitempty" json:"rarity,omitempty"`
	Class       Class     `yaml:"class,omitempty" json:"class,omitempty"`
	Keywords    []Keyword `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Collectible *bool     `yaml:"collectible,omitempty" json:"collectible,omitempty"`
	SpellDamage int       `yaml:"spellDamage,omitempty" json:"spellDamage,omitempty"`

	Attack     int  `yaml:"attack,omitempty" json:"attack,omitempty"`
	Health     int  `yaml:"health,omitempty" json:"health,omitempty"`
	Race       Race `yaml:"race,omitempty" json:"race,omitempty"`
	Durability int  `yaml:"durability,omitempty" json:"durability,omitempty"`
	Armor      int  `yaml:"armor,omitempty" json:"armor,omitempty"`

	Battlecry   *Ability `yaml:"battlecry,omitempty" json:"battlecry,omitempty"`
	Deathrattle *Ability `yaml:"deathrattle,omitempty" json:"deathrattle,omitempty"`
	Spell       *Ability `yaml:"spellEffect,omitempty" json:"spellEffect,omitempty"`
	Combo       *Ability `yaml:"comboEffect,omitempty" json:"comboEffect,omitempty"`
	Frenzy      *Ability `yaml:"frenzyEffect,omitempty" json:"frenzyEffect,omitempty"`
}

// Build folds the row into a validated Data.
func (f Flat) Build() (*Data, error) {
	d := &Data{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ManaCost:    f.ManaCost,
		Type:        f.Type,
		Rarity:      f.Rarity,
		Class:       f.Class,
		Keywords:    append([]Keyword(nil), f.Keywords...),
		Collectible: f.Collectible == nil || *f.Collectible,
		SpellDamage: f.SpellDamage,
		Battlecry:   f.Battlecry,
		Deathrattle: f.Deathrattle,
		Spell:       f.Spell,
		Combo:       f.Combo,
		Frenzy:      f.Frenzy,
	}
	if d.Class == "" {
		d.Class = ClassNeutral
	}
	if d.Rarity == "" {
		d.Rarity = RarityCommon
	}

	switch f.Type {
	case TypeMinion:
		race := f.Race
		if race == "" {
			race = RaceNone
		}
		d.Minion = &MinionStats{Attack: f.Attack, Health: f.Health, Race: race}
	case TypeWeapon:
		d.Weapon = &WeaponStats{Attack: f.Attack, Durability: f.Durability}
	case TypeHero:
		d.Hero = &HeroStats{Armor: f.Armor}
	case TypeLocation:
		d.Location = &LocationStats{Durability: f.Durability}
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Flatten is the inverse of Build.
func Flatten(d *Data) Flat {
	collectible := d.Collectible
	f := Flat{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ManaCost:    d.ManaCost,
		Type:        d.Type,
		Rarity:      d.Rarity,
		Class:       d.Class,
		Keywords:    append([]Keyword(nil), d.Keywords...),
		Collectible: &collectible,
		SpellDamage: d.SpellDamage,
		Battlecry:   d.Battlecry,
		Deathrattle: d.Deathrattle,
		Spell:       d.Spell,
		Combo:       d.Combo,
		Frenzy:      d.Frenzy,
	}
	switch {
	case d.Minion != nil:
		f.Attack, f.Health, f.Race = d.Minion.Attack, d.Minion.Health, d.Minion.Race
	case d.Weapon != nil:
		f.Attack, f.Durability = d.Weapon.Attack, d.Weapon.Durability
	case d.Hero != nil:
		f.Armor = d.Hero.Armor
	case d.Location != nil:
		f.Durability = d.Location.Durability
	}
	return f
}
