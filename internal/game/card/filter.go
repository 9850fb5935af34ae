package card

// Filter narrows a discovery pool. Zero fields match everything.
type Filter struct {
	Type     Type
	Class    Class
	Rarity   Rarity
	ManaCost *int
	MinCost  *int
	MaxCost  *int
}

// Matches reports whether d passes every set field.
func (f Filter) Matches(d *Data) bool {
	if d == nil {
		return false
	}
	if f.Type != "" && d.Type != f.Type {
		return false
	}
	if f.Class != "" && d.Class != f.Class {
		return false
	}
	if f.Rarity != "" && d.Rarity != f.Rarity {
		return false
	}
	if f.ManaCost != nil && d.ManaCost != *f.ManaCost {
		return false
	}
	if f.MinCost != nil && d.ManaCost < *f.MinCost {
		return false
	}
	if f.MaxCost != nil && d.ManaCost > *f.MaxCost {
		return false
	}
	return true
}
