package handball

import (
	"fmt"
	"sort"
)

// Player is one roster entry.
type Player struct {
	No   int    `json:"no"`
	Name string `json:"name"`
}

// Roster holds one team's players, kept sorted by shirt number.
type Roster []Player

// Has reports whether a shirt number is on the roster.
func (r Roster) Has(no int) bool {
	for _, p := range r {
		if p.No == no {
			return true
		}
	}
	return false
}

// Name returns the registered name for a shirt number, empty when the
// number is not rostered.
func (r Roster) Name(no int) string {
	for _, p := range r {
		if p.No == no {
			return p.Name
		}
	}
	return ""
}

// Add validates and inserts a player, keeping number order.
func (r *Roster) Add(p Player) error {
	if !ValidPlayerNo(p.No) {
		return fmt.Errorf("player number %d out of range %d-%d", p.No, MinPlayerNo, MaxPlayerNo)
	}
	if r.Has(p.No) {
		return fmt.Errorf("player number %d already registered", p.No)
	}
	*r = append(*r, p)
	sort.Slice(*r, func(i, j int) bool { return (*r)[i].No < (*r)[j].No })
	return nil
}

// Remove drops a player by shirt number, reporting whether it was
// present.
func (r *Roster) Remove(no int) bool {
	for i, p := range *r {
		if p.No == no {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return true
		}
	}
	return false
}

// Numbers returns the shirt numbers in roster order.
func (r Roster) Numbers() []int {
	nos := make([]int, len(r))
	for i, p := range r {
		nos[i] = p.No
	}
	return nos
}
