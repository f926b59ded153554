package holdem

// Pot is a main or side pot: an amount of chips and the hand-seat indexes
// eligible to win it. Side pots exist so a seat that went all-in for less
// can never win more than it matched.
type Pot struct {
	Amount   int
	Eligible []int
}

// buildPots segments the seats' total contributions into a main pot and
// side pots, one boundary per distinct all-in contribution level. Folded
// seats' chips stay in the pots (dead money) but folded seats are never
// eligible.
func buildPots(seats []*Seat) []Pot {
	levels := allInLevels(seats)

	pots := make([]Pot, 0, len(levels)+1)
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for i, s := range seats {
			contribution := s.TotalBet - prev
			if contribution > level-prev {
				contribution = level - prev
			}
			if contribution > 0 {
				pot.Amount += contribution
			}
			if !s.Folded && s.TotalBet > prev {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		if pot.Amount > 0 {
			pots = appendPot(pots, pot)
		}
		prev = level
	}

	// Whatever sits above the highest all-in level.
	rest := Pot{}
	for i, s := range seats {
		if s.TotalBet > prev {
			rest.Amount += s.TotalBet - prev
			if !s.Folded {
				rest.Eligible = append(rest.Eligible, i)
			}
		}
	}
	if rest.Amount > 0 {
		pots = appendPot(pots, rest)
	}

	return pots
}

// appendPot adds a pot, folding one with no eligible seats (all of its
// contributors folded) into the previous pot's contenders so no chips are
// ever orphaned.
func appendPot(pots []Pot, pot Pot) []Pot {
	if len(pot.Eligible) == 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += pot.Amount
		return pots
	}
	return append(pots, pot)
}

func allInLevels(seats []*Seat) []int {
	seen := map[int]bool{}
	levels := []int{}
	for _, s := range seats {
		if s.AllIn && !s.Folded && s.TotalBet > 0 && !seen[s.TotalBet] {
			seen[s.TotalBet] = true
			levels = append(levels, s.TotalBet)
		}
	}
	// Insertion sort; at most nine seats.
	for i := 1; i < len(levels); i++ {
		for j := i; j > 0 && levels[j] < levels[j-1]; j-- {
			levels[j], levels[j-1] = levels[j-1], levels[j]
		}
	}
	return levels
}
