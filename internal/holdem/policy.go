package holdem

// Style is a bot seat's playing style, fixed at seat creation.
type Style int

const (
	StyleBalanced Style = iota
	StyleTight
	StyleAggressive
	StyleLoose
)

func (s Style) String() string {
	return [...]string{"balanced", "tight", "aggressive", "loose"}[s]
}

// ParseStyle parses the wire form of a style, defaulting to balanced.
func ParseStyle(s string) Style {
	switch s {
	case "tight":
		return StyleTight
	case "aggressive":
		return StyleAggressive
	case "loose":
		return StyleLoose
	default:
		return StyleBalanced
	}
}

// PolicyView is the public slice of hand state a bot decision consumes.
type PolicyView struct {
	HoleCards  []Card
	Board      []Card
	Pot        int
	CurrentBet int
	SeatBet    int
	Chips      int
	BigBlind   int
}

// Decide produces an action for a bot seat. It is a pure function of the
// view and style.
//
// The equity number is a coarse shape-based estimate (pairs, suitedness,
// high cards, made-hand category), not range equity. A real equity table or
// Monte-Carlo rollout can replace estimateEquity without touching the state
// machine's contract.
func Decide(view PolicyView, style Style) Action {
	equity := estimateEquity(view)
	toCall := view.CurrentBet - view.SeatBet

	if toCall <= 0 {
		return decideUnopened(view, style, equity)
	}
	return decideFacingBet(view, style, equity, toCall)
}

func decideUnopened(view PolicyView, style Style, equity float64) Action {
	betThreshold := 0.55 + style.tightness()
	if equity < betThreshold {
		return Action{Type: Check}
	}

	// Roughly three quarters of the pot, at least a full bet.
	amount := view.Pot * 3 / 4
	minTo := view.BigBlind
	if view.CurrentBet > 0 {
		minTo = 2 * view.CurrentBet
	}
	if amount < minTo {
		amount = minTo
	}
	return clampToStack(view, Action{Type: Bet, Amount: amount})
}

func decideFacingBet(view PolicyView, style Style, equity float64, toCall int) Action {
	potOdds := float64(toCall) / float64(view.Pot+toCall)
	raiseMargin := 0.15 + style.tightness() - style.aggression()
	callMargin := style.tightness() - style.looseness()

	switch {
	case equity >= potOdds+raiseMargin:
		return clampToStack(view, Action{Type: Raise, Amount: 2 * view.CurrentBet})
	case equity >= potOdds+callMargin:
		if toCall >= view.Chips {
			return Action{Type: AllIn}
		}
		return Action{Type: Call}
	default:
		return Action{Type: Fold}
	}
}

// clampToStack turns a bet the seat cannot fully fund into an all-in.
func clampToStack(view PolicyView, a Action) Action {
	if a.Amount-view.SeatBet >= view.Chips {
		return Action{Type: AllIn}
	}
	return a
}

func (s Style) tightness() float64 {
	if s == StyleTight {
		return 0.1
	}
	return 0
}

func (s Style) aggression() float64 {
	if s == StyleAggressive {
		return 0.1
	}
	return 0
}

func (s Style) looseness() float64 {
	if s == StyleLoose {
		return 0.1
	}
	return 0
}

// estimateEquity scores the hand shape into [0,1]. Preflop it looks only at
// the hole cards; once a board exists it keys off the made-hand category,
// then discounts by how much of the board is still to come.
func estimateEquity(view PolicyView) float64 {
	if len(view.HoleCards) != 2 {
		return 0
	}

	strength := 0.2
	if len(view.Board) == 0 {
		strength = preflopStrength(view.HoleCards)
	} else {
		strength = madeHandStrength(append(append([]Card{}, view.HoleCards...), view.Board...))
	}

	// Fewer cards to come, more certainty.
	switch len(view.Board) {
	case 0:
		strength *= 0.80
	case 3:
		strength *= 0.85
	case 4:
		strength *= 0.90
	default:
		strength *= 0.95
	}
	if strength > 1 {
		strength = 1
	}
	return strength
}

func preflopStrength(hole []Card) float64 {
	a, b := hole[0], hole[1]
	strength := 0.2

	if a.Rank == b.Rank {
		strength = 0.5
		if a.Rank >= Nine {
			strength = 0.75
		}
	}
	if a.Suit == b.Suit {
		strength += 0.05
	}
	for _, c := range hole {
		if c.Rank >= Jack {
			strength += 0.08
		}
	}
	if strength > 1 {
		strength = 1
	}
	return strength
}

func madeHandStrength(cards []Card) float64 {
	switch Evaluate(cards).Category() {
	case StraightFlush:
		return 1.0
	case FourOfAKind:
		return 0.95
	case FullHouse:
		return 0.9
	case Flush:
		return 0.8
	case Straight:
		return 0.75
	case ThreeOfAKind:
		return 0.7
	case TwoPair:
		return 0.5
	case Pair:
		return 0.4
	default:
		return 0.2
	}
}
