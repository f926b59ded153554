package holdem

import "sort"

// Category is the hand category, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	default:
		return "unknown"
	}
}

// Score is a total-ordered hand strength: the category in the high bits and
// five tiebreak ranks below it, so direct numeric comparison across players
// is exact down to the last kicker. Equal scores are true ties and split
// the pot.
type Score uint32

// Category extracts the hand category from a score.
func (s Score) Category() Category {
	return Category(s >> 20)
}

func (s Score) String() string {
	return s.Category().String()
}

func packScore(cat Category, tiebreaks ...Rank) Score {
	s := Score(cat) << 20
	shift := 16
	for _, t := range tiebreaks {
		if shift < 0 {
			break
		}
		s |= Score(t) << shift
		shift -= 4
	}
	return s
}

// Evaluate scores 2 hole cards plus the revealed community cards (0, 3, 4
// or 5 of them). With five or more cards available it scores the best
// five-card combination; with only hole cards the reachable categories are
// pair and high card.
func Evaluate(cards []Card) Score {
	if len(cards) < 5 {
		return scorePartial(cards)
	}

	best := Score(0)
	pick := [5]Card{}
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2], pick[3], pick[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						if s := scoreFive(pick); s > best {
							best = s
						}
					}
				}
			}
		}
	}
	return best
}

// rankGroup is a run of equal ranks, ordered by count then rank for
// tiebreaking (e.g. the pair in a full house outranks the kickers).
type rankGroup struct {
	rank  Rank
	count int
}

func groupRanks(cards []Card) []rankGroup {
	counts := map[Rank]int{}
	for _, c := range cards {
		counts[c.Rank]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, rankGroup{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func groupTiebreaks(groups []rankGroup) []Rank {
	ranks := make([]Rank, 0, 5)
	for _, g := range groups {
		ranks = append(ranks, g.rank)
	}
	return ranks
}

// straightHigh returns the high card of a straight formed by exactly the
// five given cards, or 0. The wheel (A-2-3-4-5) counts as a five-high
// straight.
func straightHigh(cards [5]Card) Rank {
	vals := make([]int, 5)
	for i, c := range cards {
		vals[i] = c.Value()
	}
	sort.Ints(vals)
	for i := 1; i < 5; i++ {
		if vals[i] == vals[i-1] {
			return 0
		}
	}
	if vals[4]-vals[0] == 4 {
		return Rank(vals[4])
	}
	// Wheel: A,2,3,4,5 sorts to 2,3,4,5,14.
	if vals[4] == int(Ace) && vals[0] == int(Two) && vals[3] == int(Five) {
		return Five
	}
	return 0
}

func scoreFive(cards [5]Card) Score {
	flush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}
	straight := straightHigh(cards)

	if flush && straight != 0 {
		return packScore(StraightFlush, straight)
	}

	groups := groupRanks(cards[:])
	ties := groupTiebreaks(groups)

	switch {
	case groups[0].count == 4:
		return packScore(FourOfAKind, ties...)
	case groups[0].count == 3 && groups[1].count == 2:
		return packScore(FullHouse, ties...)
	case flush:
		return packScore(Flush, ties...)
	case straight != 0:
		return packScore(Straight, straight)
	case groups[0].count == 3:
		return packScore(ThreeOfAKind, ties...)
	case groups[0].count == 2 && groups[1].count == 2:
		return packScore(TwoPair, ties...)
	case groups[0].count == 2:
		return packScore(Pair, ties...)
	default:
		return packScore(HighCard, ties...)
	}
}

// scorePartial handles fewer than five cards, where straights and flushes
// cannot exist yet.
func scorePartial(cards []Card) Score {
	if len(cards) == 0 {
		return 0
	}
	groups := groupRanks(cards)
	ties := groupTiebreaks(groups)

	switch {
	case groups[0].count == 4:
		return packScore(FourOfAKind, ties...)
	case groups[0].count == 3:
		return packScore(ThreeOfAKind, ties...)
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		return packScore(TwoPair, ties...)
	case groups[0].count == 2:
		return packScore(Pair, ties...)
	default:
		return packScore(HighCard, ties...)
	}
}
