package game

// Oracle decides combinatorial validity of card groups. The game core
// treats it as a pure predicate; it never touches game state.
type Oracle interface {
	// IsLegalSet reports whether cards form a legal set.
	IsLegalSet(cards []int) bool

	// FindSets returns up to limit legal sets drawn from cards. A limit of
	// zero or less means no cap.
	FindSets(cards []int, limit int) [][]int
}

// FeatureOracle implements the classic rule: a card id encodes `features`
// base-`options` digits, and a group of `options` cards is legal when every
// feature is either identical or pairwise distinct across the group.
type FeatureOracle struct {
	features int
	options  int
}

// NewFeatureOracle creates an oracle for the given dimensions. The standard
// game is 4 features with 3 options each (81 cards, sets of 3).
func NewFeatureOracle(features, options int) *FeatureOracle {
	return &FeatureOracle{features: features, options: options}
}

// SetSize returns the number of cards in a legal set.
func (o *FeatureOracle) SetSize() int {
	return o.options
}

// DeckSize returns the number of distinct cards the feature space encodes.
func (o *FeatureOracle) DeckSize() int {
	size := 1
	for i := 0; i < o.features; i++ {
		size *= o.options
	}
	return size
}

// IsLegalSet reports whether cards form a legal set.
func (o *FeatureOracle) IsLegalSet(cards []int) bool {
	if len(cards) != o.options {
		return false
	}
	deckSize := o.DeckSize()
	seen := make(map[int]bool, len(cards))
	for _, card := range cards {
		if card < 0 || card >= deckSize || seen[card] {
			return false
		}
		seen[card] = true
	}

	for f := 0; f < o.features; f++ {
		values := make(map[int]int, o.options)
		div := 1
		for i := 0; i < f; i++ {
			div *= o.options
		}
		for _, card := range cards {
			values[(card/div)%o.options]++
		}
		// A feature passes when all cards agree on it or no two do.
		if len(values) != 1 && len(values) != o.options {
			return false
		}
	}
	return true
}

// FindSets enumerates legal sets among cards, stopping at limit when
// limit > 0. Slices in the result are freshly allocated.
func (o *FeatureOracle) FindSets(cards []int, limit int) [][]int {
	var found [][]int
	combo := make([]int, o.options)

	var search func(start, depth int) bool
	search = func(start, depth int) bool {
		if depth == o.options {
			if o.IsLegalSet(combo) {
				set := make([]int, len(combo))
				copy(set, combo)
				found = append(found, set)
				if limit > 0 && len(found) >= limit {
					return true
				}
			}
			return false
		}
		for i := start; i < len(cards); i++ {
			combo[depth] = cards[i]
			if search(i+1, depth+1) {
				return true
			}
		}
		return false
	}
	search(0, 0)
	return found
}
