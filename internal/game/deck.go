package game

import rand "math/rand/v2"

// Deck holds the ordered card ids not currently on the board. Cards are
// drawn from the front and swept cards are returned to the back before a
// reshuffle. The dealer is the only goroutine that touches it.
type Deck struct {
	cards []int
	rng   *rand.Rand
}

// NewDeck creates a deck containing every card id in [0, size).
func NewDeck(size int, rng *rand.Rand) *Deck {
	cards := make([]int, size)
	for i := range cards {
		cards[i] = i
	}
	return &Deck{cards: cards, rng: rng}
}

// Shuffle randomises the order of the remaining cards.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the front card. ok is false when the deck is
// empty.
func (d *Deck) Draw() (card int, ok bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	card = d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Return appends swept cards to the back of the deck.
func (d *Deck) Return(cards []int) {
	d.cards = append(d.cards, cards...)
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Empty reports whether no cards remain.
func (d *Deck) Empty() bool {
	return len(d.cards) == 0
}

// Cards returns a snapshot of the remaining card ids.
func (d *Deck) Cards() []int {
	out := make([]int, len(d.cards))
	copy(out, d.cards)
	return out
}
