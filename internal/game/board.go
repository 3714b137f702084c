package game

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"

	"setgame/internal/display"
)

var (
	// ErrNoEmptySlot is returned when a card cannot be placed because every
	// slot is occupied. Callers check HasEmptySlot first, so hitting this is
	// a caller bug.
	ErrNoEmptySlot = errors.New("board: no empty slot")

	// ErrInvalidSlot is returned for operations against a slot that is out
	// of range or does not hold a card.
	ErrInvalidSlot = errors.New("board: invalid slot")
)

const noCard = -1

// Board is the shared table state: the slot/card bijection plus token
// placement. It is the only structure touched by both the dealer and the
// players.
//
// Locking discipline: mu's write side guards structural mutations (card
// placement, removal, sweeps) and is taken only by the dealer. Players take
// the read side for token operations, so token traffic proceeds
// concurrently with itself but never overlaps a structural change. tokenMu
// serialises the token tables themselves, which several players may hit
// under the shared read lock at once.
type Board struct {
	mu      sync.RWMutex
	tokenMu sync.Mutex

	slotToCard   []int   // card per slot, noCard when empty
	cardToSlot   []int   // slot per card, noCard when off the board
	slotTokens   [][]int // player ids with a token on each slot
	playerTokens [][]int // slots each player has marked, in placement order

	sink  display.Sink
	clock quartz.Clock
	delay time.Duration // optional per-placement pause for watchability
}

// NewBoard creates a board with the given number of slots, sized for a deck
// of deckSize cards and the given player count.
func NewBoard(slots, deckSize, players int, sink display.Sink, clock quartz.Clock) *Board {
	b := &Board{
		slotToCard:   make([]int, slots),
		cardToSlot:   make([]int, deckSize),
		slotTokens:   make([][]int, slots),
		playerTokens: make([][]int, players),
		sink:         sink,
		clock:        clock,
	}
	for i := range b.slotToCard {
		b.slotToCard[i] = noCard
	}
	for i := range b.cardToSlot {
		b.cardToSlot[i] = noCard
	}
	return b
}

// SetDelay configures an artificial pause applied to each card placement
// and removal, mirroring the table delay of a dealt-by-hand game.
func (b *Board) SetDelay(d time.Duration) {
	b.delay = d
}

func (b *Board) pause() {
	if b.delay <= 0 {
		return
	}
	timer := b.clock.NewTimer(b.delay)
	defer timer.Stop()
	<-timer.C
}

// PlaceCard puts card on the given slot. Dealer only; takes the write lock.
func (b *Board) PlaceCard(card, slot int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if slot < 0 || slot >= len(b.slotToCard) || b.slotToCard[slot] != noCard {
		return ErrInvalidSlot
	}
	b.pause()
	b.slotToCard[slot] = card
	b.cardToSlot[card] = slot
	b.sink.CardPlaced(card, slot)
	return nil
}

// PlaceCardAny puts card on the first empty slot.
func (b *Board) PlaceCardAny(card int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	slot := -1
	for i, c := range b.slotToCard {
		if c == noCard {
			slot = i
			break
		}
	}
	if slot == -1 {
		return ErrNoEmptySlot
	}
	b.pause()
	b.slotToCard[slot] = card
	b.cardToSlot[card] = slot
	b.sink.CardPlaced(card, slot)
	return nil
}

// RemoveCard vacates a slot, clearing every token on it. Dealer only.
func (b *Board) RemoveCard(slot int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeCardLocked(slot)
}

func (b *Board) removeCardLocked(slot int) error {
	if slot < 0 || slot >= len(b.slotToCard) || b.slotToCard[slot] == noCard {
		return ErrInvalidSlot
	}
	b.pause()
	card := b.slotToCard[slot]
	b.cardToSlot[card] = noCard
	b.slotToCard[slot] = noCard
	b.clearTokensOnSlot(slot)
	b.sink.CardRemoved(slot)
	return nil
}

// clearTokensOnSlot drops every token referencing slot. Caller holds the
// write lock, so no token operation can be in flight.
func (b *Board) clearTokensOnSlot(slot int) {
	b.tokenMu.Lock()
	defer b.tokenMu.Unlock()

	for _, player := range b.slotTokens[slot] {
		b.playerTokens[player] = removeValue(b.playerTokens[player], slot)
		b.sink.TokenRemoved(player, slot)
	}
	b.slotTokens[slot] = nil
}

// SweepAll clears every occupied slot and returns the swept cards for
// return to the deck. Dealer only.
func (b *Board) SweepAll() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	var swept []int
	for slot, card := range b.slotToCard {
		if card == noCard {
			continue
		}
		swept = append(swept, card)
		_ = b.removeCardLocked(slot) // slot known occupied
	}
	return swept
}

// PlaceToken marks slot for player and returns the player's resulting token
// count. Placing on an empty slot is a no-op with ok == false: the card may
// have been swept between the player's read and this call, so the check
// happens here under the lock, not only at the call site.
func (b *Board) PlaceToken(player, slot int) (count int, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if slot < 0 || slot >= len(b.slotToCard) || b.slotToCard[slot] == noCard {
		return 0, false
	}

	b.tokenMu.Lock()
	defer b.tokenMu.Unlock()
	b.slotTokens[slot] = append(b.slotTokens[slot], player)
	b.playerTokens[player] = append(b.playerTokens[player], slot)
	b.sink.TokenPlaced(player, slot)
	return len(b.playerTokens[player]), true
}

// RemoveToken removes the player's token from slot. The false return is not
// an error: callers use it to detect stale state.
func (b *Board) RemoveToken(player, slot int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.tokenMu.Lock()
	defer b.tokenMu.Unlock()
	if !containsValue(b.playerTokens[player], slot) {
		return false
	}
	b.playerTokens[player] = removeValue(b.playerTokens[player], slot)
	b.slotTokens[slot] = removeValue(b.slotTokens[slot], player)
	b.sink.TokenRemoved(player, slot)
	return true
}

// HasToken reports whether player holds a token on slot.
func (b *Board) HasToken(player, slot int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.tokenMu.Lock()
	defer b.tokenMu.Unlock()
	return containsValue(b.playerTokens[player], slot)
}

// TokensOf returns the slots player currently has marked, in placement
// order.
func (b *Board) TokensOf(player int) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.tokenMu.Lock()
	defer b.tokenMu.Unlock()
	out := make([]int, len(b.playerTokens[player]))
	copy(out, b.playerTokens[player])
	return out
}

// CardsOf returns the cards under the player's tokens, in placement order.
// This is the snapshot a claim is built from.
func (b *Board) CardsOf(player int) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.tokenMu.Lock()
	defer b.tokenMu.Unlock()
	cards := make([]int, 0, len(b.playerTokens[player]))
	for _, slot := range b.playerTokens[player] {
		if c := b.slotToCard[slot]; c != noCard {
			cards = append(cards, c)
		}
	}
	return cards
}

// SlotOfCard returns the slot holding card, or noCard when the card is not
// on the board.
func (b *Board) SlotOfCard(card int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if card < 0 || card >= len(b.cardToSlot) {
		return noCard
	}
	return b.cardToSlot[card]
}

// HasCard reports whether card is currently on the board.
func (b *Board) HasCard(card int) bool {
	return b.SlotOfCard(card) != noCard
}

// HasEmptySlot reports whether any slot is vacant.
func (b *Board) HasEmptySlot() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.slotToCard {
		if c == noCard {
			return true
		}
	}
	return false
}

// CountCards returns the number of occupied slots.
func (b *Board) CountCards() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, c := range b.slotToCard {
		if c != noCard {
			n++
		}
	}
	return n
}

// Cards returns the card ids currently on the board, in slot order.
func (b *Board) Cards() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var cards []int
	for _, c := range b.slotToCard {
		if c != noCard {
			cards = append(cards, c)
		}
	}
	return cards
}

// Hints returns up to limit legal sets currently on the board, as slot
// groups sorted ascending.
func (b *Board) Hints(oracle Oracle, limit int) [][]int {
	cards := b.Cards()
	sets := oracle.FindSets(cards, limit)

	b.mu.RLock()
	defer b.mu.RUnlock()
	hints := make([][]int, 0, len(sets))
	for _, set := range sets {
		slots := make([]int, 0, len(set))
		for _, card := range set {
			if s := b.cardToSlot[card]; s != noCard {
				slots = append(slots, s)
			}
		}
		if len(slots) == len(set) {
			sort.Ints(slots)
			hints = append(hints, slots)
		}
	}
	return hints
}

func containsValue(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeValue(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
