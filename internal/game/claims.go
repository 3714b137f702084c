package game

import "sync"

// Claim is an immutable snapshot of the cards a player had marked at the
// instant their token count reached the set size. Claims reference cards
// rather than slots so a resolved collision is detectable by card-set
// intersection even after the slots are cleared.
type Claim struct {
	Player int
	Cards  []int
}

// NewClaim copies cards into a claim for player.
func NewClaim(player int, cards []int) Claim {
	snapshot := make([]int, len(cards))
	copy(snapshot, cards)
	return Claim{Player: player, Cards: snapshot}
}

// Overlaps reports whether the two claims share at least one card.
func (c Claim) Overlaps(other Claim) bool {
	for _, a := range c.Cards {
		for _, b := range other.Cards {
			if a == b {
				return true
			}
		}
	}
	return false
}

// ClaimQueue is a multi-producer single-consumer queue of pending claims.
// Players push, only the dealer pops. Pushes signal the wakeup channel so
// the dealer's wait can select on claim arrival instead of polling.
type ClaimQueue struct {
	mu     sync.Mutex
	claims []Claim
	wake   chan struct{}
}

// NewClaimQueue creates an empty queue.
func NewClaimQueue() *ClaimQueue {
	return &ClaimQueue{wake: make(chan struct{}, 1)}
}

// Push appends a claim and wakes the consumer.
func (q *ClaimQueue) Push(c Claim) {
	q.mu.Lock()
	q.claims = append(q.claims, c)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default: // a wakeup is already pending
	}
}

// Pop removes and returns the oldest claim.
func (q *ClaimQueue) Pop() (Claim, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.claims) == 0 {
		return Claim{}, false
	}
	c := q.claims[0]
	q.claims = q.claims[1:]
	return c, true
}

// Len returns the number of pending claims.
func (q *ClaimQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.claims)
}

// DiscardIf removes every queued claim matching pred and returns the
// removed claims in queue order. The dealer uses it to purge claims that
// collide with a just-resolved set.
func (q *ClaimQueue) DiscardIf(pred func(Claim) bool) []Claim {
	q.mu.Lock()
	defer q.mu.Unlock()

	var kept, dropped []Claim
	for _, c := range q.claims {
		if pred(c) {
			dropped = append(dropped, c)
		} else {
			kept = append(kept, c)
		}
	}
	q.claims = kept
	return dropped
}

// Wakeup returns the channel signalled on each push. The channel has a
// one-slot buffer, so a receive may represent several queued claims; the
// consumer drains with Pop until empty.
func (q *ClaimQueue) Wakeup() <-chan struct{} {
	return q.wake
}
