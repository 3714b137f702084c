package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimOverlaps(t *testing.T) {
	a := NewClaim(0, []int{1, 2, 3})
	b := NewClaim(1, []int{3, 4, 5})
	c := NewClaim(2, []int{6, 7, 8})

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}

func TestClaimSnapshotIsImmutable(t *testing.T) {
	cards := []int{1, 2, 3}
	claim := NewClaim(0, cards)
	cards[0] = 99
	assert.Equal(t, []int{1, 2, 3}, claim.Cards)
}

func TestClaimQueueFIFO(t *testing.T) {
	q := NewClaimQueue()
	q.Push(NewClaim(0, []int{1}))
	q.Push(NewClaim(1, []int{2}))
	q.Push(NewClaim(2, []int{3}))
	assert.Equal(t, 3, q.Len())

	for want := 0; want < 3; want++ {
		claim, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, claim.Player)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestClaimQueueWakeup(t *testing.T) {
	q := NewClaimQueue()
	select {
	case <-q.Wakeup():
		t.Fatal("wakeup before any push")
	default:
	}

	q.Push(NewClaim(0, []int{1}))
	q.Push(NewClaim(1, []int{2})) // second push coalesces into the pending signal

	select {
	case <-q.Wakeup():
	default:
		t.Fatal("push did not signal wakeup")
	}
	select {
	case <-q.Wakeup():
		t.Fatal("signal should have been consumed")
	default:
	}
}

func TestClaimQueueDiscardIf(t *testing.T) {
	q := NewClaimQueue()
	resolved := NewClaim(0, []int{1, 2, 3})
	q.Push(NewClaim(1, []int{3, 4, 5}))
	q.Push(NewClaim(2, []int{6, 7, 8}))
	q.Push(NewClaim(3, []int{9, 1, 10}))

	dropped := q.DiscardIf(resolved.Overlaps)
	require.Len(t, dropped, 2)
	assert.Equal(t, 1, dropped[0].Player)
	assert.Equal(t, 3, dropped[1].Player)

	assert.Equal(t, 1, q.Len())
	kept, _ := q.Pop()
	assert.Equal(t, 2, kept.Player)
}

func TestClaimQueueConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 100

	q := NewClaimQueue()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(NewClaim(p, []int{i}))
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())
}
