package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerToggleToken(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	require.NoError(t, f.board.PlaceCard(5, 0))
	p := f.players[0]
	ctx := context.Background()

	require.True(t, p.handleSelect(ctx, 0))
	assert.True(t, f.board.HasToken(p.ID, 0))

	require.True(t, p.handleSelect(ctx, 0))
	assert.False(t, f.board.HasToken(p.ID, 0), "second select toggles the token off")
	assert.Zero(t, f.claims.Len())
}

func TestPlayerSelectOnEmptySlotIsNoop(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	p := f.players[0]

	require.True(t, p.handleSelect(context.Background(), 4))
	assert.Empty(t, f.board.TokensOf(p.ID))
	assert.Zero(t, f.claims.Len())
}

func TestPlayerClaimAndSuspend(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	f.drainDeck()
	f.placeCards(t, 1, 2, 3)
	p := f.players[0]
	ctx := context.Background()

	require.True(t, p.handleSelect(ctx, 0))
	require.True(t, p.handleSelect(ctx, 1))

	// Queue a stale selection and pre-deliver the resolution so the third
	// select completes without a dealer goroutine.
	p.input <- 2
	p.Resolve(PenaltyGiven)

	require.True(t, p.handleSelect(ctx, 2))

	claim, ok := f.claims.Pop()
	require.True(t, ok)
	assert.Equal(t, p.ID, claim.Player)
	assert.Equal(t, []int{1, 2, 3}, claim.Cards)

	assert.Empty(t, p.input, "inputs queued during suspension are discarded on resume")
}

func TestPlayerDiscardSkipsFreeze(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	f.drainDeck()
	f.placeCards(t, 1, 2, 3)
	p := f.players[0]

	p.Resolve(ClaimDiscarded)
	require.True(t, p.handleSelect(context.Background(), 0))
	require.True(t, p.handleSelect(context.Background(), 1))
	require.True(t, p.handleSelect(context.Background(), 2))

	assert.Empty(t, f.sink.freezes, "discard carries no freeze")
	assert.Zero(t, p.Score())
}

func TestPlayerTerminationWhileSuspended(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	f.drainDeck()
	f.placeCards(t, 1, 2, 3)
	p := f.players[0]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.True(t, p.handleSelect(ctx, 0))
	require.True(t, p.handleSelect(ctx, 1))
	assert.False(t, p.handleSelect(ctx, 2), "cancelled while suspended exits the loop")
	assert.Equal(t, 1, f.claims.Len(), "the abandoned claim stays for the dealer to discard")
}

func TestPlayerSelectNeverBlocks(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	p := f.players[0]

	for i := 0; i < 10; i++ {
		p.Select(i % f.cfg.Game.TableSize)
	}
	assert.Len(t, p.input, cap(p.input), "overflow selections are dropped, not queued")
}

func TestPlayerFreezeCountdown(t *testing.T) {
	mock := quartz.NewMock(t)
	f := newFixture(testConfig(), &stubOracle{})
	p := f.players[0]
	p.clock = mock

	trap := mock.Trap().NewTimer()
	defer trap.Close()

	done := make(chan bool, 1)
	go func() { done <- p.freezeFor(context.Background(), 2500*time.Millisecond) }()

	for i := 0; i < 3; i++ {
		call := trap.MustWait(context.Background())
		call.MustRelease(context.Background())
		mock.Advance(call.Duration).MustWait(context.Background())
	}

	require.True(t, <-done)
	assert.Equal(t, []time.Duration{
		2500 * time.Millisecond,
		1500 * time.Millisecond,
		500 * time.Millisecond,
		0,
	}, f.sink.freezes)
}

func TestPlayerRunLoop(t *testing.T) {
	f := newFixture(testConfig(), &stubOracle{})
	f.drainDeck()
	f.placeCards(t, 1, 2, 3)

	cfg := testConfig()
	cfg.Players[0].Human = true // no generator thread
	p := NewPlayer(0, cfg.Players[0], cfg, f.board, f.claims, f.sink,
		quartz.NewReal(), testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	p.Select(0)
	p.Select(1)
	p.Select(2)

	select {
	case <-f.claims.Wakeup():
	case <-time.After(2 * time.Second):
		t.Fatal("claim never arrived")
	}
	claim, ok := f.claims.Pop()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, claim.Cards)

	p.AwardPoint()
	p.Resolve(PointAwarded)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player did not terminate")
	}
	assert.Equal(t, 1, p.Score())
}
