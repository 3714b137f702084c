package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"setgame/internal/display"
)

// Phase identifies where the dealer is in its round loop.
type Phase int

const (
	Dealing Phase = iota
	Waiting
	Sweeping
	Finished
)

func (p Phase) String() string {
	switch p {
	case Dealing:
		return "dealing"
	case Waiting:
		return "waiting"
	case Sweeping:
		return "sweeping"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Dealer drives the game: it starts the players, deals cards, waits out
// each round while resolving claims, sweeps the board, and announces the
// winners. It is the only goroutine that performs structural board
// mutations and the only consumer of the claim queue.
type Dealer struct {
	cfg     *Config
	board   *Board
	deck    *Deck
	oracle  Oracle
	claims  *ClaimQueue
	players []*Player
	sink    display.Sink
	clock   quartz.Clock
	logger  *log.Logger

	phase    Phase
	deadline time.Time
}

// NewDealer wires the dealer up to its collaborators.
func NewDealer(cfg *Config, board *Board, deck *Deck, oracle Oracle, claims *ClaimQueue,
	players []*Player, sink display.Sink, clock quartz.Clock, logger *log.Logger) *Dealer {
	return &Dealer{
		cfg:     cfg,
		board:   board,
		deck:    deck,
		oracle:  oracle,
		claims:  claims,
		players: players,
		sink:    sink,
		clock:   clock,
		logger:  logger.WithPrefix("dealer"),
	}
}

// Run executes the game to completion. It returns when the game finishes
// naturally (no legal set remains anywhere) or when ctx is cancelled, in
// either case only after every player goroutine has been joined.
func (d *Dealer) Run(ctx context.Context) error {
	d.logger.Info("Dealer starting", "players", len(d.players), "deck", d.deck.Len())

	playerCtx, stopPlayers := context.WithCancel(ctx)
	var g errgroup.Group
	for _, p := range d.players {
		g.Go(func() error { return p.Run(playerCtx) })
	}

	d.deck.Shuffle()
	for {
		d.phase = Dealing
		d.deal()

		d.phase = Waiting
		d.wait(ctx)

		// Resolve anything still queued so no player stays suspended
		// across the sweep.
		d.resolveClaims()

		d.phase = Sweeping
		d.sweep()

		if ctx.Err() != nil {
			d.logger.Info("Termination requested")
			break
		}
		if !d.anySetRemains() {
			d.logger.Info("No legal set remains, game over")
			break
		}
	}
	d.phase = Finished

	d.announceWinners()

	stopPlayers()
	err := g.Wait()
	d.logger.Info("Dealer terminated")
	return err
}

// Phase returns the dealer's current phase. Only meaningful to observers
// that accept a racy read, and to tests driving the dealer synchronously.
func (d *Dealer) Phase() Phase {
	return d.phase
}

// deal draws from the deck into every empty slot, stopping early if the
// deck runs dry, then resets the round deadline.
func (d *Dealer) deal() {
	d.fillBoard()
	d.deadline = d.clock.Now().Add(d.cfg.TurnTimeout())
	d.publishCountdown()
	d.logger.Debug("Dealt board", "cards", d.board.CountCards(), "deck", d.deck.Len())
}

func (d *Dealer) fillBoard() {
	for d.board.HasEmptySlot() && !d.deck.Empty() {
		card, _ := d.deck.Draw()
		if err := d.board.PlaceCardAny(card); err != nil {
			// Only the dealer mutates board structure, so this is a bug.
			d.logger.Error("Failed to place card", "card", card, "error", err)
			d.deck.Return([]int{card})
			return
		}
	}
}

// wait blocks until the round deadline elapses or ctx is cancelled,
// resolving claims whenever the queue signals. Claim resolution re-arms
// the same deadline rather than resetting it.
func (d *Dealer) wait(ctx context.Context) {
	timer := d.clock.NewTimer(d.deadline.Sub(d.clock.Now()))
	defer timer.Stop()
	ticker := d.clock.NewTicker(d.cfg.Refresh())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			d.publishCountdown()
			return
		case <-ticker.C:
			d.publishCountdown()
		case <-d.claims.Wakeup():
			d.resolveClaims()
		}
	}
}

// resolveClaims drains the queue in arrival order. Exactly one of point,
// penalty or silent discard happens per claim.
func (d *Dealer) resolveClaims() {
	for {
		claim, ok := d.claims.Pop()
		if !ok {
			return
		}
		player := d.players[claim.Player]

		if !d.claimOnBoard(claim) {
			// The cards were already removed by an earlier resolution or a
			// sweep. Normal outcome, not an error.
			d.logger.Debug("Stale claim discarded", "player", claim.Player, "cards", claim.Cards)
			player.Resolve(ClaimDiscarded)
			continue
		}

		if !d.oracle.IsLegalSet(claim.Cards) {
			d.logger.Debug("Illegal claim, penalty", "player", claim.Player, "cards", claim.Cards)
			player.Resolve(PenaltyGiven)
			continue
		}

		d.logger.Info("Legal set claimed", "player", claim.Player, "cards", claim.Cards)
		player.AwardPoint()
		d.removeClaimedCards(claim)

		// Purge queued claims sharing a card with the resolved set before
		// anyone is released, so the losers resume cleanly.
		dropped := d.claims.DiscardIf(claim.Overlaps)

		player.Resolve(PointAwarded)
		for _, dc := range dropped {
			d.logger.Debug("Colliding claim discarded", "player", dc.Player, "cards", dc.Cards)
			d.players[dc.Player].Resolve(ClaimDiscarded)
		}

		d.fillBoard()
	}
}

func (d *Dealer) claimOnBoard(claim Claim) bool {
	for _, card := range claim.Cards {
		if !d.board.HasCard(card) {
			return false
		}
	}
	return true
}

func (d *Dealer) removeClaimedCards(claim Claim) {
	for _, card := range claim.Cards {
		slot := d.board.SlotOfCard(card)
		if slot == noCard {
			continue
		}
		if err := d.board.RemoveCard(slot); err != nil {
			d.logger.Error("Failed to remove claimed card", "card", card, "slot", slot, "error", err)
		}
	}
}

// sweep returns every card on the board to the deck and reshuffles.
func (d *Dealer) sweep() {
	swept := d.board.SweepAll()
	d.deck.Return(swept)
	d.deck.Shuffle()
	d.logger.Debug("Board swept", "cards", len(swept), "deck", d.deck.Len())
}

// anySetRemains asks the oracle whether the reclaimed deck still contains
// a legal set. Called after a sweep, when the deck holds every card not
// permanently removed by a scored claim.
func (d *Dealer) anySetRemains() bool {
	return len(d.oracle.FindSets(d.deck.Cards(), 1)) > 0
}

// announceWinners reports every player whose score equals the maximum.
// Ties are reported together, not broken.
func (d *Dealer) announceWinners() {
	maxScore := 0
	for _, p := range d.players {
		if p.Score() > maxScore {
			maxScore = p.Score()
		}
	}
	var winners []int
	for _, p := range d.players {
		if p.Score() == maxScore {
			winners = append(winners, p.ID)
		}
	}
	d.logger.Info("Winners", "score", maxScore, "players", winners)
	d.sink.WinnersAnnounced(winners)
}

func (d *Dealer) publishCountdown() {
	remaining := d.deadline.Sub(d.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	d.sink.CountdownUpdated(remaining, remaining <= d.cfg.WarnTime())
}
