package game

import (
	"context"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"setgame/internal/display"
)

// Resolution is the dealer's verdict on a submitted claim.
type Resolution int

const (
	// PointAwarded means the claim was a legal set: the player scored and
	// sits out the short point freeze.
	PointAwarded Resolution = iota

	// PenaltyGiven means the claim was not a legal set: the player sits out
	// the longer penalty freeze.
	PenaltyGiven

	// ClaimDiscarded means the claim referenced cards a prior resolution
	// already removed. No score, no freeze.
	ClaimDiscarded
)

func (r Resolution) String() string {
	switch r {
	case PointAwarded:
		return "point"
	case PenaltyGiven:
		return "penalty"
	case ClaimDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// freezeStep is the granularity of the freeze countdown shown to the
// display sink.
const freezeStep = time.Second

// botPace spaces out a synthetic player's slot selections so it does not
// spin when the board is quiet.
const botPace = 75 * time.Millisecond

// Player runs one seat at the table. It consumes slot selections, toggles
// tokens on the board, and suspends on its resolution channel whenever its
// token count reaches the set size and a claim goes onto the queue.
//
// The score field is written only by the dealer's resolution step, which
// happens-before the player is released from suspension, so it needs no
// lock of its own.
type Player struct {
	ID    int
	Name  string
	human bool

	board  *Board
	claims *ClaimQueue
	sink   display.Sink
	clock  quartz.Clock
	logger *log.Logger
	rng    *rand.Rand

	setSize       int
	tableSize     int
	pointFreeze   time.Duration
	penaltyFreeze time.Duration

	input      chan int
	resolution chan Resolution
	score      int
}

// NewPlayer creates a player. rng is only used by synthetic (non-human)
// players to generate slot selections and may be nil for humans.
func NewPlayer(id int, pc PlayerConfig, cfg *Config, board *Board, claims *ClaimQueue,
	sink display.Sink, clock quartz.Clock, logger *log.Logger, rng *rand.Rand) *Player {
	return &Player{
		ID:            id,
		Name:          pc.Name,
		human:         pc.Human,
		board:         board,
		claims:        claims,
		sink:          sink,
		clock:         clock,
		logger:        logger.WithPrefix("player").With("id", id, "name", pc.Name),
		rng:           rng,
		setSize:       cfg.SetSize(),
		tableSize:     cfg.Game.TableSize,
		pointFreeze:   cfg.PointFreeze(),
		penaltyFreeze: cfg.PenaltyFreeze(),
		input:         make(chan int, cfg.SetSize()),
		resolution:    make(chan Resolution, 1),
	}
}

// Human reports whether this seat takes keyboard input.
func (p *Player) Human() bool {
	return p.human
}

// Score returns the player's score. Safe for the dealer after resolution
// and for anyone after the game ends.
func (p *Player) Score() int {
	return p.score
}

// Select submits a slot selection. It never blocks: while the player is
// suspended the input queue may be full, and selections made then are
// stale by definition, so they are dropped.
func (p *Player) Select(slot int) {
	select {
	case p.input <- slot:
	default:
		p.logger.Debug("Input dropped, queue full", "slot", slot)
	}
}

// Run is the player's main loop. It exits when ctx is cancelled; a pending
// claim is abandoned as a forced, unscored discard.
func (p *Player) Run(ctx context.Context) error {
	p.logger.Debug("Player starting")
	defer p.logger.Debug("Player terminated")

	if !p.human {
		genCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			p.generate(genCtx)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case slot := <-p.input:
			if !p.handleSelect(ctx, slot) {
				return nil
			}
		}
	}
}

// handleSelect toggles the token on slot and submits a claim when the
// toggle-on completes a full set. Returns false when ctx was cancelled
// while suspended.
func (p *Player) handleSelect(ctx context.Context, slot int) bool {
	if p.board.HasToken(p.ID, slot) {
		// Toggle off. A false return means the dealer swept the slot in
		// between, which amounts to the same thing.
		p.board.RemoveToken(p.ID, slot)
		return true
	}

	count, ok := p.board.PlaceToken(p.ID, slot)
	if !ok || count < p.setSize {
		return true
	}

	cards := p.board.CardsOf(p.ID)
	if len(cards) < p.setSize {
		// A sweep raced the placement; the snapshot is incomplete and no
		// claim is formed.
		p.logger.Debug("Claim snapshot went stale before submission", "cards", cards)
		return true
	}

	p.logger.Debug("Submitting claim", "cards", cards)
	p.claims.Push(NewClaim(p.ID, cards))

	select {
	case <-ctx.Done():
		return false
	case res := <-p.resolution:
		p.logger.Debug("Claim resolved", "outcome", res.String())
		if !p.applyOutcome(ctx, res) {
			return false
		}
	}

	p.drainInput()
	return true
}

// Resolve delivers the dealer's verdict. The channel holds one slot and a
// player has at most one outstanding claim, so this never blocks.
func (p *Player) Resolve(res Resolution) {
	select {
	case p.resolution <- res:
	default:
		p.logger.Error("Resolution dropped, one already pending", "outcome", res.String())
	}
}

// AwardPoint increments the score. Called only from the dealer's
// resolution step, before the player is released.
func (p *Player) AwardPoint() {
	p.score++
	p.sink.ScoreUpdated(p.ID, p.score)
}

// applyOutcome sits out the freeze attached to the resolution. Returns
// false when ctx was cancelled mid-freeze.
func (p *Player) applyOutcome(ctx context.Context, res Resolution) bool {
	var freeze time.Duration
	switch res {
	case PointAwarded:
		freeze = p.pointFreeze
	case PenaltyGiven:
		freeze = p.penaltyFreeze
	case ClaimDiscarded:
		return true
	}
	return p.freezeFor(ctx, freeze)
}

func (p *Player) freezeFor(ctx context.Context, d time.Duration) bool {
	for remaining := d; remaining > 0; {
		p.sink.FreezeUpdated(p.ID, remaining)
		step := remaining
		if step > freezeStep {
			step = freezeStep
		}
		timer := p.clock.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		remaining -= step
	}
	p.sink.FreezeUpdated(p.ID, 0)
	return true
}

// drainInput discards selections queued while the player was suspended so
// stale presses do not fire on resume.
func (p *Player) drainInput() {
	for {
		select {
		case <-p.input:
		default:
			return
		}
	}
}

// generate feeds uniformly random slot selections while the player is not
// suspended. The channel send blocks once the queue fills, which pauses
// generation for the length of a suspension.
func (p *Player) generate(ctx context.Context) {
	p.logger.Debug("Generator starting")
	defer p.logger.Debug("Generator terminated")

	for {
		slot := p.rng.IntN(p.tableSize)
		select {
		case <-ctx.Done():
			return
		case p.input <- slot:
		}

		timer := p.clock.NewTimer(botPace)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
