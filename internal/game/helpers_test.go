package game

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"setgame/internal/randutil"
)

// recordingSink captures display notifications for assertions.
type recordingSink struct {
	mu         sync.Mutex
	placed     [][2]int // (card, slot)
	removed    []int    // slot
	tokens     [][2]int // (player, slot)
	untokens   [][2]int
	scores     [][2]int // (player, score)
	countdowns []time.Duration
	urgent     []bool
	freezes    []time.Duration
	winners    [][]int
}

func (r *recordingSink) CardPlaced(card, slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed = append(r.placed, [2]int{card, slot})
}

func (r *recordingSink) CardRemoved(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, slot)
}

func (r *recordingSink) TokenPlaced(player, slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, [2]int{player, slot})
}

func (r *recordingSink) TokenRemoved(player, slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.untokens = append(r.untokens, [2]int{player, slot})
}

func (r *recordingSink) ScoreUpdated(player, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, [2]int{player, score})
}

func (r *recordingSink) FreezeUpdated(player int, remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freezes = append(r.freezes, remaining)
}

func (r *recordingSink) CountdownUpdated(remaining time.Duration, urgent bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countdowns = append(r.countdowns, remaining)
	r.urgent = append(r.urgent, urgent)
}

func (r *recordingSink) WinnersAnnounced(players []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := make([]int, len(players))
	copy(w, players)
	r.winners = append(r.winners, w)
}

func (r *recordingSink) lastWinners() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.winners) == 0 {
		return nil
	}
	return r.winners[len(r.winners)-1]
}

// stubOracle marks exactly the configured card groups as legal.
type stubOracle struct {
	legal [][]int
}

func (o *stubOracle) IsLegalSet(cards []int) bool {
	for _, set := range o.legal {
		if sameCards(set, cards) {
			return true
		}
	}
	return false
}

func (o *stubOracle) FindSets(cards []int, limit int) [][]int {
	available := make(map[int]bool, len(cards))
	for _, c := range cards {
		available[c] = true
	}
	var found [][]int
	for _, set := range o.legal {
		ok := true
		for _, c := range set {
			if !available[c] {
				ok = false
				break
			}
		}
		if ok {
			found = append(found, set)
			if limit > 0 && len(found) >= limit {
				break
			}
		}
	}
	return found
}

func sameCards(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, c := range a {
		seen[c]++
	}
	for _, c := range b {
		seen[c]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// testConfig is a small, fast setup: 27 cards, 9 slots, sets of 3.
func testConfig() *Config {
	return &Config{
		Game: GameSettings{
			Features:            3,
			Options:             3,
			TableSize:           9,
			TurnTimeoutMillis:   200,
			WarnTimeMillis:      50,
			PointFreezeMillis:   1,
			PenaltyFreezeMillis: 1,
			RefreshMillis:       50,
			LogLevel:            "error",
		},
		Players: []PlayerConfig{{Name: "p0"}, {Name: "p1"}, {Name: "p2"}},
	}
}

// newFixture builds a board plus suspended, non-running players for
// driving dealer internals synchronously.
type fixture struct {
	cfg     *Config
	sink    *recordingSink
	board   *Board
	deck    *Deck
	claims  *ClaimQueue
	players []*Player
	dealer  *Dealer
	oracle  *stubOracle
}

func newFixture(cfg *Config, oracle *stubOracle) *fixture {
	sink := &recordingSink{}
	clock := quartz.NewReal()
	rng := randutil.New(1)
	board := NewBoard(cfg.Game.TableSize, cfg.DeckSize(), len(cfg.Players), sink, clock)
	deck := NewDeck(cfg.DeckSize(), rng)
	claims := NewClaimQueue()

	players := make([]*Player, len(cfg.Players))
	for i, pc := range cfg.Players {
		players[i] = NewPlayer(i, pc, cfg, board, claims, sink, clock, testLogger(), randutil.Fork(rng))
	}

	return &fixture{
		cfg:     cfg,
		sink:    sink,
		board:   board,
		deck:    deck,
		claims:  claims,
		players: players,
		oracle:  oracle,
		dealer:  NewDealer(cfg, board, deck, oracle, claims, players, sink, clock, testLogger()),
	}
}

// resolutionOf drains the player's pending resolution, if any.
func resolutionOf(p *Player) (Resolution, bool) {
	select {
	case res := <-p.resolution:
		return res, true
	default:
		return 0, false
	}
}
