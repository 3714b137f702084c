package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Messages delivered from the game goroutines into the Bubble Tea loop.
type (
	cardPlacedMsg   struct{ card, slot int }
	cardRemovedMsg  struct{ slot int }
	tokenPlacedMsg  struct{ player, slot int }
	tokenRemovedMsg struct{ player, slot int }
	scoreMsg        struct{ player, score int }
	freezeMsg       struct {
		player    int
		remaining time.Duration
	}
	countdownMsg struct {
		remaining time.Duration
		urgent    bool
	}
	winnersMsg struct{ players []int }
)

// Sink bridges display notifications into the TUI. Game goroutines call the
// notification methods; the model drains the event channel from inside the
// Bubble Tea loop. Sends never block: if the UI falls behind, events are
// dropped rather than stalling the dealer or a player.
type Sink struct {
	events chan tea.Msg
	logger *log.Logger
}

// NewSink creates a sink feeding a TUI model.
func NewSink(logger *log.Logger) *Sink {
	return &Sink{
		events: make(chan tea.Msg, 1024),
		logger: logger.WithPrefix("tui"),
	}
}

func (s *Sink) send(msg tea.Msg) {
	select {
	case s.events <- msg:
	default:
		s.logger.Debug("Dropped display event", "msg", msg)
	}
}

func (s *Sink) CardPlaced(card, slot int) { s.send(cardPlacedMsg{card: card, slot: slot}) }

func (s *Sink) CardRemoved(slot int) { s.send(cardRemovedMsg{slot: slot}) }

func (s *Sink) TokenPlaced(player, slot int) { s.send(tokenPlacedMsg{player: player, slot: slot}) }

func (s *Sink) TokenRemoved(player, slot int) { s.send(tokenRemovedMsg{player: player, slot: slot}) }

func (s *Sink) ScoreUpdated(player, score int) { s.send(scoreMsg{player: player, score: score}) }

func (s *Sink) FreezeUpdated(player int, remaining time.Duration) {
	s.send(freezeMsg{player: player, remaining: remaining})
}

func (s *Sink) CountdownUpdated(remaining time.Duration, urgent bool) {
	s.send(countdownMsg{remaining: remaining, urgent: urgent})
}

func (s *Sink) WinnersAnnounced(players []int) {
	s.send(winnersMsg{players: append([]int(nil), players...)})
}
