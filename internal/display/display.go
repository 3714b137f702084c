// Package display defines the one-way notification interface the game core
// uses to report visible state changes. Implementations render the board
// however they like; the core never waits on them.
package display

import (
	"time"

	"github.com/charmbracelet/log"
)

// Sink receives board, score and timer notifications. Calls are best-effort
// and must not block game progress.
type Sink interface {
	// CardPlaced is called when a card lands on a slot.
	CardPlaced(card, slot int)

	// CardRemoved is called when a slot is vacated.
	CardRemoved(slot int)

	// TokenPlaced is called when a player marks a slot.
	TokenPlaced(player, slot int)

	// TokenRemoved is called when a player's mark on a slot is cleared.
	TokenRemoved(player, slot int)

	// ScoreUpdated is called when a player's score changes.
	ScoreUpdated(player, score int)

	// FreezeUpdated is called while a player sits out a freeze. A zero
	// remaining duration clears the freeze indicator.
	FreezeUpdated(player int, remaining time.Duration)

	// CountdownUpdated is called with the time left in the round. The urgent
	// flag is set once the countdown enters the warning window.
	CountdownUpdated(remaining time.Duration, urgent bool)

	// WinnersAnnounced is called once at the end of the game with every
	// player holding the top score.
	WinnersAnnounced(players []int)
}

// Nop is a Sink that discards every notification.
type Nop struct{}

func (Nop) CardPlaced(int, int)                 {}
func (Nop) CardRemoved(int)                     {}
func (Nop) TokenPlaced(int, int)                {}
func (Nop) TokenRemoved(int, int)               {}
func (Nop) ScoreUpdated(int, int)               {}
func (Nop) FreezeUpdated(int, time.Duration)    {}
func (Nop) CountdownUpdated(time.Duration, bool) {}
func (Nop) WinnersAnnounced([]int)              {}

// Multi fans every notification out to each wrapped sink in order.
type Multi []Sink

// Fanout combines sinks into one. Nil entries are skipped.
func Fanout(sinks ...Sink) Sink {
	var m Multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m Multi) CardPlaced(card, slot int) {
	for _, s := range m {
		s.CardPlaced(card, slot)
	}
}

func (m Multi) CardRemoved(slot int) {
	for _, s := range m {
		s.CardRemoved(slot)
	}
}

func (m Multi) TokenPlaced(player, slot int) {
	for _, s := range m {
		s.TokenPlaced(player, slot)
	}
}

func (m Multi) TokenRemoved(player, slot int) {
	for _, s := range m {
		s.TokenRemoved(player, slot)
	}
}

func (m Multi) ScoreUpdated(player, score int) {
	for _, s := range m {
		s.ScoreUpdated(player, score)
	}
}

func (m Multi) FreezeUpdated(player int, remaining time.Duration) {
	for _, s := range m {
		s.FreezeUpdated(player, remaining)
	}
}

func (m Multi) CountdownUpdated(remaining time.Duration, urgent bool) {
	for _, s := range m {
		s.CountdownUpdated(remaining, urgent)
	}
}

func (m Multi) WinnersAnnounced(players []int) {
	for _, s := range m {
		s.WinnersAnnounced(players)
	}
}

// LogSink writes every notification to a structured logger. Countdown and
// freeze ticks go to debug so an info-level log stays readable.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink that logs notifications.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger.WithPrefix("display")}
}

func (l *LogSink) CardPlaced(card, slot int) {
	l.logger.Debug("Card placed", "card", card, "slot", slot)
}

func (l *LogSink) CardRemoved(slot int) {
	l.logger.Debug("Card removed", "slot", slot)
}

func (l *LogSink) TokenPlaced(player, slot int) {
	l.logger.Debug("Token placed", "player", player, "slot", slot)
}

func (l *LogSink) TokenRemoved(player, slot int) {
	l.logger.Debug("Token removed", "player", player, "slot", slot)
}

func (l *LogSink) ScoreUpdated(player, score int) {
	l.logger.Info("Score updated", "player", player, "score", score)
}

func (l *LogSink) FreezeUpdated(player int, remaining time.Duration) {
	l.logger.Debug("Freeze updated", "player", player, "remaining", remaining)
}

func (l *LogSink) CountdownUpdated(remaining time.Duration, urgent bool) {
	l.logger.Debug("Countdown", "remaining", remaining, "urgent", urgent)
}

func (l *LogSink) WinnersAnnounced(players []int) {
	l.logger.Info("Winners announced", "players", players)
}
