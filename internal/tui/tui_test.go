package tui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testConfig() Config {
	return Config{
		TableSize: 12,
		Features:  4,
		Options:   3,
		Players:   []string{"you", "bot-1"},
		Human:     0,
	}
}

// apply runs a message through Update and returns the updated model.
func apply(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()

	updated, _ := m.Update(msg)
	next, ok := updated.(*Model)
	require.True(t, ok)
	return next
}

func TestSlotForKey(t *testing.T) {
	m := New(testConfig(), NewSink(testLogger()), testLogger())

	assert.Equal(t, 0, m.slotForKey("q"))
	assert.Equal(t, 3, m.slotForKey("r"))
	assert.Equal(t, 4, m.slotForKey("a"))
	assert.Equal(t, 11, m.slotForKey("v"))
	assert.Equal(t, -1, m.slotForKey("p"))
	assert.Equal(t, -1, m.slotForKey("enter"))

	// Keys past the table edge are unmapped on a smaller board.
	small := testConfig()
	small.TableSize = 6
	sm := New(small, NewSink(testLogger()), testLogger())
	assert.Equal(t, 5, sm.slotForKey("s"))
	assert.Equal(t, -1, sm.slotForKey("z"))
}

func TestKeyPressSelectsSlot(t *testing.T) {
	var picked []int
	cfg := testConfig()
	cfg.OnSelect = func(slot int) { picked = append(picked, slot) }

	m := New(cfg, NewSink(testLogger()), testLogger())
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	assert.Equal(t, []int{0, 6}, picked)

	// After the winners banner the keyboard is inert.
	m = apply(t, m, winnersMsg{players: []int{0}})
	_ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Equal(t, []int{0, 6}, picked)
}

func TestKeyPressIgnoredWithoutHumanSeat(t *testing.T) {
	called := false
	cfg := testConfig()
	cfg.Human = -1
	cfg.OnSelect = func(int) { called = true }

	m := New(cfg, NewSink(testLogger()), testLogger())
	_ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.False(t, called)
}

func TestBoardEventsUpdateState(t *testing.T) {
	m := New(testConfig(), NewSink(testLogger()), testLogger())

	m = apply(t, m, cardPlacedMsg{card: 37, slot: 2})
	assert.Equal(t, 37, m.slots[2])

	m = apply(t, m, tokenPlacedMsg{player: 1, slot: 2})
	assert.True(t, m.tokens[2][1])

	m = apply(t, m, tokenRemovedMsg{player: 1, slot: 2})
	assert.False(t, m.tokens[2][1])

	m = apply(t, m, tokenPlacedMsg{player: 0, slot: 2})
	m = apply(t, m, cardRemovedMsg{slot: 2})
	assert.Equal(t, noCard, m.slots[2])
	assert.Empty(t, m.tokens[2])

	m = apply(t, m, scoreMsg{player: 1, score: 3})
	assert.Equal(t, 3, m.scores[1])

	m = apply(t, m, freezeMsg{player: 0, remaining: 2 * time.Second})
	assert.Equal(t, 2*time.Second, m.freezes[0])

	m = apply(t, m, countdownMsg{remaining: 4 * time.Second, urgent: true})
	assert.Equal(t, 4*time.Second, m.countdown)
	assert.True(t, m.urgent)
}

func TestCardFace(t *testing.T) {
	m := New(testConfig(), NewSink(testLogger()), testLogger())

	assert.Equal(t, "0000", m.cardFace(0))
	assert.Equal(t, "0001", m.cardFace(1))
	assert.Equal(t, "0010", m.cardFace(3))
	assert.Equal(t, "2222", m.cardFace(80))
}

func TestHintHighlightsSlots(t *testing.T) {
	cfg := testConfig()
	cfg.Hints = func() [][]int { return [][]int{{1, 4, 7}} }

	m := New(cfg, NewSink(testLogger()), testLogger())
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})

	assert.True(t, m.hinted[1])
	assert.True(t, m.hinted[4])
	assert.True(t, m.hinted[7])
	assert.False(t, m.hinted[0])

	// Any board change invalidates the hint.
	m = apply(t, m, cardRemovedMsg{slot: 1})
	assert.Empty(t, m.hinted)
}

func TestViewRendersWinners(t *testing.T) {
	m := New(testConfig(), NewSink(testLogger()), testLogger())
	m = apply(t, m, winnersMsg{players: []int{1}})

	view := m.View()
	assert.Contains(t, view, "bot-1")
	assert.Contains(t, view, "Winner")
}

func TestSinkDeliversEvents(t *testing.T) {
	sink := NewSink(testLogger())
	m := New(testConfig(), sink, testLogger())

	sink.CardPlaced(12, 5)

	msg := m.listen()()
	require.Equal(t, cardPlacedMsg{card: 12, slot: 5}, msg)
}

func TestSinkNeverBlocks(t *testing.T) {
	sink := NewSink(testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2*cap(sink.events); i++ {
			sink.CountdownUpdated(time.Second, false)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sink blocked with a full event channel")
	}
}
