// Package tui renders the table in the terminal with Bubble Tea: the board
// as a grid of slots, a score panel, the round countdown and freeze timers.
// When a human seat is configured, the keyboard drives that player's slot
// picks the way the classic desktop version mapped keys to card positions.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// gridColumns is the number of slots per board row.
const gridColumns = 4

// keyRows maps keyboard rows onto board rows, top to bottom.
var keyRows = []string{"qwer", "asdf", "zxcv"}

const noCard = -1

// Config describes the table the model renders and the callbacks wired to
// the keyboard.
type Config struct {
	TableSize int
	Features  int
	Options   int
	Players   []string

	// Human is the player index the keyboard controls, -1 when every seat
	// is a bot and the TUI is a pure spectator.
	Human int

	// OnSelect is invoked with a slot index when the human presses a slot
	// key. It must not block.
	OnSelect func(slot int)

	// Hints returns the slot groups of legal sets currently on the board.
	Hints func() [][]int
}

// Model is the Bubble Tea model for a running game.
type Model struct {
	cfg    Config
	sink   *Sink
	logger *log.Logger
	keys   keyMap
	help   help.Model

	slots     []int
	tokens    []map[int]bool
	scores    []int
	freezes   []time.Duration
	countdown time.Duration
	urgent    bool
	winners   []int
	hinted    map[int]bool
	finished  bool
	quitting  bool

	width  int
	height int
}

// New creates a model reading events from sink.
func New(cfg Config, sink *Sink, logger *log.Logger) *Model {
	slots := make([]int, cfg.TableSize)
	tokens := make([]map[int]bool, cfg.TableSize)
	for i := range slots {
		slots[i] = noCard
		tokens[i] = make(map[int]bool)
	}

	return &Model{
		cfg:     cfg,
		sink:    sink,
		logger:  logger.WithPrefix("tui"),
		keys:    newKeyMap(cfg.Human >= 0),
		help:    help.New(),
		slots:   slots,
		tokens:  tokens,
		scores:  make([]int, len(cfg.Players)),
		freezes: make([]time.Duration, len(cfg.Players)),
		hinted:  make(map[int]bool),
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return m.listen()
}

// listen returns a command that waits for the next game event.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.sink.events
	}
}

// slotForKey maps a pressed key to a board slot, or -1.
func (m *Model) slotForKey(pressed string) int {
	if len(pressed) != 1 {
		return -1
	}
	for row, keys := range keyRows {
		if col := strings.IndexByte(keys, pressed[0]); col >= 0 {
			slot := row*gridColumns + col
			if slot < m.cfg.TableSize {
				return slot
			}
			return -1
		}
	}
	return -1
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)

		case key.Matches(msg, m.keys.Hint):
			m.showHint()

		case key.Matches(msg, m.keys.Slots):
			if slot := m.slotForKey(msg.String()); slot >= 0 && m.cfg.OnSelect != nil && !m.finished {
				m.cfg.OnSelect(slot)
			}
		}
		return m, nil

	case cardPlacedMsg:
		m.slots[msg.slot] = msg.card
		m.clearHint()
		return m, m.listen()

	case cardRemovedMsg:
		m.slots[msg.slot] = noCard
		m.tokens[msg.slot] = make(map[int]bool)
		m.clearHint()
		return m, m.listen()

	case tokenPlacedMsg:
		m.tokens[msg.slot][msg.player] = true
		return m, m.listen()

	case tokenRemovedMsg:
		delete(m.tokens[msg.slot], msg.player)
		return m, m.listen()

	case scoreMsg:
		m.scores[msg.player] = msg.score
		return m, m.listen()

	case freezeMsg:
		m.freezes[msg.player] = msg.remaining
		return m, m.listen()

	case countdownMsg:
		m.countdown = msg.remaining
		m.urgent = msg.urgent
		return m, m.listen()

	case winnersMsg:
		m.winners = msg.players
		m.finished = true
		return m, m.listen()
	}

	return m, nil
}

// showHint marks the slots of one legal set currently on the board.
func (m *Model) showHint() {
	if m.cfg.Hints == nil || m.finished {
		return
	}
	groups := m.cfg.Hints()
	if len(groups) == 0 {
		return
	}
	m.clearHint()
	for _, slot := range groups[0] {
		m.hinted[slot] = true
	}
}

func (m *Model) clearHint() {
	if len(m.hinted) > 0 {
		m.hinted = make(map[int]bool)
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderBoard())
	sections = append(sections, m.renderPlayers())

	if m.finished {
		sections = append(sections, m.renderWinners())
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	countdown := fmt.Sprintf("%5.1fs", m.countdown.Seconds())
	style := CountdownStyle
	if m.urgent {
		style = UrgentStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		HeaderStyle.Render("SET"), "  ", style.Render(countdown))
}

func (m *Model) renderBoard() string {
	var rows []string
	for start := 0; start < m.cfg.TableSize; start += gridColumns {
		var cells []string
		for slot := start; slot < start+gridColumns && slot < m.cfg.TableSize; slot++ {
			cells = append(cells, m.renderSlot(slot))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderSlot(slot int) string {
	var body string
	if card := m.slots[slot]; card == noCard {
		body = EmptySlotStyle.Render(strings.Repeat("·", m.cfg.Features))
	} else {
		body = CardStyle.Render(m.cardFace(card))
	}

	var marks strings.Builder
	for player := range m.cfg.Players {
		if m.tokens[slot][player] {
			marks.WriteString(TokenStyle.Render(fmt.Sprintf("%d", player)))
		} else {
			marks.WriteString(" ")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		KeyHintStyle.Render(m.keyLabel(slot)), body, marks.String())

	style := SlotStyle
	if m.hinted[slot] {
		style = HintedSlotStyle
	}
	return style.Render(content)
}

// keyLabel returns the keyboard key bound to a slot, blank when the slot is
// beyond the mapped rows.
func (m *Model) keyLabel(slot int) string {
	row, col := slot/gridColumns, slot%gridColumns
	if row < len(keyRows) && col < len(keyRows[row]) {
		return string(keyRows[row][col])
	}
	return " "
}

// cardFace renders a card as its feature digits, most significant first.
func (m *Model) cardFace(card int) string {
	digits := make([]byte, m.cfg.Features)
	for i := m.cfg.Features - 1; i >= 0; i-- {
		digits[i] = byte('0' + card%m.cfg.Options)
		card /= m.cfg.Options
	}
	return string(digits)
}

func (m *Model) renderPlayers() string {
	var lines []string
	for id, name := range m.cfg.Players {
		line := fmt.Sprintf("%s %s", name, ScoreStyle.Render(fmt.Sprintf("%d", m.scores[id])))
		if m.freezes[id] > 0 {
			line += " " + FreezeStyle.Render(fmt.Sprintf("frozen %.0fs", m.freezes[id].Seconds()))
		}
		if id == m.cfg.Human {
			line += KeyHintStyle.Render(" (you)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderWinners() string {
	names := make([]string, 0, len(m.winners))
	for _, id := range m.winners {
		if id >= 0 && id < len(m.cfg.Players) {
			names = append(names, m.cfg.Players[id])
		}
	}
	return WinnerStyle.Render("Winner: " + strings.Join(names, ", "))
}

func (m *Model) renderHelp() string {
	return m.help.View(m.keys)
}
