package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Console is a line-oriented Sink for headless runs. It prints one line per
// event and throttles countdown ticks to once per displayed second.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	lastSec int64
}

// NewConsole creates a console sink writing to out. Styling is disabled when
// the terminal reports no color support.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		color:   termenv.EnvColorProfile() != termenv.Ascii,
		lastSec: -1,
	}
}

func (c *Console) render(style lipgloss.Style, s string) string {
	if !c.color {
		return s
	}
	return style.Render(s)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) CardPlaced(card, slot int) {
	c.printf("%s card %d -> slot %d", c.render(cardStyle, "deal"), card, slot)
}

func (c *Console) CardRemoved(slot int) {
	c.printf("%s slot %d", c.render(dimStyle, "clear"), slot)
}

func (c *Console) TokenPlaced(player, slot int) {
	c.printf("%s player %d -> slot %d", c.render(tokenStyle, "token"), player, slot)
}

func (c *Console) TokenRemoved(player, slot int) {
	c.printf("%s player %d -> slot %d", c.render(dimStyle, "untoken"), player, slot)
}

func (c *Console) ScoreUpdated(player, score int) {
	c.printf("%s player %d now %d", c.render(scoreStyle, "score"), player, score)
}

func (c *Console) FreezeUpdated(player int, remaining time.Duration) {
	if remaining <= 0 {
		c.printf("%s player %d released", c.render(dimStyle, "freeze"), player)
		return
	}
	c.printf("%s player %d for %s", c.render(dimStyle, "freeze"), player, remaining)
}

func (c *Console) CountdownUpdated(remaining time.Duration, urgent bool) {
	sec := int64(remaining / time.Second)
	c.mu.Lock()
	if sec == c.lastSec {
		c.mu.Unlock()
		return
	}
	c.lastSec = sec
	c.mu.Unlock()

	label := "countdown"
	if urgent {
		label = c.render(urgentStyle, "countdown")
	} else {
		label = c.render(dimStyle, label)
	}
	c.printf("%s %02d:%02d", label, sec/60, sec%60)
}

func (c *Console) WinnersAnnounced(players []int) {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = fmt.Sprintf("player %d", p)
	}
	c.printf("%s", c.render(winnerStyle, " winners: "+strings.Join(names, ", ")+" "))
}
