package server

import "time"

// EventType identifies a spectator event.
type EventType string

const (
	EventCardPlaced   EventType = "card_placed"
	EventCardRemoved  EventType = "card_removed"
	EventTokenPlaced  EventType = "token_placed"
	EventTokenRemoved EventType = "token_removed"
	EventScore        EventType = "score"
	EventFreeze       EventType = "freeze"
	EventCountdown    EventType = "countdown"
	EventWinners      EventType = "winners"
)

// Event is the wire form of a display notification. Fields are populated
// per type; zero values are sent rather than omitted so spectators can
// decode into one struct.
type Event struct {
	Type      EventType `json:"type"`
	Card      int       `json:"card"`
	Slot      int       `json:"slot"`
	Player    int       `json:"player"`
	Score     int       `json:"score"`
	Millis    int64     `json:"millis"`
	Urgent    bool      `json:"urgent"`
	Winners   []int     `json:"winners,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
