package realtime

// Event names published on the bus.
const (
	EventQuoteCommitted = "quote_committed"
)

// Message is one realtime notification. Channel is the design id so clients
// subscribe per design.
type Message struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Data    any    `json:"data"`
}
