package core

// Client is a live connection as seen by the core layer.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
	}
}

func (c *Client) send(event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
