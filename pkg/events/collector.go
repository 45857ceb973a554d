package events

// EventCollector is embedded in aggregates and buffers the events they raise
// until a caller drains them for publication.
type EventCollector struct {
	events []DomainEvent
}

// Record buffers a domain event.
func (c *EventCollector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// Pending returns the buffered events without draining them.
func (c *EventCollector) Pending() []DomainEvent {
	return c.events
}

// Len reports how many events are buffered.
func (c *EventCollector) Len() int { return len(c.events) }

// Drain returns the buffered events and empties the buffer.
func (c *EventCollector) Drain() []DomainEvent {
	drained := c.events
	c.events = nil
	return drained
}
