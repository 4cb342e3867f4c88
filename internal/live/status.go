package live

// Status is the listener's connection state.
//
// The lifecycle is Disconnected → Connecting → Open → (Closed | Error).
// From Closed or Error the listener reconnects on its own unless Close
// was called, which is terminal.
type Status int

const (
	// StatusDisconnected means the listener has never connected.
	StatusDisconnected Status = iota
	// StatusConnecting means a dial is in progress.
	StatusConnecting
	// StatusOpen means the channel is established and delivering events.
	StatusOpen
	// StatusClosed means the channel closed (by either side).
	StatusClosed
	// StatusError means the last dial or read failed.
	StatusError
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
