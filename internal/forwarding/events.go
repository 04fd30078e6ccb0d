package forwarding

import (
	"time"

	"kfwd/internal/config"
)

// StreamSource identifies which child output stream a line came from.
type StreamSource int

const (
	SourceStdout StreamSource = iota
	SourceStderr
)

func (s StreamSource) String() string {
	switch s {
	case SourceStdout:
		return "stdout"
	case SourceStderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Event is emitted by a supervisor onto the shared event channel. Events
// from the same supervisor arrive in emission order; interleaving between
// supervisors is unordered.
type Event interface {
	TargetID() config.TargetID
}

// OutputEvent carries one decoded line of child output.
type OutputEvent struct {
	ID     config.TargetID
	Source StreamSource
	Line   string
}

func (e OutputEvent) TargetID() config.TargetID { return e.ID }

// ExitEvent reports a terminated child and the delay before its respawn.
type ExitEvent struct {
	ID     config.TargetID
	Status string
	// RestartIn is the backoff preceding the respawn; zero means the child
	// is respawned immediately.
	RestartIn time.Duration
}

func (e ExitEvent) TargetID() config.TargetID { return e.ID }

// ErrorEvent reports a supervisor-level failure such as a spawn or wait
// error. It never affects sibling supervisors.
type ErrorEvent struct {
	ID  config.TargetID
	Err error
}

func (e ErrorEvent) TargetID() config.TargetID { return e.ID }

// eventBufferSize bounds the shared channel. Producers block when the
// aggregator falls behind, which throttles very chatty children instead of
// growing without bound.
const eventBufferSize = 256

// NewEventChannel builds the shared multi-producer event channel.
func NewEventChannel() chan Event {
	return make(chan Event, eventBufferSize)
}
