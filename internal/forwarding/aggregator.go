package forwarding

import (
	"fmt"
	"io"
)

// Aggregator is the single consumer of the shared event channel. It renders
// every event attributed to its originating target: forwarded stdout lines
// go to Out, everything else to Err.
type Aggregator struct {
	Out io.Writer
	Err io.Writer
}

// Run drains the channel until it is closed and fully consumed. Events from
// one supervisor are rendered in emission order; no ordering is imposed
// across supervisors.
func (a *Aggregator) Run(events <-chan Event) {
	for ev := range events {
		switch e := ev.(type) {
		case OutputEvent:
			w := a.Out
			if e.Source == SourceStderr {
				w = a.Err
			}
			fmt.Fprintf(w, "%s: %s\n", e.ID, e.Line)
		case ExitEvent:
			if e.RestartIn > 0 {
				fmt.Fprintf(a.Err, "%s: Process exited with %s - will retry in %s\n", e.ID, e.Status, e.RestartIn)
			} else {
				fmt.Fprintf(a.Err, "%s: Process exited with %s - retrying immediately\n", e.ID, e.Status)
			}
		case ErrorEvent:
			fmt.Fprintf(a.Err, "%s: An error occurred: %v\n", e.ID, e.Err)
		}
	}
}
