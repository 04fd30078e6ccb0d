package forwarding

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"kfwd/internal/config"
	"kfwd/internal/kubectl"
	"kfwd/pkg/logging"
)

const subsystem = "forwarding"

// state of the supervision loop.
type state int

const (
	// stateStarting spawns the forwarding subprocess.
	stateStarting state = iota
	// stateRunning waits for the subprocess to terminate.
	stateRunning
	// stateBackoff sleeps for the retry delay before the next spawn.
	stateBackoff
)

// Supervisor owns the spawn/retry/backoff loop around one target's
// forwarding subprocess. It has no normal terminal state: the loop runs
// until the context is cancelled. The only per-target fatal condition is a
// failure to spawn the subprocess at all.
type Supervisor struct {
	ID     config.TargetID
	Target config.Target
	// RetryDelay separates a child's exit from its respawn. Zero means
	// immediate respawn. The very first spawn never waits.
	RetryDelay time.Duration
	Client     kubectl.Client
	Events     chan<- Event
	// Probe opens a diagnostic TCP connection to the first forwarded port
	// after each spawn, purely to surface socket-level errors.
	Probe bool
}

// Run drives the supervision loop until ctx is cancelled. The returned
// error is either the spawn failure that ended this target or the context's
// error; sibling supervisors are unaffected either way.
func (s *Supervisor) Run(ctx context.Context) error {
	// The loop enters Starting directly, so the bootstrap spawn never
	// waits; only respawns pass through Backoff.
	st := stateStarting
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch st {
		case stateBackoff:
			if s.RetryDelay > 0 {
				timer := time.NewTimer(s.RetryDelay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
			st = stateStarting
		case stateStarting, stateRunning:
			next, err := s.superviseChild(ctx)
			if err != nil {
				return err
			}
			st = next
		}
	}
}

// superviseChild runs one spawn-to-exit cycle. The child is killed on every
// return path, including cancellation, so a forwarding process never
// outlives its supervisor.
func (s *Supervisor) superviseChild(ctx context.Context) (state, error) {
	proc, err := s.Client.SpawnForward(s.Target)
	if err != nil {
		err = fmt.Errorf("spawning port-forward: %w", err)
		s.emit(ctx, ErrorEvent{ID: s.ID, Err: err})
		return 0, err
	}
	defer proc.Kill()

	// Tear the child down as soon as the context is cancelled, rather than
	// only when Wait returns.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			proc.Kill()
		case <-watchDone:
		}
	}()

	var pumps sync.WaitGroup
	pumps.Add(2)
	go s.pump(ctx, &pumps, proc.Stdout(), SourceStdout)
	go s.pump(ctx, &pumps, proc.Stderr(), SourceStderr)

	if s.Probe {
		go s.probe(ctx, watchDone)
	}

	// The pipes close when the child exits; drain them fully before
	// reaping so no output line is lost.
	pumps.Wait()
	status, err := proc.Wait()
	if err != nil {
		// Wait failures are transient: respawn immediately, no backoff.
		s.emit(ctx, ErrorEvent{ID: s.ID, Err: fmt.Errorf("waiting for port-forward: %w", err)})
		return stateStarting, nil
	}

	s.emit(ctx, ExitEvent{ID: s.ID, Status: status, RestartIn: s.RetryDelay})
	return stateBackoff, nil
}

// pump forwards decoded lines from one child stream onto the event channel.
// It ends naturally when the pipe closes; a read error past that is not a
// failure of the supervised process.
func (s *Supervisor) pump(ctx context.Context, wg *sync.WaitGroup, r io.Reader, source StreamSource) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.emit(ctx, OutputEvent{ID: s.ID, Source: source, Line: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		logging.Debug(subsystem, "%s: %s pipe closed: %v", s.ID, source, err)
	}
}

// emit performs a blocking send, giving up only when the run is shutting
// down so producers can never deadlock against a stopped aggregator.
func (s *Supervisor) emit(ctx context.Context, ev Event) {
	select {
	case s.Events <- ev:
	case <-ctx.Done():
	}
}
