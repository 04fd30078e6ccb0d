// Package forwarding supervises the kubectl port-forward subprocesses.
//
// One Supervisor runs per selected target, each owning an independent
// spawn/retry/backoff state machine. Supervisors stream child output and
// lifecycle changes as events onto one shared channel drained by a single
// Aggregator, so per-target failure stays isolated while output remains
// ordered per target.
package forwarding
