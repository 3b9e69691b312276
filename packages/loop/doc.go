// Package loop provides a deterministic, single-threaded task queue driven
// by a virtual clock.
//
// Transports schedule their continuations on a Loop instead of real timers,
// so tests decide exactly when simulated latency and timeouts elapse:
//   - Step runs the next due task
//   - Advance moves the clock forward, running everything due on the way
//   - Run drains the queue
//
// A task scheduled with a zero delay never runs inside the call that
// scheduled it; it waits for the next turn of the loop.
package loop
