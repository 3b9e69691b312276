// Package event defines the payloads delivered to transport listeners.
//
// Two variants exist:
//   - Basic: a plain event carrying a type and its target
//   - ProgressEvent: a Basic event plus loaded/total byte counters
//
// Payloads are immutable once built.
package event
