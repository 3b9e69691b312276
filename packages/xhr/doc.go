// Package xhr implements the simulated XMLHttpRequest transport.
//
// A Transport walks the lifecycle of the browser object it stands in for:
//
//	UNSENT -> OPENED -> LOADING -> DONE
//
// Send never answers inline. The dispatch continuation runs on a later turn
// of the transport's loop, asks its mock.Registry for an answer and fires
// the same event sequence a browser would. Timeouts race against normal
// completion and Abort.
//
// Listeners are notified in a fixed order on every trigger:
//   - the readystatechange slot set with On
//   - the loadend slot or first loadend listener, once the state is DONE
//   - the single-slot callback for the event type
//   - every listener registered for the type, in registration order
package xhr
