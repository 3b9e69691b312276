package xhr

import (
	"github.com/abdul-hamid-achik/xhrmock/packages/event"
)

// Listener receives events fired by a transport or its upload target.
type Listener func(ev event.Event)

// ListenerID identifies one AddEventListener registration.
type ListenerID uint64

type listenerEntry struct {
	id  ListenerID
	typ string
	fn  Listener
}

// listenerSet is the single-slot callbacks plus the ordered listener list
// of one event target.
type listenerSet struct {
	slots   map[string]Listener
	entries []listenerEntry
	nextID  ListenerID
}

func newListenerSet() listenerSet {
	return listenerSet{
		slots:   make(map[string]Listener),
		entries: make([]listenerEntry, 0),
	}
}

func (s *listenerSet) setSlot(typ string, fn Listener) {
	if fn == nil {
		delete(s.slots, typ)
		return
	}
	s.slots[typ] = fn
}

func (s *listenerSet) slot(typ string) Listener {
	return s.slots[typ]
}

func (s *listenerSet) add(typ string, fn Listener) ListenerID {
	s.nextID++
	s.entries = append(s.entries, listenerEntry{id: s.nextID, typ: typ, fn: fn})
	return s.nextID
}

func (s *listenerSet) remove(typ string, id ListenerID) bool {
	removed := false
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.typ == typ && e.id == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed
}

// matching returns the listeners for typ in registration order. The slice
// is a copy, so listeners may add or remove registrations while it is
// being walked.
func (s *listenerSet) matching(typ string) []Listener {
	var out []Listener
	for _, e := range s.entries {
		if e.typ == typ {
			out = append(out, e.fn)
		}
	}
	return out
}

func (s *listenerSet) first(typ string) Listener {
	for _, e := range s.entries {
		if e.typ == typ {
			return e.fn
		}
	}
	return nil
}
