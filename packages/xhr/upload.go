package xhr

import (
	"github.com/abdul-hamid-achik/xhrmock/packages/event"
)

// Upload is the event target that reports request body progress.
type Upload struct {
	owner     *Transport
	listeners listenerSet
}

func newUpload(owner *Transport) *Upload {
	return &Upload{owner: owner, listeners: newListenerSet()}
}

// On assigns the single-slot callback for typ. A nil fn clears the slot.
func (u *Upload) On(typ string, fn Listener) {
	u.listeners.setSlot(typ, fn)
}

// AddEventListener appends fn to the listeners of typ.
func (u *Upload) AddEventListener(typ string, fn Listener) ListenerID {
	return u.listeners.add(typ, fn)
}

// RemoveEventListener removes the registration id made for typ.
func (u *Upload) RemoveEventListener(typ string, id ListenerID) bool {
	return u.listeners.remove(typ, id)
}

// DispatchEvent delivers ev to the slot and listeners of its type. The
// listeners receive an event targeted at u carrying the counters of ev.
func (u *Upload) DispatchEvent(ev event.Event) {
	if ev == nil {
		return
	}
	var loaded, total int64
	if p, ok := ev.(*event.ProgressEvent); ok {
		loaded, total = p.Loaded(), p.Total()
	}
	u.trigger(ev.Type(), loaded, total)
}

// Transport returns the transport that owns u
func (u *Upload) Transport() *Transport {
	return u.owner
}

func (u *Upload) trigger(typ string, loaded, total int64) {
	if fn := u.listeners.slot(typ); fn != nil {
		fn(event.Build(typ, u, loaded, total))
	}
	for _, fn := range u.listeners.matching(typ) {
		fn(event.Build(typ, u, loaded, total))
	}
}
