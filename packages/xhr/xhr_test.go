package xhr

import (
	"testing"

	"github.com/abdul-hamid-achik/xhrmock/packages/event"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
)

// recorder collects the types of events delivered to listeners
type recorder struct {
	events []event.Event
}

func (r *recorder) listen(ev event.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type())
	}
	return out
}

// watch registers rec for every transport event type except readystatechange
func watch(x *Transport, rec *recorder) {
	for _, typ := range []string{
		event.LoadStart, event.Progress, event.Load, event.Error,
		event.Timeout, event.Abort, event.LoadEnd,
	} {
		x.AddEventListener(typ, rec.listen)
	}
}

func newTransport(t *testing.T, handlers ...mock.Handler) *Transport {
	t.Helper()
	r := mock.NewRegistry()
	for _, h := range handlers {
		r.Add(h)
	}
	return New(r)
}

func route(method, url string, fn mock.Responder) mock.Handler {
	return mock.CreateHandler(method, mock.Exact(url), fn)
}
