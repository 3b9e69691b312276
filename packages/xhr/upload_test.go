package xhr

import (
	"testing"

	"github.com/abdul-hamid-achik/xhrmock/packages/event"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadEvents(t *testing.T) {
	x := newTransport(t, route("POST", "/a", func(req *mock.Request, res *mock.Response) *mock.Response {
		return res.Body(req.Body())
	}))

	var got []string
	var counters [][2]int64
	record := func(ev event.Event) {
		p := ev.(*event.ProgressEvent)
		got = append(got, p.Type())
		counters = append(counters, [2]int64{p.Loaded(), p.Total()})
		assert.Same(t, x.Upload(), p.Target())
	}
	for _, typ := range []string{event.LoadStart, event.Progress, event.Load, event.LoadEnd} {
		x.Upload().AddEventListener(typ, record)
	}

	require.NoError(t, x.Open("POST", "/a"))
	require.NoError(t, x.Send("hello"))
	x.Loop().Run()

	assert.Equal(t, []string{event.LoadStart, event.Progress, event.Load, event.LoadEnd}, got)
	assert.Equal(t, [][2]int64{{0, 5}, {5, 5}, {5, 5}, {5, 5}}, counters)
	assert.Same(t, x, x.Upload().Transport())
}

func TestUploadSilentWithoutBody(t *testing.T) {
	x := newTransport(t)
	calls := 0
	x.Upload().On(event.LoadStart, func(ev event.Event) { calls++ })

	require.NoError(t, x.Open("POST", "/a"))
	require.NoError(t, x.Send(""))
	x.Loop().Run()

	assert.Equal(t, 0, calls)
}

func TestUploadProgressFromHandler(t *testing.T) {
	x := newTransport(t, func(req *mock.Request, res *mock.Response) *mock.Result {
		req.UploadProgress(1, 2)
		return nil
	})

	var slot, listener int
	x.Upload().On(event.Progress, func(ev event.Event) { slot++ })
	id := x.Upload().AddEventListener(event.Progress, func(ev event.Event) { listener++ })

	require.NoError(t, x.Open("GET", "/a"))
	require.NoError(t, x.Send(""))
	x.Loop().Run()

	assert.Equal(t, 1, slot)
	assert.Equal(t, 1, listener)
	assert.True(t, x.Upload().RemoveEventListener(event.Progress, id))
}

func TestUploadDispatchEvent(t *testing.T) {
	x := newTransport(t)
	u := x.Upload()

	var slot []event.Event
	var listened []event.Event
	u.On(event.Progress, func(ev event.Event) { slot = append(slot, ev) })
	u.AddEventListener(event.Progress, func(ev event.Event) { listened = append(listened, ev) })
	u.AddEventListener("custom", func(ev event.Event) { listened = append(listened, ev) })

	u.DispatchEvent(event.NewProgress(event.Progress, nil, event.ProgressInit{LengthComputable: true, Loaded: 4, Total: 8}))
	u.DispatchEvent(event.New("custom", nil))
	u.DispatchEvent(nil)

	require.Len(t, slot, 1)
	require.Len(t, listened, 2)

	p, ok := listened[0].(*event.ProgressEvent)
	require.True(t, ok)
	assert.Equal(t, int64(4), p.Loaded())
	assert.Equal(t, int64(8), p.Total())
	assert.Same(t, u, p.Target())

	assert.Equal(t, "custom", listened[1].Type())
	assert.Same(t, u, listened[1].Target())
}
