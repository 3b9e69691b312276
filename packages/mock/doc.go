// Package mock holds the request/response pipeline of the simulated
// transport.
//
// A Registry keeps an ordered list of Handlers. For every dispatched call it
// builds a Request snapshot, hands each handler a fresh Response draft and
// merges the non-nil results left to right into a single Result. An empty
// Result means nobody answered the call.
//
// Matchers wrap a method and URL filter around a Responder:
//
//	reg := mock.NewRegistry()
//	reg.Add(mock.CreateHandler("GET", mock.Exact("/a"), func(req *mock.Request, res *mock.Response) *mock.Response {
//		return res.Status(200).Body("A")
//	}))
package mock
