// Package builder installs simulated transports into an environment and
// registers handlers with a small routing vocabulary.
//
// Example:
//
//	env := &builder.Env{}
//	b := builder.New()
//	if err := b.Setup(env); err != nil {
//		return err
//	}
//	defer b.Teardown()
//
//	b.Get(mock.Exact("/a"), func(req *mock.Request, res *mock.Response) *mock.Response {
//		return res.Status(200).Body("A")
//	})
//
//	x := env.XMLHttpRequest()
//	x.Open("GET", "/a")
//	x.Send("")
//	b.Loop().Run()
package builder
