package mock

// fakeCall is a Call backed by plain fields
type fakeCall struct {
	method   string
	url      string
	headers  map[string]string
	body     string
	progress [][2]int64
	upload   [][2]int64
}

func newFakeCall(method, url string) *fakeCall {
	return &fakeCall{method: method, url: url, headers: map[string]string{}}
}

func (c *fakeCall) Method() string                    { return c.method }
func (c *fakeCall) URL() string                       { return c.url }
func (c *fakeCall) RequestHeaders() map[string]string { return c.headers }
func (c *fakeCall) RequestBody() string               { return c.body }

func (c *fakeCall) EmitProgress(loaded, total int64) {
	c.progress = append(c.progress, [2]int64{loaded, total})
}

func (c *fakeCall) EmitUploadProgress(loaded, total int64) {
	c.upload = append(c.upload, [2]int64{loaded, total})
}
