package shell

// Response is the fixed-capacity buffer a handler writes its output into.
//
// The last of its capacity bytes is reserved for the terminator, so at most
// capacity-1 bytes are kept. Writes past that are discarded and Truncated
// reports it; Write itself never fails, so formatted writes from handlers
// are not interrupted by a full buffer.
type Response struct {
	buf       []byte
	truncated bool
}

func newResponse(capacity int) *Response {
	return &Response{buf: make([]byte, 0, capacity-1)}
}

// Write appends as much of p as fits and reports all of p as written.
func (r *Response) Write(p []byte) (int, error) {
	n := len(p)
	if room := cap(r.buf) - len(r.buf); n > room {
		r.truncated = true
		p = p[:room]
	}
	r.buf = append(r.buf, p...)
	return n, nil
}

// WriteString appends as much of s as fits.
func (r *Response) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// Bytes returns the response content. It aliases the buffer until the next
// Reset.
func (r *Response) Bytes() []byte {
	return r.buf
}

func (r *Response) Len() int {
	return len(r.buf)
}

// Cap returns the number of content bytes the response can hold.
func (r *Response) Cap() int {
	return cap(r.buf)
}

func (r *Response) Truncated() bool {
	return r.truncated
}

// Reset empties the response and zeroes its storage.
func (r *Response) Reset() {
	clear(r.buf[:cap(r.buf)])
	r.buf = r.buf[:0]
	r.truncated = false
}

// set replaces the content with a whole message.
func (r *Response) set(msg string) {
	r.Reset()
	r.buf = append(r.buf, msg...)
}
