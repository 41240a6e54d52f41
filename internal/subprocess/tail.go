package subprocess

import (
	"sync"
	"unicode/utf8"
)

// tailBuffer is an io.Writer that keeps only the last limit bytes written.
// It grows to twice the limit before dropping the head, so each retained
// byte is moved at most once per limit bytes written.
type tailBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	truncated bool
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(p)

	if len(p) >= b.limit {
		b.buf = append(b.buf[:0], p[len(p)-b.limit:]...)
		b.truncated = true

		return n, nil
	}

	if len(b.buf)+len(p) > 2*b.limit {
		b.buf = append(b.buf[:0], b.buf[len(b.buf)-b.limit:]...)
	}

	b.buf = append(b.buf, p...)

	if len(b.buf) > b.limit {
		b.truncated = true
	}

	return n, nil
}

// tail returns the retained window. Callers hold mu.
func (b *tailBuffer) tail() []byte {
	if len(b.buf) > b.limit {
		return b.buf[len(b.buf)-b.limit:]
	}

	return b.buf
}

// Bytes returns a copy of the retained bytes.
func (b *tailBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]byte(nil), b.tail()...)
}

// Truncated reports whether earlier bytes were dropped.
func (b *tailBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.truncated
}

// Tail returns at most the last n bytes of data as a string, advanced to
// the next rune boundary so the result never starts mid-character.
func Tail(data []byte, n int) string {
	if n <= 0 {
		return ""
	}

	if len(data) <= n {
		return string(data)
	}

	start := len(data) - n
	for start < len(data) && !utf8.RuneStart(data[start]) {
		start++
	}

	return string(data[start:])
}
