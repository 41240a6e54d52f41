package subprocess

import "bytes"

// maxPendingLine caps a partial line held between writes. Longer lines are
// emitted in pieces.
const maxPendingLine = 64 * 1024 // 64KB

// lineWriter is an io.Writer that calls emit once per complete line.
// It is not safe for concurrent use; each stream gets its own.
type lineWriter struct {
	emit    func(string)
	pending []byte
}

func newLineWriter(emit func(string)) *lineWriter {
	return &lineWriter{emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	n := len(p)

	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.pending = append(w.pending, p...)
			if len(w.pending) >= maxPendingLine {
				w.Flush()
			}

			break
		}

		w.pending = append(w.pending, p[:i]...)
		w.Flush()
		p = p[i+1:]
	}

	return n, nil
}

// Flush emits any buffered partial line.
func (w *lineWriter) Flush() {
	if len(w.pending) == 0 {
		return
	}

	line := string(bytes.TrimRight(w.pending, "\r"))
	w.pending = w.pending[:0]

	w.emit(line)
}
