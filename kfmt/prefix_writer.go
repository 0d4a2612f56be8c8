// Package kfmt contains output helpers shared by the amlkit tools.
package kfmt

import "io"

// PrefixWriter is an io.Writer that tags every line sent to Sink with Prefix.
// It is used to mark diagnostic output so that lines coming from different
// tables (or tools) can be told apart when interleaved on the same stream.
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	// midLine is set while the last emitted byte was not a line feed.
	midLine bool
}

// Reset makes the next write start a new line.
func (w *PrefixWriter) Reset() {
	w.midLine = false
}

// Write sends p to the sink, injecting the configured prefix before the
// first byte of every line. The returned byte count only accounts for bytes
// of p; injected prefixes are not included.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written int

	for len(p) != 0 {
		if !w.midLine {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		lineLen := len(p)
		for i, b := range p {
			if b == '\n' {
				lineLen = i + 1
				break
			}
		}

		n, err := w.Sink.Write(p[:lineLen])
		written += n
		if err != nil {
			return written, err
		}

		if p[lineLen-1] == '\n' {
			w.midLine = false
		}
		p = p[lineLen:]
	}

	return written, nil
}
