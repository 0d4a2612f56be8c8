package aml

import "golang.org/x/crypto/cryptobyte"

// stream is a forward-only cursor over a window of an AML byte stream. The
// window can only shrink; every read is checked against its end.
type stream struct {
	// The unread bytes of the window.
	data cryptobyte.String

	// Absolute offset of the first window byte inside the table.
	base uint32

	// The window size in bytes.
	size uint32
}

func newStream(data []byte, base uint32) *stream {
	return &stream{
		data: cryptobyte.String(data),
		base: base,
		size: uint32(len(data)),
	}
}

// Position returns the number of bytes consumed from the window.
func (s *stream) Position() uint32 {
	return s.size - uint32(len(s.data))
}

// Offset returns the absolute offset of the next unread byte.
func (s *stream) Offset() uint32 {
	return s.base + s.Position()
}

// Remaining returns the number of unread bytes in the window.
func (s *stream) Remaining() uint32 {
	return uint32(len(s.data))
}

// EOF returns true if the end of the window has been reached.
func (s *stream) EOF() bool {
	return s.data.Empty()
}

// Advance skips the next n bytes.
func (s *stream) Advance(n uint32) error {
	if !s.data.Skip(int(n)) {
		return ErrUnexpectedEndOfStream
	}
	return nil
}

// skip consumes n bytes that the caller already knows to be inside the
// window.
func (s *stream) skip(n uint32) {
	s.data = s.data[n:]
}

// unread returns the unread bytes of the window without advancing the
// stream. The returned slice aliases the stream contents.
func (s *stream) unread() []byte {
	return s.data
}

// ReadByte returns the next byte from the stream.
func (s *stream) ReadByte() (byte, error) {
	var b uint8
	if !s.data.ReadUint8(&b) {
		return 0, ErrUnexpectedEndOfStream
	}
	return b, nil
}

// PeekByte returns the next byte from the stream without advancing it.
func (s *stream) PeekByte() (byte, error) {
	if s.data.Empty() {
		return 0, ErrUnexpectedEndOfStream
	}
	return s.data[0], nil
}

// Peek returns the next n bytes without advancing the stream. The returned
// slice aliases the stream contents.
func (s *stream) Peek(n uint32) ([]byte, error) {
	if n > s.Remaining() {
		return nil, ErrUnexpectedEndOfStream
	}
	return s.data[:n], nil
}

// ReadBytes returns the next n bytes and advances the stream past them. The
// returned slice aliases the stream contents.
func (s *stream) ReadBytes(n uint32) ([]byte, error) {
	var out []byte
	if !s.data.ReadBytes(&out, int(n)) {
		return nil, ErrUnexpectedEndOfStream
	}
	return out, nil
}

// SubStream returns a new stream whose window covers the unread bytes of s.
// Reading from the sub-stream does not advance s.
func (s *stream) SubStream() *stream {
	return &stream{
		data: s.data,
		base: s.Offset(),
		size: s.Remaining(),
	}
}

// ShrinkExtent limits the window so that exactly n unread bytes remain.
// Growing the window is not allowed.
func (s *stream) ShrinkExtent(n uint32) error {
	if n > s.Remaining() {
		return ErrInvalidParameter
	}

	s.size = s.Position() + n
	s.data = s.data[:n]
	return nil
}
