package reader

import (
	"fmt"
	"io"
	"os"
)

// inBufSize is the capacity of the ByteSource read buffer.
const inBufSize = 1024

// ByteSource is a buffered, forward-only byte cursor over a result file.
// It refills a fixed-size buffer lazily and tracks the absolute offset of
// the next unread byte, so that parse errors can name an exact position.
//
// A ByteSource can also wrap an in-memory byte slice, which is how the
// tests drive the tokenizer without touching the filesystem.
type ByteSource struct {
	file *os.File // nil for in-memory sources
	data []byte   // backing data for in-memory sources

	buf []byte // the input buffer
	pos int    // next unread byte in buf
	n   int    // number of valid bytes in buf

	off int64 // absolute offset of buf[pos] in the logical stream
}

// OpenByteSource opens path for reading.
func OpenByteSource(path string) (*ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{msg: fmt.Sprintf("cannot open '%s' for reading", path)}
	}
	return &ByteSource{file: f, buf: make([]byte, inBufSize)}, nil
}

// NewByteSource returns a ByteSource reading from an in-memory byte slice.
func NewByteSource(data []byte) *ByteSource {
	s := &ByteSource{data: data, buf: make([]byte, inBufSize)}
	s.refill()
	return s
}

// refill attempts a full-capacity read into the buffer. n == 0 afterwards
// means the stream is exhausted.
func (s *ByteSource) refill() {
	if s.file != nil {
		got, _ := io.ReadFull(s.file, s.buf)
		s.n = got
		s.pos = 0
		return
	}
	// In-memory: slice out the next window.
	start := s.off
	if start > int64(len(s.data)) {
		start = int64(len(s.data))
	}
	s.n = copy(s.buf, s.data[start:])
	s.pos = 0
}

func (s *ByteSource) advance() {
	s.pos++
	s.off++
}

// Next returns the next byte of the stream, or io.EOF when the stream is
// exhausted. The byte is consumed only if advance is true. If skipSpace or
// skipPrefix is set, bytes of the corresponding class are consumed and
// skipped (always, regardless of advance) until a byte outside the class is
// found.
func (s *ByteSource) Next(advance, skipSpace, skipPrefix bool) (byte, error) {
	for {
		if s.pos >= s.n {
			s.refill()
			if s.n == 0 {
				return 0, io.EOF
			}
		}
		c := s.buf[s.pos]
		if (skipPrefix && isSpaceOrPrefix[c]) || (skipSpace && isSpace[c]) {
			s.advance()
			continue
		}
		if advance {
			s.advance()
		}
		return c, nil
	}
}

// Offset returns the absolute offset of the next unread byte.
func (s *ByteSource) Offset() int64 {
	return s.off
}

// Rewind resets the source to the start of the stream, invalidating the
// buffer contents.
func (s *ByteSource) Rewind() error {
	if s.file != nil {
		if _, err := s.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind: %w", err)
		}
	}
	s.pos = 0
	s.n = 0
	s.off = 0
	return nil
}

// Close releases the underlying file, if any.
func (s *ByteSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
